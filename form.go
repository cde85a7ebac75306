package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// optFloat is an optional non-negative number that never fails to decode.
// null, "" and a missing key leave it unset; a value that is not a finite
// non-negative number (or numeric string) is also unset but marks Invalid so
// the handler can warn instead of rejecting the whole request.
type optFloat struct {
	Value   *float64
	Invalid bool
}

func (o *optFloat) UnmarshalJSON(b []byte) error {
	*o = optFloat{}
	raw, ok := numericText(b)
	if !ok {
		o.Invalid = true
		return nil
	}
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		o.Invalid = true
		return nil
	}
	o.Value = &v
	return nil
}

// positive marks a zero value invalid too, for fields such as body weight.
func (o optFloat) positive() optFloat {
	if o.Value != nil && *o.Value <= 0 {
		return optFloat{Invalid: true}
	}
	return o
}

// optInt is optFloat for whole numbers. 1750 and "1750" decode; 17.5 does not.
// Values must fit a Postgres INT column.
type optInt struct {
	Value   *int
	Invalid bool
}

func (o *optInt) UnmarshalJSON(b []byte) error {
	*o = optInt{}
	raw, ok := numericText(b)
	if !ok {
		o.Invalid = true
		return nil
	}
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 || v > math.MaxInt32 {
		o.Invalid = true
		return nil
	}
	o.Value = &v
	return nil
}

// numericText unwraps a JSON number or string into its trimmed text. null
// yields "" and true; any other JSON type yields false.
func numericText(b []byte) (string, bool) {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		return "", true
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", false
		}
		return strings.TrimSpace(s), true
	case len(b) > 0 && (b[0] == '-' || (b[0] >= '0' && b[0] <= '9')):
		return string(b), true
	default:
		return "", false
	}
}

// warnings collects one message per lenient field that was ignored.
type warnings []string

func (w *warnings) check(field string, invalid bool) {
	if invalid {
		*w = append(*w, fmt.Sprintf("ignored invalid value for %s", field))
	}
}

// optString returns nil for a nil or blank string, the trimmed value otherwise.
func optString(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
