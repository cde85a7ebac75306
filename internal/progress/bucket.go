// Package progress turns timestamped log rows into fixed-length daily series
// for charts, and sums a day's meals into a summary.
package progress

import (
	"errors"
	"time"
)

const dateLayout = "2006-01-02"

// ErrInvertedRange is returned when a range ends before it starts.
var ErrInvertedRange = errors.New("range end is before range start")

// DayRange is an inclusive run of calendar days in Start's location.
type DayRange struct {
	Start time.Time
	End   time.Time
}

// NewDayRange normalises start and end to midnight and checks their order.
// end is interpreted in start's location.
func NewDayRange(start, end time.Time) (DayRange, error) {
	loc := start.Location()
	r := DayRange{Start: midnight(start, loc), End: midnight(end, loc)}
	if r.End.Before(r.Start) {
		return DayRange{}, ErrInvertedRange
	}
	return r, nil
}

// LastNDays returns the n days ending on (and including) today.
func LastNDays(today time.Time, n int) DayRange {
	if n < 1 {
		n = 1
	}
	end := midnight(today, today.Location())
	return DayRange{Start: end.AddDate(0, 0, -(n - 1)), End: end}
}

// Days is the number of calendar days in the range.
func (r DayRange) Days() int {
	return dayIndex(r.Start, r.End) + 1
}

// Labels returns one YYYY-MM-DD label per day, ascending.
func (r DayRange) Labels() []string {
	n := r.Days()
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		labels[i] = r.Start.AddDate(0, 0, i).Format(dateLayout)
	}
	return labels
}

// Bounds returns the half-open instant interval [from, to) covering the
// range, for store queries.
func (r DayRange) Bounds() (from, to time.Time) {
	return r.Start, r.End.AddDate(0, 0, 1)
}

// index returns the position of t's calendar day in the range, or -1.
func (r DayRange) index(t time.Time) int {
	i := dayIndex(r.Start, t.In(r.Start.Location()))
	if i < 0 || i >= r.Days() {
		return -1
	}
	return i
}

// Extractor reads the numeric value one row contributes to its day.
type Extractor[T any] func(T) float64

// Count contributes 1 per row, turning a sum into a per-day count.
func Count[T any](T) float64 { return 1 }

// Series is one chart: labels and values of equal length.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Buckets holds one value slice per extractor, all aligned with Labels.
type Buckets struct {
	Labels []string
	Values [][]float64
}

// Series returns the labels paired with the i-th extractor's values.
func (b Buckets) Series(i int) Series {
	return Series{Labels: b.Labels, Values: b.Values[i]}
}

// Bucket sums each extractor over rows per calendar day of r. Every day in
// r gets an entry, zero when no row falls on it; rows outside r are ignored.
// at returns the row's timestamp, read in r's location.
func Bucket[T any](rows []T, r DayRange, at func(T) time.Time, extract ...Extractor[T]) Buckets {
	n := r.Days()
	b := Buckets{Labels: r.Labels(), Values: make([][]float64, len(extract))}
	for i := range extract {
		b.Values[i] = make([]float64, n)
	}
	for _, row := range rows {
		day := r.index(at(row))
		if day < 0 {
			continue
		}
		for i, fn := range extract {
			b.Values[i][day] += fn(row)
		}
	}
	return b
}

// BucketSeries is Bucket for a single extractor.
func BucketSeries[T any](rows []T, r DayRange, at func(T) time.Time, extract Extractor[T]) Series {
	return Bucket(rows, r, at, extract).Series(0)
}

func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// dayIndex counts calendar days from a to b using their wall-clock dates, so
// DST shifts in the location never produce 23- or 25-hour days.
func dayIndex(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
