package nutrition

// TargetFields are the four stored targets. Each is nil until set.
type TargetFields struct {
	Calories *int `json:"goal_calories"`
	Protein  *int `json:"goal_protein"`
	Carbs    *int `json:"goal_carbs"`
	Fat      *int `json:"goal_fat"`
}

// ProfileInputs are the profile fields whose change forces a recalculation.
type ProfileInputs struct {
	WeightKg     *float64
	HeightCm     *float64
	Goal         *string
	FitnessLevel *string
	GoalWeightKg *float64
}

func (p ProfileInputs) estimatorInputs() Inputs {
	return Inputs{
		WeightKg:     p.WeightKg,
		HeightCm:     p.HeightCm,
		Goal:         deref(p.Goal),
		FitnessLevel: deref(p.FitnessLevel),
		GoalWeightKg: p.GoalWeightKg,
	}
}

// Edit is one profile submission: what was stored, what was sent, and any
// targets the user typed in by hand.
type Edit struct {
	Prior        ProfileInputs
	PriorTargets TargetFields
	Next         ProfileInputs
	Manual       TargetFields
}

// Source says where a stored target value came from.
type Source int

const (
	Retained Source = iota
	Manual
	Computed
)

func (s Source) String() string {
	switch s {
	case Manual:
		return "manual"
	case Computed:
		return "computed"
	default:
		return "retained"
	}
}

// MarshalText lets decisions render as "manual"/"computed"/"retained".
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// FieldDecision is the resolved value for one target field.
type FieldDecision struct {
	Source Source `json:"source"`
	Value  *int   `json:"value"`
}

// ResolveField picks a target value: a manual value always wins, then a
// freshly computed one, then whatever was stored before (possibly nil).
func ResolveField(manual, computed, prior *int) FieldDecision {
	switch {
	case manual != nil:
		return FieldDecision{Source: Manual, Value: manual}
	case computed != nil:
		return FieldDecision{Source: Computed, Value: computed}
	default:
		return FieldDecision{Source: Retained, Value: prior}
	}
}

// Notice tells the user what happened to their targets.
type Notice int

const (
	NoticeNone Notice = iota
	NoticeRecalculated
	NoticeRecalcFailed
)

// Message is the user-facing text for the notice. Empty for NoticeNone.
func (n Notice) Message() string {
	switch n {
	case NoticeRecalculated:
		return "Nutrition goals automatically recalculated based on profile changes."
	case NoticeRecalcFailed:
		return "Could not automatically recalculate nutrition goals. Please check profile data."
	default:
		return ""
	}
}

// Level is "info" or "warning".
func (n Notice) Level() string {
	if n == NoticeRecalcFailed {
		return "warning"
	}
	return "info"
}

// Decisions holds the per-field outcome in calories, protein, carbs, fat order.
type Decisions struct {
	Calories FieldDecision `json:"calories"`
	Protein  FieldDecision `json:"protein"`
	Carbs    FieldDecision `json:"carbs"`
	Fat      FieldDecision `json:"fat"`
}

// Targets flattens the decisions back to storable fields.
func (d Decisions) Targets() TargetFields {
	return TargetFields{
		Calories: d.Calories.Value,
		Protein:  d.Protein.Value,
		Carbs:    d.Carbs.Value,
		Fat:      d.Fat.Value,
	}
}

// Outcome is the result of applying an Edit.
type Outcome struct {
	Triggered     bool
	Computed      *Target
	Decisions     Decisions
	Notice        Notice
	WeightChanged bool
}

// Targets returns the four values to store.
func (o Outcome) Targets() TargetFields {
	return o.Decisions.Targets()
}

// Recalculate applies the target precedence rules to one profile edit.
func Recalculate(e Edit) Outcome {
	var out Outcome
	out.Triggered = inputsChanged(e.Prior, e.Next) || manualCleared(e.PriorTargets, e.Manual)
	out.WeightChanged = e.Next.WeightKg != nil && !sameFloat(e.Prior.WeightKg, e.Next.WeightKg)

	var computed TargetFields
	if out.Triggered && e.Next.WeightKg != nil && e.Next.HeightCm != nil {
		if t, ok := Estimate(e.Next.estimatorInputs()); ok {
			out.Computed = &t
			out.Notice = NoticeRecalculated
			computed = TargetFields{
				Calories: &t.Calories,
				Protein:  &t.Protein,
				Carbs:    &t.Carbs,
				Fat:      &t.Fat,
			}
		} else if *e.Next.WeightKg > 0 && *e.Next.HeightCm > 0 {
			out.Notice = NoticeRecalcFailed
		}
	}

	out.Decisions = Decisions{
		Calories: ResolveField(e.Manual.Calories, computed.Calories, e.PriorTargets.Calories),
		Protein:  ResolveField(e.Manual.Protein, computed.Protein, e.PriorTargets.Protein),
		Carbs:    ResolveField(e.Manual.Carbs, computed.Carbs, e.PriorTargets.Carbs),
		Fat:      ResolveField(e.Manual.Fat, computed.Fat, e.PriorTargets.Fat),
	}
	return out
}

// inputsChanged reports a change in any estimator input. A weight or height
// that was cleared does not count; it cannot feed the estimator.
func inputsChanged(prior, next ProfileInputs) bool {
	return (next.WeightKg != nil && !sameFloat(prior.WeightKg, next.WeightKg)) ||
		(next.HeightCm != nil && !sameFloat(prior.HeightCm, next.HeightCm)) ||
		!sameString(prior.Goal, next.Goal) ||
		!sameString(prior.FitnessLevel, next.FitnessLevel) ||
		!sameFloat(prior.GoalWeightKg, next.GoalWeightKg)
}

// manualCleared reports a stored target whose manual value was left out of
// this edit, so it gets recomputed instead of lingering.
func manualCleared(prior, manual TargetFields) bool {
	return (prior.Calories != nil && manual.Calories == nil) ||
		(prior.Protein != nil && manual.Protein == nil) ||
		(prior.Carbs != nil && manual.Carbs == nil) ||
		(prior.Fat != nil && manual.Fat == nil)
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
