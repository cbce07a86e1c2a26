package models

// All is the wildcard value for categorical filter parameters: the
// predicate for that parameter is skipped entirely.
const All = "All"

// Range is an integer interval inclusive on both bounds.
type Range struct {
	Lo int `json:"lo" yaml:"lo"`
	Hi int `json:"hi" yaml:"hi"`
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v int) bool {
	return v >= r.Lo && v <= r.Hi
}

// Valid reports whether the bounds are ordered.
func (r Range) Valid() bool {
	return r.Lo <= r.Hi
}

// Params is the full filter state for one exploration session.
//
// Gender, Age and Race drive the shared global view computed by the
// engine. Education, Occupation, CapitalGainOnly and Hours are local
// refinements: individual chart builders apply them on top of the
// global view, so changing one never widens or narrows another chart's
// input.
type Params struct {
	Gender          string `json:"gender" yaml:"gender"`
	Age             Range  `json:"age" yaml:"age"`
	Race            string `json:"race" yaml:"race"`
	Education       string `json:"education" yaml:"education"`
	Occupation      string `json:"occupation" yaml:"occupation"`
	CapitalGainOnly bool   `json:"capital_gain_only" yaml:"capital_gain_only"`
	Hours           Range  `json:"hours" yaml:"hours"`
}

// DefaultParams returns the initial control state of a new session.
func DefaultParams() Params {
	return Params{
		Gender:          All,
		Age:             Range{Lo: 25, Hi: 60},
		Race:            All,
		Education:       All,
		Occupation:      All,
		CapitalGainOnly: false,
		Hours:           Range{Lo: 30, Hi: 50},
	}
}

// ParamPatch is a partial update to Params. Nil fields keep their
// current value; the patch is applied atomically or not at all.
type ParamPatch struct {
	Gender          *string `json:"gender,omitempty" yaml:"gender,omitempty"`
	Age             *Range  `json:"age,omitempty" yaml:"age,omitempty"`
	Race            *string `json:"race,omitempty" yaml:"race,omitempty"`
	Education       *string `json:"education,omitempty" yaml:"education,omitempty"`
	Occupation      *string `json:"occupation,omitempty" yaml:"occupation,omitempty"`
	CapitalGainOnly *bool   `json:"capital_gain_only,omitempty" yaml:"capital_gain_only,omitempty"`
	Hours           *Range  `json:"hours,omitempty" yaml:"hours,omitempty"`
}

// IsEmpty reports whether the patch carries no changes.
func (p ParamPatch) IsEmpty() bool {
	return p.Gender == nil && p.Age == nil && p.Race == nil &&
		p.Education == nil && p.Occupation == nil &&
		p.CapitalGainOnly == nil && p.Hours == nil
}

// ApplyTo returns a copy of base with the patch's non-nil fields set.
func (p ParamPatch) ApplyTo(base Params) Params {
	out := base
	if p.Gender != nil {
		out.Gender = *p.Gender
	}
	if p.Age != nil {
		out.Age = *p.Age
	}
	if p.Race != nil {
		out.Race = *p.Race
	}
	if p.Education != nil {
		out.Education = *p.Education
	}
	if p.Occupation != nil {
		out.Occupation = *p.Occupation
	}
	if p.CapitalGainOnly != nil {
		out.CapitalGainOnly = *p.CapitalGainOnly
	}
	if p.Hours != nil {
		out.Hours = *p.Hours
	}
	return out
}
