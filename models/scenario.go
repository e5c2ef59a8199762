package models

// IVShock is the closed set of IV shock policies a scenario can carry.
// The pricer path only ever sees one of the four concrete shapes below.
type IVShock interface {
	ivShock()
}

// UniformShock moves every option's IV by the same relative amount,
// without beta weighting.
type UniformShock struct {
	Change float64
}

// MoneynessShock carries one relative IV change per strike wing. Wing
// multipliers compose with the beta-weighting model unless composition
// is disabled in the model configuration.
type MoneynessShock struct {
	PutWing  float64
	ATM      float64
	CallWing float64
}

// DTEShock carries one relative IV change per days-to-expiration bucket,
// applied raw like UniformShock.
type DTEShock struct {
	Weekly    float64 // 0-7 DTE
	Monthly   float64 // 8-30 DTE
	Quarterly float64 // 31-90 DTE
	Long      float64 // 90+ DTE
}

// CompositeShock is a single multiplier that always runs through the full
// beta-weighted model (moneyness beta x time beta).
type CompositeShock struct {
	Multiplier float64
}

func (UniformShock) ivShock()   {}
func (MoneynessShock) ivShock() {}
func (DTEShock) ivShock()       {}
func (CompositeShock) ivShock() {}

// ScenarioParameters is a named, fully resolved shock definition. It is
// pure data: nothing here is evaluated during pricing.
type ScenarioParameters struct {
	Name        string
	Description string

	// SpotShock is the relative spot move applied to every underlying
	// unless SpotOverrides carries a per-underlying value.
	SpotShock     float64
	SpotOverrides map[string]float64

	IVShock IVShock

	// DaysForward advances calendar time before pricing; 0 for
	// instantaneous shocks.
	DaysForward int
}

// SpotShockFor returns the spot move for one underlying.
func (s *ScenarioParameters) SpotShockFor(underlying string) float64 {
	if v, ok := s.SpotOverrides[underlying]; ok {
		return v
	}
	return s.SpotShock
}

// Validate rejects non-physical scenario parameters.
func (s *ScenarioParameters) Validate() error {
	if s.Name == "" {
		return &InvalidInputError{Field: "name", Reason: "empty scenario name"}
	}
	if s.SpotShock < -0.99 {
		return &InvalidInputError{Field: "spot_shock", Value: s.SpotShock, Reason: "price cannot go negative"}
	}
	for sym, v := range s.SpotOverrides {
		if v < -0.99 {
			return &InvalidInputError{Field: "spot_override:" + sym, Value: v, Reason: "price cannot go negative"}
		}
	}
	if s.DaysForward < 0 {
		return &InvalidInputError{Field: "days_forward", Value: float64(s.DaysForward), Reason: "negative time advance"}
	}
	if s.IVShock == nil {
		return &InvalidInputError{Field: "iv_shock", Reason: "missing IV shock policy"}
	}
	return nil
}
