package scenario

import (
	"fmt"

	"github.com/bwmiller/scenrisk/models"
)

// CorrelationRule is a declarative "if the spot move crosses Threshold,
// add DeltaIV to Wing" rule. Rules are evaluated exactly once, while the
// scenario is built; pricing only ever sees the resolved policy.
type CorrelationRule struct {
	// Threshold triggers when the scenario spot shock reaches it: a
	// negative threshold fires on moves at or below it, a positive one
	// on moves at or above it.
	Threshold float64
	Wing      Wing
	DeltaIV   float64
}

func (r CorrelationRule) triggered(spotShock float64) bool {
	if r.Threshold < 0 {
		return spotShock <= r.Threshold
	}
	return spotShock >= r.Threshold
}

// BuildCustom assembles a custom scenario from a spot shock, an IV shock
// policy and optional correlation rules. Rules that fire are folded into
// a fully resolved moneyness policy before the scenario is returned.
func BuildCustom(name string, spotShock float64, shock models.IVShock, daysForward int, rules []CorrelationRule) (models.ScenarioParameters, error) {
	sc := models.ScenarioParameters{
		Name:        name,
		Description: fmt.Sprintf("Custom: %+.1f%% spot", spotShock*100),
		SpotShock:   spotShock,
		IVShock:     shock,
		DaysForward: daysForward,
	}
	if err := sc.Validate(); err != nil {
		return models.ScenarioParameters{}, err
	}

	resolved, err := applyRules(shock, spotShock, rules)
	if err != nil {
		return models.ScenarioParameters{}, err
	}
	sc.IVShock = resolved
	return sc, nil
}

func applyRules(shock models.IVShock, spotShock float64, rules []CorrelationRule) (models.IVShock, error) {
	fired := false
	for _, r := range rules {
		if r.triggered(spotShock) {
			fired = true
			break
		}
	}
	if !fired {
		return shock, nil
	}

	// A wing delta needs a moneyness-addressable policy to land in.
	var m models.MoneynessShock
	switch s := shock.(type) {
	case models.MoneynessShock:
		m = s
	case models.UniformShock:
		m = models.MoneynessShock{PutWing: s.Change, ATM: s.Change, CallWing: s.Change}
	case models.CompositeShock:
		m = models.MoneynessShock{PutWing: s.Multiplier, ATM: s.Multiplier, CallWing: s.Multiplier}
	default:
		return nil, &models.InvalidInputError{
			Field:  "correlation_rules",
			Reason: "rules cannot target a DTE-bucketed policy",
		}
	}

	for _, r := range rules {
		if !r.triggered(spotShock) {
			continue
		}
		switch r.Wing {
		case PutWing:
			m.PutWing += r.DeltaIV
		case CallWing:
			m.CallWing += r.DeltaIV
		default:
			m.ATM += r.DeltaIV
		}
	}
	return m, nil
}
