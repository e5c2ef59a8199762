package scenario

import (
	"math"

	"github.com/bwmiller/scenrisk/models"
)

// Wing buckets an option by the strike region its IV lives in.
type Wing int

const (
	PutWing Wing = iota // low-strike side of the smile
	ATM
	CallWing // high-strike side of the smile
)

// BetaModel is the beta-weighted IV shift model. Zero value is not
// usable; start from DefaultBetaModel.
type BetaModel struct {
	PutWingBeta  float64
	ATMBeta      float64
	CallWingBeta float64

	// ATM band on the type-signed moneyness ratio (spot/strike for
	// calls, strike/spot for puts): [ATMBandLow, ATMBandHigh).
	ATMBandLow  float64
	ATMBandHigh float64

	// Time betas by DTE bucket.
	WeeklyBeta    float64 // 0-7
	MonthlyBeta   float64 // 8-30
	QuarterlyBeta float64 // 31-90
	LongBeta      float64 // 90+

	IVFloor float64
	IVCap   float64

	// Compose controls whether wing multipliers from a MoneynessShock
	// stack multiplicatively with the betas. Composite shocks always do.
	Compose bool

	// DefaultIV substitutes for positions whose feed carried no IV.
	DefaultIV float64
}

func DefaultBetaModel() BetaModel {
	return BetaModel{
		PutWingBeta:   1.3,
		ATMBeta:       1.0,
		CallWingBeta:  0.8,
		ATMBandLow:    0.95,
		ATMBandHigh:   1.05,
		WeeklyBeta:    1.5,
		MonthlyBeta:   1.0,
		QuarterlyBeta: 0.7,
		LongBeta:      0.5,
		IVFloor:       0.01,
		IVCap:         3.0,
		Compose:       true,
		DefaultIV:     0.30,
	}
}

// Classify maps an option to its smile wing. OTM puts and ITM calls sit
// on the low-strike put wing; OTM calls and ITM puts on the call wing.
func (m BetaModel) Classify(spot, strike float64, typ models.OptionType) Wing {
	if spot <= 0 || strike <= 0 {
		return ATM
	}
	ratio := spot / strike
	if typ == models.Put {
		ratio = strike / spot
	}
	switch {
	case ratio < m.ATMBandLow: // out of the money
		if typ == models.Put {
			return PutWing
		}
		return CallWing
	case ratio < m.ATMBandHigh:
		return ATM
	default: // in the money
		if typ == models.Put {
			return CallWing
		}
		return PutWing
	}
}

// MoneynessBeta returns the wing beta for an option.
func (m BetaModel) MoneynessBeta(spot, strike float64, typ models.OptionType) float64 {
	switch m.Classify(spot, strike, typ) {
	case PutWing:
		return m.PutWingBeta
	case CallWing:
		return m.CallWingBeta
	default:
		return m.ATMBeta
	}
}

// TimeBeta returns the DTE-bucket beta.
func (m BetaModel) TimeBeta(dte int) float64 {
	switch {
	case dte <= 7:
		return m.WeeklyBeta
	case dte <= 30:
		return m.MonthlyBeta
	case dte <= 90:
		return m.QuarterlyBeta
	default:
		return m.LongBeta
	}
}

func (m BetaModel) dteBucket(shock models.DTEShock, dte int) float64 {
	switch {
	case dte <= 7:
		return shock.Weekly
	case dte <= 30:
		return shock.Monthly
	case dte <= 90:
		return shock.Quarterly
	default:
		return shock.Long
	}
}

func (m BetaModel) wingMultiplier(shock models.MoneynessShock, w Wing) float64 {
	switch w {
	case PutWing:
		return shock.PutWing
	case CallWing:
		return shock.CallWing
	default:
		return shock.ATM
	}
}

// ShiftIV maps a position's base IV to its shocked IV under the given
// policy. Pure function, safe for concurrent bulk use. The result is
// always inside [IVFloor, IVCap], never zero or negative.
func (m BetaModel) ShiftIV(baseIV, spot, strike float64, typ models.OptionType, dte int, shock models.IVShock) float64 {
	if baseIV <= 0 {
		baseIV = m.DefaultIV
	}

	var change float64
	switch s := shock.(type) {
	case models.UniformShock:
		change = s.Change
	case models.DTEShock:
		change = m.dteBucket(s, dte)
	case models.MoneynessShock:
		change = m.wingMultiplier(s, m.Classify(spot, strike, typ))
		if m.Compose {
			change *= m.MoneynessBeta(spot, strike, typ) * m.TimeBeta(dte)
		}
	case models.CompositeShock:
		change = s.Multiplier * m.MoneynessBeta(spot, strike, typ) * m.TimeBeta(dte)
	}

	newIV := baseIV * (1 + change)
	return math.Min(m.IVCap, math.Max(m.IVFloor, newIV))
}
