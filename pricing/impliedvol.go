package pricing

import (
	"math"

	"github.com/bwmiller/scenrisk/models"
)

const (
	ivMaxIterations = 100
	ivTolerance     = 1e-3
)

// ImpliedVolatility inverts the European pricing formula with
// Newton-Raphson for callers whose feed delivers option marks without an
// IV field. The result is clamped to [0.01, 3.0]; failure to converge
// returns the last iterate with an InvalidInputError.
func (p *Pricer) ImpliedVolatility(target, spot, strike, t, rate, dividend float64, typ models.OptionType) (float64, error) {
	if err := p.validate(spot, strike, t, 0.5); err != nil {
		return 0, err
	}
	if t <= 0 || target <= 0 {
		return 0, &models.InvalidInputError{Field: "target_price", Value: target, Reason: "no time value to invert"}
	}

	iv := 0.30
	for i := 0; i < ivMaxIterations; i++ {
		var res Results
		res.Price = make([]float64, 1)
		res.Delta = make([]float64, 1)
		res.Gamma = make([]float64, 1)
		res.Theta = make([]float64, 1)
		res.Vega = make([]float64, 1)
		res.Rho = make([]float64, 1)
		p.europeanInto(&res, 0, spot, strike, t, rate, dividend, iv, typ)

		diff := target - res.Price[0]
		if math.Abs(diff) < ivTolerance {
			return iv, nil
		}
		vega := res.Vega[0] * 100 // back to per-unit
		if vega == 0 {
			break
		}
		iv += diff / vega
		iv = math.Max(0.01, math.Min(3.0, iv))
	}
	return iv, &models.InvalidInputError{Field: "iv", Value: iv, Reason: "implied volatility search did not converge"}
}
