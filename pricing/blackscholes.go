package pricing

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/bwmiller/scenrisk/models"
)

const DefaultBinomialSteps = 100

// Batch carries parallel input slices for one vectorized pricing call.
// Element i of every slice describes the same contract.
type Batch struct {
	Spot     []float64
	Strike   []float64
	T        []float64 // time to expiry in years
	Rate     []float64
	Dividend []float64
	IV       []float64
	Type     []models.OptionType
	American []bool
}

func (b *Batch) Len() int {
	return len(b.Spot)
}

// Append adds one contract to the batch.
func (b *Batch) Append(spot, strike, t, rate, div, iv float64, typ models.OptionType, american bool) {
	b.Spot = append(b.Spot, spot)
	b.Strike = append(b.Strike, strike)
	b.T = append(b.T, t)
	b.Rate = append(b.Rate, rate)
	b.Dividend = append(b.Dividend, div)
	b.IV = append(b.IV, iv)
	b.Type = append(b.Type, typ)
	b.American = append(b.American, american)
}

func (b *Batch) aligned() bool {
	n := len(b.Spot)
	return len(b.Strike) == n && len(b.T) == n && len(b.Rate) == n &&
		len(b.Dividend) == n && len(b.IV) == n && len(b.Type) == n && len(b.American) == n
}

// Results holds parallel output slices matching a Batch element by
// element. Errs[i] is non-nil when element i was rejected; its numeric
// outputs are then zero and the rest of the batch is still valid.
type Results struct {
	Price []float64
	Delta []float64
	Gamma []float64
	Theta []float64 // per calendar day
	Vega  []float64 // per 1 vol point (0.01 IV)
	Rho   []float64 // per 1% rate change
	Errs  []error
}

// Pricer prices European contracts with closed-form Black-Scholes-Merton
// and American-style contracts with a CRR binomial tree. It holds no
// mutable state and is safe for concurrent use.
type Pricer struct {
	Steps int // binomial tree steps for the American fallback
	norm  distuv.Normal
}

func New(steps int) *Pricer {
	if steps <= 0 {
		steps = DefaultBinomialSteps
	}
	return &Pricer{
		Steps: steps,
		norm:  distuv.Normal{Mu: 0, Sigma: 1},
	}
}

// Price values every element of the batch in one call. A malformed
// element is reported in Results.Errs at its index without aborting the
// rest of the batch.
func (p *Pricer) Price(b Batch) (Results, error) {
	if !b.aligned() {
		return Results{}, &models.InvalidInputError{Field: "batch", Reason: "input slices have mismatched lengths"}
	}

	n := b.Len()
	res := Results{
		Price: make([]float64, n),
		Delta: make([]float64, n),
		Gamma: make([]float64, n),
		Theta: make([]float64, n),
		Vega:  make([]float64, n),
		Rho:   make([]float64, n),
		Errs:  make([]error, n),
	}

	for i := 0; i < n; i++ {
		if err := p.validate(b.Spot[i], b.Strike[i], b.T[i], b.IV[i]); err != nil {
			res.Errs[i] = err
			continue
		}
		if b.T[i] <= 0 {
			p.expired(&res, i, b.Spot[i], b.Strike[i], b.Type[i])
			continue
		}
		if b.American[i] {
			p.binomialInto(&res, i, b.Spot[i], b.Strike[i], b.T[i], b.Rate[i], b.Dividend[i], b.IV[i], b.Type[i])
			continue
		}
		p.europeanInto(&res, i, b.Spot[i], b.Strike[i], b.T[i], b.Rate[i], b.Dividend[i], b.IV[i], b.Type[i])
	}
	return res, nil
}

func (p *Pricer) validate(spot, strike, t, iv float64) error {
	if spot < 0 || math.IsNaN(spot) || math.IsInf(spot, 0) {
		return &models.InvalidInputError{Field: "spot", Value: spot, Reason: "must be non-negative and finite"}
	}
	if strike <= 0 || math.IsNaN(strike) {
		return &models.InvalidInputError{Field: "strike", Value: strike, Reason: "must be positive"}
	}
	if t > 0 && iv <= 0 {
		return &models.InvalidInputError{Field: "iv", Value: iv, Reason: "must be positive"}
	}
	return nil
}

// expired maps a zero-DTE contract to intrinsic value: delta is the sign
// of exercise, every other sensitivity is gone.
func (p *Pricer) expired(res *Results, i int, spot, strike float64, typ models.OptionType) {
	res.Price[i] = intrinsic(spot, strike, typ)
	if res.Price[i] > 0 {
		if typ == models.Call {
			res.Delta[i] = 1
		} else {
			res.Delta[i] = -1
		}
	}
}

func (p *Pricer) europeanInto(res *Results, i int, s, k, t, r, q, sigma float64, typ models.OptionType) {
	sqrtT := math.Sqrt(t)
	d1 := (math.Log(s/k) + (r-q+0.5*sigma*sigma)*t) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	dfQ := math.Exp(-q * t)
	dfR := math.Exp(-r * t)
	pdf := p.norm.Prob(d1)

	var price, delta, theta, rho float64
	if typ == models.Call {
		price = s*dfQ*p.norm.CDF(d1) - k*dfR*p.norm.CDF(d2)
		delta = dfQ * p.norm.CDF(d1)
		theta = (-s*pdf*sigma*dfQ/(2*sqrtT) - r*k*dfR*p.norm.CDF(d2) + q*s*dfQ*p.norm.CDF(d1)) / 365
		rho = k * t * dfR * p.norm.CDF(d2) / 100
	} else {
		price = k*dfR*p.norm.CDF(-d2) - s*dfQ*p.norm.CDF(-d1)
		delta = -dfQ * p.norm.CDF(-d1)
		theta = (-s*pdf*sigma*dfQ/(2*sqrtT) + r*k*dfR*p.norm.CDF(-d2) - q*s*dfQ*p.norm.CDF(-d1)) / 365
		rho = -k * t * dfR * p.norm.CDF(-d2) / 100
	}

	res.Price[i] = math.Max(0, price)
	res.Delta[i] = delta
	res.Gamma[i] = dfQ * pdf / (s * sigma * sqrtT)
	res.Theta[i] = theta
	res.Vega[i] = s * dfQ * pdf * sqrtT / 100
	res.Rho[i] = rho
}

func intrinsic(spot, strike float64, typ models.OptionType) float64 {
	if typ == models.Call {
		return math.Max(0, spot-strike)
	}
	return math.Max(0, strike-spot)
}
