package pricing

import (
	"math"

	"github.com/bwmiller/scenrisk/models"
)

// EarlyExerciseRelevant reports whether American-style treatment is
// economically material: a deep in-the-money put on a dividend-paying
// underlying. Contracts explicitly flagged American always take the tree
// path regardless of this heuristic.
func EarlyExerciseRelevant(typ models.OptionType, spot, strike, dividend float64) bool {
	return typ == models.Put && dividend > 0 && strike > spot*1.05
}

// binomialInto prices one American-style contract on a CRR tree and
// fills its Greeks via central bumps of the tree inputs.
func (p *Pricer) binomialInto(res *Results, i int, s, k, t, r, q, sigma float64, typ models.OptionType) {
	price := p.binomial(s, k, t, r, q, sigma, typ)
	res.Price[i] = price

	hS := s * 0.01
	up := p.binomial(s+hS, k, t, r, q, sigma, typ)
	down := p.binomial(s-hS, k, t, r, q, sigma, typ)
	res.Delta[i] = (up - down) / (2 * hS)
	res.Gamma[i] = (up - 2*price + down) / (hS * hS)

	const hV = 0.005
	res.Vega[i] = (p.binomial(s, k, t, r, q, sigma+hV, typ) -
		p.binomial(s, k, t, r, q, sigma-hV, typ)) / (2 * hV) * 0.01

	const hR = 0.0005
	res.Rho[i] = (p.binomial(s, k, t, r+hR, q, sigma, typ) -
		p.binomial(s, k, t, r-hR, q, sigma, typ)) / (2 * hR) * 0.01

	const day = 1.0 / 365
	if t > day {
		res.Theta[i] = p.binomial(s, k, t-day, r, q, sigma, typ) - price
	} else {
		res.Theta[i] = intrinsic(s, k, typ) - price
	}
}

// binomial walks a flat-array CRR lattice backwards, comparing
// continuation against immediate exercise at every node.
func (p *Pricer) binomial(s, k, t, r, q, sigma float64, typ models.OptionType) float64 {
	n := p.Steps
	dt := t / float64(n)
	u := math.Exp(sigma * math.Sqrt(dt))
	d := 1 / u
	pu := (math.Exp((r-q)*dt) - d) / (u - d)
	if pu < 0 {
		pu = 0
	} else if pu > 1 {
		pu = 1
	}
	disc := math.Exp(-r * dt)

	// Terminal layer. vals[j] is the node reached by j up-moves.
	vals := make([]float64, n+1)
	for j := 0; j <= n; j++ {
		st := s * math.Pow(u, float64(j)) * math.Pow(d, float64(n-j))
		vals[j] = intrinsic(st, k, typ)
	}

	for step := n - 1; step >= 0; step-- {
		for j := 0; j <= step; j++ {
			cont := disc * (pu*vals[j+1] + (1-pu)*vals[j])
			st := s * math.Pow(u, float64(j)) * math.Pow(d, float64(step-j))
			if ex := intrinsic(st, k, typ); ex > cont {
				vals[j] = ex
			} else {
				vals[j] = cont
			}
		}
	}
	return vals[0]
}
