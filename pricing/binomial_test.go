package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bwmiller/scenrisk/models"
)

func TestAmericanPutDominatesEuropean(t *testing.T) {
	p := New(200)
	cases := []struct{ s, k, ty, r, iv float64 }{
		{100, 100, 0.5, 0.05, 0.25},
		{90, 100, 0.25, 0.05, 0.30},
		{60, 100, 1.0, 0.06, 0.40},
	}
	for _, c := range cases {
		amer := priceOne(t, p, c.s, c.k, c.ty, c.r, 0, c.iv, models.Put, true)
		euro := priceOne(t, p, c.s, c.k, c.ty, c.r, 0, c.iv, models.Put, false)
		assert.GreaterOrEqual(t, amer.Price[0]+1e-9, euro.Price[0])
	}
}

func TestTreeConvergesToClosedFormCall(t *testing.T) {
	// Without dividends an American call is never exercised early, so the
	// lattice should land on the closed-form value.
	p := New(500)
	amer := priceOne(t, p, 100, 105, 0.5, 0.05, 0, 0.30, models.Call, true)
	euro := priceOne(t, p, 100, 105, 0.5, 0.05, 0, 0.30, models.Call, false)
	assert.InDelta(t, euro.Price[0], amer.Price[0], 0.02)
}

func TestDeepITMPutExercisesImmediately(t *testing.T) {
	p := New(200)
	res := priceOne(t, p, 50, 100, 0.5, 0.05, 0, 0.20, models.Put, true)
	assert.GreaterOrEqual(t, res.Price[0]+1e-9, 50.0)
	assert.InDelta(t, 50.0, res.Price[0], 0.2)
	assert.Less(t, res.Delta[0], -0.95)
}

func TestTreeGreeksSignSanity(t *testing.T) {
	p := New(200)
	res := priceOne(t, p, 100, 100, 0.5, 0.05, 0.02, 0.30, models.Put, true)
	assert.Less(t, res.Delta[0], 0.0)
	assert.Greater(t, res.Gamma[0], 0.0)
	assert.Greater(t, res.Vega[0], 0.0)
	assert.LessOrEqual(t, res.Theta[0], 0.0)
}

func TestEarlyExerciseRelevant(t *testing.T) {
	assert.True(t, EarlyExerciseRelevant(models.Put, 90, 100, 0.02))
	assert.False(t, EarlyExerciseRelevant(models.Put, 90, 100, 0))
	assert.False(t, EarlyExerciseRelevant(models.Put, 98, 100, 0.02))
	assert.False(t, EarlyExerciseRelevant(models.Call, 90, 100, 0.02))
}
