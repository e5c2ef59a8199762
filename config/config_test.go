package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := Default()

	assert.Equal(t, 0.05, c.RiskFreeRate)
	assert.Equal(t, 0.30, c.Scenario.DefaultIV)
	assert.Equal(t, 0.01, c.Scenario.IVFloor)
	assert.Equal(t, 3.0, c.Scenario.IVCap)
	assert.True(t, c.Scenario.BetaComposition)
	assert.Equal(t, 1.3, c.Scenario.PutWingBeta)
	assert.Equal(t, 0.8, c.Scenario.CallWingBeta)
	assert.Equal(t, 100, c.Pricing.BinomialSteps)
	assert.Equal(t, 0.15, c.Risk.MaxPortfolioLoss)
	assert.Equal(t, 0.25, c.Risk.ConcentrationLimit)
	assert.Equal(t, -1000.0, c.Risk.ShortGammaLimit)
	assert.Equal(t, 60, c.Risk.StalenessSeconds)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenrisk.yaml")
	yaml := `
risk_free_rate: 0.041
scenario:
  beta_composition: false
  put_wing_beta: 1.5
pricing:
  binomial_steps: 250
risk:
  vega_limit: 25000
  max_data_age_seconds: 120
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.041, c.RiskFreeRate)
	assert.False(t, c.Scenario.BetaComposition)
	assert.Equal(t, 1.5, c.Scenario.PutWingBeta)
	assert.Equal(t, 250, c.Pricing.BinomialSteps)
	assert.Equal(t, 25000.0, c.Risk.VegaLimit)

	// Untouched keys keep their defaults.
	assert.Equal(t, 0.8, c.Scenario.CallWingBeta)
	assert.Equal(t, 0.15, c.Risk.MaxPortfolioLoss)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestBetaModelMapping(t *testing.T) {
	m := Default().Scenario.BetaModel()
	assert.Equal(t, 1.3, m.PutWingBeta)
	assert.Equal(t, 1.0, m.ATMBeta)
	assert.Equal(t, 0.95, m.ATMBandLow)
	assert.Equal(t, 1.05, m.ATMBandHigh)
	assert.Equal(t, 1.5, m.WeeklyBeta)
	assert.Equal(t, 0.5, m.LongBeta)
	assert.True(t, m.Compose)
	assert.Equal(t, 0.30, m.DefaultIV)
}

func TestLimitsMapping(t *testing.T) {
	l := Default().Risk.Limits()
	assert.Equal(t, 0.15, l.MaxPortfolioLoss)
	assert.Equal(t, 10000.0, l.VegaLimit)
	assert.Equal(t, 60*time.Second, l.StalenessWindow)
	assert.Equal(t, 0.95, l.VaRConfidenceLow)
	assert.Equal(t, 0.99, l.VaRConfidenceHigh)
}
