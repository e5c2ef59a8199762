package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bwmiller/scenrisk/models"
)

func snapWith(name string, pnl float64, results ...models.ScenarioResult) models.PortfolioSnapshot {
	return models.PortfolioSnapshot{
		ScenarioName: name,
		CurrentValue: 10000,
		PnL:          pnl,
		PnLPercent:   pnl / 10000 * 100,
		Results:      results,
	}
}

func TestComputeMetricsVaROrdering(t *testing.T) {
	e := NewEngine(DefaultLimits(), zap.NewNop())
	snapshots := map[string]models.PortfolioSnapshot{
		"a": snapWith("a", -1200),
		"b": snapWith("b", -300),
		"c": snapWith("c", 150),
		"d": snapWith("d", 500),
		"e": snapWith("e", -800),
		"f": snapWith("f", 50),
	}

	report, err := e.ComputeMetrics(nil, snapshots)
	require.NoError(t, err)

	// VaR is a positive loss magnitude and deepens with confidence.
	assert.GreaterOrEqual(t, report.VaR99, report.VaR95)
	assert.Greater(t, report.VaR95, 0.0)
	assert.LessOrEqual(t, report.VaR99, 1200.0)
	assert.Equal(t, "a", report.WorstScenario)
	assert.Equal(t, -1200.0, report.MaxDrawdown)
	assert.InDelta(t, report.VaR95/10000*100, report.VaR95Percent, 1e-9)
}

func TestComputeMetricsDegenerateDistribution(t *testing.T) {
	e := NewEngine(DefaultLimits(), zap.NewNop())
	snapshots := map[string]models.PortfolioSnapshot{
		"a": snapWith("a", -400),
		"b": snapWith("b", -400),
		"c": snapWith("c", -400),
	}

	report, err := e.ComputeMetrics(nil, snapshots)
	require.NoError(t, err)

	// Every quantile of a constant distribution is that constant.
	assert.InDelta(t, 400, report.VaR95, 1e-9)
	assert.InDelta(t, 400, report.VaR99, 1e-9)
}

func TestComputeMetricsScenarioMaps(t *testing.T) {
	e := NewEngine(DefaultLimits(), zap.NewNop())
	snapshots := map[string]models.PortfolioSnapshot{
		"up":   snapWith("up", 250),
		"down": snapWith("down", -500),
	}

	report, err := e.ComputeMetrics(nil, snapshots)
	require.NoError(t, err)
	assert.Equal(t, 250.0, report.ScenarioPnL["up"])
	assert.Equal(t, -500.0, report.ScenarioPnL["down"])
	assert.InDelta(t, -5, report.ScenarioPnLPercent["down"], 1e-9)
}

func TestComputeMetricsRequiresSnapshots(t *testing.T) {
	e := NewEngine(DefaultLimits(), zap.NewNop())
	_, err := e.ComputeMetrics(nil, nil)

	var ins *models.InsufficientDataError
	require.ErrorAs(t, err, &ins)
}

func TestConcentrations(t *testing.T) {
	positions := []models.Position{
		{Symbol: "AAA", Kind: models.KindEquity, Quantity: 10, CurrentPrice: 60},  // 600
		{Symbol: "BBB", Kind: models.KindEquity, Quantity: -4, CurrentPrice: 75},  // -300
		{Symbol: "CCC", Kind: models.KindEquity, Quantity: 1, CurrentPrice: 100},  // 100
		{Symbol: "DDD", Kind: models.KindEquity, Quantity: 0, CurrentPrice: 1000}, // closed
	}

	out := concentrations(positions)
	require.Len(t, out, 3)

	// Shorts count by absolute notional; ordering is largest weight first.
	assert.Equal(t, "AAA", out[0].Symbol)
	assert.InDelta(t, 0.6, out[0].Weight, 1e-9)
	assert.Equal(t, "BBB", out[1].Symbol)
	assert.InDelta(t, 0.3, out[1].Weight, 1e-9)
	assert.InDelta(t, -300, out[1].Notional, 1e-9)
	assert.Equal(t, "CCC", out[2].Symbol)
}

func TestCorrelationsPerfectlyLinked(t *testing.T) {
	e := NewEngine(DefaultLimits(), zap.NewNop())
	mk := func(name string, a, b float64) models.PortfolioSnapshot {
		return snapWith(name, a+b,
			models.ScenarioResult{Symbol: "LONG", PnL: a},
			models.ScenarioResult{Symbol: "HEDGE", PnL: b},
		)
	}
	snapshots := map[string]models.PortfolioSnapshot{
		"a": mk("a", 100, -100),
		"b": mk("b", -250, 250),
		"c": mk("c", 40, -40),
	}

	report, err := e.ComputeMetrics(nil, snapshots)
	require.NoError(t, err)
	require.NotNil(t, report.Correlations)
	assert.Equal(t, "ok", report.CorrelationStatus)

	m := report.Correlations
	require.Equal(t, []string{"HEDGE", "LONG"}, m.Symbols)
	assert.Equal(t, 1.0, m.Values[0][0])
	assert.Equal(t, 1.0, m.Values[1][1])
	assert.InDelta(t, -1.0, m.Values[0][1], 1e-9)
	assert.InDelta(t, -1.0, m.Values[1][0], 1e-9)
}

func TestCorrelationsInsufficientScenarios(t *testing.T) {
	e := NewEngine(DefaultLimits(), zap.NewNop())
	snapshots := map[string]models.PortfolioSnapshot{
		"only": snapWith("only", -100, models.ScenarioResult{Symbol: "LONG", PnL: -100}),
	}

	report, err := e.ComputeMetrics(nil, snapshots)
	require.NoError(t, err)
	assert.Nil(t, report.Correlations)
	assert.Contains(t, report.CorrelationStatus, "insufficient data")
}

func TestCorrelationsSkipPartialVectors(t *testing.T) {
	e := NewEngine(DefaultLimits(), zap.NewNop())
	snapshots := map[string]models.PortfolioSnapshot{
		"a": snapWith("a", 0,
			models.ScenarioResult{Symbol: "LONG", PnL: 10},
			models.ScenarioResult{Symbol: "FLAKY", PnL: 5}),
		"b": snapWith("b", 0,
			models.ScenarioResult{Symbol: "LONG", PnL: -20}),
		"c": snapWith("c", 0,
			models.ScenarioResult{Symbol: "LONG", PnL: 30},
			models.ScenarioResult{Symbol: "FLAKY", PnL: -5}),
	}

	report, err := e.ComputeMetrics(nil, snapshots)
	require.NoError(t, err)
	require.NotNil(t, report.Correlations)
	// FLAKY missed scenario b, so only LONG has a full vector.
	assert.Equal(t, []string{"LONG"}, report.Correlations.Symbols)
}

func TestMergeExcludedDeduplicates(t *testing.T) {
	e := NewEngine(DefaultLimits(), zap.NewNop())
	ex := models.ExcludedPosition{Symbol: "BAD", Reason: "invalid input strike=0: must be positive for options"}
	a := snapWith("a", 0)
	a.Excluded = []models.ExcludedPosition{ex}
	b := snapWith("b", 0)
	b.Excluded = []models.ExcludedPosition{ex}

	report, err := e.ComputeMetrics(nil, map[string]models.PortfolioSnapshot{"a": a, "b": b})
	require.NoError(t, err)
	require.Len(t, report.Excluded, 1)
	assert.Equal(t, ex, report.Excluded[0])
}

func TestIVRankFromHistory(t *testing.T) {
	rank, pct, err := IVRankFromHistory(0.30, []float64{0.20, 0.40})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, rank, 1e-9)
	assert.InDelta(t, 0.5, pct, 1e-9)

	rank, _, err = IVRankFromHistory(0.40, []float64{0.20, 0.40})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, rank, 1e-9)

	// A flat history pins the rank to the middle instead of dividing by zero.
	rank, _, err = IVRankFromHistory(0.25, []float64{0.25, 0.25, 0.25})
	require.NoError(t, err)
	assert.Equal(t, 0.5, rank)

	_, _, err = IVRankFromHistory(0.25, nil)
	assert.Error(t, err)
}
