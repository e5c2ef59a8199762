package models

import "time"

// ScenarioResult is the outcome of applying one scenario to one position.
type ScenarioResult struct {
	Symbol        string
	Kind          InstrumentKind
	CurrentValue  float64
	ScenarioValue float64
	PnL           float64
	PnLPercent    float64
	NewPrice      float64
	NewIV         float64 // options only
	Greeks        Greeks  // per-unit greeks after the shock

	// ThetaDriftEstimate is the naive theta x days decay for time-decay
	// scenarios, kept as a cross-check against the repriced P&L.
	ThetaDriftEstimate float64
}

// ExcludedPosition records a position that could not be evaluated and the
// diagnostic that sidelined it (partial-failure semantics).
type ExcludedPosition struct {
	Symbol string
	Reason string
}

// PortfolioMetrics are the baseline totals of a snapshot before any shock.
type PortfolioMetrics struct {
	TotalValue  float64
	StockValue  float64
	OptionValue float64
	Greeks      Greeks // quantity- and multiplier-scaled aggregates

	NumPositions       int
	NumStockPositions  int
	NumOptionPositions int
}

// PortfolioSnapshot aggregates every ScenarioResult for one scenario
// across the portfolio. It is derived data, recomputed each pass.
type PortfolioSnapshot struct {
	ScenarioName string
	AsOf         time.Time

	CurrentValue  float64
	ScenarioValue float64
	PnL           float64
	PnLPercent    float64

	StockValue  float64
	OptionValue float64
	Greeks      Greeks // scaled aggregates under the scenario

	// Results is ordered by P&L ascending with a symbol tie-break, so
	// the worst contributor is first and the best is last.
	Results []ScenarioResult
	Worst   *ScenarioResult
	Best    *ScenarioResult

	// ThetaCrossCheck sums per-position theta drift for time-decay
	// scenarios; 0 for instantaneous shocks.
	ThetaCrossCheck float64

	Excluded []ExcludedPosition
}
