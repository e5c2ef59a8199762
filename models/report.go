package models

import "time"

type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

type AlertType string

const (
	AlertScenarioLoss  AlertType = "SCENARIO_LOSS"
	AlertConcentration AlertType = "CONCENTRATION"
	AlertEarningsRisk  AlertType = "EARNINGS_RISK"
	AlertHighIV        AlertType = "HIGH_IV"
	AlertLowIV         AlertType = "LOW_IV"
	AlertVegaExposure  AlertType = "VEGA_EXPOSURE"
	AlertGammaExposure AlertType = "GAMMA_EXPOSURE"
	AlertShortGamma    AlertType = "SHORT_GAMMA"
	AlertStaleData     AlertType = "STALE_DATA"
)

type Alert struct {
	Type      AlertType
	Severity  Severity
	Message   string
	Symbol    string // empty for portfolio-level alerts
	Value     float64
	Threshold float64
}

// Concentration is one position's share of total portfolio notional.
type Concentration struct {
	Symbol   string
	Weight   float64 // |notional| / total notional
	Notional float64
}

// CorrelationMatrix holds pairwise Pearson correlations of per-scenario
// position P&L vectors. Symbols indexes both dimensions of Values.
type CorrelationMatrix struct {
	Symbols []string
	Values  [][]float64
}

// EventAnnotation is an upcoming calendar event supplied by the calling
// layer; the engine never builds these itself.
type EventAnnotation struct {
	Symbol string
	Kind   string // "earnings", "fomc", ...
	Date   time.Time
}

// RiskReport is derived from a full set of scenario snapshots. VaR values
// are positive loss magnitudes, so VaR99 >= VaR95 always holds.
type RiskReport struct {
	VaR95        float64
	VaR99        float64
	VaR95Percent float64
	VaR99Percent float64

	MaxDrawdown   float64 // most negative scenario P&L
	WorstScenario string

	Concentrations []Concentration

	// Correlations is nil when fewer than two scenarios were evaluated;
	// CorrelationStatus then carries the insufficient-data marker.
	Correlations      *CorrelationMatrix
	CorrelationStatus string

	// ScenarioPnL / ScenarioPnLPercent feed the alerting layer.
	ScenarioPnL        map[string]float64
	ScenarioPnLPercent map[string]float64

	// Excluded is the union of positions any snapshot sidelined; metrics
	// above were computed without them.
	Excluded []ExcludedPosition
}
