package risk

import (
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/bwmiller/scenrisk/models"
)

// Limits carries every configurable risk threshold. Defaults document
// the values; nothing below is hardcoded anywhere else.
type Limits struct {
	MaxPortfolioLoss   float64 // scenario loss alert, fraction of portfolio
	ConcentrationLimit float64 // single-position share of notional
	VegaLimit          float64
	GammaLimit         float64
	ShortGammaLimit    float64 // alert when aggregate gamma is below this
	IVRankHigh         float64
	IVRankLow          float64
	StalenessWindow    time.Duration

	VaRConfidenceLow  float64 // reported as VaR95
	VaRConfidenceHigh float64 // reported as VaR99
}

func DefaultLimits() Limits {
	return Limits{
		MaxPortfolioLoss:   0.15,
		ConcentrationLimit: 0.25,
		VegaLimit:          10000,
		GammaLimit:         5000,
		ShortGammaLimit:    -1000,
		IVRankHigh:         0.80,
		IVRankLow:          0.20,
		StalenessWindow:    60 * time.Second,
		VaRConfidenceLow:   0.95,
		VaRConfidenceHigh:  0.99,
	}
}

// Engine derives risk metrics and alerts from scenario snapshots.
type Engine struct {
	Limits Limits
	log    *zap.Logger
}

func NewEngine(limits Limits, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{Limits: limits, log: log}
}

// ComputeMetrics builds a RiskReport from one pass worth of scenario
// snapshots. The scenario P&L outcomes are treated as an empirical
// distribution; VaR interpolates linearly between order statistics.
func (e *Engine) ComputeMetrics(positions []models.Position, snapshots map[string]models.PortfolioSnapshot) (models.RiskReport, error) {
	if len(snapshots) == 0 {
		return models.RiskReport{}, &models.InsufficientDataError{What: "risk metrics", Need: 1, Have: 0}
	}

	names := make([]string, 0, len(snapshots))
	for name := range snapshots {
		names = append(names, name)
	}
	sort.Strings(names)

	report := models.RiskReport{
		ScenarioPnL:        make(map[string]float64, len(names)),
		ScenarioPnLPercent: make(map[string]float64, len(names)),
	}

	pnls := make([]float64, 0, len(names))
	worst := math.Inf(1)
	for _, name := range names {
		snap := snapshots[name]
		pnls = append(pnls, snap.PnL)
		report.ScenarioPnL[name] = snap.PnL
		report.ScenarioPnLPercent[name] = snap.PnLPercent
		if snap.PnL < worst {
			worst = snap.PnL
			report.WorstScenario = name
		}
	}
	report.MaxDrawdown = worst

	sorted := append([]float64(nil), pnls...)
	sort.Float64s(sorted)
	report.VaR95 = -stat.Quantile(1-e.Limits.VaRConfidenceLow, stat.LinInterp, sorted, nil)
	report.VaR99 = -stat.Quantile(1-e.Limits.VaRConfidenceHigh, stat.LinInterp, sorted, nil)

	base := snapshots[names[0]].CurrentValue
	if base != 0 {
		report.VaR95Percent = report.VaR95 / math.Abs(base) * 100
		report.VaR99Percent = report.VaR99 / math.Abs(base) * 100
	}

	report.Concentrations = concentrations(positions)
	report.Correlations, report.CorrelationStatus = e.correlations(names, snapshots)
	report.Excluded = mergeExcluded(names, snapshots)

	return report, nil
}

// concentrations returns every open position's share of total absolute
// notional, largest first.
func concentrations(positions []models.Position) []models.Concentration {
	var total float64
	for i := range positions {
		if positions[i].IsOpen() {
			total += math.Abs(positions[i].Value())
		}
	}
	if total == 0 {
		return nil
	}

	out := make([]models.Concentration, 0, len(positions))
	for i := range positions {
		pos := &positions[i]
		if !pos.IsOpen() {
			continue
		}
		v := pos.Value()
		out = append(out, models.Concentration{
			Symbol:   pos.Symbol,
			Weight:   math.Abs(v) / total,
			Notional: v,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

// correlations builds the Pearson matrix over per-position scenario P&L
// vectors. With fewer than two scenarios the matrix is undefined and is
// reported as insufficient data, never silently zeroed.
func (e *Engine) correlations(names []string, snapshots map[string]models.PortfolioSnapshot) (*models.CorrelationMatrix, string) {
	if len(names) < 2 {
		return nil, "insufficient data: correlation requires at least 2 scenarios"
	}

	// Only positions that survived every scenario have full vectors.
	counts := make(map[string]int)
	vectors := make(map[string][]float64)
	for _, name := range names {
		for _, r := range snapshots[name].Results {
			counts[r.Symbol]++
			vectors[r.Symbol] = append(vectors[r.Symbol], r.PnL)
		}
	}

	symbols := make([]string, 0, len(vectors))
	for sym, c := range counts {
		if c == len(names) {
			symbols = append(symbols, sym)
		}
	}
	sort.Strings(symbols)
	if len(symbols) == 0 {
		return nil, "insufficient data: no position evaluated in every scenario"
	}

	matrix := make([][]float64, len(symbols))
	for i, si := range symbols {
		matrix[i] = make([]float64, len(symbols))
		for j, sj := range symbols {
			if i == j {
				matrix[i][j] = 1
				continue
			}
			matrix[i][j] = stat.Correlation(vectors[si], vectors[sj], nil)
		}
	}
	return &models.CorrelationMatrix{Symbols: symbols, Values: matrix}, "ok"
}

func mergeExcluded(names []string, snapshots map[string]models.PortfolioSnapshot) []models.ExcludedPosition {
	seen := make(map[models.ExcludedPosition]bool)
	var out []models.ExcludedPosition
	for _, name := range names {
		for _, ex := range snapshots[name].Excluded {
			if !seen[ex] {
				seen[ex] = true
				out = append(out, ex)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// IVRankFromHistory places the current IV inside its historical range,
// returning both rank (min/max scaled) and percentile, each in [0, 1].
func IVRankFromHistory(currentIV float64, history []float64) (rank, percentile float64, err error) {
	if len(history) == 0 {
		return 0, 0, &models.InsufficientDataError{What: "IV rank", Need: 1, Have: 0}
	}

	min, max := history[0], history[0]
	below := 0
	for _, iv := range history {
		if iv < min {
			min = iv
		}
		if iv > max {
			max = iv
		}
		if iv < currentIV {
			below++
		}
	}

	if max > min {
		rank = (currentIV - min) / (max - min)
	} else {
		rank = 0.5
	}
	percentile = float64(below) / float64(len(history))
	return rank, percentile, nil
}
