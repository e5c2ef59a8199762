package risk

import (
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/bwmiller/scenrisk/models"
)

// AlertContext carries the externally supplied inputs alerting needs on
// top of a RiskReport: the snapshot itself, its baseline metrics, and
// the per-underlying IV ranks and event annotations owned by upstream
// collaborators.
type AlertContext struct {
	Positions []models.Position
	Metrics   models.PortfolioMetrics
	IVRanks   map[string]float64 // 0-1, per underlying
	Events    []models.EventAnnotation
	Now       time.Time
}

// CheckAlerts evaluates every alert rule against the report and context.
// Checks run in a fixed order so the output is deterministic for a given
// input. No alert blocks evaluation; stale positions were still priced.
func (e *Engine) CheckAlerts(report models.RiskReport, ctx AlertContext) []models.Alert {
	var alerts []models.Alert
	alerts = append(alerts, e.scenarioLossAlerts(report)...)
	alerts = append(alerts, e.concentrationAlerts(report)...)
	alerts = append(alerts, e.earningsAlerts(ctx)...)
	alerts = append(alerts, e.ivExtremeAlerts(ctx)...)
	alerts = append(alerts, e.exposureAlerts(ctx)...)
	alerts = append(alerts, e.staleDataAlerts(ctx)...)

	for _, a := range alerts {
		if a.Severity == models.SeverityHigh || a.Severity == models.SeverityCritical {
			e.log.Warn("risk alert",
				zap.String("type", string(a.Type)),
				zap.String("severity", string(a.Severity)),
				zap.String("message", a.Message))
		}
	}
	return alerts
}

func (e *Engine) scenarioLossAlerts(report models.RiskReport) []models.Alert {
	limit := e.Limits.MaxPortfolioLoss

	names := make([]string, 0, len(report.ScenarioPnLPercent))
	for name := range report.ScenarioPnLPercent {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []models.Alert
	for _, name := range names {
		loss := report.ScenarioPnLPercent[name] / 100
		if loss >= -limit {
			continue
		}
		sev := models.SeverityMedium
		if loss < -limit*1.5 {
			sev = models.SeverityHigh
		}
		out = append(out, models.Alert{
			Type:      models.AlertScenarioLoss,
			Severity:  sev,
			Message:   fmt.Sprintf("scenario %q shows %.1f%% loss (threshold %.1f%%)", name, loss*100, limit*100),
			Value:     loss,
			Threshold: limit,
		})
	}
	return out
}

func (e *Engine) concentrationAlerts(report models.RiskReport) []models.Alert {
	limit := e.Limits.ConcentrationLimit
	var out []models.Alert
	for _, c := range report.Concentrations {
		if c.Weight <= limit {
			continue
		}
		sev := models.SeverityMedium
		if c.Weight > limit*1.5 {
			sev = models.SeverityHigh
		}
		out = append(out, models.Alert{
			Type:      models.AlertConcentration,
			Severity:  sev,
			Message:   fmt.Sprintf("position %s is %.1f%% of portfolio (threshold %.1f%%)", c.Symbol, c.Weight*100, limit*100),
			Symbol:    c.Symbol,
			Value:     c.Weight,
			Threshold: limit,
		})
	}
	return out
}

// earningsAlerts flags options whose underlying reports earnings before
// the contract expires.
func (e *Engine) earningsAlerts(ctx AlertContext) []models.Alert {
	var out []models.Alert
	for i := range ctx.Positions {
		pos := &ctx.Positions[i]
		if !pos.IsOption() || !pos.IsOpen() {
			continue
		}
		for _, ev := range ctx.Events {
			if ev.Kind != "earnings" || ev.Symbol != pos.UnderlyingSymbol() {
				continue
			}
			if ev.Date.After(ctx.Now) && ev.Date.Before(pos.Expiration) {
				out = append(out, models.Alert{
					Type:     models.AlertEarningsRisk,
					Severity: models.SeverityMedium,
					Message: fmt.Sprintf("%s: %s earnings on %s fall before expiration %s",
						pos.Symbol, ev.Symbol, ev.Date.Format("2006-01-02"), pos.Expiration.Format("2006-01-02")),
					Symbol: pos.Symbol,
				})
			}
		}
	}
	return out
}

func (e *Engine) ivExtremeAlerts(ctx AlertContext) []models.Alert {
	var out []models.Alert
	for i := range ctx.Positions {
		pos := &ctx.Positions[i]
		if !pos.IsOption() || !pos.IsOpen() {
			continue
		}
		rank, ok := ctx.IVRanks[pos.UnderlyingSymbol()]
		if !ok {
			continue
		}
		switch {
		case rank > e.Limits.IVRankHigh:
			out = append(out, models.Alert{
				Type:      models.AlertHighIV,
				Severity:  models.SeverityLow,
				Message:   fmt.Sprintf("%s IV rank %.2f above %.2f", pos.Symbol, rank, e.Limits.IVRankHigh),
				Symbol:    pos.Symbol,
				Value:     rank,
				Threshold: e.Limits.IVRankHigh,
			})
		case rank < e.Limits.IVRankLow:
			out = append(out, models.Alert{
				Type:      models.AlertLowIV,
				Severity:  models.SeverityLow,
				Message:   fmt.Sprintf("%s IV rank %.2f below %.2f", pos.Symbol, rank, e.Limits.IVRankLow),
				Symbol:    pos.Symbol,
				Value:     rank,
				Threshold: e.Limits.IVRankLow,
			})
		}
	}
	return out
}

func (e *Engine) exposureAlerts(ctx AlertContext) []models.Alert {
	var out []models.Alert
	vega := ctx.Metrics.Greeks.Vega
	gamma := ctx.Metrics.Greeks.Gamma

	if math.Abs(vega) > e.Limits.VegaLimit {
		out = append(out, models.Alert{
			Type:      models.AlertVegaExposure,
			Severity:  models.SeverityMedium,
			Message:   fmt.Sprintf("aggregate vega %.0f exceeds limit %.0f", math.Abs(vega), e.Limits.VegaLimit),
			Value:     math.Abs(vega),
			Threshold: e.Limits.VegaLimit,
		})
	}
	if math.Abs(gamma) > e.Limits.GammaLimit {
		out = append(out, models.Alert{
			Type:      models.AlertGammaExposure,
			Severity:  models.SeverityMedium,
			Message:   fmt.Sprintf("aggregate gamma %.2f exceeds limit %.2f", math.Abs(gamma), e.Limits.GammaLimit),
			Value:     math.Abs(gamma),
			Threshold: e.Limits.GammaLimit,
		})
	}
	if gamma < e.Limits.ShortGammaLimit {
		out = append(out, models.Alert{
			Type:      models.AlertShortGamma,
			Severity:  models.SeverityHigh,
			Message:   fmt.Sprintf("portfolio is short gamma: %.2f (limit %.2f)", gamma, e.Limits.ShortGammaLimit),
			Value:     gamma,
			Threshold: e.Limits.ShortGammaLimit,
		})
	}
	return out
}

// staleDataAlerts signals positions whose feed data aged past the
// staleness window. Signal only: the positions were still priced from
// their last-known values.
func (e *Engine) staleDataAlerts(ctx AlertContext) []models.Alert {
	var out []models.Alert
	for i := range ctx.Positions {
		pos := &ctx.Positions[i]
		if !pos.IsOpen() || pos.LastUpdate.IsZero() {
			continue
		}
		age := ctx.Now.Sub(pos.LastUpdate)
		if age <= e.Limits.StalenessWindow {
			continue
		}
		warn := models.StaleDataWarning{Symbol: pos.Symbol, Age: age}
		out = append(out, models.Alert{
			Type:      models.AlertStaleData,
			Severity:  models.SeverityLow,
			Message:   warn.Error(),
			Symbol:    pos.Symbol,
			Value:     age.Seconds(),
			Threshold: e.Limits.StalenessWindow.Seconds(),
		})
	}
	return out
}
