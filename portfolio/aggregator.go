package portfolio

import (
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/shirou/gopsutil/cpu"
	"go.uber.org/zap"

	"github.com/bwmiller/scenrisk/models"
	"github.com/bwmiller/scenrisk/pricing"
	"github.com/bwmiller/scenrisk/scenario"
)

// Aggregator applies scenarios to a position snapshot. It holds only
// immutable configuration, so one Aggregator may serve concurrent
// evaluations as long as each call gets its own snapshot.
type Aggregator struct {
	RiskFreeRate   float64
	DividendYields map[string]float64 // per underlying, refreshed daily upstream

	Pricer  *pricing.Pricer
	IVModel scenario.BetaModel

	// Progress, when set, is called once per completed scenario during
	// EvaluateAll. Used by the CLI to drive its progress bar.
	Progress func(name string)

	log *zap.Logger
}

func New(riskFreeRate float64, yields map[string]float64, p *pricing.Pricer, m scenario.BetaModel, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	if p == nil {
		p = pricing.New(0)
	}
	return &Aggregator{
		RiskFreeRate:   riskFreeRate,
		DividendYields: yields,
		Pricer:         p,
		IVModel:        m,
		log:            log,
	}
}

// Evaluate reprices the whole snapshot under one scenario. All options
// go through the pricer in a single batch; a position that fails
// validation or pricing is sidelined with a diagnostic and the rest of
// the portfolio still evaluates.
func (a *Aggregator) Evaluate(positions []models.Position, sc models.ScenarioParameters, now time.Time) (models.PortfolioSnapshot, error) {
	if err := sc.Validate(); err != nil {
		return models.PortfolioSnapshot{}, err
	}

	snap := models.PortfolioSnapshot{ScenarioName: sc.Name, AsOf: now}

	var batch pricing.Batch
	var optPositions []*models.Position
	var optIVs []float64

	for i := range positions {
		pos := &positions[i]
		if !pos.IsOpen() {
			continue
		}
		if err := pos.Validate(); err != nil {
			snap.Excluded = append(snap.Excluded, models.ExcludedPosition{Symbol: pos.Symbol, Reason: err.Error()})
			a.log.Warn("position excluded from scenario",
				zap.String("scenario", sc.Name),
				zap.String("symbol", pos.Symbol),
				zap.Error(err))
			continue
		}

		shock := sc.SpotShockFor(pos.UnderlyingSymbol())

		if !pos.IsOption() {
			newPrice := pos.CurrentPrice * (1 + shock)
			cur := pos.Value()
			val := newPrice * pos.Quantity
			r := models.ScenarioResult{
				Symbol:        pos.Symbol,
				Kind:          pos.Kind,
				CurrentValue:  cur,
				ScenarioValue: val,
				PnL:           val - cur,
				NewPrice:      newPrice,
				Greeks:        models.Greeks{Delta: 1},
			}
			if cur != 0 {
				r.PnLPercent = r.PnL / cur * 100
			}
			snap.Results = append(snap.Results, r)
			snap.CurrentValue += cur
			snap.ScenarioValue += val
			snap.StockValue += val
			snap.Greeks.Delta += pos.Quantity
			continue
		}

		newDTE := pos.DTE(now) - sc.DaysForward
		if newDTE < 0 {
			newDTE = 0
		}
		newSpot := pos.UnderlyingPrice * (1 + shock)
		div := a.DividendYields[pos.UnderlyingSymbol()]
		newIV := a.IVModel.ShiftIV(pos.ImpliedVolatility, newSpot, pos.Strike, pos.OptionType, newDTE, sc.IVShock)
		american := pos.AmericanStyle || pricing.EarlyExerciseRelevant(pos.OptionType, newSpot, pos.Strike, div)

		batch.Append(newSpot, pos.Strike, float64(newDTE)/365, a.RiskFreeRate, div, newIV, pos.OptionType, american)
		optPositions = append(optPositions, pos)
		optIVs = append(optIVs, newIV)
	}

	priced, err := a.Pricer.Price(batch)
	if err != nil {
		return models.PortfolioSnapshot{}, err
	}

	for k, pos := range optPositions {
		if perr := priced.Errs[k]; perr != nil {
			snap.Excluded = append(snap.Excluded, models.ExcludedPosition{Symbol: pos.Symbol, Reason: perr.Error()})
			a.log.Warn("option excluded from scenario batch",
				zap.String("scenario", sc.Name),
				zap.String("symbol", pos.Symbol),
				zap.Error(perr))
			continue
		}

		mult := pos.Multiplier()
		cur := pos.Value()
		val := priced.Price[k] * pos.Quantity * mult
		r := models.ScenarioResult{
			Symbol:        pos.Symbol,
			Kind:          pos.Kind,
			CurrentValue:  cur,
			ScenarioValue: val,
			PnL:           val - cur,
			NewPrice:      priced.Price[k],
			NewIV:         optIVs[k],
			Greeks: models.Greeks{
				Delta: priced.Delta[k],
				Gamma: priced.Gamma[k],
				Theta: priced.Theta[k],
				Vega:  priced.Vega[k],
				Rho:   priced.Rho[k],
			},
		}
		if cur != 0 {
			r.PnLPercent = r.PnL / cur * 100
		}
		if sc.DaysForward > 0 {
			r.ThetaDriftEstimate = pos.Greeks.Theta * float64(sc.DaysForward) * pos.Quantity * mult
			snap.ThetaCrossCheck += r.ThetaDriftEstimate
		}

		snap.Results = append(snap.Results, r)
		snap.CurrentValue += cur
		snap.ScenarioValue += val
		snap.OptionValue += val
		snap.Greeks.Delta += priced.Delta[k] * pos.Quantity * mult
		snap.Greeks.Gamma += priced.Gamma[k] * pos.Quantity * mult
		snap.Greeks.Theta += priced.Theta[k] * pos.Quantity * mult
		snap.Greeks.Vega += priced.Vega[k] * pos.Quantity * mult
		snap.Greeks.Rho += priced.Rho[k] * pos.Quantity * mult
	}

	snap.PnL = snap.ScenarioValue - snap.CurrentValue
	if snap.CurrentValue != 0 {
		snap.PnLPercent = snap.PnL / snap.CurrentValue * 100
	}

	sort.Slice(snap.Results, func(i, j int) bool {
		if snap.Results[i].PnL != snap.Results[j].PnL {
			return snap.Results[i].PnL < snap.Results[j].PnL
		}
		return snap.Results[i].Symbol < snap.Results[j].Symbol
	})
	if len(snap.Results) > 0 {
		snap.Worst = &snap.Results[0]
		snap.Best = &snap.Results[len(snap.Results)-1]
	}
	return snap, nil
}

// EvaluateAll runs every scenario against the same immutable snapshot,
// in parallel across available cores. One scenario stays one pricing
// batch; scenarios have no ordering dependency between them.
func (a *Aggregator) EvaluateAll(positions []models.Position, scenarios []models.ScenarioParameters, now time.Time) map[string]models.PortfolioSnapshot {
	out := make(map[string]models.PortfolioSnapshot, len(scenarios))
	jobs := make(chan models.ScenarioParameters)

	var wg sync.WaitGroup
	var mu sync.Mutex

	workers := a.workerCount(len(scenarios))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sc := range jobs {
				snap, err := a.Evaluate(positions, sc, now)
				if err != nil {
					a.log.Warn("scenario skipped", zap.String("scenario", sc.Name), zap.Error(err))
				} else {
					mu.Lock()
					out[sc.Name] = snap
					mu.Unlock()
				}
				if a.Progress != nil {
					a.Progress(sc.Name)
				}
			}
		}()
	}

	for _, sc := range scenarios {
		jobs <- sc
	}
	close(jobs)
	wg.Wait()

	return out
}

func (a *Aggregator) workerCount(jobs int) int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		n = runtime.NumCPU()
	}
	if n > jobs {
		n = jobs
	}
	if n < 1 {
		n = 1
	}
	return n
}

// CurrentMetrics sums the unshocked snapshot: total/stock/option value
// and quantity-scaled Greeks from the feed. The alerting layer reads
// these baselines.
func CurrentMetrics(positions []models.Position) models.PortfolioMetrics {
	var m models.PortfolioMetrics
	for i := range positions {
		pos := &positions[i]
		if !pos.IsOpen() {
			continue
		}
		m.NumPositions++
		v := pos.Value()
		m.TotalValue += v
		if pos.IsOption() {
			m.NumOptionPositions++
			m.OptionValue += v
			scale := pos.Quantity * pos.Multiplier()
			m.Greeks.Delta += pos.Greeks.Delta * scale
			m.Greeks.Gamma += pos.Greeks.Gamma * scale
			m.Greeks.Theta += pos.Greeks.Theta * scale
			m.Greeks.Vega += pos.Greeks.Vega * scale
			m.Greeks.Rho += pos.Greeks.Rho * scale
		} else {
			m.NumStockPositions++
			m.StockValue += v
			m.Greeks.Delta += pos.Quantity
		}
	}
	return m
}
