package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
	"github.com/xhhuango/json"
	"go.uber.org/zap"

	"github.com/bwmiller/scenrisk/config"
	"github.com/bwmiller/scenrisk/models"
	"github.com/bwmiller/scenrisk/portfolio"
	"github.com/bwmiller/scenrisk/pricing"
	"github.com/bwmiller/scenrisk/risk"
	"github.com/bwmiller/scenrisk/scenario"
)

type reportFile struct {
	GeneratedAt      time.Time                           `json:"generated_at"`
	TemplatesVersion int                                 `json:"templates_version"`
	Report           models.RiskReport                   `json:"report"`
	Scenarios        map[string]models.PortfolioSnapshot `json:"scenarios"`
	Alerts           []models.Alert                      `json:"alerts"`
}

func main() {
	configPath := flag.String("config", os.Getenv("SCENRISK_CONFIG"), "path to YAML config")
	positionsPath := flag.String("positions", "", "path to a positions snapshot JSON file")
	outPath := flag.String("out", "scenario_report.json", "output report file")
	flag.Parse()

	// Optional; env vars may also come straight from the shell.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Printf("Error creating logger: %s\n", err.Error())
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("loading config", zap.Error(err))
	}

	now := time.Now()
	positions, err := loadPositions(*positionsPath, now)
	if err != nil {
		logger.Fatal("loading positions", zap.Error(err))
	}
	fmt.Printf("Loaded %d positions\n", len(positions))
	fmt.Printf("Risk-free rate: %.4f\n", cfg.RiskFreeRate)

	scenarios := scenario.List()

	p := mpb.New(mpb.WithWidth(64))
	bar := p.AddBar(int64(len(scenarios)),
		mpb.PrependDecorators(
			decor.Name("Scenarios"),
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
		),
	)

	agg := portfolio.New(cfg.RiskFreeRate, nil, pricing.New(cfg.Pricing.BinomialSteps), cfg.Scenario.BetaModel(), logger)
	agg.Progress = func(string) { bar.Increment() }

	start := time.Now()
	snapshots := agg.EvaluateAll(positions, scenarios, now)
	p.Wait()
	fmt.Printf("Evaluated %d scenarios in %v\n", len(snapshots), time.Since(start))

	engine := risk.NewEngine(cfg.Risk.Limits(), logger)
	report, err := engine.ComputeMetrics(positions, snapshots)
	if err != nil {
		logger.Fatal("computing risk metrics", zap.Error(err))
	}

	alerts := engine.CheckAlerts(report, risk.AlertContext{
		Positions: positions,
		Metrics:   portfolio.CurrentMetrics(positions),
		Now:       now,
	})

	fmt.Printf("VaR95: %.2f  VaR99: %.2f  Max drawdown: %.2f (%s)\n",
		report.VaR95, report.VaR99, report.MaxDrawdown, report.WorstScenario)
	for _, a := range alerts {
		fmt.Printf("[%s] %s: %s\n", a.Severity, a.Type, a.Message)
	}

	out, err := json.Marshal(reportFile{
		GeneratedAt:      now,
		TemplatesVersion: scenario.TemplatesVersion,
		Report:           report,
		Scenarios:        snapshots,
		Alerts:           alerts,
	})
	if err != nil {
		logger.Fatal("marshalling report", zap.Error(err))
	}
	if err := os.WriteFile(*outPath, out, 0644); err != nil {
		logger.Fatal("writing report", zap.Error(err))
	}
	fmt.Printf("Successfully wrote report to %s\n", *outPath)
}

func loadPositions(path string, now time.Time) ([]models.Position, error) {
	if path == "" {
		return samplePortfolio(now), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var positions []models.Position
	if err := json.Unmarshal(raw, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// samplePortfolio is the demo snapshot used when no positions file is
// given: long stock plus a covered call and a protective put.
func samplePortfolio(now time.Time) []models.Position {
	exp := now.AddDate(0, 0, 30)
	return []models.Position{
		{
			Symbol: "SPY", Kind: models.KindEquity,
			Quantity: 100, EntryPrice: 545, CurrentPrice: 560,
			LastUpdate: now,
		},
		{
			Symbol: "SPY 560C", Underlying: "SPY", Kind: models.KindOption,
			Strike: 560, Expiration: exp, OptionType: models.Call, ContractMultiplier: 100,
			Quantity: -1, EntryPrice: 9.80, CurrentPrice: 8.40,
			UnderlyingPrice: 560, ImpliedVolatility: 0.17,
			Greeks:     models.Greeks{Delta: 0.51, Gamma: 0.015, Theta: -0.14, Vega: 0.63, Rho: 0.22},
			LastUpdate: now,
		},
		{
			Symbol: "SPY 530P", Underlying: "SPY", Kind: models.KindOption,
			Strike: 530, Expiration: exp, OptionType: models.Put, ContractMultiplier: 100,
			Quantity: 1, EntryPrice: 3.10, CurrentPrice: 2.60,
			UnderlyingPrice: 560, ImpliedVolatility: 0.21,
			Greeks:     models.Greeks{Delta: -0.16, Gamma: 0.009, Theta: -0.09, Vega: 0.38, Rho: -0.07},
			LastUpdate: now,
		},
	}
}
