package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/bwmiller/scenrisk/risk"
	"github.com/bwmiller/scenrisk/scenario"
)

// Config collects every tunable of the engine. All values are
// overridable from a YAML file; Default documents the shipped values.
type Config struct {
	RiskFreeRate float64        `mapstructure:"risk_free_rate"`
	Scenario     ScenarioConfig `mapstructure:"scenario"`
	Pricing      PricingConfig  `mapstructure:"pricing"`
	Risk         RiskConfig     `mapstructure:"risk"`
}

type ScenarioConfig struct {
	DefaultIV       float64 `mapstructure:"default_iv"`
	IVFloor         float64 `mapstructure:"iv_floor"`
	IVCap           float64 `mapstructure:"iv_cap"`
	BetaComposition bool    `mapstructure:"beta_composition"`
	ATMBandLow      float64 `mapstructure:"atm_band_low"`
	ATMBandHigh     float64 `mapstructure:"atm_band_high"`
	PutWingBeta     float64 `mapstructure:"put_wing_beta"`
	ATMBeta         float64 `mapstructure:"atm_beta"`
	CallWingBeta    float64 `mapstructure:"call_wing_beta"`
	WeeklyBeta      float64 `mapstructure:"weekly_beta"`
	MonthlyBeta     float64 `mapstructure:"monthly_beta"`
	QuarterlyBeta   float64 `mapstructure:"quarterly_beta"`
	LongBeta        float64 `mapstructure:"long_beta"`
}

type PricingConfig struct {
	BinomialSteps int `mapstructure:"binomial_steps"`
}

type RiskConfig struct {
	MaxPortfolioLoss   float64 `mapstructure:"max_portfolio_loss"`
	ConcentrationLimit float64 `mapstructure:"position_concentration"`
	VegaLimit          float64 `mapstructure:"vega_limit"`
	GammaLimit         float64 `mapstructure:"gamma_limit"`
	ShortGammaLimit    float64 `mapstructure:"short_gamma_limit"`
	IVRankHigh         float64 `mapstructure:"iv_rank_high"`
	IVRankLow          float64 `mapstructure:"iv_rank_low"`
	StalenessSeconds   int     `mapstructure:"max_data_age_seconds"`
	VaRConfidenceLow   float64 `mapstructure:"var_confidence_low"`
	VaRConfidenceHigh  float64 `mapstructure:"var_confidence_high"`
}

// Load reads configuration from the given YAML file on top of the
// documented defaults. An empty path returns the defaults untouched.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Default returns the documented defaults without touching the
// filesystem.
func Default() Config {
	c, _ := Load("")
	return c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("risk_free_rate", 0.05)

	v.SetDefault("scenario.default_iv", 0.30)
	v.SetDefault("scenario.iv_floor", 0.01)
	v.SetDefault("scenario.iv_cap", 3.0)
	v.SetDefault("scenario.beta_composition", true)
	v.SetDefault("scenario.atm_band_low", 0.95)
	v.SetDefault("scenario.atm_band_high", 1.05)
	v.SetDefault("scenario.put_wing_beta", 1.3)
	v.SetDefault("scenario.atm_beta", 1.0)
	v.SetDefault("scenario.call_wing_beta", 0.8)
	v.SetDefault("scenario.weekly_beta", 1.5)
	v.SetDefault("scenario.monthly_beta", 1.0)
	v.SetDefault("scenario.quarterly_beta", 0.7)
	v.SetDefault("scenario.long_beta", 0.5)

	v.SetDefault("pricing.binomial_steps", 100)

	v.SetDefault("risk.max_portfolio_loss", 0.15)
	v.SetDefault("risk.position_concentration", 0.25)
	v.SetDefault("risk.vega_limit", 10000.0)
	v.SetDefault("risk.gamma_limit", 5000.0)
	v.SetDefault("risk.short_gamma_limit", -1000.0)
	v.SetDefault("risk.iv_rank_high", 0.80)
	v.SetDefault("risk.iv_rank_low", 0.20)
	v.SetDefault("risk.max_data_age_seconds", 60)
	v.SetDefault("risk.var_confidence_low", 0.95)
	v.SetDefault("risk.var_confidence_high", 0.99)
}

// BetaModel maps the scenario section onto the IV shift model.
func (c ScenarioConfig) BetaModel() scenario.BetaModel {
	return scenario.BetaModel{
		PutWingBeta:   c.PutWingBeta,
		ATMBeta:       c.ATMBeta,
		CallWingBeta:  c.CallWingBeta,
		ATMBandLow:    c.ATMBandLow,
		ATMBandHigh:   c.ATMBandHigh,
		WeeklyBeta:    c.WeeklyBeta,
		MonthlyBeta:   c.MonthlyBeta,
		QuarterlyBeta: c.QuarterlyBeta,
		LongBeta:      c.LongBeta,
		IVFloor:       c.IVFloor,
		IVCap:         c.IVCap,
		Compose:       c.BetaComposition,
		DefaultIV:     c.DefaultIV,
	}
}

// Limits maps the risk section onto the alerting thresholds.
func (c RiskConfig) Limits() risk.Limits {
	return risk.Limits{
		MaxPortfolioLoss:   c.MaxPortfolioLoss,
		ConcentrationLimit: c.ConcentrationLimit,
		VegaLimit:          c.VegaLimit,
		GammaLimit:         c.GammaLimit,
		ShortGammaLimit:    c.ShortGammaLimit,
		IVRankHigh:         c.IVRankHigh,
		IVRankLow:          c.IVRankLow,
		StalenessWindow:    time.Duration(c.StalenessSeconds) * time.Second,
		VaRConfidenceLow:   c.VaRConfidenceLow,
		VaRConfidenceHigh:  c.VaRConfidenceHigh,
	}
}
