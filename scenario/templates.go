package scenario

import "github.com/bwmiller/scenrisk/models"

// TemplatesVersion identifies the built-in template table. Bump it when
// any template value changes so downstream reports can tag results.
const TemplatesVersion = 1

// List returns the sixteen built-in scenario templates in catalog order.
// Templates are data, not behavior: each is a fixed (spot, IV policy,
// days) triple.
func List() []models.ScenarioParameters {
	return []models.ScenarioParameters{
		NormalDay(),
		EarningsBeat(),
		EarningsMiss(),
		EarningsInline(),
		MarketPanic(),
		FlashCrash(),
		BlackSwan(),
		FedHawkish(),
		FedDovish(),
		FedNeutral(),
		ShortSqueeze(),
		FOMORally(),
		ReliefRally(),
		OneDayPass(),
		Weekend(),
		OneWeek(),
	}
}

// ByName returns the template with the given name, if any.
func ByName(name string) (models.ScenarioParameters, bool) {
	for _, s := range List() {
		if s.Name == name {
			return s, true
		}
	}
	return models.ScenarioParameters{}, false
}

func NormalDay() models.ScenarioParameters {
	return models.ScenarioParameters{
		Name:        "Normal Day",
		Description: "Baseline - no changes",
		SpotShock:   0,
		IVShock:     models.UniformShock{Change: 0},
		DaysForward: 0,
	}
}

func EarningsBeat() models.ScenarioParameters {
	return models.ScenarioParameters{
		Name:        "Earnings Beat",
		Description: "Stock beats earnings, IV crush",
		SpotShock:   0.05,
		IVShock:     models.DTEShock{Weekly: -0.35, Monthly: -0.15, Quarterly: -0.05, Long: 0},
		DaysForward: 1,
	}
}

func EarningsMiss() models.ScenarioParameters {
	return models.ScenarioParameters{
		Name:        "Earnings Miss",
		Description: "Stock misses earnings, IV crush with drop",
		SpotShock:   -0.08,
		IVShock:     models.DTEShock{Weekly: -0.30, Monthly: -0.10, Quarterly: 0, Long: 0},
		DaysForward: 1,
	}
}

func EarningsInline() models.ScenarioParameters {
	return models.ScenarioParameters{
		Name:        "Earnings Inline",
		Description: "Earnings meet expectations, max IV crush",
		SpotShock:   0,
		IVShock:     models.DTEShock{Weekly: -0.40, Monthly: -0.20, Quarterly: -0.05, Long: 0},
		DaysForward: 1,
	}
}

func MarketPanic() models.ScenarioParameters {
	return models.ScenarioParameters{
		Name:        "Market Panic",
		Description: "Market selloff with volatility spike",
		SpotShock:   -0.05,
		IVShock:     models.MoneynessShock{PutWing: 0.60, ATM: 0.35, CallWing: 0.25},
		DaysForward: 0,
	}
}

func FlashCrash() models.ScenarioParameters {
	return models.ScenarioParameters{
		Name:        "Flash Crash",
		Description: "Severe market drop with extreme vol spike",
		SpotShock:   -0.08,
		IVShock:     models.MoneynessShock{PutWing: 1.00, ATM: 0.50, CallWing: 0.30},
		DaysForward: 0,
	}
}

func BlackSwan() models.ScenarioParameters {
	return models.ScenarioParameters{
		Name:        "Black Swan",
		Description: "Catastrophic event with extreme volatility",
		SpotShock:   -0.20,
		IVShock:     models.MoneynessShock{PutWing: 1.50, ATM: 1.50, CallWing: 1.50},
		DaysForward: 0,
	}
}

func FedHawkish() models.ScenarioParameters {
	return models.ScenarioParameters{
		Name:        "Fed Hawkish",
		Description: "Fed more hawkish than expected",
		SpotShock:   -0.02,
		IVShock:     models.UniformShock{Change: 0.20},
		DaysForward: 0,
	}
}

func FedDovish() models.ScenarioParameters {
	return models.ScenarioParameters{
		Name:        "Fed Dovish",
		Description: "Fed more dovish than expected",
		SpotShock:   0.015,
		IVShock:     models.UniformShock{Change: -0.10},
		DaysForward: 0,
	}
}

func FedNeutral() models.ScenarioParameters {
	return models.ScenarioParameters{
		Name:        "Fed Neutral",
		Description: "Fed meets expectations",
		SpotShock:   0,
		IVShock:     models.UniformShock{Change: -0.05},
		DaysForward: 0,
	}
}

func ShortSqueeze() models.ScenarioParameters {
	return models.ScenarioParameters{
		Name:        "Short Squeeze",
		Description: "Rapid upward move with call IV spike",
		SpotShock:   0.10,
		IVShock:     models.MoneynessShock{PutWing: -0.10, ATM: 0.10, CallWing: 0.30},
		DaysForward: 0,
	}
}

func FOMORally() models.ScenarioParameters {
	return models.ScenarioParameters{
		Name:        "FOMO Rally",
		Description: "Fear of missing out rally",
		SpotShock:   0.05,
		IVShock:     models.MoneynessShock{PutWing: -0.20, ATM: 0.05, CallWing: 0.15},
		DaysForward: 0,
	}
}

func ReliefRally() models.ScenarioParameters {
	return models.ScenarioParameters{
		Name:        "Relief Rally",
		Description: "Relief rally with vol crush",
		SpotShock:   0.03,
		IVShock:     models.UniformShock{Change: -0.15},
		DaysForward: 0,
	}
}

func OneDayPass() models.ScenarioParameters {
	return models.ScenarioParameters{
		Name:        "1 Day Pass",
		Description: "One day of theta decay",
		SpotShock:   0,
		IVShock:     models.DTEShock{Weekly: -0.01, Monthly: -0.01, Quarterly: 0, Long: 0},
		DaysForward: 1,
	}
}

func Weekend() models.ScenarioParameters {
	return models.ScenarioParameters{
		Name:        "Weekend",
		Description: "Weekend theta decay",
		SpotShock:   0,
		IVShock:     models.DTEShock{Weekly: -0.02, Monthly: -0.01, Quarterly: 0, Long: 0},
		DaysForward: 3,
	}
}

func OneWeek() models.ScenarioParameters {
	return models.ScenarioParameters{
		Name:        "1 Week",
		Description: "One week of theta decay",
		SpotShock:   0,
		IVShock:     models.DTEShock{Weekly: -0.05, Monthly: -0.03, Quarterly: -0.01, Long: 0},
		DaysForward: 7,
	}
}
