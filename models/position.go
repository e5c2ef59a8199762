package models

import (
	"math"
	"time"
)

type InstrumentKind string

const (
	KindEquity InstrumentKind = "equity"
	KindOption InstrumentKind = "option"
)

type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

type Greeks struct {
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
	Rho   float64
}

// Position is one held instrument inside a snapshot. A snapshot is built
// once per refresh and never mutated during an evaluation pass, so every
// scenario in a pass sees the same baseline.
type Position struct {
	Symbol     string
	Underlying string
	Kind       InstrumentKind

	// Option-only fields.
	Strike             float64
	Expiration         time.Time
	OptionType         OptionType
	ContractMultiplier float64
	AmericanStyle      bool

	Quantity          float64 // signed, negative = short
	EntryPrice        float64
	CurrentPrice      float64
	UnderlyingPrice   float64 // underlying mark, options only
	ImpliedVolatility float64 // 0 = not supplied by the feed
	Greeks            Greeks
	LastUpdate        time.Time
}

func (p *Position) IsOption() bool {
	return p.Kind == KindOption
}

func (p *Position) IsOpen() bool {
	return p.Quantity != 0
}

// Multiplier returns the contract multiplier, 1 for equities.
func (p *Position) Multiplier() float64 {
	if !p.IsOption() {
		return 1
	}
	return p.ContractMultiplier
}

// UnderlyingSymbol returns the symbol exposure is keyed on: the underlying
// for options, the position symbol itself for equities.
func (p *Position) UnderlyingSymbol() string {
	if p.IsOption() && p.Underlying != "" {
		return p.Underlying
	}
	return p.Symbol
}

// Value is the signed market value of the position.
func (p *Position) Value() float64 {
	return p.CurrentPrice * p.Quantity * p.Multiplier()
}

func (p *Position) PnL() float64 {
	return (p.CurrentPrice - p.EntryPrice) * p.Quantity * p.Multiplier()
}

func (p *Position) PnLPercent() float64 {
	if p.EntryPrice == 0 {
		return 0
	}
	return (p.CurrentPrice - p.EntryPrice) / p.EntryPrice * 100
}

// DTE returns calendar days to expiration relative to now, never negative.
func (p *Position) DTE(now time.Time) int {
	if !p.IsOption() {
		return 0
	}
	d := int(p.Expiration.Sub(now).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// Moneyness is spot/strike for calls and strike/spot for puts, so values
// below 1 always mean out-of-the-money.
func (p *Position) Moneyness(spot float64) float64 {
	if !p.IsOption() || p.Strike <= 0 || spot <= 0 {
		return 0
	}
	if p.OptionType == Call {
		return spot / p.Strike
	}
	return p.Strike / spot
}

func (p *Position) IsITM(spot float64) bool {
	if !p.IsOption() {
		return false
	}
	if p.OptionType == Call {
		return spot > p.Strike
	}
	return spot < p.Strike
}

// Validate enforces the snapshot invariants. A position that fails
// validation is excluded from evaluation, not fatal to the pass.
func (p *Position) Validate() error {
	if p.Symbol == "" {
		return &InvalidInputError{Field: "symbol", Reason: "empty"}
	}
	if p.Multiplier() <= 0 {
		return &InvalidInputError{Field: "multiplier", Value: p.Multiplier(), Reason: "must be positive"}
	}
	if p.CurrentPrice < 0 {
		return &InvalidInputError{Field: "current_price", Value: p.CurrentPrice, Reason: "negative price"}
	}
	if p.ImpliedVolatility < 0 {
		return &InvalidInputError{Field: "implied_volatility", Value: p.ImpliedVolatility, Reason: "negative IV"}
	}
	if math.IsNaN(p.CurrentPrice) || math.IsInf(p.CurrentPrice, 0) {
		return &InvalidInputError{Field: "current_price", Value: p.CurrentPrice, Reason: "not finite"}
	}
	if p.IsOption() {
		if p.Strike <= 0 {
			return &InvalidInputError{Field: "strike", Value: p.Strike, Reason: "must be positive for options"}
		}
		if p.Expiration.IsZero() {
			return &InvalidInputError{Field: "expiration", Reason: "missing for option"}
		}
		if p.OptionType != Call && p.OptionType != Put {
			return &InvalidInputError{Field: "option_type", Reason: "must be call or put"}
		}
		if p.UnderlyingPrice <= 0 {
			return &InvalidInputError{Field: "underlying_price", Value: p.UnderlyingPrice, Reason: "must be positive for options"}
		}
	}
	return nil
}
