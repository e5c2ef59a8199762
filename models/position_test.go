package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var posNow = time.Date(2026, 8, 28, 16, 0, 0, 0, time.UTC)

func validOption() Position {
	return Position{
		Symbol: "XYZ 100C", Underlying: "XYZ", Kind: KindOption,
		Strike: 100, Expiration: posNow.AddDate(0, 0, 30), OptionType: Call,
		ContractMultiplier: 100, Quantity: 1,
		EntryPrice: 3.50, CurrentPrice: 3.63,
		UnderlyingPrice: 100, ImpliedVolatility: 0.30,
		LastUpdate: posNow,
	}
}

func TestPositionValue(t *testing.T) {
	opt := validOption()
	assert.InDelta(t, 363, opt.Value(), 1e-9)
	assert.InDelta(t, 13, opt.PnL(), 1e-9)

	eq := Position{Symbol: "XYZ", Kind: KindEquity, Quantity: -50, EntryPrice: 110, CurrentPrice: 100}
	assert.InDelta(t, -5000, eq.Value(), 1e-9)
	assert.InDelta(t, 500, eq.PnL(), 1e-9)
	assert.Equal(t, 1.0, eq.Multiplier())
}

func TestDTENeverNegative(t *testing.T) {
	opt := validOption()
	assert.Equal(t, 30, opt.DTE(posNow))
	assert.Equal(t, 0, opt.DTE(posNow.AddDate(0, 0, 45)))

	eq := Position{Symbol: "XYZ", Kind: KindEquity, Quantity: 1}
	assert.Equal(t, 0, eq.DTE(posNow))
}

func TestMoneynessAlwaysBelowOneWhenOTM(t *testing.T) {
	call := validOption()
	assert.Less(t, call.Moneyness(90), 1.0)
	assert.Greater(t, call.Moneyness(110), 1.0)
	assert.True(t, call.IsITM(110))
	assert.False(t, call.IsITM(90))

	put := validOption()
	put.OptionType = Put
	assert.Less(t, put.Moneyness(110), 1.0)
	assert.Greater(t, put.Moneyness(90), 1.0)
	assert.True(t, put.IsITM(90))
}

func TestUnderlyingSymbol(t *testing.T) {
	opt := validOption()
	assert.Equal(t, "XYZ", opt.UnderlyingSymbol())

	eq := Position{Symbol: "ABC", Kind: KindEquity}
	assert.Equal(t, "ABC", eq.UnderlyingSymbol())
}

func TestValidate(t *testing.T) {
	valid := validOption()
	require.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*Position)
		field  string
	}{
		{"empty symbol", func(p *Position) { p.Symbol = "" }, "symbol"},
		{"zero strike", func(p *Position) { p.Strike = 0 }, "strike"},
		{"no expiration", func(p *Position) { p.Expiration = time.Time{} }, "expiration"},
		{"bad type", func(p *Position) { p.OptionType = "straddle" }, "option_type"},
		{"no multiplier", func(p *Position) { p.ContractMultiplier = 0 }, "multiplier"},
		{"negative price", func(p *Position) { p.CurrentPrice = -1 }, "current_price"},
		{"negative iv", func(p *Position) { p.ImpliedVolatility = -0.1 }, "implied_volatility"},
		{"no underlying mark", func(p *Position) { p.UnderlyingPrice = 0 }, "underlying_price"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validOption()
			tc.mutate(&p)
			err := p.Validate()
			var inv *InvalidInputError
			require.ErrorAs(t, err, &inv)
			assert.Equal(t, tc.field, inv.Field)
		})
	}
}
