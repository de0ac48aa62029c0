package backlight

import (
	"errors"
	"fmt"

	"github.com/hiohiohio/backlight/timeseries"
	"github.com/shopspring/decimal"
)

// ErrMissingRate is returned when no supplied market series expresses the
// exchange rate needed to convert a position into the base currency.
var ErrMissingRate = errors.New("no cross-rate market supplied")

// Portfolio is a currency-normalized, lot-scaled, ordered collection of
// positions across symbols, plus the retained per-symbol configuration.
//
// All member positions share the base currency; their time indices may
// differ in span.
type Portfolio struct {
	positions []*Positions
	principal map[string]decimal.Decimal // converted to the base currency
	lotSize   map[string]decimal.Decimal
	base      Currency
}

// ConstructPortfolio builds a portfolio out of one or more trade containers
// per symbol, one market series per symbol, and per-symbol principal and
// lot-size configuration.
//
// Same-symbol trade containers are merged with fresh ids so that distinct
// strategies keep distinct trades. Every traded symbol must have a market
// series, a principal entry and a lot-size entry; positions quoted in a
// currency other than base additionally need a market series expressing the
// cross rate. Any missing piece aborts the whole construction.
func ConstructPortfolio(
	trades []*Trades,
	markets []*MarketData,
	principal map[string]decimal.Decimal,
	lotSize map[string]decimal.Decimal,
	base Currency,
) (*Portfolio, error) {
	if _, err := ParseCurrency(string(base)); err != nil {
		return nil, fmt.Errorf("portfolio: %w", err)
	}
	if len(trades) == 0 {
		return nil, fmt.Errorf("portfolio: no trades supplied")
	}

	marketOf := make(map[string]*MarketData, len(markets))
	for _, m := range markets {
		if _, dup := marketOf[m.Symbol()]; dup {
			return nil, fmt.Errorf("portfolio: duplicate market series for %q", m.Symbol())
		}
		marketOf[m.Symbol()] = m
	}

	// Group trades by symbol, keeping first-appearance order.
	groups := make(map[string][]*Trades)
	var symbols []string
	for _, t := range trades {
		if _, ok := groups[t.Symbol()]; !ok {
			symbols = append(symbols, t.Symbol())
		}
		groups[t.Symbol()] = append(groups[t.Symbol()], t)
	}

	converted := make([]*Positions, 0, len(symbols))
	retained := make(map[string]decimal.Decimal, len(symbols))
	lots := make(map[string]decimal.Decimal, len(symbols))
	for _, symbol := range symbols {
		merged, err := Concat(groups[symbol], true)
		if err != nil {
			return nil, fmt.Errorf("portfolio %q: %w", symbol, err)
		}

		market, ok := marketOf[symbol]
		if !ok {
			return nil, fmt.Errorf("portfolio: no market series supplied for %q", symbol)
		}
		notional, ok := principal[symbol]
		if !ok {
			return nil, fmt.Errorf("portfolio: no principal configured for %q", symbol)
		}
		lot, ok := lotSize[symbol]
		if !ok {
			return nil, fmt.Errorf("portfolio: no lot size configured for %q", symbol)
		}

		pos, err := CalculatePositions(merged, market, notional)
		if err != nil {
			return nil, fmt.Errorf("portfolio: %w", err)
		}
		pos = pos.scale(lot)

		pos, err = convertPositions(pos, base, markets)
		if err != nil {
			return nil, fmt.Errorf("portfolio %q: %w", symbol, err)
		}

		converted = append(converted, pos)
		retained[symbol] = pos.PrincipalConfig()
		lots[symbol] = lot
	}

	fused, err := FusionPositions(converted)
	if err != nil {
		return nil, fmt.Errorf("portfolio: %w", err)
	}

	return &Portfolio{positions: fused, principal: retained, lotSize: lots, base: base}, nil
}

// Positions returns the member positions in symbol first-appearance order.
func (pf *Portfolio) Positions() []*Positions {
	out := make([]*Positions, len(pf.positions))
	copy(out, pf.positions)
	return out
}

// BaseCurrency returns the common currency of all member positions.
func (pf *Portfolio) BaseCurrency() Currency { return pf.base }

// PrincipalConfig returns the configured notional of a symbol, converted to
// the base currency.
func (pf *Portfolio) PrincipalConfig(symbol string) (decimal.Decimal, bool) {
	v, ok := pf.principal[symbol]
	return v, ok
}

// LotSize returns the configured lot size of a symbol.
func (pf *Portfolio) LotSize(symbol string) (decimal.Decimal, bool) {
	v, ok := pf.lotSize[symbol]
	return v, ok
}

// Value returns the portfolio equity curve: the union-and-zero-fill sum of
// every member's mark-to-market value series.
func (pf *Portfolio) Value() *timeseries.Series {
	values := make([]*timeseries.Series, len(pf.positions))
	for i, p := range pf.positions {
		values[i] = p.Value()
	}
	return timeseries.Sum(values...)
}

// FusionPositions combines position streams by symbol: within a symbol group
// every member is reindexed onto the union of the group's timestamps with an
// explicit zero contribution where absent, and the columns are summed
// elementwise. Groups are returned in symbol first-appearance order.
//
// This lets independently constructed streams, e.g. two strategies trading
// the same instrument over overlapping windows, combine into one net
// position without losing either stream outside the overlap.
func FusionPositions(list []*Positions) ([]*Positions, error) {
	groups := make(map[string][]*Positions)
	var symbols []string
	for _, p := range list {
		if _, ok := groups[p.Symbol()]; !ok {
			symbols = append(symbols, p.Symbol())
		}
		groups[p.Symbol()] = append(groups[p.Symbol()], p)
	}

	fused := make([]*Positions, 0, len(symbols))
	for _, symbol := range symbols {
		group := groups[symbol]
		unit := group[0].CurrencyUnit()
		notional := decimal.Zero

		amounts := make([]*timeseries.Series, len(group))
		prices := make([]*timeseries.Series, len(group))
		principals := make([]*timeseries.Series, len(group))
		for i, p := range group {
			if p.CurrencyUnit() != unit {
				return nil, fmt.Errorf("fusion %q: currency mismatch %q != %q",
					symbol, p.CurrencyUnit(), unit)
			}
			amounts[i] = p.Amount()
			prices[i] = p.Price()
			principals[i] = p.Principal()
			notional = notional.Add(p.PrincipalConfig())
		}

		fused = append(fused, &Positions{
			symbol:        symbol,
			unit:          unit,
			amount:        timeseries.Sum(amounts...),
			price:         timeseries.Sum(prices...),
			principal:     timeseries.Sum(principals...),
			principalConf: notional,
		})
	}
	return fused, nil
}

// convertPositions expresses the monetary columns of p in the base currency,
// leaving the amount column untouched. The configured principal is converted
// with the rate at the first position timestamp.
func convertPositions(p *Positions, base Currency, markets []*MarketData) (*Positions, error) {
	if p.CurrencyUnit() == base {
		return p, nil
	}

	rate, invert, err := crossRate(markets, p.CurrencyUnit(), base)
	if err != nil {
		return nil, err
	}

	price := new(timeseries.Series)
	principal := new(timeseries.Series)
	for i := 0; i < p.amount.Len(); i++ {
		ts, _ := p.amount.At(i)
		r, ok := rate.AsOf(ts)
		if !ok || r.IsZero() {
			return nil, fmt.Errorf("cross-rate market does not cover %v", ts)
		}
		factor := r
		if invert {
			factor = decimal.NewFromInt(1).Div(r)
		}
		_, pr := p.price.At(i)
		_, c := p.principal.At(i)
		price.Append(ts, pr.Mul(factor))
		principal.Append(ts, c.Mul(factor))
	}

	notional := p.principalConf
	if p.amount.Len() > 0 {
		first, _ := p.amount.First()
		r, ok := rate.AsOf(first)
		if !ok || r.IsZero() {
			return nil, fmt.Errorf("cross-rate market does not cover %v", first)
		}
		if invert {
			notional = notional.Div(r)
		} else {
			notional = notional.Mul(r)
		}
	}

	return &Positions{
		symbol:        p.symbol,
		unit:          base,
		amount:        p.amount.Clone(),
		price:         price,
		principal:     principal,
		principalConf: notional,
	}, nil
}

// crossRate locates a market series whose symbol expresses the exchange rate
// between two currencies, e.g. a USDJPY mid rate converts JPY principal into
// USD. The rate divides when the symbol is <to><from> and multiplies when it
// is <from><to>.
func crossRate(markets []*MarketData, from, to Currency) (rate *timeseries.Series, invert bool, err error) {
	divide := string(to) + string(from)
	multiply := string(from) + string(to)
	for _, m := range markets {
		switch m.Symbol() {
		case divide:
			return m.Mid(), true, nil
		case multiply:
			return m.Mid(), false, nil
		}
	}
	return nil, false, fmt.Errorf("converting %s to %s: %w", from, to, ErrMissingRate)
}
