package backlight

import (
	"fmt"

	"github.com/hiohiohio/backlight/timeseries"
	"github.com/shopspring/decimal"
)

// Positions is the running accounting series of one symbol: position size,
// market mid price and cash principal share a single time index.
//
// The principal column is the running cash balance attributable to the
// position: negative of the cumulative cost of acquiring it. It is purely
// derived from trade cash flow; the principal configuration value passed at
// construction is retained for reporting only and never folded into the
// running column.
type Positions struct {
	symbol string
	unit   Currency

	amount    *timeseries.Series // running position size
	price     *timeseries.Series // market mid
	principal *timeseries.Series // running cash balance

	principalConf decimal.Decimal // configured notional, pass-through
}

// NewPositions wraps pre-computed amount/price/principal columns into a
// Positions value. The three series must share the exact same time index.
func NewPositions(symbol string, unit Currency, amount, price, principal *timeseries.Series) (*Positions, error) {
	if symbol == "" {
		return nil, fmt.Errorf("positions require a symbol")
	}
	if _, err := ParseCurrency(string(unit)); err != nil {
		return nil, fmt.Errorf("positions %q: %w", symbol, err)
	}
	if amount.Len() != price.Len() || amount.Len() != principal.Len() {
		return nil, fmt.Errorf("positions %q: columns have different lengths %d/%d/%d",
			symbol, amount.Len(), price.Len(), principal.Len())
	}
	for i := 0; i < amount.Len(); i++ {
		ta, _ := amount.At(i)
		tp, _ := price.At(i)
		tc, _ := principal.At(i)
		if !ta.Equal(tp) || !ta.Equal(tc) {
			return nil, fmt.Errorf("positions %q: columns disagree on index at %v", symbol, ta)
		}
	}
	return &Positions{
		symbol:    symbol,
		unit:      unit,
		amount:    amount.Clone(),
		price:     price.Clone(),
		principal: principal.Clone(),
	}, nil
}

// CalculatePositions aligns the trades onto the market index and derives the
// running position columns:
//
//	amount    = cumulative sum of net trade quantities
//	price     = market mid
//	principal = -cumulative sum of (trade quantity x price)
//
// Every trade timestamp must be present in the market index; a trade outside
// it is a configuration error. Empty trades yield zero-valued positions over
// the market index, not an error.
func CalculatePositions(trades *Trades, market *MarketData, principal decimal.Decimal) (*Positions, error) {
	if trades.Symbol() != market.Symbol() {
		return nil, fmt.Errorf("positions: trades symbol %q does not match market symbol %q",
			trades.Symbol(), market.Symbol())
	}

	mid := market.Mid()
	index := mid.Stamps()

	executed := trades.Amount()
	for ts := range executed.Values() {
		if _, ok := mid.Get(ts); !ok {
			return nil, fmt.Errorf("positions %q: trade at %v is outside the market index", trades.Symbol(), ts)
		}
	}

	// Net trade quantity at every market timestamp, zero where no trade occurred.
	quantity := executed.Reindex(index, decimal.Zero)

	amount := quantity.CumSum()

	cash := new(timeseries.Series)
	flow := decimal.Zero
	for ts, q := range quantity.Values() {
		p, _ := mid.Get(ts)
		flow = flow.Sub(q.Mul(p))
		cash.Append(ts, flow)
	}

	return &Positions{
		symbol:        trades.Symbol(),
		unit:          trades.CurrencyUnit(),
		amount:        amount,
		price:         mid,
		principal:     cash,
		principalConf: principal,
	}, nil
}

// Symbol returns the symbol the positions belong to.
func (p *Positions) Symbol() string { return p.symbol }

// CurrencyUnit returns the currency of the price and principal columns.
func (p *Positions) CurrencyUnit() Currency { return p.unit }

// Amount returns a copy of the running position size column.
func (p *Positions) Amount() *timeseries.Series { return p.amount.Clone() }

// Price returns a copy of the market mid column.
func (p *Positions) Price() *timeseries.Series { return p.price.Clone() }

// Principal returns a copy of the running cash balance column.
func (p *Positions) Principal() *timeseries.Series { return p.principal.Clone() }

// PrincipalConfig returns the notional capital configured for the symbol.
func (p *Positions) PrincipalConfig() decimal.Decimal { return p.principalConf }

// Value returns the mark-to-market equity series:
//
//	value = amount x price + principal
func (p *Positions) Value() *timeseries.Series {
	value := new(timeseries.Series)
	for i := 0; i < p.amount.Len(); i++ {
		ts, a := p.amount.At(i)
		_, pr := p.price.At(i)
		_, c := p.principal.At(i)
		value.Append(ts, a.Mul(pr).Add(c))
	}
	return value
}

// scale returns a copy of p with the amount and principal columns multiplied
// by the lot-size k. The price column is a market quote and stays unscaled.
func (p *Positions) scale(k decimal.Decimal) *Positions {
	return &Positions{
		symbol:        p.symbol,
		unit:          p.unit,
		amount:        p.amount.Scale(k),
		price:         p.price.Clone(),
		principal:     p.principal.Scale(k),
		principalConf: p.principalConf,
	}
}
