package backlight

import (
	"fmt"
	"time"

	"github.com/hiohiohio/backlight/timeseries"
	"github.com/shopspring/decimal"
)

// MarketData holds the mid-price series of one symbol, tagged with the
// currency the prices are quoted in.
//
// It is a read-only input to the engine: the series must be chronological,
// free of duplicate timestamps (guaranteed by timeseries.Series) and gap-free
// over the range any trades are aligned against. Suppliers are responsible
// for the gap-free property.
type MarketData struct {
	symbol string
	unit   Currency
	mid    *timeseries.Series
}

// NewMarketData returns market data for one symbol.
//
// The mid series is cloned, so later mutations of the argument do not leak
// into the market data.
func NewMarketData(symbol string, unit Currency, mid *timeseries.Series) (*MarketData, error) {
	if symbol == "" {
		return nil, fmt.Errorf("market data requires a symbol")
	}
	if _, err := ParseCurrency(string(unit)); err != nil {
		return nil, fmt.Errorf("market data %q: %w", symbol, err)
	}
	return &MarketData{symbol: symbol, unit: unit, mid: mid.Clone()}, nil
}

// Symbol returns the symbol the prices belong to.
func (m *MarketData) Symbol() string { return m.symbol }

// CurrencyUnit returns the currency the mid prices are quoted in.
func (m *MarketData) CurrencyUnit() Currency { return m.unit }

// Mid returns a copy of the mid-price series.
func (m *MarketData) Mid() *timeseries.Series { return m.mid.Clone() }

// MidAt returns the mid price at exactly t.
func (m *MarketData) MidAt(t time.Time) (decimal.Decimal, bool) { return m.mid.Get(t) }

// MidAsOf returns the mid price at t, or the most recent one before it.
func (m *MarketData) MidAsOf(t time.Time) (decimal.Decimal, bool) { return m.mid.AsOf(t) }
