package backlight

import (
	"testing"
	"time"
)

func TestNewMarketData(t *testing.T) {
	mid := series(time.Minute, 1, 2, 3)

	t.Run("valid", func(t *testing.T) {
		market, err := NewMarketData("USDJPY", JPY, mid)
		if err != nil {
			t.Fatalf("NewMarketData() error = %v", err)
		}
		if market.Symbol() != "USDJPY" {
			t.Errorf("Symbol() = %q want USDJPY", market.Symbol())
		}
		if market.CurrencyUnit() != JPY {
			t.Errorf("CurrencyUnit() = %q want JPY", market.CurrencyUnit())
		}
		if v, ok := market.MidAt(testStart.Add(time.Minute)); !ok || !v.Equal(dec(2)) {
			t.Errorf("MidAt() = %v, %v want 2, true", v, ok)
		}
		if v, ok := market.MidAsOf(testStart.Add(90 * time.Second)); !ok || !v.Equal(dec(2)) {
			t.Errorf("MidAsOf() = %v, %v want 2, true", v, ok)
		}
	})

	t.Run("missing symbol", func(t *testing.T) {
		if _, err := NewMarketData("", JPY, mid); err == nil {
			t.Errorf("NewMarketData() without symbol expected an error")
		}
	})

	t.Run("unknown currency", func(t *testing.T) {
		if _, err := NewMarketData("USDJPY", Currency("???"), mid); err == nil {
			t.Errorf("NewMarketData() with unknown currency expected an error")
		}
	})
}

// Market data is read-only: mutating the series passed in or returned does
// not affect the market.
func TestMarketDataIsolation(t *testing.T) {
	mid := series(time.Minute, 1, 2, 3)
	market, err := NewMarketData("USDJPY", JPY, mid)
	if err != nil {
		t.Fatalf("NewMarketData() error = %v", err)
	}

	mid.Append(testStart, dec(99))
	market.Mid().Append(testStart, dec(42))

	if v, _ := market.MidAt(testStart); !v.Equal(dec(1)) {
		t.Errorf("MidAt() = %v want 1 after external mutation", v)
	}
}
