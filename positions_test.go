package backlight

import (
	"testing"
	"time"

	"github.com/hiohiohio/backlight/timeseries"
)

const day = 24 * time.Hour

func TestCalculatePositions(t *testing.T) {
	positions := fixturePositions(t)

	if positions.Symbol() != "USDJPY" {
		t.Errorf("Symbol() = %q want USDJPY", positions.Symbol())
	}
	if positions.CurrencyUnit() != JPY {
		t.Errorf("CurrencyUnit() = %q want JPY", positions.CurrencyUnit())
	}

	assertSeries(t, "Amount()", positions.Amount(), day, 1, -1, 0, 2, -2, 0, 1, 1, 2, 2)
	assertSeries(t, "Price()", positions.Price(), day, 1, 2, 3, 4, 5, 6, 7, 8, 9, 9)
	assertSeries(t, "Principal()", positions.Principal(), day, -1, 3, 0, -8, 12, 0, -7, -7, -16, -16)

	// The configured principal is retained for reporting, never folded into
	// the running column.
	if !positions.PrincipalConfig().Equal(dec(100)) {
		t.Errorf("PrincipalConfig() = %v want 100", positions.PrincipalConfig())
	}
}

func TestPositionsValue(t *testing.T) {
	positions := fixturePositions(t)
	assertSeries(t, "Value()", positions.Value(), day, 0, 1, 0, 0, 2, 0, 0, 1, 2, 2)
}

// The running amount is exactly the cumulative sum of the net per-timestamp
// trade quantities used to build it.
func TestPositionsAmountIsCumSum(t *testing.T) {
	trades := fixtureTrades(t, day)
	positions := fixturePositions(t)

	index := fixtureMarket(t).Mid().Stamps()
	want := trades.Amount().Reindex(index, dec(0)).CumSum()
	if !positions.Amount().Equal(want) {
		t.Errorf("Amount() is not the cumsum of net trade quantities")
	}
}

func TestCalculatePositionsEmptyTrades(t *testing.T) {
	trades, err := MakeTrades("USDJPY", nil, JPY)
	if err != nil {
		t.Fatalf("MakeTrades() error = %v", err)
	}

	positions, err := CalculatePositions(trades, fixtureMarket(t), dec(100))
	if err != nil {
		t.Fatalf("CalculatePositions() error = %v", err)
	}
	assertSeries(t, "Amount()", positions.Amount(), day, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	assertSeries(t, "Principal()", positions.Principal(), day, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
}

func TestCalculatePositionsErrors(t *testing.T) {
	t.Run("symbol mismatch", func(t *testing.T) {
		market, err := NewMarketData("EURJPY", JPY, series(day, 1, 2))
		if err != nil {
			t.Fatalf("NewMarketData() error = %v", err)
		}
		if _, err := CalculatePositions(fixtureTrades(t, day), market, dec(100)); err == nil {
			t.Errorf("CalculatePositions() with mismatched symbols expected an error")
		}
	})

	t.Run("trade outside market index", func(t *testing.T) {
		// Market covers only the first five days of the ten-day trade set.
		market, err := NewMarketData("USDJPY", JPY, series(day, 1, 2, 3, 4, 5))
		if err != nil {
			t.Fatalf("NewMarketData() error = %v", err)
		}
		if _, err := CalculatePositions(fixtureTrades(t, day), market, dec(100)); err == nil {
			t.Errorf("CalculatePositions() with uncovered trades expected an error")
		}
	})
}

func TestNewPositionsIndexMismatch(t *testing.T) {
	amount := series(day, 1, 2)
	price := series(day, 1, 2)
	principal := new(timeseries.Series)
	principal.Append(testStart, dec(0))
	principal.Append(testStart.Add(time.Hour), dec(0)) // off-index point

	if _, err := NewPositions("USDJPY", JPY, amount, price, principal); err == nil {
		t.Errorf("NewPositions() with disagreeing indices expected an error")
	}
}
