package backlight

import (
	"testing"
	"time"

	"github.com/hiohiohio/backlight/timeseries"
	"github.com/shopspring/decimal"
)

var testStart = time.Date(2018, 6, 6, 0, 0, 0, 0, time.UTC)

// dec is a helper for tests to create decimals from const.
func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// series builds a Series with one point per step starting at testStart.
func series(step time.Duration, values ...float64) *timeseries.Series {
	s := new(timeseries.Series)
	for i, v := range values {
		s.Append(testStart.Add(time.Duration(i)*step), dec(v))
	}
	return s
}

// fixtureTrades builds the reference trade set: per-period deltas
// [1,-2,1,2,-4,2,1,0,1,0] paired off into five two-point trades.
func fixtureTrades(t *testing.T, step time.Duration) *Trades {
	t.Helper()
	data := []float64{1, -2, 1, 2, -4, 2, 1, 0, 1, 0}
	var amounts []*timeseries.Series
	for i := 0; i < len(data); i += 2 {
		amount := new(timeseries.Series)
		amount.Append(testStart.Add(time.Duration(i)*step), dec(data[i]))
		amount.Append(testStart.Add(time.Duration(i+1)*step), dec(data[i+1]))
		amounts = append(amounts, amount)
	}
	trades, err := MakeTrades("USDJPY", amounts, JPY)
	if err != nil {
		t.Fatalf("MakeTrades() error = %v", err)
	}
	return trades
}

// fixtureMarket builds the reference market: mids [1..9,9] at daily steps.
func fixtureMarket(t *testing.T) *MarketData {
	t.Helper()
	market, err := NewMarketData("USDJPY", JPY, series(24*time.Hour, 1, 2, 3, 4, 5, 6, 7, 8, 9, 9))
	if err != nil {
		t.Fatalf("NewMarketData() error = %v", err)
	}
	return market
}

// fixturePositions builds the reference positions from the fixture trades
// and market with a configured principal of 100.
func fixturePositions(t *testing.T) *Positions {
	t.Helper()
	positions, err := CalculatePositions(fixtureTrades(t, 24*time.Hour), fixtureMarket(t), dec(100))
	if err != nil {
		t.Fatalf("CalculatePositions() error = %v", err)
	}
	return positions
}

// assertSeries fails the test when got differs from the series built from
// want at the given step.
func assertSeries(t *testing.T, name string, got *timeseries.Series, step time.Duration, want ...float64) {
	t.Helper()
	expected := series(step, want...)
	if !got.Equal(expected) {
		t.Errorf("%s mismatch:\ngot  %v\nwant %v", name, dump(got), dump(expected))
	}
}

func dump(s *timeseries.Series) []string {
	var out []string
	for ts, v := range s.Values() {
		out = append(out, ts.Format("01-02 15:04")+"="+v.String())
	}
	return out
}
