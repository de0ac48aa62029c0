package backlight

import (
	"math"
	"testing"
	"time"

	"github.com/hiohiohio/backlight/timeseries"
	"github.com/shopspring/decimal"
)

func TestCalculatePL(t *testing.T) {
	positions := fixturePositions(t)
	pl := CalculatePL(positions)

	// One point shorter than the value series: the first period has no P&L.
	if pl.Len() != positions.Value().Len()-1 {
		t.Fatalf("CalculatePL().Len() = %v want %v", pl.Len(), positions.Value().Len()-1)
	}
	if first, _ := pl.First(); !first.Equal(testStart.Add(day)) {
		t.Errorf("CalculatePL() starts at %v want %v", first, testStart.Add(day))
	}
	for i, want := range []float64{1, -1, 0, 2, -2, 0, 1, 1, 0} {
		if _, v := pl.At(i); !v.Equal(dec(want)) {
			t.Errorf("CalculatePL()[%d] = %v want %v", i, v, want)
		}
	}
}

func TestTradeAmount(t *testing.T) {
	positions := fixturePositions(t)
	if got := TradeAmount(positions.Amount()); !got.Equal(dec(14)) {
		t.Errorf("TradeAmount() = %v want 14", got)
	}
}

func TestCalculateDrawdown(t *testing.T) {
	positions := fixturePositions(t)
	dd := CalculateDrawdown(positions)

	// One point longer than the value series: a virtual zero baseline is
	// prepended one period before the first real timestamp.
	if dd.Len() != positions.Value().Len()+1 {
		t.Fatalf("CalculateDrawdown().Len() = %v want %v", dd.Len(), positions.Value().Len()+1)
	}
	first, v := dd.First()
	if !first.Equal(testStart.Add(-day)) {
		t.Errorf("baseline at %v want %v", first, testStart.Add(-day))
	}
	if !v.IsZero() {
		t.Errorf("baseline drawdown = %v want 0", v)
	}

	want := []float64{0, 0, 0, 1, 1, 0, 2, 2, 1, 0, 0}
	for i := range want {
		if _, got := dd.At(i); !got.Equal(dec(want[i])) {
			t.Errorf("CalculateDrawdown()[%d] = %v want %v", i, got, want[i])
		}
	}

	// Drawdown is non-negative everywhere.
	for ts, got := range dd.Values() {
		if got.IsNegative() {
			t.Errorf("CalculateDrawdown() negative at %v: %v", ts, got)
		}
	}
}

func TestCalculateSharpe(t *testing.T) {
	positions := fixturePositions(t)

	// pl = [1,-1,0,2,-2,0,1,1,0]: mean 2/9, population std sqrt(104)/9.
	want := (2.0 / 9.0) / (math.Sqrt(104.0) / 9.0) * math.Sqrt(252.0)
	got := CalculateSharpe(positions, day)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("CalculateSharpe() = %v want %v", got, want)
	}
}

func TestCalculateSharpeZeroVariance(t *testing.T) {
	amount := series(day, 0, 0, 0)
	price := series(day, 1, 1, 1)
	principal := series(day, 5, 5, 5)
	positions, err := NewPositions("USDJPY", JPY, amount, price, principal)
	if err != nil {
		t.Fatalf("NewPositions() error = %v", err)
	}

	if got := CalculateSharpe(positions, day); !math.IsNaN(got) {
		t.Errorf("CalculateSharpe() of flat equity = %v want NaN", got)
	}
}

// The calendar is an injected convention: doubling the trading days per year
// scales the Sharpe ratio by sqrt(2).
func TestCalculateSharpeWithCalendar(t *testing.T) {
	positions := fixturePositions(t)

	base := CalculateSharpeWithCalendar(positions, day, Calendar{TradingDaysPerYear: 252})
	doubled := CalculateSharpeWithCalendar(positions, day, Calendar{TradingDaysPerYear: 504})
	if math.Abs(doubled-base*math.Sqrt2) > 1e-12 {
		t.Errorf("Sharpe with doubled calendar = %v want %v", doubled, base*math.Sqrt2)
	}
}

func TestCalculatePositionPerformance(t *testing.T) {
	positions := fixturePositions(t)
	perf := CalculatePositionPerformance(positions, day)

	if !perf.TotalPL.Equal(dec(2)) {
		t.Errorf("TotalPL = %v want 2", perf.TotalPL)
	}
	if !perf.TotalWinPL.Equal(dec(5)) {
		t.Errorf("TotalWinPL = %v want 5", perf.TotalWinPL)
	}
	if !perf.TotalLosePL.Equal(dec(-3)) {
		t.Errorf("TotalLosePL = %v want -3", perf.TotalLosePL)
	}
	if !perf.TradeVolume.Equal(dec(14)) {
		t.Errorf("TradeVolume = %v want 14", perf.TradeVolume)
	}
	if want := dec(2).Div(dec(14)); !perf.AvgPLPerAmount.Equal(want) {
		t.Errorf("AvgPLPerAmount = %v want %v", perf.AvgPLPerAmount, want)
	}
	if want := CalculateSharpe(positions, day); perf.Sharpe != want {
		t.Errorf("Sharpe = %v want %v", perf.Sharpe, want)
	}
}

func TestCalculatePortfolioPerformance(t *testing.T) {
	trades, markets := portfolioFixture(t)
	portfolio, err := ConstructPortfolio(trades, markets,
		map[string]decimal.Decimal{"USDJPY": dec(10), "EURJPY": dec(10)},
		map[string]decimal.Decimal{"USDJPY": dec(2), "EURJPY": dec(2)},
		USD)
	if err != nil {
		t.Fatalf("ConstructPortfolio() error = %v", err)
	}

	perf := CalculatePortfolioPerformance(portfolio, time.Minute)

	// Volume aggregates over members: USDJPY |4|+|-2|+|0|+|-2| = 8 plus
	// EURJPY |0|+|2|+|0|+|-2| = 4.
	if !perf.TradeVolume.Equal(dec(12)) {
		t.Errorf("TradeVolume = %v want 12", perf.TradeVolume)
	}
	// Flat prices: the equity curve never moves.
	if !perf.TotalPL.IsZero() {
		t.Errorf("TotalPL = %v want 0", perf.TotalPL)
	}
	if !math.IsNaN(perf.Sharpe) {
		t.Errorf("Sharpe of a flat equity curve = %v want NaN", perf.Sharpe)
	}
}

func TestPerformanceNoTrades(t *testing.T) {
	trades, err := MakeTrades("USDJPY", nil, JPY)
	if err != nil {
		t.Fatalf("MakeTrades() error = %v", err)
	}
	positions, err := CalculatePositions(trades, fixtureMarket(t), dec(100))
	if err != nil {
		t.Fatalf("CalculatePositions() error = %v", err)
	}

	perf := CalculatePositionPerformance(positions, day)
	if !perf.TradeVolume.IsZero() {
		t.Errorf("TradeVolume = %v want 0", perf.TradeVolume)
	}
	if !perf.AvgPLPerAmount.IsZero() {
		t.Errorf("AvgPLPerAmount = %v want 0", perf.AvgPLPerAmount)
	}
	if !math.IsNaN(perf.Sharpe) {
		t.Errorf("Sharpe = %v want NaN", perf.Sharpe)
	}
}

func TestCalculateDrawdownEmpty(t *testing.T) {
	empty := &staticValuer{value: new(timeseries.Series)}
	if dd := CalculateDrawdown(empty); dd.Len() != 0 {
		t.Errorf("CalculateDrawdown() of empty value has %v points want 0", dd.Len())
	}
}

type staticValuer struct{ value *timeseries.Series }

func (s *staticValuer) Value() *timeseries.Series { return s.value }
