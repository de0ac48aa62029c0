package backlight

import (
	"math"
	"time"

	"github.com/hiohiohio/backlight/timeseries"
	"github.com/shopspring/decimal"
)

// Valuer is anything that exposes a mark-to-market equity series. Both
// single-instrument Positions and the aggregated Portfolio satisfy it, so
// the metrics below apply uniformly to either.
type Valuer interface {
	Value() *timeseries.Series
}

// Calendar injects the trading-calendar convention used to annualize
// statistics. Tests can substitute alternate calendars deterministically.
type Calendar struct {
	// TradingDaysPerYear is the number of trading days in a year.
	TradingDaysPerYear float64
}

// DefaultCalendar is the usual 252 trading-day convention.
var DefaultCalendar = Calendar{TradingDaysPerYear: 252}

// PeriodsPerYear maps a sampling frequency to the number of periods in a
// trading year: a daily series maps to TradingDaysPerYear, finer frequencies
// scale proportionally.
func (c Calendar) PeriodsPerYear(freq time.Duration) float64 {
	return c.TradingDaysPerYear * float64(24*time.Hour) / float64(freq)
}

// CalculatePL returns the period-over-period profit and loss of the value
// series. The first period has no defined P&L, so the result is one point
// shorter than the value series.
func CalculatePL(v Valuer) *timeseries.Series {
	return v.Value().Diff()
}

// CalculateDrawdown returns the running-peak shortfall of the value series,
// with a virtual zero baseline one period before the first real timestamp.
// The result is one point longer than the value series, is non-negative
// everywhere, and is zero at the global maximum.
func CalculateDrawdown(v Valuer) *timeseries.Series {
	value := v.Value()
	dd := new(timeseries.Series)
	if value.Len() == 0 {
		return dd
	}

	first, _ := value.First()
	dd.Append(first.Add(-baselineSpacing(value)), decimal.Zero)

	runningMax := decimal.Zero // virtual baseline value
	for ts, val := range value.Values() {
		if val.GreaterThan(runningMax) {
			runningMax = val
		}
		dd.Append(ts, runningMax.Sub(val))
	}
	return dd
}

// baselineSpacing infers the sampling interval of the series from its first
// two points, falling back to one day for degenerate series.
func baselineSpacing(s *timeseries.Series) time.Duration {
	if s.Len() < 2 {
		return 24 * time.Hour
	}
	t0, _ := s.At(0)
	t1, _ := s.At(1)
	return t1.Sub(t0)
}

// TradeAmount returns the total traded volume of a running position-size
// column: the sum of absolute period-over-period changes, counting the first
// point as a change from a flat position.
func TradeAmount(amount *timeseries.Series) decimal.Decimal {
	total := decimal.Zero
	prev := decimal.Zero
	for _, a := range amount.Values() {
		total = total.Add(a.Sub(prev).Abs())
		prev = a
	}
	return total
}

// CalculateSharpe returns the annualized Sharpe ratio of the P&L series
// under the default 252 trading-day calendar. See
// CalculateSharpeWithCalendar.
func CalculateSharpe(v Valuer, freq time.Duration) float64 {
	return CalculateSharpeWithCalendar(v, freq, DefaultCalendar)
}

// CalculateSharpeWithCalendar returns
//
//	mean(pl) / populationStd(pl) x sqrt(periodsPerYear(freq))
//
// Population standard deviation (divide by N) keeps the annualization stable
// on small samples. A P&L series with zero variance has no defined Sharpe
// ratio and yields NaN rather than an error.
func CalculateSharpeWithCalendar(v Valuer, freq time.Duration, cal Calendar) float64 {
	pl := CalculatePL(v)
	if pl.Len() == 0 {
		return math.NaN()
	}

	var sum float64
	n := float64(pl.Len())
	for _, p := range pl.Values() {
		sum += p.InexactFloat64()
	}
	mean := sum / n

	var varianceSum float64
	for _, p := range pl.Values() {
		diff := p.InexactFloat64() - mean
		varianceSum += diff * diff
	}
	std := math.Sqrt(varianceSum / n)
	if std == 0 {
		return math.NaN()
	}

	return mean / std * math.Sqrt(cal.PeriodsPerYear(freq))
}

// Performance is a one-row report of standard performance statistics.
type Performance struct {
	TotalPL        decimal.Decimal // sum of P&L
	TotalWinPL     decimal.Decimal // sum of positive P&L
	TotalLosePL    decimal.Decimal // sum of negative P&L
	TradeVolume    decimal.Decimal // total traded volume
	AvgPLPerAmount decimal.Decimal // TotalPL / TradeVolume, zero when nothing traded
	Sharpe         float64
}

// CalculatePositionPerformance derives the performance report of a single
// instrument's positions sampled at the given frequency.
func CalculatePositionPerformance(p *Positions, freq time.Duration) Performance {
	return CalculatePositionPerformanceWithCalendar(p, freq, DefaultCalendar)
}

// CalculatePositionPerformanceWithCalendar is CalculatePositionPerformance
// under an explicit trading calendar.
func CalculatePositionPerformanceWithCalendar(p *Positions, freq time.Duration, cal Calendar) Performance {
	return performance(p, TradeAmount(p.Amount()), freq, cal)
}

// CalculatePortfolioPerformance derives the performance report of the fused
// portfolio equity curve. Traded volume aggregates over all member positions.
func CalculatePortfolioPerformance(pf *Portfolio, freq time.Duration) Performance {
	return CalculatePortfolioPerformanceWithCalendar(pf, freq, DefaultCalendar)
}

// CalculatePortfolioPerformanceWithCalendar is CalculatePortfolioPerformance
// under an explicit trading calendar.
func CalculatePortfolioPerformanceWithCalendar(pf *Portfolio, freq time.Duration, cal Calendar) Performance {
	volume := decimal.Zero
	for _, p := range pf.Positions() {
		volume = volume.Add(TradeAmount(p.Amount()))
	}
	return performance(pf, volume, freq, cal)
}

func performance(v Valuer, volume decimal.Decimal, freq time.Duration, cal Calendar) Performance {
	perf := Performance{
		TradeVolume: volume,
		Sharpe:      CalculateSharpeWithCalendar(v, freq, cal),
	}
	for _, p := range CalculatePL(v).Values() {
		perf.TotalPL = perf.TotalPL.Add(p)
		if p.IsPositive() {
			perf.TotalWinPL = perf.TotalWinPL.Add(p)
		}
		if p.IsNegative() {
			perf.TotalLosePL = perf.TotalLosePL.Add(p)
		}
	}
	if !volume.IsZero() {
		perf.AvgPLPerAmount = perf.TotalPL.Div(volume)
	}
	return perf
}
