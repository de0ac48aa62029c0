package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/hiohiohio/backlight"
	"github.com/hiohiohio/backlight/renderer"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	tradingDays float64
	perSymbol   bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display a portfolio performance report" }
func (*reportCmd) Usage() string {
	return `bl report [-config <file>] [-trading-days n] [-per-symbol]

  Runs the configured backtest and displays the portfolio performance:
  total profit and loss, win and lose split, trade volume and Sharpe ratio.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.tradingDays, "trading-days", backlight.DefaultCalendar.TradingDaysPerYear, "Trading days per year used to annualize the Sharpe ratio")
	f.BoolVar(&c.perSymbol, "per-symbol", false, "Additionally report each symbol on its own")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	freq, err := cfg.PeriodFrequency()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	pf, err := loadPortfolio(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	calendar := backlight.Calendar{TradingDaysPerYear: c.tradingDays}
	perf := backlight.CalculatePortfolioPerformanceWithCalendar(pf, freq, calendar)
	printMarkdown(renderer.PerformanceMarkdown(fmt.Sprintf("portfolio (%s)", pf.BaseCurrency()), perf))

	if c.perSymbol {
		for _, p := range pf.Positions() {
			perf := backlight.CalculatePositionPerformanceWithCalendar(p, freq, calendar)
			printMarkdown(renderer.PerformanceMarkdown(p.Symbol(), perf))
		}
	}
	return subcommands.ExitSuccess
}
