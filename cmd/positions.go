package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/hiohiohio/backlight/renderer"
)

// positionsCmd holds the flags for the 'positions' subcommand.
type positionsCmd struct {
	symbol string
	tail   int
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display the position frame of a symbol" }
func (*positionsCmd) Usage() string {
	return `bl positions [-config <file>] [-s <symbol>] [-n rows]

  Displays the running positions of one symbol in the configured portfolio:
  amount, price, principal and mark-to-market value per timestamp.
  Without -s, displays the portfolio summary and equity curve instead.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol to display. Defaults to the whole portfolio.")
	f.IntVar(&c.tail, "n", 0, "Show only the last n rows, 0 for all")
}

func (c *positionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	pf, err := loadPortfolio(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.symbol == "" {
		printMarkdown(renderer.PortfolioMarkdown(pf, c.tail))
		return subcommands.ExitSuccess
	}

	for _, p := range pf.Positions() {
		if p.Symbol() == c.symbol {
			printMarkdown(renderer.PositionsMarkdown(p, c.tail))
			return subcommands.ExitSuccess
		}
	}
	fmt.Fprintf(os.Stderr, "Error: no positions for symbol %q\n", c.symbol)
	return subcommands.ExitFailure
}
