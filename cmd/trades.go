package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	md "github.com/nao1215/markdown"

	"github.com/hiohiohio/backlight"
)

// tradesCmd holds the flags for the 'trades' subcommand.
type tradesCmd struct{}

func (*tradesCmd) Name() string     { return "trades" }
func (*tradesCmd) Synopsis() string { return "list the configured strategies and their trades" }
func (*tradesCmd) Usage() string {
	return `bl trades [-config <file>]

  Lists every configured strategy with its trade count and traded volume.
`
}

func (*tradesCmd) SetFlags(f *flag.FlagSet) {}

func (c *tradesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	markets, err := loadMarkets(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	trades, err := loadStrategies(cfg, markets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Strategies")
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Symbol", "Currency", "Trades", "Volume"},
	}
	for _, t := range trades {
		table.Rows = append(table.Rows, []string{
			t.Symbol(),
			string(t.CurrencyUnit()),
			fmt.Sprintf("%d", t.Len()),
			backlight.TradeAmount(t.Amount().CumSum()).String(),
		})
	}
	doc.Table(table)
	printMarkdown(doc.String())
	return subcommands.ExitSuccess
}
