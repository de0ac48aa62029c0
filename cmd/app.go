// Package cmd implements the CLI application to run backtest reports.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/hiohiohio/backlight"
	"github.com/hiohiohio/backlight/datasource"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&reportCmd{}, "reports")
	c.Register(&positionsCmd{}, "reports")
	c.Register(&tradesCmd{}, "ledger")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "backtest.yaml", "Path to the backtest configuration file")

// mdRenderer renders markdown for the terminal, nil when unavailable.
var mdRenderer *glamour.TermRenderer

func init() {
	var err error
	mdRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		mdRenderer = nil
	}
}

// printMarkdown renders markdown to stdout, falling back to the raw text
// when the terminal renderer is unavailable.
func printMarkdown(md string) {
	if mdRenderer != nil {
		if out, err := mdRenderer.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Println(md)
}

// loadMarkets decodes every configured market CSV file.
func loadMarkets(cfg *Config) ([]*backlight.MarketData, error) {
	markets := make([]*backlight.MarketData, 0, len(cfg.Markets))
	for _, mc := range cfg.Markets {
		unit, err := backlight.ParseCurrency(mc.Currency)
		if err != nil {
			return nil, fmt.Errorf("market %q: %w", mc.Symbol, err)
		}
		f, err := os.Open(mc.CSV)
		if err != nil {
			return nil, fmt.Errorf("market %q: %w", mc.Symbol, err)
		}
		market, err := datasource.DecodeMarketCSV(f, mc.Symbol, unit)
		f.Close()
		if err != nil {
			return nil, err
		}
		markets = append(markets, market)
	}
	return markets, nil
}

// loadStrategies decodes every configured fills file into a trade container.
// The currency of each container follows its market series.
func loadStrategies(cfg *Config, markets []*backlight.MarketData) ([]*backlight.Trades, error) {
	unitOf := make(map[string]backlight.Currency, len(markets))
	for _, m := range markets {
		unitOf[m.Symbol()] = m.CurrencyUnit()
	}

	trades := make([]*backlight.Trades, 0, len(cfg.Strategies))
	for _, sc := range cfg.Strategies {
		unit, ok := unitOf[sc.Symbol]
		if !ok {
			return nil, fmt.Errorf("strategy on %q: no market configured", sc.Symbol)
		}
		f, err := os.Open(sc.Fills)
		if err != nil {
			return nil, fmt.Errorf("strategy on %q: %w", sc.Symbol, err)
		}
		transactions, ids, err := datasource.DecodeFillsJSONL(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("strategy on %q: %w", sc.Symbol, err)
		}
		t, err := backlight.MakeTradesWithIDs(sc.Symbol, transactions, unit, ids)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, nil
}

// loadPortfolio assembles the configured portfolio from its input files.
func loadPortfolio(cfg *Config) (*backlight.Portfolio, error) {
	markets, err := loadMarkets(cfg)
	if err != nil {
		return nil, err
	}
	trades, err := loadStrategies(cfg, markets)
	if err != nil {
		return nil, err
	}
	return backlight.ConstructPortfolio(trades, markets, cfg.Principal, cfg.LotSize, backlight.Currency(cfg.BaseCurrency))
}
