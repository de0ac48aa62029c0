package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// MarketConfig points to one mid-price CSV file.
type MarketConfig struct {
	Symbol   string `yaml:"symbol"`
	Currency string `yaml:"currency"`
	CSV      string `yaml:"csv"`
}

// StrategyConfig points to one JSONL file of raw fills.
type StrategyConfig struct {
	Symbol string `yaml:"symbol"`
	Fills  string `yaml:"fills"`
}

// Config describes one backtest: where the inputs live and how the portfolio
// is assembled.
type Config struct {
	BaseCurrency string                     `yaml:"base_currency"`
	Frequency    string                     `yaml:"frequency"`
	Markets      []MarketConfig             `yaml:"markets"`
	Strategies   []StrategyConfig           `yaml:"strategies"`
	Principal    map[string]decimal.Decimal `yaml:"principal"`
	LotSize      map[string]decimal.Decimal `yaml:"lot_size"`
}

func (c *Config) Validate() error {
	if c.BaseCurrency == "" {
		return fmt.Errorf("base_currency cannot be empty")
	}
	if len(c.Markets) == 0 {
		return fmt.Errorf("markets cannot be empty")
	}
	if len(c.Strategies) == 0 {
		return fmt.Errorf("strategies cannot be empty")
	}
	for i, m := range c.Markets {
		if m.Symbol == "" || m.Currency == "" || m.CSV == "" {
			return fmt.Errorf("markets[%d]: symbol, currency and csv are all required", i)
		}
	}
	for i, s := range c.Strategies {
		if s.Symbol == "" || s.Fills == "" {
			return fmt.Errorf("strategies[%d]: symbol and fills are required", i)
		}
	}
	if _, err := c.PeriodFrequency(); err != nil {
		return err
	}
	return nil
}

// PeriodFrequency parses the configured sampling frequency, defaulting to
// one day.
func (c *Config) PeriodFrequency() (time.Duration, error) {
	if c.Frequency == "" {
		return 24 * time.Hour, nil
	}
	freq, err := time.ParseDuration(c.Frequency)
	if err != nil {
		return 0, fmt.Errorf("invalid frequency %q: %w", c.Frequency, err)
	}
	if freq <= 0 {
		return 0, fmt.Errorf("frequency must be positive, got %q", c.Frequency)
	}
	return freq, nil
}

// LoadConfig reads and validates a backtest configuration file.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}
