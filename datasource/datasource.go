// Package datasource loads market mid-price series and raw fills from the
// outside world: CSV and JSONL files, HTTP JSON endpoints, or in-memory
// records. It produces the read-only inputs the accounting engine consumes.
package datasource

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hiohiohio/backlight"
	"github.com/hiohiohio/backlight/timeseries"
	"github.com/shopspring/decimal"
)

// stampFormat is the timestamp format of CSV and JSONL inputs.
const stampFormat = time.RFC3339

// FromRecords builds market data from parallel timestamp and mid slices.
func FromRecords(symbol string, unit backlight.Currency, stamps []time.Time, mids []decimal.Decimal) (*backlight.MarketData, error) {
	if len(stamps) != len(mids) {
		return nil, fmt.Errorf("market %q: %d timestamps but %d mids", symbol, len(stamps), len(mids))
	}
	series := new(timeseries.Series)
	for i, ts := range stamps {
		series.Append(ts, mids[i])
	}
	return backlight.NewMarketData(symbol, unit, series)
}

// DecodeMarketCSV reads a mid-price series from CSV records of the form
//
//	timestamp,mid
//	2018-06-06T00:00:00Z,110.45
//
// A header row is expected and skipped.
func DecodeMarketCSV(r io.Reader, symbol string, unit backlight.Currency) (*backlight.MarketData, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("market %q: reading csv: %w", symbol, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("market %q: empty csv", symbol)
	}

	series := new(timeseries.Series)
	for i, record := range records[1:] {
		ts, err := time.Parse(stampFormat, record[0])
		if err != nil {
			return nil, fmt.Errorf("market %q: row %d: invalid timestamp %q: %w", symbol, i+2, record[0], err)
		}
		mid, err := decimal.NewFromString(record[1])
		if err != nil {
			return nil, fmt.Errorf("market %q: row %d: invalid mid %q: %w", symbol, i+2, record[1], err)
		}
		series.Append(ts, mid)
	}
	return backlight.NewMarketData(symbol, unit, series)
}

// fillLine is the JSONL representation of one raw fill.
type fillLine struct {
	Timestamp string          `json:"timestamp"`
	Amount    decimal.Decimal `json:"amount"`
	ID        int             `json:"id"`
}

// DecodeFillsJSONL decodes raw fills from a stream of JSONL lines of the form
//
//	{"timestamp":"2018-06-06T00:00:00Z","amount":1.5,"id":0}
//
// and returns the transactions with their parallel trade-id grouping, ready
// for backlight.MakeTradesWithIDs. Empty lines are skipped.
func DecodeFillsJSONL(r io.Reader) ([]backlight.Transaction, []int, error) {
	var transactions []backlight.Transaction
	var ids []int

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var fill fillLine
		if err := json.Unmarshal(raw, &fill); err != nil {
			return nil, nil, fmt.Errorf("fills line %d: %w", line, err)
		}
		ts, err := time.Parse(stampFormat, fill.Timestamp)
		if err != nil {
			return nil, nil, fmt.Errorf("fills line %d: invalid timestamp %q: %w", line, fill.Timestamp, err)
		}
		transactions = append(transactions, backlight.Transaction{Timestamp: ts, Amount: fill.Amount})
		ids = append(ids, fill.ID)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading fills: %w", err)
	}
	return transactions, ids, nil
}
