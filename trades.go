package backlight

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/hiohiohio/backlight/timeseries"
	"github.com/shopspring/decimal"
)

// ErrTradeNotFound is returned when a trade id is absent from a container.
var ErrTradeNotFound = errors.New("trade not found")

// Transaction is a single timestamped signed fill quantity. It is the atomic
// event of the ledger; positive amounts are buys, negative amounts sells.
type Transaction struct {
	Timestamp time.Time
	Amount    decimal.Decimal
}

// MakeTrade collapses an unordered set of transactions into the signed-amount
// series of one trade: same-timestamp transactions are summed, the result is
// sorted by timestamp ascending. An empty input yields an empty series.
func MakeTrade(transactions []Transaction) *timeseries.Series {
	amount := new(timeseries.Series)
	for _, tx := range transactions {
		amount.AppendAdd(tx.Timestamp, tx.Amount)
	}
	return amount
}

// trade is one identified trade inside a Trades container.
type trade struct {
	id     int
	amount *timeseries.Series
}

// start returns the first timestamp of the trade, used for chronological
// ordering of the container. Empty trades sort first.
func (t trade) start() time.Time {
	if t.amount.Len() == 0 {
		return time.Time{}
	}
	ts, _ := t.amount.First()
	return ts
}

// Trades is a symbol- and currency-scoped collection of identified trades.
//
// Containers are immutable once constructed: selection and merge operations
// return new containers and never mutate their inputs.
type Trades struct {
	symbol string
	unit   Currency
	trades []trade // chronological by first timestamp, ties by insertion order
}

// sortTrades orders trades by first timestamp, keeping insertion order for
// equal timestamps.
func sortTrades(trades []trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].start().Before(trades[j].start())
	})
}

// MakeTrades wraps an ordered list of per-trade amount series into a Trades
// container, assigning sequential integer ids starting at 0 in list order.
func MakeTrades(symbol string, amounts []*timeseries.Series, unit Currency) (*Trades, error) {
	if symbol == "" {
		return nil, fmt.Errorf("trades require a symbol")
	}
	if _, err := ParseCurrency(string(unit)); err != nil {
		return nil, fmt.Errorf("trades %q: %w", symbol, err)
	}
	trades := make([]trade, 0, len(amounts))
	for i, amount := range amounts {
		trades = append(trades, trade{id: i, amount: amount.Clone()})
	}
	sortTrades(trades)
	return &Trades{symbol: symbol, unit: unit, trades: trades}, nil
}

// MakeTradesWithIDs builds a Trades container from raw transactions with an
// explicit parallel id grouping. Transactions sharing an id form one trade
// (same-timestamp collapse as MakeTrade); sharing is intentional and allows
// several fills to belong to the same logical trade.
func MakeTradesWithIDs(symbol string, transactions []Transaction, unit Currency, ids []int) (*Trades, error) {
	if len(transactions) != len(ids) {
		return nil, fmt.Errorf("trades %q: %d transactions but %d ids", symbol, len(transactions), len(ids))
	}
	byID := make(map[int]*timeseries.Series)
	var order []int // ids in first-appearance order
	for i, tx := range transactions {
		id := ids[i]
		amount, ok := byID[id]
		if !ok {
			amount = new(timeseries.Series)
			byID[id] = amount
			order = append(order, id)
		}
		amount.AppendAdd(tx.Timestamp, tx.Amount)
	}

	if symbol == "" {
		return nil, fmt.Errorf("trades require a symbol")
	}
	if _, err := ParseCurrency(string(unit)); err != nil {
		return nil, fmt.Errorf("trades %q: %w", symbol, err)
	}
	trades := make([]trade, 0, len(order))
	for _, id := range order {
		trades = append(trades, trade{id: id, amount: byID[id]})
	}
	sortTrades(trades)
	return &Trades{symbol: symbol, unit: unit, trades: trades}, nil
}

// Symbol returns the symbol all trades of the container belong to.
func (t *Trades) Symbol() string { return t.symbol }

// CurrencyUnit returns the currency the trade amounts are denominated in.
func (t *Trades) CurrencyUnit() Currency { return t.unit }

// Len returns the number of trades in the container.
func (t *Trades) Len() int { return len(t.trades) }

// IDs returns the trade ids in time-of-first-appearance order.
func (t *Trades) IDs() []int {
	ids := make([]int, len(t.trades))
	for i, tr := range t.trades {
		ids[i] = tr.id
	}
	return ids
}

// Amount returns the union signed-amount series of all trades. Amounts of
// different trades executed at the same instant are summed.
func (t *Trades) Amount() *timeseries.Series {
	amount := new(timeseries.Series)
	for _, tr := range t.trades {
		for ts, v := range tr.amount.Values() {
			amount.AppendAdd(ts, v)
		}
	}
	return amount
}

// GetTrade returns the amount series of exactly one trade id.
func (t *Trades) GetTrade(id int) (*timeseries.Series, error) {
	for _, tr := range t.trades {
		if tr.id == id {
			return tr.amount.Clone(), nil
		}
	}
	return nil, fmt.Errorf("trades %q id %d: %w", t.symbol, id, ErrTradeNotFound)
}

// GetAny returns the sub-container of every whole trade having at least one
// timestamp satisfying pred. Trades are included or excluded in full, never
// partially.
func (t *Trades) GetAny(pred func(time.Time) bool) *Trades {
	return t.filter(func(tr trade) bool {
		for ts := range tr.amount.Values() {
			if pred(ts) {
				return true
			}
		}
		return false
	})
}

// GetAll returns the sub-container of every whole trade for which every
// timestamp satisfies pred.
func (t *Trades) GetAll(pred func(time.Time) bool) *Trades {
	return t.filter(func(tr trade) bool {
		for ts := range tr.amount.Values() {
			if !pred(ts) {
				return false
			}
		}
		return true
	})
}

func (t *Trades) filter(keep func(trade) bool) *Trades {
	out := &Trades{symbol: t.symbol, unit: t.unit}
	for _, tr := range t.trades {
		if keep(tr) {
			out.trades = append(out.trades, trade{id: tr.id, amount: tr.amount.Clone()})
		}
	}
	return out
}

// Concat merges several same-symbol containers into one.
//
// With refreshID false, ids are shared identity across inputs: amounts of the
// same id are summed elementwise and the result holds the union of distinct
// ids. This mode re-combines partial views of the same logical trade set.
//
// With refreshID true, the first input keeps its ids and every subsequent
// input is remapped onto a fresh sequential range starting right after the
// highest id used so far, so genuinely independent trade sets merge without
// id collisions.
func Concat(list []*Trades, refreshID bool) (*Trades, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("concat requires at least one trades container")
	}
	symbol, unit := list[0].symbol, list[0].unit
	for _, t := range list[1:] {
		if t.symbol != symbol {
			return nil, fmt.Errorf("concat: symbol mismatch %q != %q", t.symbol, symbol)
		}
		if t.unit != unit {
			return nil, fmt.Errorf("concat %q: currency mismatch %q != %q", symbol, t.unit, unit)
		}
	}

	out := &Trades{symbol: symbol, unit: unit}
	if refreshID {
		// Explicit next-free-id bookkeeping avoids collisions when merging
		// more than two sources.
		nextID := 0
		for i, t := range list {
			base := nextID
			for _, tr := range t.trades {
				id := tr.id
				if i > 0 {
					id = base + indexOfID(t.trades, tr.id)
				}
				out.trades = append(out.trades, trade{id: id, amount: tr.amount.Clone()})
				if id >= nextID {
					nextID = id + 1
				}
			}
		}
	} else {
		merged := make(map[int]*timeseries.Series)
		var order []trade
		for _, t := range list {
			for _, tr := range t.trades {
				if amount, ok := merged[tr.id]; ok {
					for ts, v := range tr.amount.Values() {
						amount.AppendAdd(ts, v)
					}
					continue
				}
				amount := tr.amount.Clone()
				merged[tr.id] = amount
				order = append(order, trade{id: tr.id, amount: amount})
			}
		}
		out.trades = order
	}
	sortTrades(out.trades)
	return out, nil
}

// indexOfID returns the rank of id within the container's internal id
// ordering, so remapped ids preserve each input's relative order.
func indexOfID(trades []trade, id int) int {
	rank := 0
	for _, tr := range trades {
		if tr.id < id {
			rank++
		}
	}
	return rank
}
