// Package store supplies market mid-price series from a Postgres database.
// It is one implementation of the market-data collaborator the accounting
// engine consumes; the engine itself never touches storage.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hiohiohio/backlight"
	"github.com/hiohiohio/backlight/timeseries"
)

// Global error declarations.
var (
	// ErrNoMids is returned when no mid prices exist for the requested
	// symbol and range.
	ErrNoMids = errors.New("no mid prices found in store")
)

// midRow is one stored mid-price observation.
type midRow struct {
	Stamp time.Time
	Mid   decimal.Decimal
}

// midsRepository abstracts the query layer so the store logic is testable
// without a live database.
type midsRepository interface {
	SelectMids(ctx context.Context, symbol string, start, end time.Time) ([]midRow, error)
}

// MarketStore reads market series out of Postgres.
type MarketStore struct {
	mids midsRepository
	pool *pgxpool.Pool
	log  *zap.Logger
}

// NewMarketStore connects to the database at dbURL, registers decimal
// scanning and verifies connectivity.
func NewMarketStore(ctx context.Context, dbURL string, log *zap.Logger) (*MarketStore, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// Register shopspring decimal scanning on every connection.
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("connected market store", zap.String("database", config.ConnConfig.Database))
	return &MarketStore{mids: &pgxMids{pool: pool}, pool: pool, log: log}, nil
}

// Close releases the underlying connection pool.
func (s *MarketStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// GetMarket reads the mid-price series of one symbol over [start, end] and
// wraps it as market data quoted in unit.
func (s *MarketStore) GetMarket(ctx context.Context, symbol string, unit backlight.Currency, start, end time.Time) (*backlight.MarketData, error) {
	rows, err := s.mids.SelectMids(ctx, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("selecting mids for %q: %w", symbol, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("mids for %q in [%v, %v]: %w", symbol, start, end, ErrNoMids)
	}

	mid := new(timeseries.Series)
	for _, row := range rows {
		mid.Append(row.Stamp, row.Mid)
	}
	s.log.Debug("loaded market series",
		zap.String("symbol", symbol),
		zap.Int("points", mid.Len()))
	return backlight.NewMarketData(symbol, unit, mid)
}

// pgxMids is the Postgres-backed query layer.
type pgxMids struct {
	pool *pgxpool.Pool
}

const selectMidsSQL = `
SELECT stamp, mid
FROM mids
WHERE symbol = $1 AND stamp >= $2 AND stamp <= $3
ORDER BY stamp`

func (q *pgxMids) SelectMids(ctx context.Context, symbol string, start, end time.Time) ([]midRow, error) {
	rows, err := q.pool.Query(ctx, selectMidsSQL, symbol, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []midRow
	for rows.Next() {
		var row midRow
		if err := rows.Scan(&row.Stamp, &row.Mid); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
