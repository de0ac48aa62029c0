// Package backlight provides a trade-ledger and portfolio accounting engine
// for backtesting trading strategies. It turns raw fill events into
// identified trades, converts trades plus market mid-price series into
// time-indexed position records, fuses positions across strategies, symbols
// and currencies into a unified portfolio, and derives standard performance
// statistics.
//
// The core functionalities include:
//   - Trade Ledger: grouping raw transactions into identified trades with
//     merge and selection operations (Trades, MakeTrade, Concat).
//   - Position Engine: deriving running size, market price and cash
//     principal series from a trade set and a market series
//     (CalculatePositions).
//   - Portfolio Engine: fusing same-symbol position streams, applying
//     lot-size scaling and currency normalization across instruments
//     (ConstructPortfolio, FusionPositions).
//   - Metrics: P&L, drawdown, Sharpe ratio and win/lose decomposition over
//     anything that exposes a mark-to-market value series.
//
// Every operation is a pure transformation over immutable inputs producing
// new values; the engine is safe to run many instances in parallel. This
// package serves as the foundational logic for the `bl` command-line tool.
package backlight
