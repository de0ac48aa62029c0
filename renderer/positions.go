package renderer

import (
	"bytes"
	"fmt"
	"time"

	md "github.com/nao1215/markdown"

	"github.com/hiohiohio/backlight"
)

const stampFormat = "2006-01-02 15:04:05"

// PositionsMarkdown renders the full position frame of one symbol. When tail
// is positive only the last tail rows are shown.
func PositionsMarkdown(p *backlight.Positions, tail int) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Positions: %s (%s)", p.Symbol(), p.CurrencyUnit()))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Timestamp", "Amount", "Price", "Principal", "Value"},
	}

	amounts := p.Amount()
	prices := p.Price()
	principals := p.Principal()
	value := p.Value()
	skip := 0
	if tail > 0 && amounts.Len() > tail {
		skip = amounts.Len() - tail
	}
	i := 0
	for ts, amount := range amounts.Values() {
		if i < skip {
			i++
			continue
		}
		_, price := prices.At(i)
		_, principal := principals.At(i)
		_, v := value.At(i)
		table.Rows = append(table.Rows, []string{
			ts.UTC().Format(stampFormat),
			fmtDec(amount),
			fmtDec(price),
			fmtDec(principal),
			fmtDec(v),
		})
		i++
	}
	doc.Table(table)

	return doc.String()
}

// equityRow is one line of a portfolio equity curve.
type equityRow struct {
	Stamp time.Time
	Value string
}

// PortfolioMarkdown renders a portfolio summary: one table of member
// positions and the equity curve in base currency.
func PortfolioMarkdown(pf *backlight.Portfolio, tail int) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio (%s)", pf.BaseCurrency()))

	members := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Symbol", "Principal", "Latest Value"},
	}
	for _, p := range pf.Positions() {
		latest := "n/a"
		if value := p.Value(); value.Len() > 0 {
			_, v := value.Last()
			latest = fmtDec(v)
		}
		members.Rows = append(members.Rows, []string{
			p.Symbol(),
			fmtDec(p.PrincipalConfig()),
			latest,
		})
	}
	doc.Table(members)

	doc.H2("Equity")
	equity := pf.Value()
	var rows []equityRow
	for ts, v := range equity.Values() {
		rows = append(rows, equityRow{Stamp: ts, Value: fmtDec(v)})
	}
	if tail > 0 && len(rows) > tail {
		rows = rows[len(rows)-tail:]
	}
	curve := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Timestamp", "Value"},
	}
	for _, row := range rows {
		curve.Rows = append(curve.Rows, []string{row.Stamp.UTC().Format(stampFormat), row.Value})
	}
	doc.Table(curve)

	return doc.String()
}
