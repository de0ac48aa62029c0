// Package renderer turns accounting results into markdown reports.
package renderer

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// fmtDec renders a decimal for a table cell.
func fmtDec(d decimal.Decimal) string {
	return d.String()
}

// fmtFloat renders metric values, keeping NaN explicit.
func fmtFloat(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
