package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/hiohiohio/backlight"
)

// PerformanceMarkdown renders a performance report as a markdown table.
func PerformanceMarkdown(title string, perf backlight.Performance) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Performance: %s", title))

	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total PL", fmtDec(perf.TotalPL)},
			{"Total Win PL", fmtDec(perf.TotalWinPL)},
			{"Total Lose PL", fmtDec(perf.TotalLosePL)},
			{"Trade Volume", fmtDec(perf.TradeVolume)},
			{"Avg PL per Amount", fmtDec(perf.AvgPLPerAmount)},
			{"Sharpe", fmtFloat(perf.Sharpe)},
		},
	})

	return doc.String()
}
