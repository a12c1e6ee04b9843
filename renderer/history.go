package renderer

import (
	"github.com/etnz/wealth"
	"github.com/etnz/wealth/date"
)

// HistoryReport is the portfolio history compared with its benchmark.
type HistoryReport struct {
	Benchmark string
	Currency  string
	Rows      []wealth.HistoryRow
	Points    []wealth.ComparisonPoint // as returned by wealth.Comparison(Rows)
}

// HistoryLine is one day of the history with its changes since the first day.
type HistoryLine struct {
	wealth.HistoryRow
	My, Benchmark *wealth.Percent
}

// Lines joins rows and points by date, most recent first.
func (r HistoryReport) Lines() []HistoryLine {
	byDate := make(map[date.Date]wealth.ComparisonPoint, len(r.Points))
	for _, p := range r.Points {
		byDate[p.Date] = p
	}
	lines := make([]HistoryLine, 0, len(r.Rows))
	for i := len(r.Rows) - 1; i >= 0; i-- {
		row := r.Rows[i]
		p := byDate[row.Date]
		lines = append(lines, HistoryLine{HistoryRow: row, My: p.My, Benchmark: p.Benchmark})
	}
	return lines
}

// First returns the first row of the history.
func (r HistoryReport) First() wealth.HistoryRow {
	if len(r.Rows) == 0 {
		return wealth.HistoryRow{}
	}
	return r.Rows[0]
}

// Last returns the latest comparison point.
func (r HistoryReport) Last() wealth.ComparisonPoint {
	if len(r.Points) == 0 {
		return wealth.ComparisonPoint{}
	}
	return r.Points[len(r.Points)-1]
}

// Outperformance returns the difference between the portfolio and the
// benchmark changes in percentage points, nil when either is undefined.
func (r HistoryReport) Outperformance() *wealth.Percent {
	last := r.Last()
	if last.My == nil || last.Benchmark == nil {
		return nil
	}
	return &wealth.Percent{Decimal: last.My.Sub(last.Benchmark.Decimal)}
}

// HistoryMarkdown renders the history report as markdown.
func HistoryMarkdown(r HistoryReport) (string, error) {
	if r.Currency == "" {
		r.Currency = wealth.DefaultCurrency
	}
	partials := map[string]string{
		"history_summary": "history_summary.md",
		"history_table":   "history_table.md",
	}
	return renderTemplate("history", "history.md", partials, r.Currency, r)
}
