package renderer

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/etnz/wealth"
	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNotEnoughData is returned when a chart has fewer than two days to draw.
var ErrNotEnoughData = errors.New("not enough data to draw a chart, wait 1-2 days")

var (
	myStyle = chart.Style{
		StrokeColor: drawing.ColorFromHex("2563eb"),
		StrokeWidth: 2.5,
	}
	benchmarkStyle = chart.Style{
		StrokeColor: drawing.ColorFromHex("f97316"),
		StrokeWidth: 2.5,
	}
	costStyle = chart.Style{
		StrokeColor:     drawing.ColorFromHex("9ca3af"),
		StrokeWidth:     1.5,
		StrokeDashArray: []float64{5.0, 3.0},
	}
)

func dateFormatter(v any) string {
	if t, ok := v.(float64); ok {
		return chart.TimeFromFloat64(t).Format("2 Jan 06")
	}
	return ""
}

func render(w io.Writer, title string, yFormatter chart.ValueFormatter, series ...chart.Series) error {
	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis:  chart.XAxis{ValueFormatter: dateFormatter},
		YAxis:  chart.YAxis{ValueFormatter: yFormatter},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}

func float(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// Chart draws the portfolio value, the benchmark value and the cost basis as a PNG.
func Chart(w io.Writer, benchmark string, rows []wealth.HistoryRow) error {
	if len(rows) < 2 {
		return ErrNotEnoughData
	}
	xs := make([]time.Time, len(rows))
	my := make([]float64, len(rows))
	bench := make([]float64, len(rows))
	cost := make([]float64, len(rows))
	for i, r := range rows {
		xs[i] = r.Date.Time()
		my[i] = float(r.MyValue)
		bench[i] = float(r.BenchmarkValue)
		cost[i] = float(r.MyCost)
	}
	money := func(v any) string {
		if f, ok := v.(float64); ok {
			return fmt.Sprintf("%.0f", f)
		}
		return ""
	}
	return render(w, "My Portfolio vs "+benchmark, money,
		chart.TimeSeries{Name: "My Portfolio", Style: myStyle, XValues: xs, YValues: my},
		chart.TimeSeries{Name: benchmark, Style: benchmarkStyle, XValues: xs, YValues: bench},
		chart.TimeSeries{Name: "Cost", Style: costStyle, XValues: xs, YValues: cost},
	)
}

// ComparisonChart draws the percentage changes of the portfolio, the
// benchmark and the cost basis since the first day. Undefined changes are
// drawn as zero.
func ComparisonChart(w io.Writer, benchmark string, points []wealth.ComparisonPoint) error {
	if len(points) < 2 {
		return ErrNotEnoughData
	}
	percent := func(v any) string {
		if f, ok := v.(float64); ok {
			return fmt.Sprintf("%+.1f%%", f)
		}
		return ""
	}
	return render(w, "Change since "+points[0].Date.String(), percent, comparisonSeries(benchmark, points)...)
}

func comparisonSeries(benchmark string, points []wealth.ComparisonPoint) []chart.Series {
	xs := make([]time.Time, len(points))
	my := make([]float64, len(points))
	bench := make([]float64, len(points))
	cost := make([]float64, len(points))
	pct := func(p *wealth.Percent) float64 {
		if p == nil {
			return 0
		}
		return float(p.Decimal)
	}
	for i, p := range points {
		xs[i] = p.Date.Time()
		my[i] = pct(p.My)
		bench[i] = pct(p.Benchmark)
		cost[i] = pct(p.Cost)
	}
	return []chart.Series{
		chart.TimeSeries{Name: "My Portfolio", Style: myStyle, XValues: xs, YValues: my},
		chart.TimeSeries{Name: benchmark, Style: benchmarkStyle, XValues: xs, YValues: bench},
		chart.TimeSeries{Name: "Cost", Style: costStyle, XValues: xs, YValues: cost},
	}
}
