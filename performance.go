package wealth

import (
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/wealth/date"
	"github.com/shopspring/decimal"
)

// ComparisonPoint compares the portfolio and the benchmark on a date,
// in percent of change since the first row of the history.
//
// A nil field means the change is undefined because its base is zero.
type ComparisonPoint struct {
	Date      date.Date
	My        *Percent // change of the portfolio value
	Benchmark *Percent // change of the benchmark replay value
	Cost      *Percent // change of the cost basis, i.e. new money invested
}

// Comparison returns the percentage changes of the history since its first row.
//
// Series whose first value is zero are left undefined and reported with an
// error matching ErrEmptyDenominator; the points are returned anyway.
func Comparison(rows []HistoryRow) ([]ComparisonPoint, error) {
	rows = normalize(rows)
	if len(rows) == 0 {
		return nil, nil
	}
	first := rows[0]
	var empty []string
	for name, base := range map[string]decimal.Decimal{"my_value": first.MyValue, "benchmark_value": first.BenchmarkValue, "my_cost": first.MyCost} {
		if base.IsZero() {
			empty = append(empty, name)
		}
	}

	change := func(from, to decimal.Decimal) *Percent {
		p, err := PercentChange(from, to)
		if err != nil {
			return nil
		}
		return &p
	}

	points := make([]ComparisonPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, ComparisonPoint{
			Date:      r.Date,
			My:        change(first.MyValue, r.MyValue),
			Benchmark: change(first.BenchmarkValue, r.BenchmarkValue),
			Cost:      change(first.MyCost, r.MyCost),
		})
	}
	if len(empty) > 0 {
		slices.Sort(empty)
		return points, fmt.Errorf("%w: zero %s on %s", ErrEmptyDenominator, strings.Join(empty, ", "), first.Date)
	}
	return points, nil
}
