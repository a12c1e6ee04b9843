package wealth

import (
	"context"
	"fmt"
	"slices"

	"github.com/etnz/wealth/date"
	"github.com/shopspring/decimal"
)

// Mode is the branch taken by Recompute.
type Mode int

const (
	// ModeSeed is used when the history was empty: today's row becomes the seed.
	ModeSeed Mode = iota
	// ModeReplay is used when a seed exists: every later row is replayed.
	ModeReplay
)

func (m Mode) String() string {
	switch m {
	case ModeSeed:
		return "seed"
	case ModeReplay:
		return "replay"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Input holds the state of the real portfolio as of Today.
type Input struct {
	Today        date.Date
	Benchmark    string // benchmark symbol, as known by the PriceSource
	Currency     string // currency of amounts, used for rounding; defaults to DefaultCurrency
	Cost         decimal.Decimal
	Value        decimal.Decimal
	Transactions []Transaction // buys only, de-duplicated by the caller
	Prior        []HistoryRow  // previously persisted history, any order
}

// Result is the recomputed history to persist.
type Result struct {
	Mode Mode
	Rows []HistoryRow // ascending, one per date
}

// Recompute upserts today's row into the prior history and re-derives the
// benchmark columns.
//
// When the history is empty, today's row becomes the seed: it buys as many
// benchmark shares as the current portfolio value allows at the latest close.
//
// Otherwise every row after the seed is recomputed from scratch: the seed
// shares plus, for every transaction strictly after the seed date and on or
// before the row date, the shares that amount bought at the as-of close of
// the transaction date. A back-dated transaction therefore corrects every
// later row. The seed row is never modified.
//
// Benchmark shares keep the full division precision, replayed benchmark values
// are rounded to the currency minor unit. Identical inputs give identical rows.
//
// A missing benchmark price fails the whole computation with a *PriceError.
func Recompute(ctx context.Context, prices PriceSource, in Input) (Result, error) {
	if in.Currency == "" {
		in.Currency = DefaultCurrency
	}

	rows := normalize(in.Prior)
	rows = slices.DeleteFunc(rows, func(r HistoryRow) bool { return r.Date == in.Today })

	today := HistoryRow{
		Date:    in.Today,
		MyCost:  in.Cost,
		MyValue: in.Value,
	}

	if len(rows) == 0 {
		price, err := PriceAsOf(ctx, prices, in.Benchmark, in.Today)
		if err != nil {
			return Result{}, err
		}
		today.BenchmarkShares = in.Value.Div(price)
		today.BenchmarkValue = in.Value
		return Result{Mode: ModeSeed, Rows: []HistoryRow{today}}, nil
	}

	seed := rows[0]
	if in.Today.Before(seed.Date) {
		return Result{}, fmt.Errorf("today %s is before the first history row %s", in.Today, seed.Date)
	}
	// Rows dated after today, written with a skewed clock, keep their place.
	rows = normalize(append(rows, today))
	last := rows[len(rows)-1].Date

	// Contributions made on or before the seed date are part of the seed value.
	var contributions []Transaction
	for _, tx := range in.Transactions {
		if tx.Date.After(seed.Date) {
			contributions = append(contributions, tx)
		}
	}
	slices.SortStableFunc(contributions, func(a, b Transaction) int { return a.Date.Compare(b.Date) })

	series, err := prices.Series(ctx, in.Benchmark, seed.Date.Add(-Lookback), last)
	if err != nil {
		return Result{}, SourceError("prices of "+in.Benchmark, err)
	}

	added := decimal.Zero // shares bought by contributions up to the current row.
	next := 0             // next contribution to account for.
	for i := 1; i < len(rows); i++ {
		row := &rows[i]
		for next < len(contributions) && !contributions[next].Date.After(row.Date) {
			tx := contributions[next]
			price, err := priceAsOf(series, in.Benchmark, tx.Date)
			if err != nil {
				return Result{}, fmt.Errorf("replaying the %s buy of %s: %w", tx.Date, tx.Amount, err)
			}
			added = added.Add(tx.Amount.Div(price))
			next++
		}

		price, err := priceAsOf(series, in.Benchmark, row.Date)
		if err != nil {
			return Result{}, fmt.Errorf("valuing the %s row: %w", row.Date, err)
		}
		row.BenchmarkShares = seed.BenchmarkShares.Add(added)
		row.BenchmarkValue = RoundMoney(row.BenchmarkShares.Mul(price), in.Currency)
	}
	return Result{Mode: ModeReplay, Rows: rows}, nil
}

// normalize returns a copy of rows sorted by date with one row per date.
// When a date appears twice, the last row wins.
func normalize(rows []HistoryRow) []HistoryRow {
	var h date.History[HistoryRow]
	for _, r := range rows {
		h.Append(r.Date, r)
	}
	res := make([]HistoryRow, 0, h.Len())
	for _, r := range h.Values() {
		res = append(res, r)
	}
	return res
}
