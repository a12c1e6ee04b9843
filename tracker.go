package wealth

import (
	"context"
	"fmt"

	"github.com/etnz/wealth/date"
	"github.com/rs/zerolog"
)

// DefaultKey is the name of the history table, after the Portfolio_Hx worksheet.
const DefaultKey = "Portfolio_Hx"

// Tracker records the real portfolio and its benchmark replay into a HistoryStore.
//
// A Tracker holds no state between calls, everything lives in the Store.
// It does not protect against concurrent updates of the same key.
type Tracker struct {
	Benchmark string // benchmark symbol, e.g. "SPY"
	Currency  string // currency of the buy log, defaults to DefaultCurrency
	Key       string // history table name, defaults to DefaultKey

	Prices PriceSource
	Source SnapshotSource
	Store  HistoryStore

	Today func() date.Date // defaults to date.Today
	Log   zerolog.Logger
}

func (t *Tracker) key() string {
	if t.Key == "" {
		return DefaultKey
	}
	return t.Key
}

func (t *Tracker) today() date.Date {
	if t.Today == nil {
		return date.Today()
	}
	return t.Today()
}

// History returns the persisted history.
func (t *Tracker) History(ctx context.Context) ([]HistoryRow, error) {
	rows, err := t.Store.Read(ctx, t.key())
	if err != nil {
		return nil, SourceError("history "+t.key(), err)
	}
	return normalize(rows), nil
}

// Update records today's portfolio into the history, recomputes the
// benchmark replay and persists the whole table.
//
// Nothing is written unless every read and the whole recomputation succeed.
func (t *Tracker) Update(ctx context.Context) ([]HistoryRow, error) {
	today := t.today()
	log := t.Log.With().Str("benchmark", t.Benchmark).Str("key", t.key()).Stringer("today", today).Logger()

	agg, err := t.Source.Aggregate(ctx)
	if err != nil {
		return nil, SourceError("portfolio snapshot", err)
	}
	txs, err := t.Source.Transactions(ctx)
	if err != nil {
		return nil, SourceError("transaction log", err)
	}
	prior, err := t.Store.Read(ctx, t.key())
	if err != nil {
		return nil, SourceError("history "+t.key(), err)
	}
	log.Debug().Int("transactions", len(txs)).Int("prior_rows", len(prior)).Msg("recomputing history")

	res, err := Recompute(ctx, t.Prices, Input{
		Today:        today,
		Benchmark:    t.Benchmark,
		Currency:     t.Currency,
		Cost:         agg.Cost,
		Value:        agg.Value,
		Transactions: txs,
		Prior:        prior,
	})
	if err != nil {
		log.Warn().Err(err).Msg("history left unchanged")
		return nil, err
	}

	if err := t.Store.Write(ctx, t.key(), res.Rows); err != nil {
		log.Warn().Err(err).Msg("history left unchanged")
		return nil, fmt.Errorf("writing history %s: %w", t.key(), err)
	}
	last := res.Rows[len(res.Rows)-1]
	log.Info().
		Stringer("mode", res.Mode).
		Int("rows", len(res.Rows)).
		Stringer("my_value", last.MyValue).
		Stringer("benchmark_value", last.BenchmarkValue).
		Msg("history updated")
	return res.Rows, nil
}
