package wealth

import (
	"context"
	"errors"

	"github.com/etnz/wealth/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// d is a helper for test to create a date from a const.
func d(s string) date.Date { return date.MustParse(s) }

// dec is a helper for test to create a decimal from a const.
func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// rowsEqual compares row sequences using HistoryRow.Equal.
var rowsEqual = cmp.Comparer(func(a, b HistoryRow) bool { return a.Equal(b) })

// fakePrices serves closing prices from memory, keyed by symbol then date.
type fakePrices struct {
	closes map[string]map[string]string
	err    error
	calls  int
}

func newFakePrices(symbol string, closes map[string]string) *fakePrices {
	return &fakePrices{closes: map[string]map[string]string{symbol: closes}}
}

func (f *fakePrices) Series(_ context.Context, symbol string, from, to date.Date) (*Prices, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var h Prices
	for on, v := range f.closes[symbol] {
		h.Append(d(on), dec(v))
	}
	return h.Between(date.NewRange(from, to)), nil
}

// memStore is a HistoryStore that keeps rows in memory.
type memStore struct {
	rows     map[string][]HistoryRow
	readErr  error
	writeErr error
	writes   int
}

func (m *memStore) Read(_ context.Context, key string) ([]HistoryRow, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return append([]HistoryRow(nil), m.rows[key]...), nil
}

func (m *memStore) Write(_ context.Context, key string, rows []HistoryRow) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	if m.rows == nil {
		m.rows = make(map[string][]HistoryRow)
	}
	m.rows[key] = append([]HistoryRow(nil), rows...)
	m.writes++
	return nil
}

// fakeSource is a SnapshotSource with fixed content.
type fakeSource struct {
	agg      Aggregate
	txs      []Transaction
	holdings []Holding
	err      error
}

func (f *fakeSource) Aggregate(context.Context) (Aggregate, error) { return f.agg, f.err }
func (f *fakeSource) Transactions(context.Context) ([]Transaction, error) {
	return f.txs, f.err
}
func (f *fakeSource) Holdings(context.Context) ([]Holding, error) { return f.holdings, f.err }

var errBoom = errors.New("boom")
