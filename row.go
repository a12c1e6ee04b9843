package wealth

import (
	"github.com/etnz/wealth/date"
	"github.com/shopspring/decimal"
)

// HistoryRow is the persisted state of one calendar day.
type HistoryRow struct {
	Date            date.Date       `json:"date"`
	MyCost          decimal.Decimal `json:"my_cost"`          // cost basis of the real portfolio
	MyValue         decimal.Decimal `json:"my_value"`         // market value of the real portfolio
	BenchmarkValue  decimal.Decimal `json:"benchmark_value"`  // value had every contribution bought the benchmark
	BenchmarkShares decimal.Decimal `json:"benchmark_shares"` // benchmark shares implied by the replay
}

// Equal reports whether r and s hold exactly the same values.
func (r HistoryRow) Equal(s HistoryRow) bool {
	return r.Date == s.Date &&
		r.MyCost.Equal(s.MyCost) &&
		r.MyValue.Equal(s.MyValue) &&
		r.BenchmarkValue.Equal(s.BenchmarkValue) &&
		r.BenchmarkShares.Equal(s.BenchmarkShares)
}

// Transaction is a real buy: an amount of base currency invested on a date.
type Transaction struct {
	Date   date.Date
	Amount decimal.Decimal
}

// NewTransaction returns a Transaction of amount invested on day.
func NewTransaction(on date.Date, amount decimal.Decimal) Transaction {
	return Transaction{Date: on, Amount: amount}
}

// Aggregate is the current cost and market value of all holdings.
type Aggregate struct {
	Cost  decimal.Decimal
	Value decimal.Decimal
}

// Prices is a series of closing prices.
type Prices = date.History[decimal.Decimal]
