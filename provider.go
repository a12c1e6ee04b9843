package wealth

import (
	"context"

	"github.com/etnz/wealth/date"
	"github.com/shopspring/decimal"
)

// Lookback is the number of days fetched before a date to resolve its as-of
// price across week-ends and market holidays.
const Lookback = 7

// PriceSource returns daily closing prices of a security.
type PriceSource interface {
	// Series returns the closing prices of symbol for days in [from, to].
	// Days without trading are simply absent.
	Series(ctx context.Context, symbol string, from, to date.Date) (*Prices, error)
}

// PriceAsOf returns the latest closing price of symbol on or before 'on'.
//
// A missing price is reported as a *PriceError, a provider failure as ErrSourceRead.
func PriceAsOf(ctx context.Context, src PriceSource, symbol string, on date.Date) (decimal.Decimal, error) {
	series, err := src.Series(ctx, symbol, on.Add(-Lookback), on)
	if err != nil {
		return decimal.Zero, SourceError("prices of "+symbol, err)
	}
	return priceAsOf(series, symbol, on)
}

// priceAsOf resolves the as-of price in series, rejecting missing and non positive prices.
func priceAsOf(series *Prices, symbol string, on date.Date) (decimal.Decimal, error) {
	price, ok := series.ValueAsOf(on)
	if !ok || !price.IsPositive() {
		return decimal.Zero, &PriceError{Symbol: symbol, On: on}
	}
	return price, nil
}
