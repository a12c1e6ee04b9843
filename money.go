package wealth

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency of the benchmark and of the buy log.
const DefaultCurrency = "USD"

// minorUnits returns the number of decimals of the currency's minor unit.
// Unknown currencies default to 2.
func minorUnits(currency string) int32 {
	if cur := money.GetCurrency(currency); cur != nil {
		return int32(cur.Fraction)
	}
	return 2
}

// RoundMoney rounds amount to the minor unit of currency (cents for USD).
func RoundMoney(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.Round(minorUnits(currency))
}

// FormatMoney formats amount in currency, like "$1,745.45".
func FormatMoney(amount decimal.Decimal, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := RoundMoney(amount, currency).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}
