package wealth

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Percent is a percentage value, 12.5 stands for 12.5%.
type Percent struct{ decimal.Decimal }

// PercentChange returns the change from 'from' to 'to' in percent of 'from'.
func PercentChange(from, to decimal.Decimal) (Percent, error) {
	if from.IsZero() {
		return Percent{}, ErrEmptyDenominator
	}
	return Percent{to.Sub(from).Div(from).Mul(hundred)}, nil
}

// PercentOf returns part in percent of total.
func PercentOf(part, total decimal.Decimal) (Percent, error) {
	if total.IsZero() {
		return Percent{}, ErrEmptyDenominator
	}
	return Percent{part.Div(total).Mul(hundred)}, nil
}

func (p Percent) String() string { return p.StringFixed(2) + "%" }

// SignedString returns the percentage with an explicit sign, "-" for zero.
func (p Percent) SignedString() string {
	s := p.StringFixed(2)
	switch {
	case s == "0.00" || s == "-0.00":
		return "-"
	case p.IsPositive():
		return "+" + s + "%"
	default:
		return s + "%"
	}
}
