package wealth

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// AllTypes is the Filter value that keeps every holding.
const AllTypes = "All"

// Holding is one line of the portfolio.
type Holding struct {
	Name   string
	Type   string          // e.g. "Tech", "Defensive", or a pyramid layer
	Invest decimal.Decimal // cost basis
	Value  decimal.Decimal // market value
	Target decimal.Decimal // target portion in percent, zero when not set
}

// Gain returns the unrealized gain of the holding.
func (h Holding) Gain() decimal.Decimal { return h.Value.Sub(h.Invest) }

// GainPercent returns the gain in percent of the invested amount.
func (h Holding) GainPercent() (Percent, error) { return PercentOf(h.Gain(), h.Invest) }

// Summary aggregates a list of holdings.
type Summary struct {
	Count  int
	Invest decimal.Decimal
	Value  decimal.Decimal
}

// Summarize computes the totals of holdings.
func Summarize(holdings []Holding) Summary {
	s := Summary{Count: len(holdings)}
	for _, h := range holdings {
		s.Invest = s.Invest.Add(h.Invest)
		s.Value = s.Value.Add(h.Value)
	}
	return s
}

// Aggregate returns the summary as the cost and value of the portfolio.
func (s Summary) Aggregate() Aggregate { return Aggregate{Cost: s.Invest, Value: s.Value} }

// Profit returns the unrealized profit.
func (s Summary) Profit() decimal.Decimal { return s.Value.Sub(s.Invest) }

// ProfitPercent returns the profit in percent of the invested amount.
func (s Summary) ProfitPercent() (Percent, error) { return PercentOf(s.Profit(), s.Invest) }

// Types returns the distinct holding types in order of first appearance.
func Types(holdings []Holding) []string {
	var types []string
	for _, h := range holdings {
		if !slices.Contains(types, h.Type) {
			types = append(types, h.Type)
		}
	}
	return types
}

// Filter returns the holdings of type typ. AllTypes and "" keep everything.
func Filter(holdings []Holding, typ string) []Holding {
	if typ == "" || typ == AllTypes {
		return slices.Clone(holdings)
	}
	var res []Holding
	for _, h := range holdings {
		if strings.EqualFold(h.Type, typ) {
			res = append(res, h)
		}
	}
	return res
}

// SortHoldings sorts holdings in place by "value", "invest" or "profit".
func SortHoldings(holdings []Holding, by string, ascending bool) error {
	var key func(Holding) decimal.Decimal
	switch strings.ToLower(by) {
	case "value", "":
		key = func(h Holding) decimal.Decimal { return h.Value }
	case "invest":
		key = func(h Holding) decimal.Decimal { return h.Invest }
	case "profit", "profit/loss":
		key = Holding.Gain
	default:
		return fmt.Errorf("invalid sort key %q want one of value, invest, profit", by)
	}
	slices.SortStableFunc(holdings, func(a, b Holding) int {
		c := key(a).Cmp(key(b))
		if !ascending {
			c = -c
		}
		return cmp.Or(c, strings.Compare(a.Name, b.Name))
	})
	return nil
}

// Allocation is the share of the portfolio held in one type of holding.
type Allocation struct {
	Type    string
	Count   int
	Invest  decimal.Decimal
	Value   decimal.Decimal
	Portion Percent // of the total portfolio value
	Target  Percent // sum of the holdings' targets
}

// Gain returns the unrealized gain of the allocation.
func (a Allocation) Gain() decimal.Decimal { return a.Value.Sub(a.Invest) }

// GainPercent returns the gain in percent of the invested amount.
func (a Allocation) GainPercent() (Percent, error) { return PercentOf(a.Gain(), a.Invest) }

// Drift returns how far the allocation is from its target, in percentage points.
func (a Allocation) Drift() Percent { return Percent{a.Portion.Sub(a.Target.Decimal)} }

// HasTarget reports whether a target was set for this allocation.
func (a Allocation) HasTarget() bool { return !a.Target.IsZero() }

// Allocate groups holdings by type, largest value first.
// Portions are left at zero when the portfolio has no value.
func Allocate(holdings []Holding) []Allocation {
	var allocs []Allocation
	index := make(map[string]int)
	total := decimal.Zero
	for _, h := range holdings {
		i, ok := index[h.Type]
		if !ok {
			i = len(allocs)
			index[h.Type] = i
			allocs = append(allocs, Allocation{Type: h.Type})
		}
		a := &allocs[i]
		a.Count++
		a.Invest = a.Invest.Add(h.Invest)
		a.Value = a.Value.Add(h.Value)
		a.Target = Percent{a.Target.Add(h.Target)}
		total = total.Add(h.Value)
	}
	for i := range allocs {
		if p, err := PercentOf(allocs[i].Value, total); err == nil {
			allocs[i].Portion = p
		}
	}
	slices.SortStableFunc(allocs, func(a, b Allocation) int { return b.Value.Cmp(a.Value) })
	return allocs
}
