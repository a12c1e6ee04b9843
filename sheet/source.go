package sheet

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/wealth"
)

// Source is the wealth.SnapshotSource of a Workbook.
type Source struct {
	Workbook Workbook
	Schema   Schema
}

var _ wealth.SnapshotSource = (*Source)(nil)

// NewSource returns a Source reading wb with the default schema.
func NewSource(wb Workbook) *Source {
	return &Source{Workbook: wb, Schema: DefaultSchema()}
}

// Holdings returns the holdings, without blank and subtotal rows.
//
// Errors match wealth.ErrSourceRead.
func (s *Source) Holdings(ctx context.Context) ([]wealth.Holding, error) {
	holdings, err := s.table(ctx, s.Schema.Holdings)
	if err != nil {
		return nil, wealth.SourceError("holdings", err)
	}
	return holdings, nil
}

// table reads the holdings of the table described by sc.
func (s *Source) table(ctx context.Context, sc HoldingsSchema) ([]wealth.Holding, error) {
	records, err := s.Workbook.Read(ctx, sc.Worksheet)
	if err != nil {
		return nil, err
	}
	t, err := newTable(sc.Worksheet, records, sc.SkipRows, sc.Column, sc.Rows)
	if err != nil {
		return nil, err
	}

	var cols [5]int
	for i, c := range []struct {
		name     string
		required bool
	}{{sc.Name, true}, {sc.Type, sc.Type != ""}, {sc.Invest, true}, {sc.Value, true}, {sc.Target, false}} {
		if cols[i], err = t.column(c.name, c.required); err != nil {
			return nil, err
		}
	}
	name, typ, invest, value, target := cols[0], cols[1], cols[2], cols[3], cols[4]

	var holdings []wealth.Holding
	for i, row := range t.rows {
		h := wealth.Holding{Name: cell(row, name), Type: cell(row, typ)}
		if h.Name == "" || cell(row, value) == "" || excluded(h.Name, sc.Exclude) {
			continue
		}
		line := t.first + i
		if h.Invest, err = parseNumber(cell(row, invest)); err != nil {
			return nil, fmt.Errorf("worksheet %q line %d: %s: %w", sc.Worksheet, line, sc.Invest, err)
		}
		if h.Value, err = parseNumber(cell(row, value)); err != nil {
			return nil, fmt.Errorf("worksheet %q line %d: %s: %w", sc.Worksheet, line, sc.Value, err)
		}
		if h.Target, err = parseNumber(cell(row, target)); err != nil {
			return nil, fmt.Errorf("worksheet %q line %d: %s: %w", sc.Worksheet, line, sc.Target, err)
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}

// excluded reports whether name contains one of the patterns, ignoring case.
func excluded(name string, patterns []string) bool {
	name = strings.ToLower(name)
	for _, p := range patterns {
		if p != "" && strings.Contains(name, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// Funds returns the funds of the fund summary and their totals. The totals
// come from the totals row when the schema has one, they are summed otherwise.
//
// Errors match wealth.ErrSourceRead.
func (s *Source) Funds(ctx context.Context) (wealth.Summary, []wealth.Holding, error) {
	sc := s.Schema.Funds
	funds, err := s.table(ctx, sc)
	if err != nil {
		return wealth.Summary{}, nil, wealth.SourceError("funds", err)
	}
	if !sc.Totals {
		return wealth.Summarize(funds), funds, nil
	}
	if len(funds) == 0 {
		return wealth.Summary{}, nil, wealth.SourceError("funds", fmt.Errorf("worksheet %q has no totals row", sc.Worksheet))
	}
	total := funds[len(funds)-1]
	funds = funds[:len(funds)-1]
	return wealth.Summary{Count: len(funds), Invest: total.Invest, Value: total.Value}, funds, nil
}

// Assets returns the value of each asset class, across every portfolio.
//
// Errors match wealth.ErrSourceRead.
func (s *Source) Assets(ctx context.Context) ([]wealth.Holding, error) {
	assets, err := s.table(ctx, s.Schema.Assets)
	if err != nil {
		return nil, wealth.SourceError("assets", err)
	}
	return assets, nil
}

// Aggregate returns the total cost and value of the holdings.
func (s *Source) Aggregate(ctx context.Context) (wealth.Aggregate, error) {
	holdings, err := s.Holdings(ctx)
	if err != nil {
		return wealth.Aggregate{}, err
	}
	return wealth.Summarize(holdings).Aggregate(), nil
}

// Transactions returns the buys of the log in chronological order.
// Sells, zero amounts and rows without a date are left out.
//
// Errors match wealth.ErrSourceRead.
func (s *Source) Transactions(ctx context.Context) ([]wealth.Transaction, error) {
	txs, err := s.transactions(ctx)
	if err != nil {
		return nil, wealth.SourceError("transaction log", err)
	}
	return txs, nil
}

func (s *Source) transactions(ctx context.Context) ([]wealth.Transaction, error) {
	sc := s.Schema.Transactions
	records, err := s.Workbook.Read(ctx, sc.Worksheet)
	if err != nil {
		return nil, err
	}
	t, err := newTable(sc.Worksheet, records, sc.SkipRows, 0, 0)
	if err != nil {
		return nil, err
	}
	on, err := t.column(sc.Date, true)
	if err != nil {
		return nil, err
	}
	side, err := t.column(sc.Side, true)
	if err != nil {
		return nil, err
	}
	amount, err := t.column(sc.Amount, true)
	if err != nil {
		return nil, err
	}

	var txs []wealth.Transaction
	for i, row := range t.rows {
		if blank(row) || cell(row, on) == "" || !strings.EqualFold(cell(row, side), sc.Buy) {
			continue
		}
		line := t.first + i
		day, err := parseDate(sc.DateLayout, cell(row, on))
		if err != nil {
			return nil, fmt.Errorf("worksheet %q line %d: %w", sc.Worksheet, line, err)
		}
		a, err := parseNumber(cell(row, amount))
		if err != nil {
			return nil, fmt.Errorf("worksheet %q line %d: %s: %w", sc.Worksheet, line, sc.Amount, err)
		}
		if a.IsZero() {
			continue
		}
		txs = append(txs, wealth.NewTransaction(day, a))
	}
	slices.SortStableFunc(txs, func(a, b wealth.Transaction) int { return a.Date.Compare(b.Date) })
	return txs, nil
}
