package sheet

import (
	"fmt"
	"strings"

	"github.com/etnz/wealth/date"
	"github.com/shopspring/decimal"
)

// HoldingsSchema locates a table of holdings.
type HoldingsSchema struct {
	Worksheet string   `toml:"worksheet"`
	SkipRows  int      `toml:"skip_rows"` // rows above the header
	Column    int      `toml:"column"`    // first column of the table, 0 for A
	Rows      int      `toml:"rows"`      // data rows to read, 0 for all
	Name      string   `toml:"name"`
	Type      string   `toml:"type"`    // optional column
	Invest    string   `toml:"invest"`
	Value     string   `toml:"value"`
	Target    string   `toml:"target"`  // optional column
	Exclude   []string `toml:"exclude"` // rows whose name contains one of them are skipped
	Totals    bool     `toml:"totals"`  // the last row holds the totals
}

// TransactionsSchema locates the buy log.
type TransactionsSchema struct {
	Worksheet  string `toml:"worksheet"`
	SkipRows   int    `toml:"skip_rows"`
	Date       string `toml:"date"`
	DateLayout string `toml:"date_layout"` // time package layout
	Side       string `toml:"side"`
	Buy        string `toml:"buy"` // value of Side for buys
	Amount     string `toml:"amount"`
}

// Schema describes where things are in the workbook. Column names are
// matched against the header row, ignoring case and surrounding spaces.
type Schema struct {
	Holdings     HoldingsSchema     `toml:"holdings"`
	Transactions TransactionsSchema `toml:"transactions"`
	Funds        HoldingsSchema     `toml:"funds"`
	Assets       HoldingsSchema     `toml:"assets"` // one row per asset class, across portfolios
}

// DefaultSchema returns the layout of the "US stock" spreadsheet.
func DefaultSchema() Schema {
	return Schema{
		Holdings: HoldingsSchema{
			Worksheet: "rebalance",
			SkipRows:  14,
			Name:      "US stock",
			Type:      "Type",
			Invest:    "Invest",
			Value:     "Value",
			Target:    "Target",
			Exclude:   []string{"total"},
		},
		Transactions: TransactionsSchema{
			Worksheet:  "Buying track",
			SkipRows:   6,
			Date:       "Date",
			DateLayout: "2/1/2006",
			Side:       "Buy/Sell",
			Buy:        "Buy",
			Amount:     "Total Value ($)",
		},
		Funds: HoldingsSchema{
			Worksheet: "Fund summary",
			SkipRows:  5,
			Name:      "Name",
			Invest:    "Invest",
			Value:     "Value",
			Totals:    true,
		},
		Assets: HoldingsSchema{
			Worksheet: "rebalance",
			SkipRows:  1,
			Column:    6,
			Rows:      10,
			Name:      "Asset",
			Invest:    "Invest",
			Value:     "Value",
			Exclude:   []string{"total", "grand", "fund saving", "stock saving"},
		},
	}
}

// table is a worksheet split into its header and its data rows.
type table struct {
	worksheet string
	header    map[string]int // lower case column name to index
	rows      [][]string
	first     int // 1-based line number of rows[0]
}

// newTable reads the header at line skip+1, looking for column names from
// column col on. At most limit data rows are kept, all of them when limit is 0.
func newTable(worksheet string, records [][]string, skip, col, limit int) (*table, error) {
	if len(records) <= skip {
		return nil, fmt.Errorf("worksheet %q has no header row at line %d", worksheet, skip+1)
	}
	t := &table{
		worksheet: worksheet,
		header:    make(map[string]int),
		rows:      records[skip+1:],
		first:     skip + 2,
	}
	if limit > 0 && len(t.rows) > limit {
		t.rows = t.rows[:limit]
	}
	for i, name := range records[skip] {
		if i < col {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if _, dup := t.header[name]; name != "" && !dup {
			t.header[name] = i
		}
	}
	return t, nil
}

// column returns the index of column name. Missing optional columns return -1.
func (t *table) column(name string, required bool) (int, error) {
	i, ok := t.header[strings.ToLower(strings.TrimSpace(name))]
	switch {
	case ok:
		return i, nil
	case !required:
		return -1, nil
	default:
		return -1, fmt.Errorf("worksheet %q has no column %q", t.worksheet, name)
	}
}

// cell returns the trimmed content of column i in row, "" when out of range.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// blank reports whether every cell of row is empty.
func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

var numberCleaner = strings.NewReplacer(",", "", "$", "", "฿", "", "%", "", " ", "", "\u00a0", "")

// parseNumber reads a displayed amount like "$1,234.50", "฿ 1,000" or "12%".
// Empty cells and "-" read as zero; "(12.5)" reads as -12.5.
func parseNumber(s string) (decimal.Decimal, error) {
	s = numberCleaner.Replace(s)
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg, s = true, s[1:len(s)-1]
	}
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q", s)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// parseDate reads a date in layout, falling back to ISO-8601.
func parseDate(layout, s string) (date.Date, error) {
	if layout != "" {
		if on, err := date.ParseLayout(layout, s); err == nil {
			return on, nil
		}
	}
	on, err := date.Parse(s)
	if err != nil {
		return date.Date{}, fmt.Errorf("invalid date %q want format %q", s, layout)
	}
	return on, nil
}
