package wealth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func TestRecompute_Seed(t *testing.T) {
	prices := newFakePrices("SPY", map[string]string{"2024-01-01": "100"})

	res, err := Recompute(context.Background(), prices, Input{
		Today:     d("2024-01-01"),
		Benchmark: "SPY",
		Cost:      dec("900"),
		Value:     dec("1000"),
	})
	if err != nil {
		t.Fatalf("Recompute() unexpected error = %v", err)
	}
	if res.Mode != ModeSeed {
		t.Errorf("Recompute().Mode = %v want %v", res.Mode, ModeSeed)
	}
	want := []HistoryRow{{
		Date:            d("2024-01-01"),
		MyCost:          dec("900"),
		MyValue:         dec("1000"),
		BenchmarkValue:  dec("1000"),
		BenchmarkShares: dec("10"),
	}}
	if diff := cmp.Diff(want, res.Rows, rowsEqual); diff != "" {
		t.Errorf("Recompute() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecompute_SeedOnWeekend(t *testing.T) {
	// 2024-01-06 is a Saturday, the latest close is Friday's.
	prices := newFakePrices("SPY", map[string]string{
		"2024-01-05": "80",
		"2024-01-08": "999", // after today, must not be used
	})
	res, err := Recompute(context.Background(), prices, Input{
		Today:     d("2024-01-06"),
		Benchmark: "SPY",
		Value:     dec("1000"),
	})
	if err != nil {
		t.Fatalf("Recompute() unexpected error = %v", err)
	}
	if got := res.Rows[0].BenchmarkShares; !got.Equal(dec("12.5")) {
		t.Errorf("seed BenchmarkShares = %v want 12.5", got)
	}
}

func TestRecompute_SeedWithoutPrice(t *testing.T) {
	prices := newFakePrices("SPY", map[string]string{"2023-06-01": "100"})
	_, err := Recompute(context.Background(), prices, Input{
		Today:     d("2024-01-01"),
		Benchmark: "SPY",
		Value:     dec("1000"),
	})
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("Recompute() error = %v want %v", err, ErrDataUnavailable)
	}
	var perr *PriceError
	if !errors.As(err, &perr) || perr.Symbol != "SPY" || perr.On != d("2024-01-01") {
		t.Errorf("Recompute() error = %#v want a PriceError for SPY on 2024-01-01", err)
	}
}

func TestRecompute_SeedReplacedSameDay(t *testing.T) {
	// The only row is today's: re-running the same day seeds again.
	prices := newFakePrices("SPY", map[string]string{"2024-01-01": "100"})
	prior := []HistoryRow{{Date: d("2024-01-01"), MyValue: dec("500"), BenchmarkValue: dec("500"), BenchmarkShares: dec("5")}}
	res, err := Recompute(context.Background(), prices, Input{
		Today:     d("2024-01-01"),
		Benchmark: "SPY",
		Value:     dec("1000"),
		Prior:     prior,
	})
	if err != nil {
		t.Fatalf("Recompute() unexpected error = %v", err)
	}
	if res.Mode != ModeSeed || len(res.Rows) != 1 {
		t.Fatalf("Recompute() = %v with %d rows want a single seed row", res.Mode, len(res.Rows))
	}
	if got := res.Rows[0].BenchmarkShares; !got.Equal(dec("10")) {
		t.Errorf("seed BenchmarkShares = %v want 10", got)
	}
}

// seedRow is the seed of the documented scenario: 1000 invested at 100.
func seedRow() HistoryRow {
	return HistoryRow{
		Date:            d("2024-01-01"),
		MyCost:          dec("1000"),
		MyValue:         dec("1000"),
		BenchmarkValue:  dec("1000"),
		BenchmarkShares: dec("10"),
	}
}

func TestRecompute_Scenario(t *testing.T) {
	prices := newFakePrices("SPY", map[string]string{
		"2024-01-01": "100",
		"2024-01-10": "110",
		"2024-01-15": "120",
	})
	res, err := Recompute(context.Background(), prices, Input{
		Today:        d("2024-01-15"),
		Benchmark:    "SPY",
		Cost:         dec("1500"),
		Value:        dec("1600"),
		Transactions: []Transaction{NewTransaction(d("2024-01-10"), dec("500"))},
		Prior:        []HistoryRow{seedRow()},
	})
	if err != nil {
		t.Fatalf("Recompute() unexpected error = %v", err)
	}
	if res.Mode != ModeReplay {
		t.Errorf("Recompute().Mode = %v want %v", res.Mode, ModeReplay)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("Recompute() returned %d rows want 2", len(res.Rows))
	}
	if !res.Rows[0].Equal(seedRow()) {
		t.Errorf("seed row changed: %+v", res.Rows[0])
	}

	got := res.Rows[1]
	wantShares := dec("10").Add(dec("500").Div(dec("110")))
	if !got.BenchmarkShares.Equal(wantShares) {
		t.Errorf("BenchmarkShares = %v want %v", got.BenchmarkShares, wantShares)
	}
	if got.BenchmarkShares.StringFixed(3) != "14.545" {
		t.Errorf("BenchmarkShares = %v want 14.545...", got.BenchmarkShares)
	}
	if !got.BenchmarkValue.Equal(dec("1745.45")) {
		t.Errorf("BenchmarkValue = %v want 1745.45", got.BenchmarkValue)
	}
	if !got.MyCost.Equal(dec("1500")) || !got.MyValue.Equal(dec("1600")) {
		t.Errorf("today's row = %+v want my_cost 1500 and my_value 1600", got)
	}
}

func TestRecompute_Idempotent(t *testing.T) {
	prices := newFakePrices("SPY", map[string]string{
		"2024-01-01": "100",
		"2024-01-10": "110",
		"2024-01-15": "120",
	})
	in := Input{
		Today:        d("2024-01-15"),
		Benchmark:    "SPY",
		Cost:         dec("1500"),
		Value:        dec("1600"),
		Transactions: []Transaction{NewTransaction(d("2024-01-10"), dec("500"))},
		Prior:        []HistoryRow{seedRow()},
	}
	first, err := Recompute(context.Background(), prices, in)
	if err != nil {
		t.Fatalf("Recompute() unexpected error = %v", err)
	}
	in.Prior = first.Rows
	second, err := Recompute(context.Background(), prices, in)
	if err != nil {
		t.Fatalf("Recompute() unexpected error = %v", err)
	}
	if diff := cmp.Diff(first.Rows, second.Rows, rowsEqual); diff != "" {
		t.Errorf("second Recompute() mismatch (-first +second):\n%s", diff)
	}
	for i := range first.Rows {
		if first.Rows[i].BenchmarkShares.String() != second.Rows[i].BenchmarkShares.String() {
			t.Errorf("row %d shares drifted: %v -> %v", i, first.Rows[i].BenchmarkShares, second.Rows[i].BenchmarkShares)
		}
	}
}

func TestRecompute_BackDatedTransaction(t *testing.T) {
	prices := newFakePrices("SPY", map[string]string{
		"2024-01-01": "100",
		"2024-01-05": "100",
		"2024-01-08": "125",
		"2024-01-10": "110",
		"2024-01-20": "120",
	})
	prior := []HistoryRow{
		seedRow(),
		{Date: d("2024-01-05"), MyCost: dec("1000"), MyValue: dec("1000")},
		{Date: d("2024-01-10"), MyCost: dec("1250"), MyValue: dec("1300")},
	}
	in := Input{
		Today:     d("2024-01-20"),
		Benchmark: "SPY",
		Cost:      dec("1250"),
		Value:     dec("1400"),
		Prior:     prior,
	}
	before, err := Recompute(context.Background(), prices, in)
	if err != nil {
		t.Fatalf("Recompute() unexpected error = %v", err)
	}

	// The buy of 2024-01-08 is entered after the fact.
	in.Prior = before.Rows
	in.Transactions = []Transaction{NewTransaction(d("2024-01-08"), dec("250"))}
	after, err := Recompute(context.Background(), prices, in)
	if err != nil {
		t.Fatalf("Recompute() unexpected error = %v", err)
	}

	if len(after.Rows) != 4 {
		t.Fatalf("Recompute() returned %d rows want 4", len(after.Rows))
	}
	for i, on := range []string{"2024-01-01", "2024-01-05"} {
		if !after.Rows[i].Equal(before.Rows[i]) {
			t.Errorf("row %s changed: %+v -> %+v", on, before.Rows[i], after.Rows[i])
		}
	}
	for i := 2; i < 4; i++ {
		if after.Rows[i].BenchmarkShares.Equal(before.Rows[i].BenchmarkShares) {
			t.Errorf("row %s shares not corrected: %v", after.Rows[i].Date, after.Rows[i].BenchmarkShares)
		}
		if want := dec("12"); !after.Rows[i].BenchmarkShares.Equal(want) {
			t.Errorf("row %s shares = %v want %v", after.Rows[i].Date, after.Rows[i].BenchmarkShares, want)
		}
	}
	if got := after.Rows[3].BenchmarkValue; !got.Equal(dec("1440")) {
		t.Errorf("today's BenchmarkValue = %v want 1440", got)
	}
}

func TestRecompute_NoFutureLeakage(t *testing.T) {
	// Money invested on the 6th buys at the 5th's close, never at the 7th's.
	prices := newFakePrices("SPY", map[string]string{
		"2024-01-01": "100",
		"2024-01-05": "50",
		"2024-01-07": "1000",
	})
	res, err := Recompute(context.Background(), prices, Input{
		Today:        d("2024-01-07"),
		Benchmark:    "SPY",
		Value:        dec("2000"),
		Transactions: []Transaction{NewTransaction(d("2024-01-06"), dec("100"))},
		Prior: []HistoryRow{
			seedRow(),
			{Date: d("2024-01-06"), MyValue: dec("1100")},
		},
	})
	if err != nil {
		t.Fatalf("Recompute() unexpected error = %v", err)
	}
	jan6 := res.Rows[1]
	if !jan6.BenchmarkShares.Equal(dec("12")) {
		t.Errorf("2024-01-06 shares = %v want 12", jan6.BenchmarkShares)
	}
	if !jan6.BenchmarkValue.Equal(dec("600")) {
		t.Errorf("2024-01-06 value = %v want 600 (12 shares at the 5th's close)", jan6.BenchmarkValue)
	}
}

func TestRecompute_Ordering(t *testing.T) {
	prices := newFakePrices("SPY", map[string]string{"2024-01-01": "100"})
	prior := []HistoryRow{
		{Date: d("2024-01-03"), MyValue: dec("1")},
		seedRow(),
		{Date: d("2024-01-02"), MyValue: dec("2")},
		{Date: d("2024-01-03"), MyValue: dec("3")}, // duplicate, last wins
		{Date: d("2024-01-04"), MyValue: dec("4")}, // today, replaced
	}
	res, err := Recompute(context.Background(), prices, Input{
		Today:     d("2024-01-04"),
		Benchmark: "SPY",
		Value:     dec("1000"),
		Prior:     prior,
	})
	if err != nil {
		t.Fatalf("Recompute() unexpected error = %v", err)
	}
	var got []string
	for _, r := range res.Rows {
		got = append(got, r.Date.String())
	}
	want := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Recompute() dates mismatch (-want +got):\n%s", diff)
	}
	if !res.Rows[2].MyValue.Equal(dec("3")) {
		t.Errorf("duplicated row kept my_value %v want 3", res.Rows[2].MyValue)
	}
	if !res.Rows[3].MyValue.Equal(dec("1000")) {
		t.Errorf("today's row my_value = %v want 1000", res.Rows[3].MyValue)
	}
}

func TestRecompute_RowAfterToday(t *testing.T) {
	prices := newFakePrices("SPY", map[string]string{
		"2024-01-01": "100",
		"2024-01-05": "110",
		"2024-01-10": "120",
	})
	res, err := Recompute(context.Background(), prices, Input{
		Today:     d("2024-01-05"),
		Benchmark: "SPY",
		Cost:      dec("1000"),
		Value:     dec("1050"),
		Prior:     []HistoryRow{{Date: d("2024-01-10"), MyValue: dec("7")}, seedRow()},
	})
	if err != nil {
		t.Fatalf("Recompute() unexpected error = %v", err)
	}
	var got []string
	for _, r := range res.Rows {
		got = append(got, r.Date.String())
	}
	want := []string{"2024-01-01", "2024-01-05", "2024-01-10"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Recompute() dates mismatch (-want +got):\n%s", diff)
	}
	if !res.Rows[1].BenchmarkValue.Equal(dec("1100")) || !res.Rows[1].MyValue.Equal(dec("1050")) {
		t.Errorf("today's row = %+v want benchmark 1100 and my_value 1050", res.Rows[1])
	}
	if !res.Rows[2].BenchmarkValue.Equal(dec("1200")) {
		t.Errorf("later row benchmark_value = %v want 1200", res.Rows[2].BenchmarkValue)
	}
}

func TestRecompute_BuyAndHold(t *testing.T) {
	prices := newFakePrices("SPY", map[string]string{
		"2024-01-01": "100",
		"2024-01-02": "101",
		"2024-01-03": "97.5",
	})
	res, err := Recompute(context.Background(), prices, Input{
		Today:     d("2024-01-03"),
		Benchmark: "SPY",
		Value:     dec("1000"),
		Prior:     []HistoryRow{seedRow(), {Date: d("2024-01-02")}},
	})
	if err != nil {
		t.Fatalf("Recompute() unexpected error = %v", err)
	}
	wantValues := []string{"1000", "1010", "975"}
	for i, r := range res.Rows {
		if !r.BenchmarkShares.Equal(dec("10")) {
			t.Errorf("row %s shares = %v want 10", r.Date, r.BenchmarkShares)
		}
		if !r.BenchmarkValue.Equal(dec(wantValues[i])) {
			t.Errorf("row %s value = %v want %v", r.Date, r.BenchmarkValue, wantValues[i])
		}
	}
}

func TestRecompute_SeedDateTransactionExcluded(t *testing.T) {
	prices := newFakePrices("SPY", map[string]string{"2024-01-01": "100", "2024-01-02": "100"})
	res, err := Recompute(context.Background(), prices, Input{
		Today:     d("2024-01-02"),
		Benchmark: "SPY",
		Value:     dec("1000"),
		Transactions: []Transaction{
			NewTransaction(d("2023-12-15"), dec("300")),
			NewTransaction(d("2024-01-01"), dec("700")),
		},
		Prior: []HistoryRow{seedRow()},
	})
	if err != nil {
		t.Fatalf("Recompute() unexpected error = %v", err)
	}
	if got := res.Rows[1].BenchmarkShares; !got.Equal(dec("10")) {
		t.Errorf("shares = %v want 10: buys on or before the seed date are part of the seed", got)
	}
}

func TestRecompute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		prices  *fakePrices
		in      Input
		wantErr error
	}{
		{
			name:   "transaction predates price history",
			prices: newFakePrices("SPY", map[string]string{"2024-01-20": "100"}),
			in: Input{
				Today:        d("2024-01-20"),
				Transactions: []Transaction{NewTransaction(d("2024-01-05"), dec("100"))},
				Prior:        []HistoryRow{seedRow()},
			},
			wantErr: ErrDataUnavailable,
		},
		{
			name:   "provider failure",
			prices: &fakePrices{err: errBoom},
			in: Input{
				Today: d("2024-01-20"),
				Prior: []HistoryRow{seedRow()},
			},
			wantErr: ErrSourceRead,
		},
		{
			name:    "zero price",
			prices:  newFakePrices("SPY", map[string]string{"2024-01-01": "0"}),
			in:      Input{Today: d("2024-01-01"), Value: dec("10")},
			wantErr: ErrDataUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Benchmark = "SPY"
			_, err := Recompute(context.Background(), tt.prices, tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Recompute() error = %v want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecompute_TodayBeforeSeed(t *testing.T) {
	prices := newFakePrices("SPY", map[string]string{"2024-01-01": "100"})
	_, err := Recompute(context.Background(), prices, Input{
		Today:     d("2023-12-31"),
		Benchmark: "SPY",
		Prior:     []HistoryRow{seedRow()},
	})
	if err == nil {
		t.Error("Recompute() expected an error when today precedes the seed")
	}
}

func TestRecompute_RoundsToCurrency(t *testing.T) {
	prices := newFakePrices("SPY", map[string]string{"2024-01-01": "100", "2024-01-02": "33.333"})
	for _, tt := range []struct {
		currency string
		want     decimal.Decimal
	}{
		{"USD", dec("333.33")},
		{"JPY", dec("333")},
	} {
		res, err := Recompute(context.Background(), prices, Input{
			Today:     d("2024-01-02"),
			Benchmark: "SPY",
			Currency:  tt.currency,
			Prior:     []HistoryRow{seedRow()},
		})
		if err != nil {
			t.Fatalf("Recompute() unexpected error = %v", err)
		}
		if got := res.Rows[1].BenchmarkValue; !got.Equal(tt.want) {
			t.Errorf("Recompute(%s) value = %v want %v", tt.currency, got, tt.want)
		}
	}
}
