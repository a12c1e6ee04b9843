package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

var rowsEqual = cmp.Comparer(func(a, b wealth.HistoryRow) bool { return a.Equal(b) })

func row(on, cost, value, bench, shares string) wealth.HistoryRow {
	return wealth.HistoryRow{
		Date:            date.MustParse(on),
		MyCost:          decimal.RequireFromString(cost),
		MyValue:         decimal.RequireFromString(value),
		BenchmarkValue:  decimal.RequireFromString(bench),
		BenchmarkShares: decimal.RequireFromString(shares),
	}
}

func testRows() []wealth.HistoryRow {
	return []wealth.HistoryRow{
		row("2024-01-01", "1000", "1000", "1000", "10"),
		row("2024-01-15", "1500", "1600", "1745.45", "14.5454545454545455"),
	}
}

func openAll(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	stores := make(map[string]Store)
	for kind, path := range map[string]string{
		"file":   filepath.Join(dir, "hx"),
		"sqlite": filepath.Join(dir, "db", "wealth.db"),
		"memory": "",
	} {
		s, err := Open(kind, path)
		if err != nil {
			t.Fatalf("Open(%q) unexpected error = %v", kind, err)
		}
		t.Cleanup(func() { s.Close() })
		stores[kind] = s
	}
	return stores
}

func TestStore_ReadWrite(t *testing.T) {
	ctx := context.Background()
	for kind, s := range openAll(t) {
		t.Run(kind, func(t *testing.T) {
			got, err := s.Read(ctx, wealth.DefaultKey)
			if err != nil || len(got) != 0 {
				t.Fatalf("Read() of a new table = %v, %v want no rows", got, err)
			}

			if err := s.Write(ctx, wealth.DefaultKey, testRows()); err != nil {
				t.Fatalf("Write() unexpected error = %v", err)
			}
			got, err = s.Read(ctx, wealth.DefaultKey)
			if err != nil {
				t.Fatalf("Read() unexpected error = %v", err)
			}
			if diff := cmp.Diff(testRows(), got, rowsEqual); diff != "" {
				t.Errorf("Read() mismatch (-want +got):\n%s", diff)
			}
			// Shares keep their full precision.
			if got[1].BenchmarkShares.String() != "14.5454545454545455" {
				t.Errorf("BenchmarkShares = %s want 14.5454545454545455", got[1].BenchmarkShares)
			}

			// Write replaces the whole table.
			short := testRows()[:1]
			if err := s.Write(ctx, wealth.DefaultKey, short); err != nil {
				t.Fatalf("Write() unexpected error = %v", err)
			}
			got, _ = s.Read(ctx, wealth.DefaultKey)
			if diff := cmp.Diff(short, got, rowsEqual); diff != "" {
				t.Errorf("Read() after replace mismatch (-want +got):\n%s", diff)
			}

			// Tables are independent.
			other, _ := s.Read(ctx, "Other_Hx")
			if len(other) != 0 {
				t.Errorf("Read(Other_Hx) = %v want no rows", other)
			}
		})
	}
}

func TestStore_ReadIsACopy(t *testing.T) {
	ctx := context.Background()
	for kind, s := range openAll(t) {
		t.Run(kind, func(t *testing.T) {
			rows := testRows()
			if err := s.Write(ctx, "k", rows); err != nil {
				t.Fatalf("Write() unexpected error = %v", err)
			}
			rows[0].MyValue = decimal.NewFromInt(-1)
			got, _ := s.Read(ctx, "k")
			got[1].MyValue = decimal.NewFromInt(-2)
			again, _ := s.Read(ctx, "k")
			if diff := cmp.Diff(testRows(), again, rowsEqual); diff != "" {
				t.Errorf("stored rows were mutated (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFile_Format(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile() unexpected error = %v", err)
	}
	if err := f.Write(context.Background(), "Portfolio_Hx", testRows()[:1]); err != nil {
		t.Fatalf("Write() unexpected error = %v", err)
	}
	content, err := os.ReadFile(filepath.Join(dir, "Portfolio_Hx.jsonl"))
	if err != nil {
		t.Fatalf("ReadFile() unexpected error = %v", err)
	}
	want := `{"date":"2024-01-01","my_cost":"1000","my_value":"1000","benchmark_value":"1000","benchmark_shares":"10"}` + "\n"
	if string(content) != want {
		t.Errorf("file content = %q want %q", content, want)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory has %d entries want 1, temporary files must not remain", len(entries))
	}
}

func TestFile_FormatError(t *testing.T) {
	dir := t.TempDir()
	content := `{"date":"2024-01-01","my_cost":"1000","my_value":"1000","benchmark_value":"1000","benchmark_shares":"10"}
{"date":"not a date"}
`
	if err := os.WriteFile(filepath.Join(dir, "k.jsonl"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	f, _ := NewFile(dir)
	_, err := f.Read(context.Background(), "k")
	if err == nil || !strings.Contains(err.Error(), "k.jsonl:2") {
		t.Errorf("Read() error = %v want a format error on line 2", err)
	}
}

func TestFile_InvalidKey(t *testing.T) {
	f, _ := NewFile(t.TempDir())
	for _, key := range []string{"", "..", "a/b"} {
		if err := f.Write(context.Background(), key, nil); err == nil {
			t.Errorf("Write(%q) expected an error", key)
		}
	}
}

func TestOpen_UnknownKind(t *testing.T) {
	if _, err := Open("postgres", "x"); err == nil {
		t.Error("Open(postgres) expected an error")
	}
}
