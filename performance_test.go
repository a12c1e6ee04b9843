package wealth

import (
	"errors"
	"testing"
)

func TestComparison(t *testing.T) {
	rows := []HistoryRow{
		{Date: d("2024-01-15"), MyCost: dec("1500"), MyValue: dec("1600"), BenchmarkValue: dec("1745.45")},
		{Date: d("2024-01-01"), MyCost: dec("1000"), MyValue: dec("1000"), BenchmarkValue: dec("1000")},
	}
	points, err := Comparison(rows)
	if err != nil {
		t.Fatalf("Comparison() unexpected error = %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("Comparison() returned %d points want 2", len(points))
	}
	if got := points[0]; got.Date != d("2024-01-01") || !got.My.IsZero() || !got.Benchmark.IsZero() {
		t.Errorf("first point = %+v want zero changes on 2024-01-01", got)
	}
	last := points[1]
	for _, tt := range []struct {
		name string
		got  *Percent
		want string
	}{
		{"my", last.My, "60.00%"},
		{"benchmark", last.Benchmark, "74.55%"},
		{"cost", last.Cost, "50.00%"},
	} {
		if tt.got == nil || tt.got.String() != tt.want {
			t.Errorf("%s change = %v want %s", tt.name, tt.got, tt.want)
		}
	}
}

func TestComparison_ZeroBase(t *testing.T) {
	rows := []HistoryRow{
		{Date: d("2024-01-01"), MyValue: dec("1000"), BenchmarkValue: dec("1000")},
		{Date: d("2024-01-02"), MyCost: dec("100"), MyValue: dec("1100"), BenchmarkValue: dec("900")},
	}
	points, err := Comparison(rows)
	if !errors.Is(err, ErrEmptyDenominator) {
		t.Fatalf("Comparison() error = %v want %v", err, ErrEmptyDenominator)
	}
	if len(points) != 2 {
		t.Fatalf("Comparison() returned %d points want 2", len(points))
	}
	if points[1].Cost != nil {
		t.Errorf("cost change = %v want undefined", points[1].Cost)
	}
	if got := points[1].Benchmark.String(); got != "-10.00%" {
		t.Errorf("benchmark change = %s want -10.00%%", got)
	}
}

func TestComparison_Empty(t *testing.T) {
	points, err := Comparison(nil)
	if err != nil || points != nil {
		t.Errorf("Comparison(nil) = %v, %v want nil, nil", points, err)
	}
}
