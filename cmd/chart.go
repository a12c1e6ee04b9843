package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/wealth/renderer"
	"github.com/google/subcommands"
)

type chartCmd struct {
	output  string
	percent bool
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "draw the portfolio and the benchmark as a PNG chart" }
func (*chartCmd) Usage() string {
	return `wcc chart [-o <file.png>] [-percent]

  Draws the portfolio value, the benchmark value and the cost over time.
  With -percent, draws the change since the first day instead.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "chart.png", "output file")
	f.BoolVar(&c.percent, "percent", false, "draw the percentage change since the first day")
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	report, err := a.historyReport(ctx)
	if err != nil {
		explain(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if err := writeChart(c.output, report, c.percent); err != nil {
		if errors.Is(err, renderer.ErrNotEnoughData) {
			fmt.Fprintln(os.Stderr, "Info:", err)
			return subcommands.ExitSuccess
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("✅ Chart written to %s\n", c.output)
	return subcommands.ExitSuccess
}

// writeChart draws the report into the file name. The file is not created
// when there is not enough data.
func writeChart(name string, report renderer.HistoryReport, percent bool) error {
	if len(report.Rows) < 2 {
		return renderer.ErrNotEnoughData
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if percent {
		err = renderer.ComparisonChart(f, report.Benchmark, report.Points)
	} else {
		err = renderer.Chart(f, report.Benchmark, report.Rows)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
