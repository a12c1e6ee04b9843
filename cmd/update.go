package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/wealth/renderer"
	"github.com/google/subcommands"
)

type updateCmd struct{}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "record today's portfolio and replay the benchmark" }
func (*updateCmd) Usage() string {
	return `wcc update

  Reads the portfolio value and the buy log, records today's row in the
  history and recomputes what the same money would be worth in the
  benchmark. Running it again on the same day replaces today's row.

  Nothing is written when a price or the spreadsheet cannot be read.
`
}

func (*updateCmd) SetFlags(f *flag.FlagSet) {}

func (*updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	rows, err := a.tracker.Update(ctx)
	if err != nil {
		explain(os.Stderr, err)
		return subcommands.ExitFailure
	}

	md, err := renderer.HistoryMarkdown(a.report(rows))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)
	fmt.Println("✅ History updated.")
	return subcommands.ExitSuccess
}
