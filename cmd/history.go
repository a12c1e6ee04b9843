package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/wealth/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	raw bool
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the portfolio history against the benchmark" }
func (*historyCmd) Usage() string {
	return `wcc history [-raw]

  Displays the stored history, most recent first, with the change of the
  portfolio and of the benchmark since the first day.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "print the markdown source instead of rendering it")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	md, err := renderer.HistoryMarkdown(report)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if c.raw {
		fmt.Print(md)
	} else {
		printMarkdown(md)
	}
	return subcommands.ExitSuccess
}
