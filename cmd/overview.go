package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/renderer"
	"github.com/google/subcommands"
)

type overviewCmd struct {
	typ       string
	sortBy    string
	ascending bool
}

func (*overviewCmd) Name() string     { return "overview" }
func (*overviewCmd) Synopsis() string { return "display the holdings and the allocation by type" }
func (*overviewCmd) Usage() string {
	return `wcc overview [-type <type>] [-sort value|invest|profit] [-asc]

  Displays the net worth, the total profit, the allocation by type against
  its target, and the list of holdings.
`
}

func (c *overviewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", wealth.AllTypes, "only list the holdings of this type")
	f.StringVar(&c.sortBy, "sort", "value", "sort the holdings by value, invest or profit")
	f.BoolVar(&c.ascending, "asc", false, "sort in ascending order")
}

func (c *overviewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	report, err := a.overviewReport(ctx, c.typ, c.sortBy, c.ascending)
	if err != nil {
		explain(os.Stderr, err)
		return subcommands.ExitFailure
	}
	md, err := renderer.OverviewMarkdown(report)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
