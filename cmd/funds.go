package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/wealth/renderer"
	"github.com/google/subcommands"
)

type fundsCmd struct{}

func (*fundsCmd) Name() string     { return "funds" }
func (*fundsCmd) Synopsis() string { return "display the fund summary and its net asset value" }
func (*fundsCmd) Usage() string {
	return `wcc funds

  Displays the net asset value from the totals row of the fund summary,
  then every fund with its profit and its portion of the total.
`
}

func (*fundsCmd) SetFlags(*flag.FlagSet) {}

func (*fundsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	report, err := a.fundsReport(ctx)
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
