package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/wealth/renderer"
	"github.com/google/subcommands"
)

type assetsCmd struct{}

func (*assetsCmd) Name() string     { return "assets" }
func (*assetsCmd) Synopsis() string { return "display the value of each asset class" }
func (*assetsCmd) Usage() string {
	return `wcc assets

  Displays the asset classes across every portfolio, largest first, with
  their profit and their portion of the total value.
`
}

func (*assetsCmd) SetFlags(*flag.FlagSet) {}

func (*assetsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	report, err := a.assetsReport(ctx)
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
