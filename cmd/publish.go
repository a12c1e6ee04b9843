package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/wealth/renderer"
	"github.com/google/subcommands"
)

type publishCmd struct {
	outputDir string
}

func (*publishCmd) Name() string     { return "publish" }
func (*publishCmd) Synopsis() string { return "generate a static dashboard of the history and the holdings" }
func (*publishCmd) Usage() string {
	return `wcc publish [-o <dir>]

  Writes index.html, with the history and the holdings overview, and
  chart.png into the output directory.
`
}

func (c *publishCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputDir, "o", "public", "output directory of the dashboard")
}

func (c *publishCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := publish(ctx, a, c.outputDir); err != nil {
		explain(os.Stderr, err)
		return subcommands.ExitFailure
	}
	a.log.Info().Str("dir", c.outputDir).Msg("dashboard published")
	return subcommands.ExitSuccess
}

const chartFile = "chart.png"

// dashboard renders the dashboard page; chart tells whether a chart can be drawn.
func dashboard(ctx context.Context, a *app) (page []byte, report renderer.HistoryReport, chart bool, err error) {
	report, err = a.historyReport(ctx)
	if err != nil {
		return nil, report, false, err
	}
	md, err := renderer.HistoryMarkdown(report)
	if err != nil {
		return nil, report, false, err
	}
	sections := []struct {
		name   string
		report func(context.Context) (renderer.OverviewReport, error)
	}{
		{"holdings", func(ctx context.Context) (renderer.OverviewReport, error) {
			return a.overviewReport(ctx, "", "value", false)
		}},
		{"assets", a.assetsReport},
		{"funds", a.fundsReport},
	}
	for _, s := range sections {
		overview, err := s.report(ctx)
		if err != nil {
			a.log.Warn().Err(err).Str("section", s.name).Msg("section left out of the dashboard")
			continue
		}
		omd, err := renderer.OverviewMarkdown(overview)
		if err != nil {
			return nil, report, false, err
		}
		md += "\n" + omd
	}

	chart = len(report.Rows) >= 2
	var images []string
	if chart {
		images = append(images, chartFile)
	}
	page, err = renderer.HTML("Portfolio vs "+report.Benchmark, md, images...)
	return page, report, chart, err
}

func publish(ctx context.Context, a *app, dir string) error {
	page, report, chart, err := dashboard(ctx, a)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if chart {
		if err := writeChart(filepath.Join(dir, chartFile), report, false); err != nil && !errors.Is(err, renderer.ErrNotEnoughData) {
			return err
		}
	}
	return os.WriteFile(filepath.Join(dir, "index.html"), page, 0644)
}
