// Package cmd implements the subcommands of wcc, the portfolio vs benchmark tracker.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/config"
	"github.com/etnz/wealth/eodhd"
	"github.com/etnz/wealth/renderer"
	"github.com/etnz/wealth/sheet"
	"github.com/etnz/wealth/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&updateCmd{}, "history")
	c.Register(&historyCmd{}, "history")
	c.Register(&chartCmd{}, "history")

	c.Register(&overviewCmd{}, "holdings")
	c.Register(&assetsCmd{}, "holdings")
	c.Register(&fundsCmd{}, "holdings")
	c.Register(&adviseCmd{}, "holdings")

	c.Register(&publishCmd{}, "dashboard")
	c.Register(&serveCmd{}, "dashboard")

	c.Register(&topicCmd{}, "help")
}

// Commands lists the registered subcommands, used for shell completion.
var Commands = []subcommands.Command{
	&updateCmd{}, &historyCmd{}, &chartCmd{},
	&overviewCmd{}, &assetsCmd{}, &fundsCmd{}, &adviseCmd{},
	&publishCmd{}, &serveCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

// ConfigFile is the path of the configuration file.
var ConfigFile = flag.String("config", config.DefaultFile, "Path to the TOML configuration file")

// app holds the collaborators built from the configuration.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	source  *sheet.Source
	store   store.Store
	tracker *wealth.Tracker
}

// openApp loads the configuration file and opens the collaborators.
func openApp() (*app, error) {
	cfg, err := config.Load(*ConfigFile)
	if err != nil {
		return nil, err
	}
	log, err := cfg.Logger(os.Stderr)
	if err != nil {
		return nil, err
	}
	return newApp(cfg, log)
}

func newApp(cfg *config.Config, log zerolog.Logger) (*app, error) {
	st, err := store.Open(cfg.Store.Kind, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open the history store: %w", err)
	}
	source := &sheet.Source{Workbook: cfg.Workbook(), Schema: cfg.Sheet.Schema}
	prices := eodhd.NewClient(cfg.EODHD.APIKey,
		eodhd.WithBaseURL(cfg.EODHD.BaseURL),
		eodhd.WithRateLimit(cfg.EODHD.RateLimit),
		eodhd.WithCache(cfg.EODHD.CacheDir),
		eodhd.WithLogger(log),
		eodhd.WithTimeout(cfg.EODHD.GetTimeout()),
	)
	return &app{
		cfg:    cfg,
		log:    log,
		source: source,
		store:  st,
		tracker: &wealth.Tracker{
			Benchmark: cfg.Benchmark.Symbol,
			Currency:  cfg.Benchmark.Currency,
			Key:       cfg.Benchmark.Key,
			Prices:    prices,
			Source:    source,
			Store:     st,
			Log:       log,
		},
	}, nil
}

func (a *app) Close() error { return a.store.Close() }

// historyReport reads the stored history and compares it with the benchmark.
func (a *app) historyReport(ctx context.Context) (renderer.HistoryReport, error) {
	rows, err := a.tracker.History(ctx)
	if err != nil {
		return renderer.HistoryReport{}, err
	}
	return a.report(rows), nil
}

func (a *app) report(rows []wealth.HistoryRow) renderer.HistoryReport {
	points, err := wealth.Comparison(rows)
	if err != nil {
		a.log.Warn().Err(err).Msg("some changes are undefined")
	}
	return renderer.HistoryReport{
		Benchmark: a.cfg.Benchmark.Symbol,
		Currency:  a.cfg.Benchmark.Currency,
		Rows:      rows,
		Points:    points,
	}
}

// overviewReport reads the holdings, restricted to typ unless it is empty or wealth.AllTypes.
func (a *app) overviewReport(ctx context.Context, typ, sortBy string, ascending bool) (renderer.OverviewReport, error) {
	holdings, err := a.source.Holdings(ctx)
	if err != nil {
		return renderer.OverviewReport{}, err
	}
	r := renderer.OverviewReport{
		Currency:    a.cfg.Benchmark.Currency,
		Type:        typ,
		Summary:     wealth.Summarize(holdings),
		Allocations: wealth.Allocate(holdings),
		Holdings:    holdings,
	}
	if r.Filtered() {
		r.Holdings = wealth.Filter(holdings, typ)
	}
	if sortBy != "" {
		if err := wealth.SortHoldings(r.Holdings, sortBy, ascending); err != nil {
			return renderer.OverviewReport{}, err
		}
	}
	return r, nil
}

// fundsReport reads the fund summary, its totals row giving the net asset value.
func (a *app) fundsReport(ctx context.Context) (renderer.OverviewReport, error) {
	nav, funds, err := a.source.Funds(ctx)
	if err != nil {
		return renderer.OverviewReport{}, err
	}
	return renderer.OverviewReport{
		Title:    "Fund Summary",
		Section:  "Funds",
		Currency: a.cfg.Benchmark.Currency,
		Summary:  nav,
		Holdings: funds,
		Portions: true,
	}, nil
}

// assetsReport reads the asset classes, largest first.
func (a *app) assetsReport(ctx context.Context) (renderer.OverviewReport, error) {
	assets, err := a.source.Assets(ctx)
	if err != nil {
		return renderer.OverviewReport{}, err
	}
	if err := wealth.SortHoldings(assets, "value", false); err != nil {
		return renderer.OverviewReport{}, err
	}
	return renderer.OverviewReport{
		Title:    "Assets",
		Section:  "Assets",
		Currency: a.cfg.Benchmark.Currency,
		Summary:  wealth.Summarize(assets),
		Holdings: assets,
		Portions: true,
	}, nil
}

// explain prints err to w, with a hint for the failures that leave the history unchanged.
func explain(w io.Writer, err error) {
	switch {
	case errors.Is(err, wealth.ErrDataUnavailable):
		fmt.Fprintf(w, "Warning: market data unavailable, last known history kept: %v\n", err)
	case errors.Is(err, wealth.ErrSourceRead):
		fmt.Fprintf(w, "Warning: cannot read the data, last known history kept: %v\n", err)
	default:
		fmt.Fprintln(w, "Error:", err)
	}
}

// printMarkdown renders md for the terminal, falling back to the raw markdown.
func printMarkdown(md string) {
	out, err := renderer.Terminal(md, 100)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
