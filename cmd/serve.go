package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/renderer"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/subcommands"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the dashboard over HTTP" }
func (*serveCmd) Usage() string {
	return `wcc serve [-addr <host:port>]

  Serves the dashboard:

    GET  /              history, holdings and chart
    GET  /chart.png     the chart alone, ?percent for the changes
    GET  /history.json  the stored history
    POST /update        record today's portfolio, like wcc update

  Defaults to server.addr of the configuration.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "address to listen on")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	addr := c.addr
	if addr == "" {
		addr = a.cfg.Server.Addr
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      newServer(a).router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	a.log.Info().Str("addr", addr).Msg("serving the dashboard")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type server struct {
	app    *app
	router *chi.Mux
	mu     sync.Mutex // serializes updates
}

func newServer(a *app) *server {
	s := &server{app: a, router: chi.NewRouter()}
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.logging)

	s.router.Get("/", s.handleDashboard)
	s.router.Get("/"+chartFile, s.handleChart)
	s.router.Get("/history.json", s.handleHistory)
	s.router.Post("/update", s.handleUpdate)
	return s
}

func (s *server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.app.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// fail writes err with a status matching its kind.
func (s *server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, wealth.ErrDataUnavailable) || errors.Is(err, wealth.ErrSourceRead) {
		status = http.StatusServiceUnavailable
	}
	s.app.log.Warn().Err(err).Int("status", status).Msg("request failed")
	http.Error(w, err.Error(), status)
}

func (s *server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	page, _, _, err := dashboard(r.Context(), s.app)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *server) handleChart(w http.ResponseWriter, r *http.Request) {
	report, err := s.app.historyReport(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	var buf bytes.Buffer
	if r.URL.Query().Has("percent") {
		err = renderer.ComparisonChart(&buf, report.Benchmark, report.Points)
	} else {
		err = renderer.Chart(&buf, report.Benchmark, report.Rows)
	}
	if err != nil {
		if errors.Is(err, renderer.ErrNotEnoughData) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

func (s *server) handleHistory(w http.ResponseWriter, r *http.Request) {
	rows, err := s.app.tracker.History(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, rows)
}

func (s *server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.app.tracker.Update(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, rows)
}

func writeJSON(w http.ResponseWriter, rows []wealth.HistoryRow) {
	if rows == nil {
		rows = []wealth.HistoryRow{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}
