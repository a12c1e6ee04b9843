package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/agent"
	"github.com/google/subcommands"
)

type adviseCmd struct{}

func (*adviseCmd) Name() string     { return "advise" }
func (*adviseCmd) Synopsis() string { return "ask a value investor to critique the portfolio" }
func (*adviseCmd) Usage() string {
	return `wcc advise [question...]

  Sends the holdings and their allocation to Gemini, playing a value
  investor, and displays the critique and the grade of the portfolio.
  Extra arguments are appended to the request.

  Requires gemini.api_key or the GEMINI_API_KEY environment variable.
`
}

func (*adviseCmd) SetFlags(f *flag.FlagSet) {}

func (*adviseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if a.cfg.Gemini.APIKey == "" {
		fmt.Fprintln(os.Stderr, "Error: missing Gemini API key, set GEMINI_API_KEY")
		return subcommands.ExitUsageError
	}
	gen, err := agent.NewGemini(ctx, a.cfg.Gemini.APIKey)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}
	advisor := agent.NewAdvisor(gen)
	advisor.ModelName = a.cfg.Gemini.Model
	advisor.Log = a.log

	answer, err := advise(ctx, a, advisor, strings.Join(f.Args(), " "))
	if err != nil {
		explain(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(answer)
	return subcommands.ExitSuccess
}

// advise asks advisor to review the holdings, followed by question if any.
func advise(ctx context.Context, a *app, advisor *agent.Advisor, question string) (string, error) {
	holdings, err := a.source.Holdings(ctx)
	if err != nil {
		return "", err
	}
	if len(holdings) == 0 {
		return "", errors.New("the portfolio has no holdings to review")
	}
	prompt := agent.PortfolioPrompt(holdings, wealth.Allocate(holdings), a.cfg.Benchmark.Currency)
	if question != "" {
		prompt += "\n" + question + "\n"
	}
	return advisor.Review(ctx, prompt)
}
