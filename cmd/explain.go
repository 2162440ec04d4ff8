package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/riskret/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type explainCmd struct {
	skipFailed  bool
	interactive bool
}

func (*explainCmd) Name() string     { return "explain" }
func (*explainCmd) Synopsis() string { return "ask an AI assistant about the report" }
func (*explainCmd) Usage() string {
	return `rr [-config portfolio.yaml] explain [-i] [question...]

  Computes the report and asks Gemini to comment it. Without a question, it asks for a
  general commentary. With -i the session goes on interactively.

  Requires the GEMINI_API_KEY environment variable.
`
}

func (c *explainCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.skipFailed, "skip-failed", false, "Exclude instruments that cannot be loaded instead of failing")
	f.BoolVar(&c.interactive, "i", false, "Keep asking questions after the first answer")
}

const defaultQuestion = "Comment this portfolio: which instruments bring return, which bring risk, and is the portfolio well diversified?"

func (c *explainCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	logger := newLogger()
	defer logger.Sync()

	report, err := loadReport(ctx, c.skipFailed, logger)
	if err != nil {
		printError("Error computing report", err)
		return subcommands.ExitFailure
	}

	question := defaultQuestion
	if f.NArg() > 0 {
		question = strings.Join(f.Args(), " ")
	}
	prompts := []string{question}
	if !c.interactive {
		prompts = append(prompts, "bye")
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	analyst := agent.NewAnalyst(report)
	analyst.Logger = logger
	trader := agent.NewTrader()
	trader.Logger = logger
	a := agent.New(os.Stdout, os.Stdin, analyst, trader)
	a.Print = func(_ io.Writer, md string) { printMarkdown(md) }

	if err := a.Run(ctx, client, prompts...); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
