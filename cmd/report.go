package cmd

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/riskret/renderer"
	"github.com/google/subcommands"
)

type reportCmd struct {
	json       bool
	skipFailed bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "print the risk and return table of the portfolio" }
func (*reportCmd) Usage() string {
	return `rr [-config portfolio.yaml] report [-json] [-skip-failed]

  Loads the price history of every instrument and prints, for each instrument and for the
  whole portfolio, the period return, the annualized return, the annualized volatility and
  the cost.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print the report as json")
	f.BoolVar(&c.skipFailed, "skip-failed", false, "Exclude instruments that cannot be loaded instead of failing")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	logger := newLogger()
	defer logger.Sync()

	report, err := loadReport(ctx, c.skipFailed, logger)
	if err != nil {
		printError("Error computing report", err)
		return subcommands.ExitFailure
	}

	if c.json {
		if err := renderer.JSON(os.Stdout, report); err != nil {
			printError("Error writing report", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.Markdown(report))
	return subcommands.ExitSuccess
}
