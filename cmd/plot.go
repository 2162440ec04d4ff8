package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/riskret"
	"github.com/etnz/riskret/plot"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type plotCmd struct {
	output     string
	growth     string
	skipFailed bool
}

func (*plotCmd) Name() string     { return "plot" }
func (*plotCmd) Synopsis() string { return "draw the risk and return scatter plot" }
func (*plotCmd) Usage() string {
	return `rr [-config portfolio.yaml] plot [-o risk-return.png] [-growth growth.png]

  Draws every instrument and the portfolio with their annualized volatility on x and their
  annualized return on y. Marker sizes grow with the cost.
`
}

func (c *plotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "risk-return.png", "Path of the scatter plot image")
	f.StringVar(&c.growth, "growth", "", "Path of the portfolio growth chart, not drawn if empty")
	f.BoolVar(&c.skipFailed, "skip-failed", false, "Exclude instruments that cannot be loaded instead of failing")
}

func (c *plotCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	logger := newLogger()
	defer logger.Sync()

	report, err := loadReport(ctx, c.skipFailed, logger)
	if err != nil {
		printError("Error computing report", err)
		return subcommands.ExitFailure
	}

	if err := c.scatter(report.Rows); err != nil {
		printError("Error drawing scatter plot", err)
		return subcommands.ExitFailure
	}
	logger.Info("wrote scatter plot", zap.String("path", c.output))

	if c.growth == "" {
		return subcommands.ExitSuccess
	}
	png, err := plot.Growth(fmt.Sprintf("Growth of 100, %s", report.Window), report.Combined)
	if err != nil {
		printError("Error drawing growth chart", err)
		return subcommands.ExitFailure
	}
	if err := os.WriteFile(c.growth, png, 0o644); err != nil {
		printError("Error writing growth chart", err)
		return subcommands.ExitFailure
	}
	logger.Info("wrote growth chart", zap.String("path", c.growth))
	return subcommands.ExitSuccess
}

func (c *plotCmd) scatter(rows []riskret.SummaryRow) error {
	f, err := os.Create(c.output)
	if err != nil {
		return err
	}
	if err := plot.Scatter(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
