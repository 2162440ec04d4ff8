// Package cmd implements the rr command line: risk and return reports of a portfolio.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/riskret"
	"github.com/etnz/riskret/csvfile"
	"github.com/etnz/riskret/eodhd"
	"github.com/etnz/riskret/yahoo"
	"github.com/google/subcommands"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&reportCmd{}, "reports")
	c.Register(&plotCmd{}, "reports")
	c.Register(&explainCmd{}, "reports")

	c.Register(&searchCmd{}, "instruments")

	c.Register(&topicCmd{}, "help")
	c.Register(c.HelpCommand(), "help")
	c.Register(c.FlagsCommand(), "help")
	c.Register(c.CommandsCommand(), "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile  = flag.String("config", "portfolio.yaml", "Path to the portfolio configuration file (yaml, json or toml)")
	verbose     = flag.Bool("v", false, "Log debug messages")
	cacheDir    = flag.String("cache-dir", "", "Folder of the daily HTTP cache, defaults to the system temporary folder")
	eodhdAPIKey = flag.String("eodhd-api-key", "", "EODHD API key. This flag takes precedence over the "+eodhd.APIKeyEnv+" environment variable. You can get one at https://eodhd.com/")
)

// newLogger returns the application logger, writing to stderr.
func newLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if *verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// newProvider returns the price provider selected in the configuration.
func newProvider(cfg riskret.Config, logger *zap.Logger) (riskret.PriceProvider, error) {
	switch cfg.Provider {
	case "eodhd":
		return eodhd.New(*eodhdAPIKey, riskret.NewFetcher(*cacheDir, logger))
	case "yahoo":
		return yahoo.New(riskret.NewFetcher(*cacheDir, logger)), nil
	case "csv":
		return csvfile.New(cfg.DataDir), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q, want eodhd, yahoo or csv", riskret.ErrConfiguration, cfg.Provider)
	}
}

// computeReport computes the report of cfg.
//
// With skipFailed, instruments whose prices cannot be loaded or analysed are excluded and
// the report is computed again with the remaining ones.
func computeReport(ctx context.Context, cfg riskret.Config, provider riskret.PriceProvider, skipFailed bool, logger *zap.Logger) (*riskret.Report, error) {
	report, err := riskret.Compute(ctx, cfg, provider, riskret.WithLogger(logger))
	if err == nil || !skipFailed {
		return report, err
	}
	failed := riskret.FailedSymbols(err)
	if len(failed) == 0 {
		return nil, err
	}
	logger.Warn("excluding failed instruments", zap.Strings("symbols", failed), zap.Error(err))
	cfg = cfg.Exclude(failed...)
	if len(cfg.Instruments) == 0 {
		return nil, errors.Join(errors.New("every instrument failed"), err)
	}
	return riskret.Compute(ctx, cfg, provider, riskret.WithLogger(logger))
}

// loadReport loads the configuration file and computes its report.
func loadReport(ctx context.Context, skipFailed bool, logger *zap.Logger) (*riskret.Report, error) {
	cfg, err := riskret.LoadConfig(*configFile)
	if err != nil {
		return nil, err
	}
	provider, err := newProvider(cfg, logger)
	if err != nil {
		return nil, err
	}
	return computeReport(ctx, cfg, provider, skipFailed, logger)
}

// printMarkdown renders markdown for the terminal, or prints it raw if it cannot.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// printError prints every line of a possibly joined error.
func printError(prefix string, err error) {
	fmt.Fprintf(os.Stderr, "%s:\n", prefix)
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(os.Stderr, "  %s\n", line)
	}
}
