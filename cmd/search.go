package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/riskret"
	"github.com/etnz/riskret/eodhd"
	"github.com/google/subcommands"
	"gopkg.in/yaml.v3"
)

// searchCmd implements the "search" command.
type searchCmd struct{}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search instruments on EODHD" }
func (*searchCmd) Usage() string {
	return `rr search <search term>

  Searches instruments via EOD Historical Data API and prints them as configuration
  entries, ready to be pasted in the instruments list.

  Requires the EODHD_API_KEY environment variable to be set or the -eodhd-api-key flag.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: a search term is required.")
		return subcommands.ExitUsageError
	}
	term := strings.Join(f.Args(), " ")

	logger := newLogger()
	defer logger.Sync()
	p, err := eodhd.New(*eodhdAPIKey, riskret.NewFetcher(*cacheDir, logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v. Use -eodhd-api-key flag or %s environment variable\n", err, eodhd.APIKeyEnv)
		return subcommands.ExitFailure
	}

	results, err := p.Search(ctx, term)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error searching instruments: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(results) == 0 {
		fmt.Printf("No results found for '%s'.\n", term)
		return subcommands.ExitSuccess
	}

	fmt.Printf("# %d results for '%s':\n", len(results), term)
	for _, item := range results {
		fmt.Printf("\n# %s, %s %s, previous close %.2f on %s\n", item.Name, item.Type, item.Country, item.PreviousClose, item.PreviousCloseDate)
		entry, err := yaml.Marshal([]riskret.Instrument{item.Instrument()})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding %s: %v\n", item.Symbol(), err)
			continue
		}
		fmt.Print(string(entry))
	}
	return subcommands.ExitSuccess
}
