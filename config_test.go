package riskret

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/riskret/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleConfig = `
years: 3
end: 2018-01-01
provider: Yahoo
workers: 8
instruments:
  - symbol: CSPX.AS
    name: iShares Core S&P 500 (Acc)
    cost: 0.07
    weight: 0.2
    currency: EUR
  - symbol: IEAC.AS
    name: Corporate Bonds
    cost: 0.2
    weight: 0.8
`

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "portfolio.yaml", sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Years)
	assert.Equal(t, date.New(2018, 1, 1), cfg.End)
	assert.Equal(t, "yahoo", cfg.Provider)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, ".", cfg.DataDir)
	assert.Equal(t, []Instrument{
		{Symbol: "CSPX.AS", Name: "iShares Core S&P 500 (Acc)", Cost: 0.07, Weight: 0.2, Currency: "EUR"},
		{Symbol: "IEAC.AS", Name: "Corporate Bonds", Cost: 0.2, Weight: 0.8},
	}, cfg.Instruments)
	assert.Equal(t, date.NewRange(date.New(2015, 1, 1), date.New(2018, 1, 1)), cfg.Window())
}

func TestLoadConfigJSON(t *testing.T) {
	path := writeConfig(t, "portfolio.json", `{"end": "2020-02-29", "instruments": [{"symbol": "A", "weight": 1}]}`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultYears, cfg.Years)
	assert.Equal(t, DefaultProvider, cfg.Provider)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	// February 29th minus 3 years clamps to February 28th.
	assert.Equal(t, date.New(2017, 2, 28), cfg.Window().From)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("RR_YEARS", "5")
	t.Setenv("RR_END", "2020-06-30")
	t.Setenv("RR_PROVIDER", "csv")
	cfg, err := LoadConfig(writeConfig(t, "portfolio.yaml", sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Years)
	assert.Equal(t, date.New(2020, 6, 30), cfg.End)
	assert.Equal(t, "csv", cfg.Provider)
}

func TestLoadConfigDefaultEnd(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "portfolio.yaml", "instruments:\n  - symbol: A\n    weight: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, date.Today().Add(-1), cfg.End)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no instrument", "years: 3\n"},
		{"negative years", "years: -1\ninstruments:\n  - {symbol: A, weight: 1}\n"},
		{"duplicate symbol", "instruments:\n  - {symbol: A, weight: 1}\n  - {symbol: A, weight: 1}\n"},
		{"negative weight", "instruments:\n  - {symbol: A, weight: -1}\n"},
		{"negative cost", "instruments:\n  - {symbol: A, weight: 1, cost: -0.1}\n"},
		{"missing symbol", "instruments:\n  - {name: A, weight: 1}\n"},
		{"invalid end", "end: yesterday\ninstruments:\n  - {symbol: A, weight: 1}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, "portfolio.yaml", tt.content))
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{Years: 1, End: date.New(2020, 1, 1), Instruments: []Instrument{{Symbol: "A", Weight: math.NaN()}}}
	assert.ErrorIs(t, cfg.Validate(), ErrConfiguration)

	cfg.Instruments[0].Weight = 0
	assert.NoError(t, cfg.Validate())

	cfg.End = date.Date{}
	assert.ErrorIs(t, cfg.Validate(), ErrConfiguration)
}

func TestValidateReservedSymbol(t *testing.T) {
	cfg := reportConfig(
		Instrument{Symbol: PortfolioSymbol, Name: "Fund", Weight: 0.5},
		Instrument{Symbol: "B", Weight: 0.5},
	)
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, []string{PortfolioSymbol}, FailedSymbols(err))

	_, err = Compute(context.Background(), cfg, ProviderFunc(func(context.Context, string, date.Range) ([]PriceRecord, error) {
		t.Fatal("no price must be fetched for an invalid configuration")
		return nil, nil
	}))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestExclude(t *testing.T) {
	cfg := reportConfig(Instrument{Symbol: "A"}, Instrument{Symbol: "B"}, Instrument{Symbol: "C"})
	got := cfg.Exclude("B", "Z")
	assert.Equal(t, []Instrument{{Symbol: "A"}, {Symbol: "C"}}, got.Instruments)
	assert.Len(t, cfg.Instruments, 3, "Exclude must not modify the receiver")
}
