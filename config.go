package riskret

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/etnz/riskret/date"
	"github.com/spf13/viper"
)

// Default configuration values.
const (
	DefaultYears    = 3
	DefaultProvider = "eodhd"
	DefaultWorkers  = 4
)

// Config is the immutable input of a run.
type Config struct {
	Years       int          // Years is the window length, also used to annualize returns.
	End         date.Date    // End is the reference date, the window is [End - Years, End].
	Provider    string       // Provider names the price source (eodhd, yahoo or csv).
	DataDir     string       // DataDir is the folder of the csv provider.
	Workers     int          // Workers bounds the number of instruments fetched concurrently.
	Instruments []Instrument // Instruments in report order.
}

// Window returns the date range covered by the configuration.
func (c Config) Window() date.Range { return date.YearsTo(c.End, c.Years) }

// Validate checks the configuration and returns all the violations found.
func (c Config) Validate() error {
	var errs error
	if c.Years <= 0 {
		errs = errors.Join(errs, fmt.Errorf("%w: years must be positive, got %d", ErrConfiguration, c.Years))
	}
	if c.End.IsZero() {
		errs = errors.Join(errs, fmt.Errorf("%w: end date is missing", ErrConfiguration))
	}
	if len(c.Instruments) == 0 {
		errs = errors.Join(errs, fmt.Errorf("%w: no instrument configured", ErrConfiguration))
	}
	seen := make(map[string]bool)
	for i, inst := range c.Instruments {
		if strings.TrimSpace(inst.Symbol) == "" {
			errs = errors.Join(errs, fmt.Errorf("%w: instrument #%d has no symbol", ErrConfiguration, i+1))
			continue
		}
		if inst.Symbol == PortfolioSymbol {
			errs = errors.Join(errs, instrumentError(inst.Symbol, fmt.Errorf("%w: symbol %q is reserved for the portfolio row", ErrConfiguration, PortfolioSymbol)))
		}
		if seen[inst.Symbol] {
			errs = errors.Join(errs, instrumentError(inst.Symbol, fmt.Errorf("%w: duplicate symbol", ErrConfiguration)))
		}
		seen[inst.Symbol] = true
		if !finite(inst.Weight) || inst.Weight < 0 {
			errs = errors.Join(errs, instrumentError(inst.Symbol, fmt.Errorf("%w: weight %v must be a non negative number", ErrConfiguration, inst.Weight)))
		}
		if !finite(inst.Cost) || inst.Cost < 0 {
			errs = errors.Join(errs, instrumentError(inst.Symbol, fmt.Errorf("%w: cost %v must be a non negative number", ErrConfiguration, inst.Cost)))
		}
	}
	return errs
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

// Exclude returns a copy of c without the instruments in symbols.
func (c Config) Exclude(symbols ...string) Config {
	skip := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		skip[s] = true
	}
	instruments := make([]Instrument, 0, len(c.Instruments))
	for _, inst := range c.Instruments {
		if !skip[inst.Symbol] {
			instruments = append(instruments, inst)
		}
	}
	c.Instruments = instruments
	return c
}

// fileConfig is the layout of the configuration file.
type fileConfig struct {
	Years       int          `mapstructure:"years"`
	End         any          `mapstructure:"end"` // yaml decodes unquoted dates as time.Time
	Provider    string       `mapstructure:"provider"`
	DataDir     string       `mapstructure:"data_dir"`
	Workers     int          `mapstructure:"workers"`
	Instruments []Instrument `mapstructure:"instruments"`
}

// LoadConfig reads and validates a configuration file (yaml, json or toml).
//
// Scalar settings can be overridden by RR_ prefixed environment variables (e.g. RR_END).
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("years", DefaultYears)
	v.SetDefault("end", "-1d")
	v.SetDefault("provider", DefaultProvider)
	v.SetDefault("data_dir", ".")
	v.SetDefault("workers", DefaultWorkers)

	v.SetEnvPrefix("RR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("cannot read configuration %q: %w", path, err)
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return Config{}, fmt.Errorf("%w: cannot decode %q: %v", ErrConfiguration, path, err)
	}

	end, err := parseEnd(fc.End)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Years:       fc.Years,
		End:         end,
		Provider:    strings.ToLower(fc.Provider),
		DataDir:     fc.DataDir,
		Workers:     fc.Workers,
		Instruments: fc.Instruments,
	}
	return cfg, cfg.Validate()
}

func parseEnd(v any) (date.Date, error) {
	switch end := v.(type) {
	case time.Time:
		return date.Of(end.UTC()), nil
	case string:
		d, err := date.Parse(end)
		if err != nil {
			return date.Date{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		return d, nil
	default:
		return date.Date{}, fmt.Errorf("%w: invalid end date %v", ErrConfiguration, v)
	}
}
