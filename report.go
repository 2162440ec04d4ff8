package riskret

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Option customizes a Compute run.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used to report progress.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Compute fetches every configured instrument from provider and computes the report.
//
// Instruments are fetched and analysed concurrently, then accumulated in configuration order.
// If any instrument fails, no report is produced and the returned error joins every
// instrument failure (see FailedSymbols); the caller decides whether to exclude them (see
// Config.Exclude) and compute again.
func Compute(ctx context.Context, cfg Config, provider PriceProvider, opts ...Option) (*Report, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	window := cfg.Window()
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	analyses := make([]Analysis, len(cfg.Instruments))
	failures := make([]error, len(cfg.Instruments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, inst := range cfg.Instruments {
		g.Go(func() error {
			log := o.logger.With(zap.String("symbol", inst.Symbol))
			log.Debug("loading price history", zap.String("name", inst.Name), zap.Stringer("window", window))

			prices, err := provider.Prices(gctx, inst.Symbol, window)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				failures[i] = instrumentError(inst.Symbol, fmt.Errorf("cannot load prices: %w", err))
				log.Warn("cannot load price history", zap.Error(err))
				return nil
			}
			log.Info("loaded price history", zap.Int("rows", len(prices)))

			a, err := Analyze(inst, prices, cfg.Years)
			if err != nil {
				failures[i] = err
				log.Warn("cannot analyse instrument", zap.Error(err))
				return nil
			}
			analyses[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := errors.Join(failures...); err != nil {
		return nil, err
	}

	acc := NewAccumulator(cfg.Instruments, cfg.Years, window)
	report := &Report{Window: window, Years: cfg.Years}
	for _, a := range analyses {
		if err := acc.Add(a); err != nil {
			return nil, err
		}
		report.Rows = append(report.Rows, a.Row)
	}
	portfolio, err := acc.Finalize()
	if err != nil {
		return nil, err
	}
	report.Rows = append(report.Rows, portfolio)
	report.Combined = acc.Combined()

	o.logger.Info("computed report",
		zap.Int("instruments", len(cfg.Instruments)),
		zap.String("return", portfolio.Return.String()),
		zap.String("volatility", portfolio.Volatility.String()))
	return report, nil
}
