package riskret

import (
	"context"

	"github.com/etnz/riskret/date"
)

// PriceProvider supplies the daily price history of an instrument.
//
// Records must be sorted by date, without duplicates, and lie within window.
type PriceProvider interface {
	Prices(ctx context.Context, symbol string, window date.Range) ([]PriceRecord, error)
}

// ProviderFunc adapts a function to the PriceProvider interface.
type ProviderFunc func(ctx context.Context, symbol string, window date.Range) ([]PriceRecord, error)

func (f ProviderFunc) Prices(ctx context.Context, symbol string, window date.Range) ([]PriceRecord, error) {
	return f(ctx, symbol, window)
}

// FromHistory converts a history of adjusted closes into price records restricted to window.
func FromHistory(h *date.History[float64], window date.Range) []PriceRecord {
	prices := make([]PriceRecord, 0, h.Len())
	for on, price := range h.Values() {
		if window.Contains(on) {
			prices = append(prices, PriceRecord{Date: on, AdjustedClose: price})
		}
	}
	return prices
}
