package riskret

import (
	"fmt"
	"math"
)

// BuildReturns converts an ordered price series into daily returns.
//
// The result has exactly one entry per record but the first, in the same order. Each entry's
// Raw return uses the previous record's adjusted close as denominator and Weighted is
// weight*Raw. Dates are not reindexed: a day missing in prices has no return.
//
// It fails with ErrInsufficientData if there are fewer than two records, and with
// ErrInvalidPrice on a non-positive close or if dates are not strictly increasing.
func BuildReturns(prices []PriceRecord, weight float64) ([]DailyReturn, error) {
	if len(prices) < 2 {
		return nil, fmt.Errorf("%w: %d price record(s), at least 2 required", ErrInsufficientData, len(prices))
	}
	if err := checkPrice(prices[0]); err != nil {
		return nil, err
	}

	returns := make([]DailyReturn, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		yesterday, today := prices[i-1], prices[i]
		if err := checkPrice(today); err != nil {
			return nil, err
		}
		if !today.Date.After(yesterday.Date) {
			return nil, fmt.Errorf("%w: out of order or duplicate date %s after %s", ErrInvalidPrice, today.Date, yesterday.Date)
		}
		raw := (today.AdjustedClose - yesterday.AdjustedClose) / yesterday.AdjustedClose
		returns = append(returns, DailyReturn{
			Date:     today.Date,
			Raw:      raw,
			Weighted: weight * raw,
		})
	}
	return returns, nil
}

// checkPrice returns an error if the adjusted close cannot be used as a denominator.
func checkPrice(p PriceRecord) error {
	if math.IsNaN(p.AdjustedClose) || math.IsInf(p.AdjustedClose, 0) || p.AdjustedClose <= 0 {
		return fmt.Errorf("%w: adjusted close %v on %s must be a positive number", ErrInvalidPrice, p.AdjustedClose, p.Date)
	}
	return nil
}
