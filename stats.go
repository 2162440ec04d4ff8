package riskret

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the number of trading days used to annualize daily volatility.
const TradingDaysPerYear = 252

// PeriodReturn returns the change from start to end in percent of start.
func PeriodReturn(start, end float64) Percent {
	return Percent((end - start) / start * 100)
}

// Annualize returns the constant yearly rate r (as a fraction) such that
// last/first = (1+r)^years.
func Annualize(first, last, years float64) float64 {
	return math.Pow(last/first, 1/years) - 1
}

// AnnualizedVolatility returns the annualized standard deviation of the daily log returns
// ln(1+Raw), in percent.
//
// It uses the sample standard deviation, scaled by the square root of TradingDaysPerYear.
// With fewer than two returns the deviation is undefined and 0 is returned. A raw return of
// -100% or less has no logarithm and fails with ErrInvalidPrice.
func AnnualizedVolatility(returns []DailyReturn) (Percent, error) {
	logs := make([]float64, 0, len(returns))
	for _, r := range returns {
		x := 1 + r.Raw
		if math.IsNaN(x) || x <= 0 {
			return 0, fmt.Errorf("%w: daily return %v on %s has no logarithm", ErrInvalidPrice, r.Raw, r.Date)
		}
		logs = append(logs, math.Log(x))
	}
	if len(logs) < 2 || constant(logs) {
		return 0, nil
	}
	variance := stat.Variance(logs, nil)
	if !(variance > 0) {
		return 0, nil
	}
	return Percent(math.Sqrt(variance) * math.Sqrt(TradingDaysPerYear) * 100), nil
}

// constant reports whether all values are equal.
func constant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
