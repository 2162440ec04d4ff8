package riskret

import (
	"fmt"
)

// Analysis is the outcome of one instrument's pass over its price history.
type Analysis struct {
	Row      SummaryRow    // Row is the instrument's statistics.
	Weighted []DailyReturn // Weighted are the daily returns scaled by the instrument's weight.
}

// Analyze computes the statistics of one instrument over its price window.
//
// 'years' is the configured window length used for annualization, not the time elapsed
// between the first and the last record.
//
// Errors are *InstrumentError wrapping ErrInsufficientData or ErrInvalidPrice.
func Analyze(inst Instrument, prices []PriceRecord, years int) (Analysis, error) {
	if years <= 0 {
		return Analysis{}, instrumentError(inst.Symbol, fmt.Errorf("%w: window length must be positive, got %d years", ErrConfiguration, years))
	}

	own, err := BuildReturns(prices, 1)
	if err != nil {
		return Analysis{}, instrumentError(inst.Symbol, err)
	}
	weighted, err := BuildReturns(prices, inst.Weight)
	if err != nil {
		return Analysis{}, instrumentError(inst.Symbol, err)
	}

	volatility, err := AnnualizedVolatility(own)
	if err != nil {
		return Analysis{}, instrumentError(inst.Symbol, err)
	}

	first, last := prices[0], prices[len(prices)-1]
	row := SummaryRow{
		Symbol:           inst.Symbol,
		Name:             inst.Name,
		Weight:           inst.Weight,
		Start:            first.Date,
		End:              last.Date,
		StartValue:       first.AdjustedClose,
		EndValue:         last.AdjustedClose,
		Return:           PeriodReturn(first.AdjustedClose, last.AdjustedClose),
		AnnualizedReturn: Percent(Annualize(first.AdjustedClose, last.AdjustedClose, float64(years)) * 100),
		Volatility:       volatility,
		Cost:             inst.Cost,
		Currency:         inst.Currency,
	}
	return Analysis{Row: row, Weighted: weighted}, nil
}
