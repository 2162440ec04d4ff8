package riskret

import (
	"fmt"
	"sync"

	"github.com/etnz/riskret/date"
)

// Accumulator folds instrument analyses into the portfolio row.
//
// It accepts each configured instrument exactly once, then is finalized exactly once. It is
// safe for concurrent use.
type Accumulator struct {
	mu        sync.Mutex
	years     int
	window    date.Range
	expected  map[string]bool // symbol -> already added
	order     []string
	returnSum float64 // sum of weight * period return (in percent)
	costSum   float64 // sum of weight * cost
	weightSum float64
	combined  date.History[float64] // sum of weighted daily returns, zero filled.
	finalized bool
}

// NewAccumulator returns an Accumulator expecting one analysis per instrument.
//
// 'years' and 'window' describe the configured window used for the portfolio row.
func NewAccumulator(instruments []Instrument, years int, window date.Range) *Accumulator {
	a := &Accumulator{
		years:    years,
		window:   window,
		expected: make(map[string]bool, len(instruments)),
	}
	for _, inst := range instruments {
		if _, exists := a.expected[inst.Symbol]; !exists {
			a.order = append(a.order, inst.Symbol)
		}
		a.expected[inst.Symbol] = false
	}
	return a
}

// Add folds one instrument's analysis into the portfolio.
func (a *Accumulator) Add(an Analysis) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	symbol := an.Row.Symbol
	if a.finalized {
		return instrumentError(symbol, ErrFinalized)
	}
	added, known := a.expected[symbol]
	if !known {
		return instrumentError(symbol, fmt.Errorf("%w: unknown symbol", ErrConfiguration))
	}
	if added {
		return instrumentError(symbol, fmt.Errorf("%w: symbol accumulated twice", ErrConfiguration))
	}
	a.expected[symbol] = true

	w := an.Row.Weight
	a.returnSum += w * float64(an.Row.Return)
	a.costSum += w * an.Row.Cost
	a.weightSum += w
	for _, r := range an.Weighted {
		a.combined.AppendAdd(r.Date, r.Weighted)
	}
	return nil
}

// Finalize computes the portfolio row from everything accumulated so far.
//
// The portfolio starts at 100 and ends at 100 plus the weighted sum of the period returns.
// Every expected instrument must have been added.
func (a *Accumulator) Finalize() (SummaryRow, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.finalized {
		return SummaryRow{}, ErrFinalized
	}
	for _, symbol := range a.order {
		if !a.expected[symbol] {
			return SummaryRow{}, instrumentError(symbol, fmt.Errorf("%w: instrument was never accumulated", ErrConfiguration))
		}
	}
	if a.years <= 0 {
		return SummaryRow{}, fmt.Errorf("%w: window length must be positive, got %d years", ErrConfiguration, a.years)
	}

	const start = 100.
	end := start + a.returnSum
	if end <= 0 {
		return SummaryRow{}, fmt.Errorf("%w: portfolio end value %v must be positive", ErrInvalidPrice, end)
	}
	volatility, err := AnnualizedVolatility(a.combinedReturns())
	if err != nil {
		return SummaryRow{}, fmt.Errorf("portfolio volatility: %w", err)
	}
	a.finalized = true

	return SummaryRow{
		Symbol:           PortfolioSymbol,
		Name:             PortfolioSymbol,
		Weight:           a.weightSum,
		Start:            a.window.From,
		End:              a.window.To,
		StartValue:       start,
		EndValue:         end,
		Return:           Percent(a.returnSum),
		AnnualizedReturn: Percent(Annualize(start, end, float64(a.years)) * 100),
		Volatility:       volatility,
		Cost:             a.costSum,
	}, nil
}

// Combined returns the portfolio daily returns: the date aligned sum of every instrument's
// weighted daily returns.
func (a *Accumulator) Combined() []DailyReturn {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.combinedReturns()
}

func (a *Accumulator) combinedReturns() []DailyReturn {
	returns := make([]DailyReturn, 0, a.combined.Len())
	for on, r := range a.combined.Values() {
		returns = append(returns, DailyReturn{Date: on, Raw: r, Weighted: r})
	}
	return returns
}
