package riskret

import (
	"github.com/etnz/riskret/date"
)

// PortfolioSymbol is the symbol and name of the synthetic row aggregating all instruments.
const PortfolioSymbol = "Portfolio"

// PriceRecord is the adjusted closing price of one instrument on one day.
type PriceRecord struct {
	Date          date.Date `json:"date"`
	AdjustedClose float64   `json:"adjusted_close"`
}

// DailyReturn is the return of an instrument between a day and the previous record.
//
// There is no DailyReturn for the first day of a series.
type DailyReturn struct {
	Date     date.Date `json:"date"`
	Raw      float64   `json:"raw"`      // (close - previous close) / previous close
	Weighted float64   `json:"weighted"` // weight * Raw
}

// Instrument is the configuration of one portfolio line.
type Instrument struct {
	Symbol   string  `json:"symbol" yaml:"symbol" mapstructure:"symbol"`                                     // Symbol is the unique key, and the ticker for the price provider.
	Name     string  `json:"name" yaml:"name" mapstructure:"name"`                                           // Name is the display name.
	Cost     float64 `json:"cost" yaml:"cost" mapstructure:"cost"`                                           // Cost is the yearly expense cost in percent (e.g. 0.07).
	Weight   float64 `json:"weight" yaml:"weight" mapstructure:"weight"`                                     // Weight is the target weight in the portfolio.
	Currency string  `json:"currency,omitempty" yaml:"currency,omitempty" mapstructure:"currency,omitempty"` // Currency of the prices, for display only.
}

// SummaryRow holds the statistics of one instrument, or of the whole portfolio.
type SummaryRow struct {
	Symbol           string    `json:"symbol"`
	Name             string    `json:"name"`
	Weight           float64   `json:"weight"`
	Start            date.Date `json:"start"`
	End              date.Date `json:"end"`
	StartValue       float64   `json:"start_value"`
	EndValue         float64   `json:"end_value"`
	Return           Percent   `json:"return"`
	AnnualizedReturn Percent   `json:"annualized_return"`
	Volatility       Percent   `json:"volatility"`
	Cost             float64   `json:"cost"`
	Currency         string    `json:"currency,omitempty"`
}

// IsPortfolio reports whether the row is the portfolio aggregate.
func (r SummaryRow) IsPortfolio() bool { return r.Symbol == PortfolioSymbol }

// Report is the result of a full run: one row per instrument in configuration order, then
// the portfolio row.
type Report struct {
	Window   date.Range    `json:"window"`
	Years    int           `json:"years"`
	Rows     []SummaryRow  `json:"rows"`
	Combined []DailyReturn `json:"-"` // portfolio daily returns
}

// Instruments returns the instrument rows, without the portfolio row.
func (r *Report) Instruments() []SummaryRow {
	rows := make([]SummaryRow, 0, len(r.Rows))
	for _, row := range r.Rows {
		if !row.IsPortfolio() {
			rows = append(rows, row)
		}
	}
	return rows
}

// Portfolio returns the portfolio row.
func (r *Report) Portfolio() (SummaryRow, bool) {
	for _, row := range r.Rows {
		if row.IsPortfolio() {
			return row, true
		}
	}
	return SummaryRow{}, false
}

// Row returns the row for 'symbol'.
func (r *Report) Row(symbol string) (SummaryRow, bool) {
	for _, row := range r.Rows {
		if row.Symbol == symbol {
			return row, true
		}
	}
	return SummaryRow{}, false
}
