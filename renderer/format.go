package renderer

import (
	"fmt"
	"text/template"

	"github.com/Rhymond/go-money"
	"github.com/etnz/riskret"
	"github.com/shopspring/decimal"
)

var funcs = template.FuncMap{
	"price":  Price,
	"weight": Weight,
	"cost":   Cost,
	"name":   Name,
}

// Price formats a price in its currency, like "€110.25". Prices without a currency, or in
// a currency unknown to go-money, are printed with two decimals.
func Price(value float64, currency string) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", value)
	}
	cur := money.GetCurrency(currency)
	if cur == nil {
		return fmt.Sprintf("%.2f %s", value, currency)
	}
	// amounts are in the currency's minor unit.
	amount := decimal.NewFromFloat(value).Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(amount)
}

// Weight formats a weight as a percentage of the portfolio.
func Weight(w float64) string {
	return riskret.Percent(w * 100).String()
}

// Cost formats a yearly cost, already in percent.
func Cost(c float64) string {
	return fmt.Sprintf("%.2f%%", c)
}

// Name returns the row display name, in bold for the portfolio.
func Name(row riskret.SummaryRow) string {
	if row.IsPortfolio() {
		return "**" + row.Name + "**"
	}
	return row.Name
}
