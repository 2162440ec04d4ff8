package plot

import (
	"errors"
	"fmt"

	"github.com/etnz/riskret"
	"github.com/vicanso/go-charts/v2"
)

// GrowthOf100 compounds the daily returns starting from 100.
//
// The first value is 100, before the first return; there is one more value than returns.
func GrowthOf100(returns []riskret.DailyReturn) []float64 {
	values := make([]float64, 0, len(returns)+1)
	v := 100.0
	values = append(values, v)
	for _, r := range returns {
		v *= 1 + r.Raw
		values = append(values, v)
	}
	return values
}

// Growth renders the growth of 100 invested in the portfolio as a PNG line chart.
//
// 'returns' are the combined daily returns of the portfolio (see riskret.Report.Combined).
func Growth(title string, returns []riskret.DailyReturn) ([]byte, error) {
	if len(returns) == 0 {
		return nil, errors.New("no returns to plot")
	}
	values := GrowthOf100(returns)

	// the first value has no return date, label it with the first return's.
	labels := make([]string, 0, len(values))
	labels = append(labels, returns[0].Date.String())
	for _, r := range returns {
		labels = append(labels, r.Date.String())
	}

	yMin, yMax := values[0], values[0]
	for _, v := range values {
		yMin, yMax = min(yMin, v), max(yMax, v)
	}
	padding := (yMax - yMin) * 0.05
	if padding == 0 {
		padding = yMax * 0.05
	}
	yMin, yMax = yMin-padding, yMax+padding

	split := 6
	if len(labels) <= 30 {
		split = max(len(labels)/3, 3)
	}

	p, err := charts.LineRender(
		[][]float64{values},
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			SplitNumber: split,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}
