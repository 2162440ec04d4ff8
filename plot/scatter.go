// Package plot draws the report charts as PNG images.
package plot

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/etnz/riskret"
	"github.com/wcharczuk/go-chart/v2"
)

// Scatter chart size in pixels.
const (
	Width  = 1024
	Height = 768
)

// DotWidth returns the marker radius for a yearly cost in percent.
//
// The marker area grows as (100 * cost)^1.5, with a minimal radius so that free
// instruments stay visible.
func DotWidth(cost float64) float64 {
	const minWidth = 3
	area := math.Pow(100*math.Max(cost, 0), 1.5)
	return math.Max(minWidth, math.Sqrt(area)/2)
}

// Scatter writes the risk/return scatter plot of rows as a PNG image: annualized volatility
// on x and annualized return on y.
//
// Rows sharing a display name are drawn as one series, with one color per series in order
// of first appearance. Every point is labelled with its symbol.
func Scatter(w io.Writer, rows []riskret.SummaryRow) error {
	if len(rows) == 0 {
		return errors.New("no rows to plot")
	}

	type group struct {
		name       string
		x, y, dots []float64
	}
	var groups []*group
	byName := make(map[string]*group)
	var labels []chart.Value2
	for _, row := range rows {
		g, ok := byName[row.Name]
		if !ok {
			g = &group{name: row.Name}
			byName[row.Name] = g
			groups = append(groups, g)
		}
		x, y := float64(row.Volatility), float64(row.AnnualizedReturn)
		g.x = append(g.x, x)
		g.y = append(g.y, y)
		g.dots = append(g.dots, DotWidth(row.Cost))
		labels = append(labels, chart.Value2{XValue: x, YValue: y, Label: row.Symbol})
	}

	series := make([]chart.Series, 0, len(groups)+1)
	for i, g := range groups {
		color := chart.GetDefaultColor(i)
		series = append(series, chart.ContinuousSeries{
			Name:    g.name,
			XValues: g.x,
			YValues: g.y,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotColor:    color,
				DotWidth:    DotWidth(0),
				DotWidthProvider: func(_, _ chart.Range, index int, _, _ float64) float64 {
					return g.dots[index]
				},
			},
		})
	}
	series = append(series, chart.AnnotationSeries{Annotations: labels})

	xMin, xMax := bounds(rows, func(r riskret.SummaryRow) float64 { return float64(r.Volatility) })
	yMin, yMax := bounds(rows, func(r riskret.SummaryRow) float64 { return float64(r.AnnualizedReturn) })

	graph := chart.Chart{
		Title:  "Risk and Return",
		Width:  Width,
		Height: Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           "Volatility (annualized)",
			Range:          &chart.ContinuousRange{Min: xMin, Max: xMax},
			ValueFormatter: percentFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Return (annualized)",
			Range:          &chart.ContinuousRange{Min: yMin, Max: yMax},
			ValueFormatter: percentFormatter,
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("cannot render scatter plot: %w", err)
	}
	return nil
}

// bounds returns a padded [min, max] range of f over rows, never empty.
func bounds(rows []riskret.SummaryRow, f func(riskret.SummaryRow) float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range rows {
		v := f(r)
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.1, 1)
	}
	return lo - pad, hi + pad
}

func percentFormatter(v any) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.1f%%", f)
	}
	return ""
}
