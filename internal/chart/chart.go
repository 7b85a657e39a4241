// Package chart turns tabular query results into renderable figures. It is
// a thin wrapper over go-echarts; callers hand it series and get HTML back.
// Zero-row input renders an empty figure, never an error.
package chart

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Point is a single scatter marker. Size zero falls back to a default
// marker size.
type Point struct {
	X    float64
	Y    float64
	Size float64
}

const defaultMarkerSize = 8

// Bar builds a vertical bar figure from parallel label/value slices.
func Bar(title string, labels []string, values []float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))

	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: v}
	}

	bar.SetXAxis(labels).AddSeries(title, data)
	return bar
}

// Scatter builds a numeric-axis scatter figure.
func Scatter(title string, points []Point) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value"}),
	)

	data := make([]opts.ScatterData, len(points))
	for i, p := range points {
		size := int(p.Size)
		if size <= 0 {
			size = defaultMarkerSize
		}
		data[i] = opts.ScatterData{
			Value:      []any{p.X, p.Y},
			SymbolSize: size,
		}
	}

	scatter.AddSeries(title, data)
	return scatter
}

// RenderPage writes the given figures as one HTML page.
func RenderPage(w io.Writer, figures ...components.Charter) error {
	page := components.NewPage()
	page.AddCharts(figures...)
	return page.Render(w)
}
