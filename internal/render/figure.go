// Package render draws decoded spectra with go-echarts and manages the
// per-request figure handles the HTTP layer serves.
package render

import (
	"fmt"
	"io"
	"sync"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"spectraviewer/internal/spectrum"
)

const (
	chartWidthPx  = 1280
	chartHeightPx = 640

	xAxisLabel = "Wavelength"
	yAxisLabel = "Flux"
)

var _ spectrum.PlotTarget = (*Figure)(nil)

// Figure is one plot surface. It lives for a single view request and is
// kept addressable through the Registry until its TTL runs out.
type Figure struct {
	mu          sync.Mutex
	line        *charts.Line
	legendLimit int
	count       int
}

// NewFigure builds an empty figure. The legend stays visible while the
// curve count does not exceed legendLimit.
func NewFigure(legendLimit int) *Figure {
	return &Figure{
		line:        charts.NewLine(),
		legendLimit: legendLimit,
	}
}

// AddCurve appends one named series. With a wavelength axis the points are
// (wave[i], flux[i]); without one flux is drawn against its sample index.
func (f *Figure) AddCurve(name string, wave, flux []float64) {
	data := make([]opts.LineData, len(flux))
	for i, y := range flux {
		x := float64(i)
		if wave != nil {
			x = wave[i]
		}
		data[i] = opts.LineData{Value: []interface{}{x, y}}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.line.AddSeries(name, data,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)
	f.count++
}

func (f *Figure) CurveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

// Render writes the figure as a self-contained HTML page. Global options
// are applied here because legend visibility depends on the final curve
// count.
func (f *Figure) Render(w io.Writer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	showLegend := f.count <= f.legendLimit
	f.line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Spectra",
			Width:     fmt.Sprintf("%dpx", chartWidthPx),
			Height:    fmt.Sprintf("%dpx", chartHeightPx),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(showLegend)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", XAxisIndex: []int{0}}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: xAxisLabel, Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: yAxisLabel, Scale: opts.Bool(true)}),
	)
	return f.line.Render(w)
}
