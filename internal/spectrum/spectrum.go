// Package spectrum decodes astronomical spectrum files (FITS, VOTable,
// delimited text) into wavelength/flux pairs and plots them onto a target
// figure. Batches are processed sequentially and fail fast: a single bad
// file aborts the whole request.
package spectrum

// Request identifies one spectrum file after path resolution.
type Request struct {
	// DisplayName is the final path segment, used for curve labels.
	DisplayName string
	// AbsolutePath points at the file inside the configured root.
	AbsolutePath string
}

// Decoded is one spectrum extracted from a file. Wave may be nil, in which
// case the consumer plots Flux against its own index. When Wave is present
// it has the same length as Flux.
type Decoded struct {
	Name string
	Wave []float64
	Flux []float64
}

// PlotTarget is the sink decoded spectra are drawn onto. Implementations
// must count every added curve exactly once; the count decides whether the
// legend is shown.
type PlotTarget interface {
	// AddCurve draws flux against wave, or against the sample index when
	// wave is nil.
	AddCurve(name string, wave, flux []float64)
	CurveCount() int
}
