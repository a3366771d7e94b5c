package spectrum

import (
	"fmt"
	"os"

	"spectraviewer/internal/logger"
)

// Plotter runs spectrum batches against the configured roots.
type Plotter struct {
	roots Roots
}

func NewPlotter(roots Roots) *Plotter {
	return &Plotter{roots: roots}
}

// Roots exposes the configured spectrum directories.
func (p *Plotter) Roots() Roots {
	return p.roots
}

// PlotSpectra resolves, decodes and plots every file of the batch onto
// target, in input order. Processing is strictly sequential and fail-fast:
// the first error aborts the batch and the caller must discard the target.
// A file named exactly "meta.xml" is consumed as the shared wavelength
// grid for delimited-text rows and is never plotted itself.
func (p *Plotter) PlotSpectra(target PlotTarget, files []string, location string) error {
	if len(files) == 0 {
		return fmt.Errorf("%w: no files requested", ErrEmptyBatch)
	}

	requests := make([]Request, 0, len(files))
	var metaReq *Request
	for _, raw := range files {
		req, err := p.roots.Resolve(location, raw)
		if err != nil {
			return err
		}
		if err := checkRegularFile(req); err != nil {
			return err
		}
		if req.DisplayName == MetaFileName {
			if metaReq == nil {
				r := req
				metaReq = &r
			}
			continue
		}
		requests = append(requests, req)
	}
	if len(requests) == 0 {
		return fmt.Errorf("%w: batch holds only the meta sidecar", ErrEmptyBatch)
	}

	var metaWave []float64
	if metaReq != nil {
		metaWave = loadMetaWave(*metaReq)
	}

	for _, req := range requests {
		format, err := DetectFormat(req.DisplayName)
		if err != nil {
			return err
		}
		decoded, err := decode(format, req, metaWave)
		if err != nil {
			return err
		}
		for _, d := range decoded {
			target.AddCurve(curveLabel(req, format, d), d.Wave, d.Flux)
		}
		logger.Debugf("plotted %s (%s, %d curve(s))", req.DisplayName, format, len(decoded))
	}
	return nil
}

// decode dispatches to the closed decoder set. Only the delimited-text
// decoder consumes the meta wave.
func decode(format Format, req Request, metaWave []float64) ([]Decoded, error) {
	switch format {
	case FormatFITS:
		return decodeFITS(req)
	case FormatVOTable:
		return decodeVOTable(req)
	case FormatDelimited:
		return decodeDelimited(req, metaWave)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// curveLabel composes the legend label. Delimited rows name themselves;
// single-spectrum formats prefix the decoded object name with the file
// name, or fall back to the file name alone.
func curveLabel(req Request, format Format, d Decoded) string {
	if format == FormatDelimited {
		return d.Name
	}
	if d.Name != "" {
		return fmt.Sprintf("%s: %s", req.DisplayName, d.Name)
	}
	return req.DisplayName
}

func checkRegularFile(req Request) error {
	info, err := os.Stat(req.AbsolutePath)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrFileNotFound, req.DisplayName)
	}
	return nil
}
