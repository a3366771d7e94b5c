package spectrum

import (
	"fmt"
	"math"
)

// reconstructWave derives the implicit wavelength axis of a flux-only HDU
// from its WCS sampling cards: CRPIX1 (reference pixel), CRVAL1 (coordinate
// at the reference pixel) and CDELT1, falling back to CD1_1, (per-pixel
// increment). DC-FLAG selects the sampling mode; absent means linear.
func reconstructWave(h fitsHeader, n int) ([]float64, error) {
	refPix, ok := h.intVal("CRPIX1")
	if !ok {
		return nil, fmt.Errorf("missing CRPIX1")
	}
	refVal, ok := h.floatVal("CRVAL1")
	if !ok {
		return nil, fmt.Errorf("missing CRVAL1")
	}
	delta, ok := h.floatVal("CDELT1")
	if !ok {
		delta, ok = h.floatVal("CD1_1")
	}
	if !ok {
		return nil, fmt.Errorf("missing CDELT1 and CD1_1")
	}
	logSampling := false
	if flag, ok := h.intVal("DC-FLAG"); ok && flag == 1 {
		logSampling = true
	}

	wave := make([]float64, n)
	for i := range wave {
		v := refVal + float64(i-refPix+1)*delta
		if logSampling {
			v = math.Pow(10, v)
		}
		wave[i] = v
	}
	return wave, nil
}
