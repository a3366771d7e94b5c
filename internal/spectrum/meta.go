package spectrum

import (
	"spectraviewer/internal/logger"
)

// MetaFileName is the sidecar convention: a file with this exact name in a
// batch supplies a shared wavelength grid for flux-only delimited rows.
const MetaFileName = "meta.xml"

const metaWaveField = "intensities"

// loadMetaWave extracts the shared wavelength grid from a meta sidecar:
// the first row of the "intensities" field of its first table. Failures
// are absorbed — a bad sidecar degrades to index plotting, never aborts
// the batch.
func loadMetaWave(req Request) []float64 {
	doc, err := parseVOTableFile(req.AbsolutePath)
	if err != nil {
		logger.Warnf("meta wave ignored (%s): %v", req.DisplayName, err)
		return nil
	}
	table := firstTable(doc)
	if table == nil {
		logger.Warnf("meta wave ignored (%s): document has no table", req.DisplayName)
		return nil
	}
	idx := fieldIndex(table, metaWaveField)
	if idx < 0 {
		logger.Warnf("meta wave ignored (%s): no %q field", req.DisplayName, metaWaveField)
		return nil
	}
	if len(table.Rows) == 0 || idx >= len(table.Rows[0].Cells) {
		logger.Warnf("meta wave ignored (%s): %q field holds no data", req.DisplayName, metaWaveField)
		return nil
	}
	grid, err := cellValues(table.Rows[0].Cells[idx])
	if err != nil || len(grid) == 0 {
		logger.Warnf("meta wave ignored (%s): unreadable %q values: %v", req.DisplayName, metaWaveField, err)
		return nil
	}
	return grid
}
