package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFigureCountsCurves(t *testing.T) {
	fig := NewFigure(10)
	assert.Equal(t, 0, fig.CurveCount())

	fig.AddCurve("a", []float64{1, 2}, []float64{3, 4})
	fig.AddCurve("b", nil, []float64{5, 6})
	assert.Equal(t, 2, fig.CurveCount())
}

func TestFigureRenderEmitsSeries(t *testing.T) {
	fig := NewFigure(10)
	fig.AddCurve("NGC 1275", []float64{4000, 4002}, []float64{1.5, 1.6})

	var buf bytes.Buffer
	require.NoError(t, fig.Render(&buf))
	html := buf.String()
	assert.Contains(t, html, "NGC 1275")
	assert.Contains(t, html, "echarts")
}

func TestFigureRenderIndexFallback(t *testing.T) {
	fig := NewFigure(10)
	fig.AddCurve("rowdata", nil, []float64{7, 8, 9})

	var buf bytes.Buffer
	require.NoError(t, fig.Render(&buf))
	assert.Contains(t, buf.String(), "rowdata")
}
