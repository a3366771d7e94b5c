package spectrum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDelimitedNamedCommaRows(t *testing.T) {
	content := "alpha,1,2,3\nbeta,4,5,6\n"
	req := writeSpectrumFile(t, "named.csv", []byte(content))

	decoded, err := decodeDelimited(req, nil)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, "alpha", decoded[0].Name)
	assert.Equal(t, []float64{1, 2, 3}, decoded[0].Flux)
	assert.Nil(t, decoded[0].Wave)
	assert.Equal(t, "beta", decoded[1].Name)
	assert.Equal(t, []float64{4, 5, 6}, decoded[1].Flux)
}

func TestDecodeDelimitedUnnamedRowsGetGeneratedNames(t *testing.T) {
	content := "1,2,3\n4,5,6\n"
	req := writeSpectrumFile(t, "anon.csv", []byte(content))

	decoded, err := decodeDelimited(req, nil)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, "anon.csv: #0", decoded[0].Name)
	assert.Equal(t, "anon.csv: #1", decoded[1].Name)
}

func TestDecodeDelimitedSpaceSniffing(t *testing.T) {
	content := "1 2 3\n4 5 6\n"
	req := writeSpectrumFile(t, "spaces.csv", []byte(content))

	decoded, err := decodeDelimited(req, nil)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, []float64{1, 2, 3}, decoded[0].Flux)
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ' ', sniffDelimiter("a b c"))
	assert.Equal(t, ',', sniffDelimiter("a,b,c"))
	// Equal counts fall back to comma.
	assert.Equal(t, ',', sniffDelimiter("a b,c"))
}

func TestDecodeDelimitedMetaWaveInjection(t *testing.T) {
	content := "1,2,3\n"
	req := writeSpectrumFile(t, "withmeta.csv", []byte(content))
	meta := []float64{4000, 4001, 4002}

	decoded, err := decodeDelimited(req, meta)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, meta, decoded[0].Wave)
}

func TestDecodeDelimitedMetaWaveLengthMismatch(t *testing.T) {
	content := "1,2,3\n"
	req := writeSpectrumFile(t, "badmeta.csv", []byte(content))

	_, err := decodeDelimited(req, []float64{4000, 4001})
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecodeDelimitedBadValue(t *testing.T) {
	req := writeSpectrumFile(t, "bad.csv", []byte("1,notanumber,3\n"))
	_, err := decodeDelimited(req, nil)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecodeDelimitedEmptyFile(t *testing.T) {
	req := writeSpectrumFile(t, "empty.csv", nil)
	_, err := decodeDelimited(req, nil)
	assert.ErrorIs(t, err, ErrDecode)
}
