package spectrum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExt(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"spec.fits", "fits"},
		{"SPEC.FITS", "fits"},
		{"a.b.csv", "csv"},
		{"noext", ""},
		{"trailingdot.", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Ext(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtEmptyName(t *testing.T) {
	_, err := Ext("")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestDetectFormat(t *testing.T) {
	cases := map[string]Format{
		"a.fits": FormatFITS,
		"a.fit":  FormatFITS,
		"a.vot":  FormatVOTable,
		"a.xml":  FormatVOTable,
		"a.csv":  FormatDelimited,
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := DetectFormat(name)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestDetectFormatUnknownSuffix(t *testing.T) {
	for _, name := range []string{"a.txt", "a.png", "noext"} {
		_, err := DetectFormat(name)
		assert.ErrorIs(t, err, ErrUnknownFormat, name)
	}
}
