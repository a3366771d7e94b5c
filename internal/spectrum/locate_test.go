package spectrum

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoots() Roots {
	return Roots{Filesystem: "/srv/spectra", Jobs: "/srv/jobs"}
}

func TestResolveJoinsRootAndPath(t *testing.T) {
	req, err := testRoots().Resolve(LocationFilesystem, "survey/a.fits")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/spectra", "survey", "a.fits"), req.AbsolutePath)
	assert.Equal(t, "a.fits", req.DisplayName)
}

func TestResolveStripsLeadingSeparators(t *testing.T) {
	req, err := testRoots().Resolve(LocationJobs, "//job42/out.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/jobs", "job42", "out.csv"), req.AbsolutePath)
}

func TestResolveRejectsParentSegments(t *testing.T) {
	cases := []string{
		"../x",
		"a/../../etc/passwd",
		"..",
		"/../x",
		`..\x`,
	}
	for _, raw := range cases {
		t.Run(raw, func(t *testing.T) {
			for _, location := range []string{LocationFilesystem, LocationJobs} {
				_, err := testRoots().Resolve(location, raw)
				assert.ErrorIs(t, err, ErrInvalidPath)
			}
		})
	}
}

func TestResolveAllowsDotsInsideNames(t *testing.T) {
	req, err := testRoots().Resolve(LocationFilesystem, "a..b.csv")
	require.NoError(t, err)
	assert.Equal(t, "a..b.csv", req.DisplayName)
}

func TestResolveUnknownLocation(t *testing.T) {
	_, err := testRoots().Resolve("archive", "a.fits")
	assert.ErrorIs(t, err, ErrUnknownLocation)
}
