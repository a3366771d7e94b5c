package spectrum

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Location tokens accepted by Roots.Dir.
const (
	LocationFilesystem = "filesystem"
	LocationJobs       = "jobs"
)

// Roots holds the two configured spectrum directories. Values are absolute
// paths, read-only after startup.
type Roots struct {
	Filesystem string
	Jobs       string
}

// Dir maps a location token to its configured directory.
func (r Roots) Dir(location string) (string, error) {
	switch location {
	case LocationFilesystem:
		return r.Filesystem, nil
	case LocationJobs:
		return r.Jobs, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLocation, location)
	}
}

// Resolve maps a raw relative path inside the named location to a Request.
// Leading separators are stripped and any ".." segment is rejected, so the
// result always stays inside the configured root.
func (r Roots) Resolve(location, raw string) (Request, error) {
	dir, err := r.Dir(location)
	if err != nil {
		return Request{}, err
	}
	rel := strings.TrimLeft(raw, "/\\")
	if hasParentSegment(rel) {
		return Request{}, fmt.Errorf("%w: %q", ErrInvalidPath, raw)
	}
	abs := filepath.Join(dir, filepath.FromSlash(rel))
	return Request{
		DisplayName:  filepath.Base(abs),
		AbsolutePath: abs,
	}, nil
}

func hasParentSegment(path string) bool {
	for _, seg := range strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	}) {
		if seg == ".." {
			return true
		}
	}
	return false
}
