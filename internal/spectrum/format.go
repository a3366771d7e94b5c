package spectrum

import (
	"fmt"
	"strings"
)

// Format tags the closed set of decodable file formats.
type Format int

const (
	FormatFITS Format = iota
	FormatVOTable
	FormatDelimited
)

func (f Format) String() string {
	switch f {
	case FormatFITS:
		return "fits"
	case FormatVOTable:
		return "votable"
	case FormatDelimited:
		return "delimited"
	default:
		return "unknown"
	}
}

// Ext returns the lowercase suffix after the last dot of name, or "" when
// the name carries no extension. An empty name is an error.
func Ext(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return "", nil
	}
	ext := strings.TrimSpace(name[idx+1:])
	return strings.ToLower(ext), nil
}

// DetectFormat picks the decoder format for a file name by its suffix.
func DetectFormat(name string) (Format, error) {
	ext, err := Ext(name)
	if err != nil {
		return 0, err
	}
	switch ext {
	case "fits", "fit":
		return FormatFITS, nil
	case "vot", "xml":
		return FormatVOTable, nil
	case "csv":
		return FormatDelimited, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}
