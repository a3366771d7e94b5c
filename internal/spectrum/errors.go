package spectrum

import "errors"

var (
	// ErrInvalidPath marks a relative path that tries to escape its root.
	ErrInvalidPath = errors.New("invalid spectrum path")

	// ErrUnknownLocation marks a location token outside the configured set.
	ErrUnknownLocation = errors.New("unknown spectrum location")

	// ErrFileNotFound marks a resolved path that is not a regular file.
	ErrFileNotFound = errors.New("spectrum file not found")

	// ErrInvalidName marks an empty file name.
	ErrInvalidName = errors.New("invalid spectrum file name")

	// ErrUnknownFormat marks a file suffix with no registered decoder.
	ErrUnknownFormat = errors.New("unknown spectrum format")

	// ErrDecode marks a file that matched a decoder but could not be read.
	ErrDecode = errors.New("spectrum decode failed")

	// ErrEmptyBatch marks a request with no plottable spectrum files.
	ErrEmptyBatch = errors.New("empty spectrum batch")
)
