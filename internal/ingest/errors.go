package ingest

import "errors"

// Sentinel kinds for dataset loading errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	ErrMissingColumn     = errors.New("missing required column")
	ErrNoData            = errors.New("dataset has no data rows")
)
