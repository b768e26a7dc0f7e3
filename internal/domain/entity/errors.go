package entity

import "errors"

// Request-level failure taxonomy. Row-level problems are values on
// IngestReport, not errors; these sentinels cover failures that abort a
// request before any store mutation.
var (
	ErrPayloadTooLarge     = errors.New("payload too large")
	ErrUnexpectedFileField = errors.New("unexpected file field")
	ErrUnparseableFile     = errors.New("unparseable spreadsheet")
	ErrNotFound            = errors.New("record not found")
	ErrBadRequest          = errors.New("bad request")
)
