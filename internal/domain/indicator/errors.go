package indicator

import "errors"

// Sentinel kinds for indicator errors.
var (
	ErrIndeterminate    = errors.New("indeterminate: required denominator is zero")
	ErrUnknownIndicator = errors.New("unknown indicator")
)
