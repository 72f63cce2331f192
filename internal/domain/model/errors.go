package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrInvalidPeriod      = errors.New("year outside evaluation period")
	ErrUnknownProgramType = errors.New("unknown program type")
	ErrInvalidRecord      = errors.New("invalid record")
)
