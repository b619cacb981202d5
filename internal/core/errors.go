// Package core defines sentinel errors.
package core

import "errors"

// Sentinel errors, matched with errors.Is at call sites.
var (
	// Decoding errors
	ErrOutOfBounds = errors.New("tapagg: read past end of frame")

	// Capture source errors
	ErrSourceClosed = errors.New("tapagg: capture source closed")
	ErrReadTimeout  = errors.New("tapagg: read timed out")

	// Configuration errors
	ErrConfigInvalid = errors.New("tapagg: invalid configuration")
)
