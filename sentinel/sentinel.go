// Package sentinel provides standardized error definitions for sigma.
// It centralizes the error kinds surfaced by the parser and the statistics
// engine, so that callers can classify failures with errors.Is, together with
// the errors raised by the surrounding service (cache backends, serializers,
// collectors and the HTTP server).
//
// All errors are created using the ewrap package to provide enhanced error
// wrapping and context capabilities.
package sentinel

import (
	"github.com/hyp3rd/ewrap"
)

var (
	// ErrEmptyInput is returned when the raw text is empty or whitespace-only,
	// or when an empty list reaches the statistics engine.
	ErrEmptyInput = ewrap.New("empty input")

	// ErrInvalidToken is returned when a token is not an optionally signed decimal integer.
	ErrInvalidToken = ewrap.New("invalid token")

	// ErrNumberTooLarge is returned when a token does not fit a signed 64-bit integer.
	ErrNumberTooLarge = ewrap.New("number too large")

	// ErrNoValidIntegers is returned when the input holds nothing but separators.
	ErrNoValidIntegers = ewrap.New("no valid integers")

	// ErrNegativeInput is returned when a square root of a negative value is requested.
	ErrNegativeInput = ewrap.New("negative input")

	// ErrNilClient is returned when a nil client is passed to a backend.
	ErrNilClient = ewrap.New("nil client")

	// ErrInvalidCapacity is returned when an invalid capacity is passed to a backend.
	ErrInvalidCapacity = ewrap.New("capacity cannot be negative")

	// ErrBackendNotFound is returned when a backend is not found.
	ErrBackendNotFound = ewrap.New("backend not found")

	// ErrStatsCollectorNotFound is returned when a stats collector is not found.
	ErrStatsCollectorNotFound = ewrap.New("stats collector not found")

	// ErrParamCannotBeEmpty is returned when a parameter cannot be empty.
	ErrParamCannotBeEmpty = ewrap.New("param cannot be empty")

	// ErrSerializerNotFound is returned when a serializer is not found.
	ErrSerializerNotFound = ewrap.New("serializer not found")

	// ErrMgmtHTTPShutdownTimeout is returned when the HTTP server fails to shutdown before context deadline.
	ErrMgmtHTTPShutdownTimeout = ewrap.New("http shutdown timeout")
)
