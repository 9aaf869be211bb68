// Package attrs provides reusable OpenTelemetry attribute key constants
// to avoid duplication across middlewares.
package attrs

const (
	// AttrMethod names the service method being observed.
	AttrMethod = "method"
	// AttrInputLength is the length in bytes of the raw text handed to the parser.
	AttrInputLength = "input.len"
	// AttrValuesCount is the number of integers in a parsed list.
	AttrValuesCount = "values.count"
	// AttrErrorKind carries the machine code of a failed call.
	AttrErrorKind = "error.kind"
	// AttrOutcome is "ok" or "error".
	AttrOutcome = "outcome"
)
