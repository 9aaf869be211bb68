// Package backend provides the result cache used by the calculator.
// It defines the contract that every backend must follow and ships two
// implementations: an in-memory LRU and a Redis store.
//
// Results are keyed by the canonical form of the parsed list (see Key), so two
// inputs that differ only in separators share one entry.
//
// Backend implementations must satisfy the IBackendConstrain type constraint,
// which currently supports InMemory and Redis backend types.
package backend

import (
	"context"

	"github.com/hyp3rd/sigma/pkg/statistics"
)

// IBackendConstrain restricts the generic options to the supported backend types.
type IBackendConstrain interface {
	InMemory | Redis
}

// IBackend defines the contract that all result backends must implement.
//
// All methods accept a context.Context parameter for cancellation and timeout
// control, enabling graceful handling of remote stores.
type IBackend interface {
	// Get retrieves the result stored under key.
	Get(ctx context.Context, key string) (result *statistics.Result, ok bool)
	// Set stores a result under key.
	Set(ctx context.Context, key string, result *statistics.Result) error
	// Capacity returns the maximum number of results that can be stored, 0 meaning unbounded.
	Capacity() int
	// Count returns the number of results currently stored.
	Count(ctx context.Context) int
	// Remove deletes the results stored under keys.
	Remove(ctx context.Context, keys ...string) error
	// Clear removes all results.
	Clear(ctx context.Context) error
}
