package sigma

import (
	"context"

	"github.com/hyp3rd/sigma/pkg/collector"
	"github.com/hyp3rd/sigma/pkg/parser"
	"github.com/hyp3rd/sigma/pkg/statistics"
)

// Service is the service interface for the Calculator.
// It enables middleware to be added to the service.
type Service interface {
	// Parse validates raw text and returns the integers it holds.
	Parse(ctx context.Context, raw string) (parser.NumberList, error)
	// Compute derives the population statistics of xs.
	Compute(ctx context.Context, xs parser.NumberList) (*statistics.Result, error)
	// Calculate parses raw text and computes its statistics.
	Calculate(ctx context.Context, raw string) (*statistics.Result, error)
	// ClearCache drops every cached result.
	ClearCache(ctx context.Context) error
	// GetStats returns the stats of the service.
	GetStats() collector.Stats
	// Stop releases the resources held by the service.
	Stop(ctx context.Context) error
}

// Middleware describes a service middleware.
type Middleware func(Service) Service

// ApplyMiddleware applies middlewares to a service.
func ApplyMiddleware(svc Service, mw ...Middleware) Service {
	// Apply each middleware in the chain
	for _, m := range mw {
		svc = m(svc)
	}
	// Return the decorated service
	return svc
}
