// Package middleware provides various middleware implementations for the sigma service.
// This package includes logging middleware that wraps the calculator to provide
// execution time logging and method call tracing for debugging and monitoring purposes.
package middleware

import (
	"context"
	"time"

	"github.com/hyp3rd/sigma"
	"github.com/hyp3rd/sigma/pkg/collector"
	"github.com/hyp3rd/sigma/pkg/parser"
	"github.com/hyp3rd/sigma/pkg/statistics"
)

// Logger describes a logging interface allowing to implement different external, or custom logger.
// Uber's Zap SugaredLogger satisfies it, as does any logger exposing the two methods.
type Logger interface {
	Infof(format string, v ...any)
	Errorf(format string, v ...any)
}

// LoggingMiddleware is a middleware that logs the time it takes to execute the next middleware.
// Must implement the sigma.Service interface.
type LoggingMiddleware struct {
	next   sigma.Service
	logger Logger
}

// NewLoggingMiddleware returns a new LoggingMiddleware.
func NewLoggingMiddleware(next sigma.Service, logger Logger) sigma.Service {
	return &LoggingMiddleware{next: next, logger: logger}
}

// Parse logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Parse(ctx context.Context, raw string) (parser.NumberList, error) {
	defer func(begin time.Time) {
		mw.logger.Infof("method Parse took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Infof("Parse method invoked with %d bytes of input", len(raw))

	xs, err := mw.next.Parse(ctx, raw)
	mw.logError("Parse", err)

	return xs, err
}

// Compute logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Compute(ctx context.Context, xs parser.NumberList) (*statistics.Result, error) {
	defer func(begin time.Time) {
		mw.logger.Infof("method Compute took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Infof("Compute method invoked with n = %d", len(xs))

	res, err := mw.next.Compute(ctx, xs)
	mw.logError("Compute", err)

	return res, err
}

// Calculate logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Calculate(ctx context.Context, raw string) (*statistics.Result, error) {
	defer func(begin time.Time) {
		mw.logger.Infof("method Calculate took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Infof("Calculate method invoked with %d bytes of input", len(raw))

	res, err := mw.next.Calculate(ctx, raw)
	mw.logError("Calculate", err)

	return res, err
}

// ClearCache logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) ClearCache(ctx context.Context) error {
	defer func(begin time.Time) {
		mw.logger.Infof("method ClearCache took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Infof("ClearCache method invoked")

	err := mw.next.ClearCache(ctx)
	mw.logError("ClearCache", err)

	return err
}

// GetStats returns the stats of the next middleware.
func (mw LoggingMiddleware) GetStats() collector.Stats {
	return mw.next.GetStats()
}

// Stop logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Stop(ctx context.Context) error {
	defer func(begin time.Time) {
		mw.logger.Infof("method Stop took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Infof("Stop method invoked")

	err := mw.next.Stop(ctx)
	mw.logError("Stop", err)

	return err
}

func (mw LoggingMiddleware) logError(method string, err error) {
	if err == nil {
		return
	}

	mw.logger.Errorf("method %s failed (%s): %v", method, sigma.Describe(err).Code, err)
}
