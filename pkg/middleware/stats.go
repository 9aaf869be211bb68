package middleware

import (
	"context"
	"time"

	"github.com/hyp3rd/sigma"
	"github.com/hyp3rd/sigma/pkg/collector"
	"github.com/hyp3rd/sigma/pkg/parser"
	"github.com/hyp3rd/sigma/pkg/statistics"
	"github.com/hyp3rd/sigma/types"
)

// StatsCollectorMiddleware is a middleware that collects stats. It can and should re-use the same stats collector as the calculator.
// Must implement the sigma.Service interface.
type StatsCollectorMiddleware struct {
	next           sigma.Service
	statsCollector collector.ICollector
}

// NewStatsCollectorMiddleware returns a new StatsCollectorMiddleware.
func NewStatsCollectorMiddleware(next sigma.Service, statsCollector collector.ICollector) sigma.Service {
	return &StatsCollectorMiddleware{next: next, statsCollector: statsCollector}
}

// Parse collects stats for the Parse method.
func (mw StatsCollectorMiddleware) Parse(ctx context.Context, raw string) (parser.NumberList, error) {
	start := time.Now()

	xs, err := mw.next.Parse(ctx, raw)
	mw.record(types.StatParseDuration, types.StatParseCount, start, err)

	return xs, err
}

// Compute collects stats for the Compute method.
func (mw StatsCollectorMiddleware) Compute(ctx context.Context, xs parser.NumberList) (*statistics.Result, error) {
	start := time.Now()

	res, err := mw.next.Compute(ctx, xs)
	mw.record(types.StatComputeDuration, types.StatComputeCount, start, err)

	return res, err
}

// Calculate collects stats for the Calculate method.
func (mw StatsCollectorMiddleware) Calculate(ctx context.Context, raw string) (*statistics.Result, error) {
	start := time.Now()

	res, err := mw.next.Calculate(ctx, raw)
	mw.record(types.StatCalculateDuration, types.StatCalculateCount, start, err)

	return res, err
}

// ClearCache clears the result cache of the next middleware.
func (mw StatsCollectorMiddleware) ClearCache(ctx context.Context) error {
	return mw.next.ClearCache(ctx)
}

// GetStats returns the stats of the calculator.
func (mw StatsCollectorMiddleware) GetStats() collector.Stats {
	return mw.next.GetStats()
}

// Stop stops the next middleware.
func (mw StatsCollectorMiddleware) Stop(ctx context.Context) error {
	return mw.next.Stop(ctx)
}

func (mw StatsCollectorMiddleware) record(duration, count types.Stat, start time.Time, err error) {
	mw.statsCollector.Timing(duration, time.Since(start).Nanoseconds())
	mw.statsCollector.Incr(count, 1)

	if err != nil {
		mw.statsCollector.Incr(types.StatErrors, 1)
	}
}
