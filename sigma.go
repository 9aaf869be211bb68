// Package sigma computes the population mean, variance and standard deviation
// of a free-form list of integers, with a textual derivation of every step.
//
// The numeric core lives in pkg/parser and pkg/statistics and has no
// dependency on this package. The Calculator ties the two together, adds an
// optional result cache and a stats collector, and can expose everything over
// HTTP:
//
//	calc, err := sigma.NewDefault(ctx)
//	if err != nil {
//		return err
//	}
//	defer calc.Stop(ctx)
//
//	res, err := calc.Calculate(ctx, "2, 4, 4, 4, 5, 5, 7, 9")
//	if err != nil {
//		fmt.Println(sigma.Describe(err).Text)
//		return nil
//	}
//	fmt.Print(res.Report())
package sigma

import (
	"context"
	"slices"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/sigma/internal/constants"
	"github.com/hyp3rd/sigma/pkg/backend"
	"github.com/hyp3rd/sigma/pkg/collector"
	"github.com/hyp3rd/sigma/pkg/parser"
	"github.com/hyp3rd/sigma/pkg/statistics"
	"github.com/hyp3rd/sigma/types"
)

// Calculator is the default Service implementation.
// It is safe for concurrent use.
type Calculator struct {
	backendName        string
	backend            backend.IBackend // nil when caching is disabled
	statsCollectorName string
	StatsCollector     collector.ICollector
	httpServer         *HTTPServer
}

// New builds a calculator from cfg, creating its backend through the default backend manager.
// When the config enables the HTTP server it is started before New returns.
func New(ctx context.Context, cfg *Config) (*Calculator, error) {
	return NewWithManager(ctx, NewBackendManager(), cfg)
}

// NewDefault returns a calculator without result cache and with the default stats collector.
func NewDefault(ctx context.Context) (*Calculator, error) {
	return New(ctx, NewConfig(constants.NoBackend))
}

// NewWithManager builds a calculator using bm to create the backend named in cfg.
func NewWithManager(ctx context.Context, bm *BackendManager, cfg *Config) (*Calculator, error) {
	calc := &Calculator{
		backendName:        cfg.BackendName,
		statsCollectorName: constants.DefaultStatsCollector,
	}

	ApplyOptions(calc, cfg.CalculatorOptions...)

	statsCollector, err := collector.NewCollector(calc.statsCollectorName)
	if err != nil {
		return nil, err
	}

	calc.StatsCollector = statsCollector

	calc.backend, err = bm.Create(ctx, cfg)
	if err != nil {
		return nil, ewrap.Wrap(err, "creating result backend")
	}

	if calc.backendName == "" {
		calc.backendName = constants.NoBackend
	}

	if calc.httpServer != nil {
		err = calc.httpServer.Start(ctx, calc)
		if err != nil {
			return nil, err
		}
	}

	return calc, nil
}

// Parse validates raw text and returns the integers it holds.
func (c *Calculator) Parse(_ context.Context, raw string) (parser.NumberList, error) {
	return parser.Parse(raw)
}

// Compute derives the statistics of xs, serving and filling the result cache when one is configured.
// A cached result is served only when its values equal xs; any other entry under the same key is replaced.
// Cache failures never fail a computation; they are counted in the stats collector.
func (c *Calculator) Compute(ctx context.Context, xs parser.NumberList) (*statistics.Result, error) {
	if c.backend == nil || len(xs) == 0 {
		return c.compute(xs)
	}

	key := backend.Key(xs)

	// keys are 64-bit hashes, so a hit only counts when the values match
	if cached, ok := c.backend.Get(ctx, key); ok && slices.Equal(cached.Values, []int64(xs)) {
		c.StatsCollector.Incr(types.StatCacheHit, 1)

		return cached, nil
	}

	c.StatsCollector.Incr(types.StatCacheMiss, 1)

	res, err := c.compute(xs)
	if err != nil {
		return nil, err
	}

	if setErr := c.backend.Set(ctx, key, res); setErr != nil {
		c.StatsCollector.Incr(types.StatCacheError, 1)
	}

	return res, nil
}

func (c *Calculator) compute(xs parser.NumberList) (*statistics.Result, error) {
	res, err := statistics.Compute(xs)
	if err != nil {
		return nil, err
	}

	c.StatsCollector.Histogram(types.StatValuesCount, int64(res.Count))

	return res, nil
}

// Calculate parses raw text and computes its statistics.
func (c *Calculator) Calculate(ctx context.Context, raw string) (*statistics.Result, error) {
	xs, err := c.Parse(ctx, raw)
	if err != nil {
		return nil, err
	}

	return c.Compute(ctx, xs)
}

// ClearCache drops every cached result. It is a no-op without a backend.
func (c *Calculator) ClearCache(ctx context.Context) error {
	if c.backend == nil {
		return nil
	}

	return c.backend.Clear(ctx)
}

// GetStats returns the stats collected so far.
func (c *Calculator) GetStats() collector.Stats {
	return c.StatsCollector.GetStats()
}

// BackendName returns the name of the configured result backend.
func (c *Calculator) BackendName() string {
	return c.backendName
}

// CacheCapacity returns the capacity of the result backend, 0 when unbounded or disabled.
func (c *Calculator) CacheCapacity() int {
	if c.backend == nil {
		return 0
	}

	return c.backend.Capacity()
}

// CacheCount returns the number of cached results.
func (c *Calculator) CacheCount(ctx context.Context) int {
	if c.backend == nil {
		return 0
	}

	return c.backend.Count(ctx)
}

// StatsCollectorName returns the name of the stats collector in use.
func (c *Calculator) StatsCollectorName() string {
	return c.statsCollectorName
}

// HTTPAddress returns the bound address of the HTTP server, empty when it is not running.
func (c *Calculator) HTTPAddress() string {
	if c.httpServer == nil {
		return ""
	}

	return c.httpServer.Address()
}

// Stop shuts the HTTP server down, waiting at most constants.DefaultTimeout.
func (c *Calculator) Stop(ctx context.Context) error {
	if c.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	err := c.httpServer.Shutdown(ctx)
	if err != nil {
		return ewrap.Wrap(err, "stopping http server")
	}

	return nil
}
