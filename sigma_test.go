package sigma

import (
	"context"
	"errors"
	"testing"

	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/sigma/internal/constants"
	"github.com/hyp3rd/sigma/pkg/backend"
	"github.com/hyp3rd/sigma/pkg/collector"
	"github.com/hyp3rd/sigma/pkg/parser"
	"github.com/hyp3rd/sigma/pkg/statistics"
	"github.com/hyp3rd/sigma/sentinel"
	"github.com/hyp3rd/sigma/types"
)

func TestCalculator_Calculate(t *testing.T) {
	ctx := context.Background()

	calc, err := NewDefault(ctx)
	assert.Nil(t, err)
	assert.Equal(t, constants.NoBackend, calc.BackendName())
	assert.Equal(t, 0, calc.CacheCapacity())
	assert.Equal(t, "", calc.HTTPAddress())

	tests := []struct {
		raw      string
		mean     string
		variance string
		stddev   string
	}{
		{raw: "2, 4, 4, 4, 5, 5, 7, 9", mean: "5.000000", variance: "4.000000", stddev: "2.000000"},
		{raw: "1\n2\n3\n4", mean: "2.500000", variance: "1.250000", stddev: "1.118034"},
		{raw: "42", mean: "42.000000", variance: "0.000000", stddev: "0.000000"},
		{raw: "-5 5", mean: "0.000000", variance: "25.000000", stddev: "5.000000"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			res, err := calc.Calculate(ctx, tt.raw)
			assert.Nil(t, err)
			assert.Equal(t, tt.mean, res.FormattedMean())
			assert.Equal(t, tt.variance, res.FormattedVariance())
			assert.Equal(t, tt.stddev, res.FormattedStdDev())
		})
	}

	assert.Nil(t, calc.Stop(ctx))
}

func TestCalculator_Errors(t *testing.T) {
	ctx := context.Background()

	calc, err := NewDefault(ctx)
	assert.Nil(t, err)

	_, err = calc.Calculate(ctx, "   ")
	assert.True(t, errors.Is(err, sentinel.ErrEmptyInput))

	_, err = calc.Calculate(ctx, ", ,\n")
	assert.True(t, errors.Is(err, sentinel.ErrNoValidIntegers))

	_, err = calc.Calculate(ctx, "1, 2, x, 4")

	var invalid *parser.InvalidTokenError
	assert.True(t, errors.As(err, &invalid))
	assert.Equal(t, 3, invalid.Position)

	_, err = calc.Calculate(ctx, "99999999999999999999")
	assert.True(t, errors.Is(err, sentinel.ErrNumberTooLarge))

	_, err = calc.Compute(ctx, parser.NumberList{})
	assert.True(t, errors.Is(err, sentinel.ErrEmptyInput))
}

func TestCalculator_InMemoryCache(t *testing.T) {
	ctx := context.Background()

	cfg := NewConfig(constants.InMemoryBackend)
	cfg.InMemoryOptions = append(cfg.InMemoryOptions, backend.WithCapacity[backend.InMemory](2))

	calc, err := New(ctx, cfg)
	assert.Nil(t, err)
	assert.Equal(t, constants.InMemoryBackend, calc.BackendName())
	assert.Equal(t, 2, calc.CacheCapacity())

	first, err := calc.Calculate(ctx, "1,2 3")
	assert.Nil(t, err)

	// same list, different separators
	second, err := calc.Calculate(ctx, "1 2,3")
	assert.Nil(t, err)
	assert.True(t, first != second)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calc.CacheCount(ctx))

	stats := calc.GetStats()
	assert.Equal(t, 1, stats[types.StatCacheHit.String()].Count)
	assert.Equal(t, 1, stats[types.StatCacheMiss.String()].Count)
	assert.Equal(t, 1, stats[types.StatValuesCount.String()].Count)

	assert.Nil(t, calc.ClearCache(ctx))
	assert.Equal(t, 0, calc.CacheCount(ctx))
}

func TestCalculator_CachedResultIsNotShared(t *testing.T) {
	ctx := context.Background()

	calc, err := New(ctx, NewConfig(constants.InMemoryBackend))
	assert.Nil(t, err)

	res, err := calc.Calculate(ctx, "1 2 3")
	assert.Nil(t, err)

	res.Values[0] = 100
	res.Mean = -1

	again, err := calc.Calculate(ctx, "1 2 3")
	assert.Nil(t, err)
	assert.Equal(t, []int64{1, 2, 3}, again.Values)
	assert.Equal(t, 2.0, again.Mean)
	assert.Equal(t, 1, calc.GetStats()[types.StatCacheHit.String()].Count)
}

// collidingBackend answers every key with the same stored result,
// as if all lists hashed to one key.
type collidingBackend struct {
	backend.IBackend

	stored *statistics.Result
}

func (b *collidingBackend) Get(_ context.Context, _ string) (*statistics.Result, bool) {
	return b.stored.Clone(), b.stored != nil
}

func (b *collidingBackend) Set(_ context.Context, _ string, res *statistics.Result) error {
	b.stored = res.Clone()

	return nil
}

func TestCalculator_KeyCollisionIsAMiss(t *testing.T) {
	ctx := context.Background()

	forged, err := statistics.Compute(parser.NumberList{1000, 2000})
	assert.Nil(t, err)

	colliding := &collidingBackend{stored: forged}

	bm := NewBackendManager()
	bm.RegisterBackend("colliding", func(_ context.Context, _ *Config) (backend.IBackend, error) {
		return colliding, nil
	})

	calc, err := NewWithManager(ctx, bm, NewConfig("colliding"))
	assert.Nil(t, err)

	res, err := calc.Calculate(ctx, "1 2 3")
	assert.Nil(t, err)
	assert.Equal(t, []int64{1, 2, 3}, res.Values)
	assert.Equal(t, 2.0, res.Mean)
	assert.Equal(t, "0.816497", res.FormattedStdDev())

	stats := calc.GetStats()
	assert.Equal(t, 1, stats[types.StatCacheMiss.String()].Count)
	assert.True(t, stats[types.StatCacheHit.String()] == nil)

	// the colliding entry was replaced by the fresh result
	assert.Equal(t, []int64{1, 2, 3}, colliding.stored.Values)

	res, err = calc.Calculate(ctx, "1 2 3")
	assert.Nil(t, err)
	assert.Equal(t, 2.0, res.Mean)
	assert.Equal(t, 1, calc.GetStats()[types.StatCacheHit.String()].Count)
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(context.Background(), NewConfig("memcached"))
	assert.True(t, errors.Is(err, sentinel.ErrBackendNotFound))
}

func TestNew_UnknownStatsCollector(t *testing.T) {
	cfg := NewConfig(constants.NoBackend)
	cfg.CalculatorOptions = append(cfg.CalculatorOptions, WithStatsCollector("statsd"))

	_, err := New(context.Background(), cfg)
	assert.True(t, errors.Is(err, sentinel.ErrStatsCollectorNotFound))
}

func TestNew_RedisWithoutClient(t *testing.T) {
	_, err := New(context.Background(), NewConfig(constants.RedisBackend))
	assert.True(t, errors.Is(err, sentinel.ErrNilClient))
}

func TestBackendManager_Register(t *testing.T) {
	bm := NewBackendManager()
	bm.RegisterBackend("tiny", func(_ context.Context, _ *Config) (backend.IBackend, error) {
		return backend.NewInMemory(backend.WithCapacity[backend.InMemory](1))
	})

	calc, err := NewWithManager(context.Background(), bm, NewConfig("tiny"))
	assert.Nil(t, err)
	assert.Equal(t, "tiny", calc.BackendName())
	assert.Equal(t, 1, calc.CacheCapacity())
}

// countingService records the order in which middlewares see a call.
type countingService struct {
	Service

	name  string
	calls *[]string
}

func (s countingService) Calculate(ctx context.Context, raw string) (*statistics.Result, error) {
	*s.calls = append(*s.calls, s.name)

	return s.Service.Calculate(ctx, raw)
}

func TestApplyMiddleware_Order(t *testing.T) {
	calc, err := NewDefault(context.Background())
	assert.Nil(t, err)

	var calls []string

	named := func(name string) Middleware {
		return func(next Service) Service {
			return countingService{Service: next, name: name, calls: &calls}
		}
	}

	svc := ApplyMiddleware(calc, named("inner"), named("outer"))

	_, err = svc.Calculate(context.Background(), "1 2")
	assert.Nil(t, err)
	assert.Equal(t, []string{"outer", "inner"}, calls)
	assert.True(t, svc.GetStats() != nil)

	var _ collector.ICollector = calc.StatsCollector
}
