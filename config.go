package sigma

import (
	"github.com/hyp3rd/sigma/internal/constants"
	"github.com/hyp3rd/sigma/pkg/backend"
)

// Config is a struct that wraps all the configuration options to setup the `Calculator` and its result backend.
type Config struct {
	// BackendName selects the result backend: "none", "in-memory" or "redis".
	BackendName string
	// InMemoryOptions is a slice of options that can be used to configure the `InMemory` backend.
	InMemoryOptions []backend.Option[backend.InMemory]
	// RedisOptions is a slice of options that can be used to configure the `Redis` backend.
	RedisOptions []backend.Option[backend.Redis]
	// CalculatorOptions is a slice of options that can be used to configure the `Calculator`.
	CalculatorOptions []Option
}

// NewConfig returns a new `Config` for the given backend with default values:
//   - `InMemoryOptions` is set to `WithCapacity(constants.DefaultCacheCapacity)`
//   - `RedisOptions` is empty, a client must be supplied with `backend.WithRedisClient`
//   - `CalculatorOptions` is set to `WithStatsCollector(constants.DefaultStatsCollector)`
//
// Each of the above options can be overridden by appending to the slices.
func NewConfig(backendName string) *Config {
	return &Config{
		BackendName: backendName,
		InMemoryOptions: []backend.Option[backend.InMemory]{
			backend.WithCapacity[backend.InMemory](constants.DefaultCacheCapacity),
		},
		RedisOptions: []backend.Option[backend.Redis]{},
		CalculatorOptions: []Option{
			WithStatsCollector(constants.DefaultStatsCollector),
		},
	}
}
