// Package settings loads the sigma binary configuration from an optional
// config file, SIGMA_* environment variables and command line flags.
package settings

import (
	"slices"
	"strings"
	"time"

	"github.com/hyp3rd/ewrap"
	"github.com/spf13/viper"

	"github.com/hyp3rd/sigma/internal/constants"
	"github.com/hyp3rd/sigma/internal/libs/serializer"
	"github.com/hyp3rd/sigma/sentinel"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SIGMA"

// Settings is the configuration of the sigma binary.
type Settings struct {
	Addr           string `mapstructure:"addr"`
	LogLevel       string `mapstructure:"log_level"`
	StatsCollector string `mapstructure:"stats_collector"`
	Cache          Cache  `mapstructure:"cache"`
	Redis          Redis  `mapstructure:"redis"`
}

// Cache configures the result cache.
type Cache struct {
	Backend    string        `mapstructure:"backend"`
	Capacity   int           `mapstructure:"capacity"`
	TTL        time.Duration `mapstructure:"ttl"`
	Serializer string        `mapstructure:"serializer"`
}

// Redis configures the connection used by the redis backend.
type Redis struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	PoolSize    int           `mapstructure:"pool_size"`
}

// New returns a viper instance with defaults and environment binding in place.
// Flags may be bound to it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("addr", constants.DefaultHTTPAddr)
	v.SetDefault("log_level", "info")
	v.SetDefault("stats_collector", constants.DefaultStatsCollector)
	v.SetDefault("cache.backend", constants.InMemoryBackend)
	v.SetDefault("cache.capacity", constants.DefaultCacheCapacity)
	v.SetDefault("cache.ttl", constants.DefaultCacheTTL)
	v.SetDefault("cache.serializer", serializer.Msgpack)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.dial_timeout", constants.RedisDialTimeout)
	v.SetDefault("redis.pool_size", constants.RedisClientPoolSize)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads configFile (when not empty) into v and decodes the result.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)

		err := v.ReadInConfig()
		if err != nil {
			return nil, ewrap.Wrapf(err, "reading config file %s", configFile)
		}
	}

	var s Settings

	err := v.Unmarshal(&s)
	if err != nil {
		return nil, ewrap.Wrap(err, "decoding settings")
	}

	err = s.Validate()
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// Validate checks the values that cannot be caught by decoding alone.
func (s *Settings) Validate() error {
	backends := []string{constants.NoBackend, constants.InMemoryBackend, constants.RedisBackend}
	if !slices.Contains(backends, s.Cache.Backend) {
		return ewrap.Wrapf(sentinel.ErrBackendNotFound, "cache.backend %q", s.Cache.Backend)
	}

	if s.Cache.Capacity < 0 {
		return ewrap.Wrap(sentinel.ErrInvalidCapacity, "cache.capacity")
	}

	if _, err := serializer.New(s.Cache.Serializer); err != nil {
		return ewrap.Wrap(err, "cache.serializer")
	}

	if s.Cache.Backend == constants.RedisBackend && s.Redis.Addr == "" {
		return ewrap.Wrap(sentinel.ErrParamCannotBeEmpty, "redis.addr")
	}

	if s.Redis.PoolSize < 0 {
		return ewrap.Wrap(sentinel.ErrInvalidCapacity, "redis.pool_size")
	}

	return nil
}
