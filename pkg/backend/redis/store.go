package redis

import (
	"context"
	"net"
	"strings"

	"github.com/hyp3rd/ewrap"
	"github.com/redis/go-redis/v9"

	"github.com/hyp3rd/sigma/internal/constants"
)

// Store is a redis store instance with redis client.
type Store struct {
	Client *redis.Client
}

// New creates a redis store instance with the given options.
func New(opts ...Option) (*Store, error) {
	opt := &redis.Options{
		DB:           0,
		MaxRetries:   constants.RedisClientMaxRetries,
		DialTimeout:  constants.RedisDialTimeout,
		ReadTimeout:  constants.RedisClientReadTimeout,
		WriteTimeout: constants.RedisClientWriteTimeout,
		PoolSize:     constants.RedisClientPoolSize,
	}

	ApplyOptions(opt, opts...)

	dialTimeout := opt.DialTimeout
	opt.Dialer = func(ctx context.Context, network, addr string) (net.Conn, error) {
		dialer := &net.Dialer{
			Timeout: dialTimeout,
		}

		return dialer.DialContext(ctx, network, addr)
	}

	if strings.TrimSpace(opt.Addr) == "" {
		return nil, ewrap.New("redis address is empty")
	}

	return &Store{Client: redis.NewClient(opt)}, nil
}
