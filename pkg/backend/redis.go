package backend

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/sigma/internal/constants"
	"github.com/hyp3rd/sigma/internal/libs/serializer"
	"github.com/hyp3rd/sigma/pkg/statistics"
	"github.com/hyp3rd/sigma/sentinel"
)

const (
	maxRetries   = 3
	retriesDelay = 100 * time.Millisecond
)

// Redis is a result backend that stores serialized results in redis.
// Every result lives under "<prefix>:<key>"; the set "<prefix>:keys" tracks them.
// When a capacity is set and reached, a random tracked result is dropped.
type Redis struct {
	rdb        *redis.Client          // redis client to interact with the redis server
	capacity   int                    // 0 means unbounded
	prefix     string                 // prefix of every key written by the backend
	ttl        time.Duration          // expiration of stored results, 0 for none
	Serializer serializer.ISerializer // Serializer is the serializer used to encode results
}

// NewRedis creates a new redis backend with the given options.
func NewRedis(redisOptions ...Option[Redis]) (*Redis, error) {
	rb := &Redis{
		ttl: constants.DefaultCacheTTL,
	}

	ApplyOptions(rb, redisOptions...)

	if rb.rdb == nil {
		return nil, sentinel.ErrNilClient
	}

	if rb.capacity < 0 {
		return nil, sentinel.ErrInvalidCapacity
	}

	if rb.prefix == "" {
		rb.prefix = constants.RedisKeyPrefix
	}

	if rb.Serializer == nil {
		var err error
		// default to `msgpack`
		rb.Serializer, err = serializer.New(serializer.Msgpack)
		if err != nil {
			return nil, err
		}
	}

	return rb, nil
}

// Capacity returns the maximum number of results that can be stored.
func (cacheBackend *Redis) Capacity() int {
	return cacheBackend.capacity
}

// Count returns the number of tracked results.
func (cacheBackend *Redis) Count(ctx context.Context) int {
	count, err := cacheBackend.rdb.SCard(ctx, cacheBackend.keysSetName()).Result()
	if err != nil {
		return 0
	}

	return int(count)
}

// Get retrieves the result stored under key.
func (cacheBackend *Redis) Get(ctx context.Context, key string) (*statistics.Result, bool) {
	data, err := cacheBackend.rdb.Get(ctx, cacheBackend.itemKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// expired or never stored: stop tracking it
			cacheBackend.rdb.SRem(ctx, cacheBackend.keysSetName(), key)
		}

		return nil, false
	}

	var result statistics.Result

	err = cacheBackend.Serializer.Unmarshal(data, &result)
	if err != nil {
		return nil, false
	}

	return &result, true
}

// Set stores result under key.
func (cacheBackend *Redis) Set(ctx context.Context, key string, result *statistics.Result) error {
	if key == "" {
		return sentinel.ErrParamCannotBeEmpty
	}

	data, err := cacheBackend.Serializer.Marshal(result)
	if err != nil {
		return err
	}

	full, err := cacheBackend.full(ctx, key)
	if err != nil {
		return err
	}

	if full {
		err = cacheBackend.evictOne(ctx)
		if err != nil {
			return err
		}
	}

	pipe := cacheBackend.rdb.TxPipeline()
	pipe.Set(ctx, cacheBackend.itemKey(key), data, cacheBackend.ttl)
	pipe.SAdd(ctx, cacheBackend.keysSetName(), key)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return ewrap.Wrap(err, "failed to execute redis pipeline")
	}

	return nil
}

// Remove removes the results stored under keys.
func (cacheBackend *Redis) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	itemKeys := make([]string, len(keys))
	members := make([]any, len(keys))

	for i, key := range keys {
		itemKeys[i] = cacheBackend.itemKey(key)
		members[i] = key
	}

	pipe := cacheBackend.rdb.TxPipeline()
	pipe.SRem(ctx, cacheBackend.keysSetName(), members...)
	pipe.Del(ctx, itemKeys...)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return ewrap.Wrap(err, "removing keys")
	}

	return nil
}

// Clear removes every tracked result.
func (cacheBackend *Redis) Clear(ctx context.Context) error {
	keys, err := cacheBackend.rdb.SMembers(ctx, cacheBackend.keysSetName()).Result()
	if err != nil {
		return ewrap.Wrap(err, "failed to get keys from redis")
	}

	itemKeys := make([]string, 0, len(keys)+1)
	for _, key := range keys {
		itemKeys = append(itemKeys, cacheBackend.itemKey(key))
	}

	itemKeys = append(itemKeys, cacheBackend.keysSetName())

	_, err = cacheBackend.rdb.Del(ctx, itemKeys...).Result()
	if err != nil {
		return ewrap.Wrap(err, "clearing results", ewrap.WithRetry(maxRetries, retriesDelay))
	}

	return nil
}

// full reports whether storing key needs room; overwriting a tracked key never does.
func (cacheBackend *Redis) full(ctx context.Context, key string) (bool, error) {
	if cacheBackend.capacity == 0 || cacheBackend.Count(ctx) < cacheBackend.capacity {
		return false, nil
	}

	tracked, err := cacheBackend.rdb.SIsMember(ctx, cacheBackend.keysSetName(), key).Result()
	if err != nil {
		return false, ewrap.Wrap(err, "checking tracked key")
	}

	return !tracked, nil
}

func (cacheBackend *Redis) evictOne(ctx context.Context) error {
	victim, err := cacheBackend.rdb.SPop(ctx, cacheBackend.keysSetName()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}

		return ewrap.Wrap(err, "evicting result")
	}

	return cacheBackend.rdb.Del(ctx, cacheBackend.itemKey(victim)).Err()
}

func (cacheBackend *Redis) itemKey(key string) string {
	return cacheBackend.prefix + ":" + key
}

func (cacheBackend *Redis) keysSetName() string {
	return cacheBackend.prefix + ":keys"
}
