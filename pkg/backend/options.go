package backend

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hyp3rd/sigma/internal/libs/serializer"
)

// iConfigurableBackend is an interface that defines the methods that a backend should implement to be configurable.
type iConfigurableBackend interface {
	// setCapacity sets the capacity of the cache.
	setCapacity(capacity int)
}

// setCapacity sets the `Capacity` field of the `InMemory` backend.
func (inm *InMemory) setCapacity(capacity int) {
	inm.capacity = capacity
}

// setCapacity sets the `Capacity` field of the `Redis` backend.
func (rb *Redis) setCapacity(capacity int) {
	rb.capacity = capacity
}

// Option is a function type that can be used to configure a backend.
type Option[T IBackendConstrain] func(*T)

// ApplyOptions applies the given options to the given backend.
func ApplyOptions[T IBackendConstrain](backend *T, options ...Option[T]) {
	for _, option := range options {
		option(backend)
	}
}

// WithCapacity is an option that sets the capacity of the cache.
func WithCapacity[T IBackendConstrain](capacity int) Option[T] {
	return func(a *T) {
		if configurable, ok := any(a).(iConfigurableBackend); ok {
			configurable.setCapacity(capacity)
		}
	}
}

// WithRedisClient is an option that sets the redis client to use.
func WithRedisClient(client *redis.Client) Option[Redis] {
	return func(backend *Redis) {
		backend.rdb = client
	}
}

// WithKeyPrefix sets the prefix of every key written to redis.
func WithKeyPrefix(prefix string) Option[Redis] {
	return func(backend *Redis) {
		backend.prefix = prefix
	}
}

// WithTTL sets how long results live in redis. Zero keeps them until cleared.
func WithTTL(ttl time.Duration) Option[Redis] {
	return func(backend *Redis) {
		backend.ttl = ttl
	}
}

// WithSerializer sets the serializer used to encode results stored in redis.
func WithSerializer(ser serializer.ISerializer) Option[Redis] {
	return func(backend *Redis) {
		backend.Serializer = ser
	}
}
