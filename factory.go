package sigma

import (
	"context"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/sigma/internal/constants"
	"github.com/hyp3rd/sigma/pkg/backend"
	"github.com/hyp3rd/sigma/sentinel"
)

// BackendConstructor builds a result backend from a config.
type BackendConstructor func(ctx context.Context, cfg *Config) (backend.IBackend, error)

// BackendManager is a factory for creating result backend instances.
// It maintains a registry of backend constructors keyed by name.
type BackendManager struct {
	backendRegistry map[string]BackendConstructor
}

// NewBackendManager returns a manager with the built-in backends registered.
func NewBackendManager() *BackendManager {
	manager := &BackendManager{backendRegistry: make(map[string]BackendConstructor)}

	manager.RegisterBackend(constants.InMemoryBackend, func(_ context.Context, cfg *Config) (backend.IBackend, error) {
		return backend.NewInMemory(cfg.InMemoryOptions...)
	})
	manager.RegisterBackend(constants.RedisBackend, func(_ context.Context, cfg *Config) (backend.IBackend, error) {
		return backend.NewRedis(cfg.RedisOptions...)
	})

	return manager
}

// RegisterBackend registers a backend constructor under name.
func (m *BackendManager) RegisterBackend(name string, constructor BackendConstructor) {
	m.backendRegistry[name] = constructor
}

// Create builds the backend named by cfg.BackendName.
// It returns a nil backend for "none" or an empty name.
func (m *BackendManager) Create(ctx context.Context, cfg *Config) (backend.IBackend, error) {
	if cfg.BackendName == "" || cfg.BackendName == constants.NoBackend {
		return nil, nil //nolint:nilnil
	}

	constructor, ok := m.backendRegistry[cfg.BackendName]
	if !ok {
		return nil, ewrap.Wrap(sentinel.ErrBackendNotFound, cfg.BackendName)
	}

	return constructor(ctx, cfg)
}
