package config

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/frontvue/internal/errors"
	"github.com/felixgeelhaar/frontvue/internal/log"
	"github.com/felixgeelhaar/frontvue/internal/retry"
)

// DefaultNamespace is the namespace frontvue keeps its configuration in.
const DefaultNamespace = "frontvue"

// Manager is the CRUD API over a Store. Reads go to the store every time so
// that changes made by other writers are observed. Mutations are serialized
// within the process and persisted before they return.
type Manager struct {
	namespace string
	store     Store
	logger    *log.Logger

	mu sync.Mutex
}

type managerOptions struct {
	store  Store
	path   string
	logger *log.Logger
	retry  retry.Options
}

// Option configures a Manager.
type Option func(*managerOptions)

// WithStore uses store instead of the default package.json store.
func WithStore(store Store) Option {
	return func(o *managerOptions) { o.store = store }
}

// WithPath sets the package.json location of the default store.
func WithPath(path string) Option {
	return func(o *managerOptions) { o.path = path }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(o *managerOptions) { o.logger = l }
}

// WithRetry sets the retry budget of the default store.
func WithRetry(opts retry.Options) Option {
	return func(o *managerOptions) { o.retry = opts }
}

// NewManager creates a manager for namespace. Without WithStore the
// namespace is kept in package.json.
func NewManager(ctx context.Context, namespace string, opts ...Option) (*Manager, error) {
	if namespace == "" {
		return nil, errors.New(errors.ErrCodeConfigInvalidNamespace, "configuration namespace must be a non-empty string")
	}

	o := managerOptions{path: DefaultPath}
	for _, opt := range opts {
		opt(&o)
	}
	logger := log.OrDefault(o.logger).Channel("config")

	m := &Manager{
		namespace: namespace,
		store:     o.store,
		logger:    logger,
	}
	if m.store == nil {
		store, err := NewPackageJSONStore(ctx, namespace, o.path,
			WithStoreLogger(o.logger), WithStoreRetry(o.retry))
		if err != nil {
			return nil, m.fail(err)
		}
		m.store = store
	}
	return m, nil
}

// Namespace returns the managed namespace.
func (m *Manager) Namespace() string {
	return m.namespace
}

// Store returns the backing store.
func (m *Manager) Store() Store {
	return m.store
}

// Get returns a snapshot of the whole namespace.
func (m *Manager) Get(ctx context.Context) (Config, error) {
	cfg, err := m.store.Fetch(ctx)
	if err != nil {
		return nil, m.fail(err)
	}
	return cfg, nil
}

// GetKey returns the value stored under key, or nil when there is none.
func (m *Manager) GetKey(ctx context.Context, key string) (any, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	cfg, err := m.Get(ctx)
	if err != nil {
		return nil, err
	}
	return cfg[key], nil
}

// GetKeys returns the subset of keys that exist. Missing keys are omitted.
func (m *Manager) GetKeys(ctx context.Context, keys ...string) (Config, error) {
	if err := validateKeys(keys); err != nil {
		return nil, err
	}
	cfg, err := m.Get(ctx)
	if err != nil {
		return nil, err
	}
	return pick(cfg, keys), nil
}

// Has reports whether key exists.
func (m *Manager) Has(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	cfg, err := m.Get(ctx)
	if err != nil {
		return false, err
	}
	_, ok := cfg[key]
	return ok, nil
}

// Set stores a single key.
func (m *Manager) Set(ctx context.Context, key string, value any) error {
	if err := validateKey(key); err != nil {
		return err
	}
	_, err := m.Merge(ctx, Config{key: value})
	return err
}

// Merge stores every key of values, last write wins. An empty values is a
// no-op and reports false.
func (m *Manager) Merge(ctx context.Context, values Config) (bool, error) {
	if len(values) == 0 {
		return false, nil
	}
	if err := validateKeys(values.Keys()); err != nil {
		return false, err
	}

	err := m.mutate(ctx, func(cfg Config) {
		for k, v := range values {
			cfg[k] = v
		}
	})
	return err == nil, err
}

// Remove deletes keys. Missing keys are ignored.
func (m *Manager) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := validateKeys(keys); err != nil {
		return err
	}
	return m.mutate(ctx, func(cfg Config) {
		for _, k := range keys {
			delete(cfg, k)
		}
	})
}

// Destroy removes the namespace from the store and returns its content. The
// store must implement Destroyer.
func (m *Manager) Destroy(ctx context.Context) (Config, error) {
	d, ok := m.store.(Destroyer)
	if !ok {
		return nil, errors.New(errors.ErrCodeConfigDestroyUnsupported, "the configuration store does not support destroy")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	old, err := d.Destroy(ctx)
	if err != nil {
		return nil, m.fail(err)
	}
	return old, nil
}

func (m *Manager) mutate(ctx context.Context, fn func(Config)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg, err := m.store.Fetch(ctx)
	if err != nil {
		return m.fail(err)
	}
	cfg = cfg.Clone()
	fn(cfg)
	if err := m.store.Update(ctx, cfg); err != nil {
		return m.fail(err)
	}
	return nil
}

// fail logs a store failure at fatal level and wraps it.
func (m *Manager) fail(err error) error {
	m.logger.WithError(err).Fatal("configuration store failure", "namespace", m.namespace)
	return errors.NewConfigAccessError(err)
}

func validateKey(key string) error {
	if key == "" {
		return errors.New(errors.ErrCodeConfigInvalidKey, "configuration keys must be non-empty strings")
	}
	return nil
}

func validateKeys(keys []string) error {
	for _, k := range keys {
		if err := validateKey(k); err != nil {
			return err
		}
	}
	return nil
}

func pick(cfg Config, keys []string) Config {
	out := make(Config, len(keys))
	for _, k := range keys {
		if v, ok := cfg[k]; ok {
			out[k] = v
		}
	}
	return out
}
