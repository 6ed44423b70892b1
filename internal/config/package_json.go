package config

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/felixgeelhaar/frontvue/internal/errors"
	"github.com/felixgeelhaar/frontvue/internal/jsonfile"
	"github.com/felixgeelhaar/frontvue/internal/log"
	"github.com/felixgeelhaar/frontvue/internal/retry"
)

// DefaultPath is the file the default store reads from.
const DefaultPath = "package.json"

// PackageJSONStore persists the namespace under config.<namespace> in a
// package.json file. The rest of the document is left as it is.
type PackageJSONStore struct {
	namespace string
	file      *jsonfile.File
	logger    *log.Logger
	retry     retry.Options
}

// PackageJSONOption configures a PackageJSONStore.
type PackageJSONOption func(*PackageJSONStore)

// WithStoreLogger sets the store logger.
func WithStoreLogger(l *log.Logger) PackageJSONOption {
	return func(s *PackageJSONStore) { s.logger = l }
}

// WithStoreRetry sets the retry budget for file access.
func WithStoreRetry(opts retry.Options) PackageJSONOption {
	return func(s *PackageJSONStore) { s.retry = opts }
}

// NewPackageJSONStore opens path and makes sure config.<namespace> exists,
// creating an empty object when it does not.
func NewPackageJSONStore(ctx context.Context, namespace, path string, opts ...PackageJSONOption) (*PackageJSONStore, error) {
	if namespace == "" {
		return nil, errors.New(errors.ErrCodeConfigInvalidNamespace, "configuration namespace must be a non-empty string")
	}
	if path == "" {
		path = DefaultPath
	}

	s := &PackageJSONStore{
		namespace: namespace,
		file:      jsonfile.New(path),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = log.OrDefault(s.logger).Channel("config")

	err := s.withRetry(ctx, "initializing configuration", func() error {
		return s.file.Update(func(data []byte) ([]byte, error) {
			if gjson.GetBytes(data, s.path()).IsObject() {
				return data, nil
			}
			s.logger.Debug("creating configuration namespace", "namespace", namespace, "file", path)
			return sjson.SetRawBytes(data, s.path(), []byte("{}"))
		})
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Namespace returns the managed namespace.
func (s *PackageJSONStore) Namespace() string {
	return s.namespace
}

// Path returns the backing file.
func (s *PackageJSONStore) Path() string {
	return s.file.Path()
}

func (s *PackageJSONStore) path(keys ...string) string {
	return jsonfile.Path(append([]string{"config", s.namespace}, keys...)...)
}

// Fetch re-reads the file and returns the namespace.
func (s *PackageJSONStore) Fetch(ctx context.Context) (Config, error) {
	var cfg Config
	err := s.withRetry(ctx, "reading configuration", func() error {
		data, err := s.file.Read()
		if err != nil {
			return err
		}
		cfg, err = s.decode(gjson.GetBytes(data, s.path()))
		return err
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Update replaces the namespace with cfg. Keys already in the file keep
// their position; new keys are appended in sorted order.
func (s *PackageJSONStore) Update(ctx context.Context, cfg Config) error {
	return s.withRetry(ctx, "writing configuration", func() error {
		return s.file.Update(func(data []byte) ([]byte, error) {
			current := gjson.GetBytes(data, s.path())
			if !current.IsObject() {
				var err error
				if data, err = sjson.SetRawBytes(data, s.path(), []byte("{}")); err != nil {
					return nil, err
				}
			}

			var err error
			for key := range current.Map() {
				if _, keep := cfg[key]; keep {
					continue
				}
				if data, err = sjson.DeleteBytes(data, s.path(key)); err != nil {
					return nil, err
				}
			}
			for _, key := range cfg.Keys() {
				if data, err = sjson.SetBytes(data, s.path(key), cfg[key]); err != nil {
					return nil, fmt.Errorf("storing %q: %w", key, err)
				}
			}
			return data, nil
		})
	})
}

// Destroy removes config.<namespace> from the file and returns its content.
func (s *PackageJSONStore) Destroy(ctx context.Context) (Config, error) {
	var old Config
	err := s.withRetry(ctx, "destroying configuration", func() error {
		return s.file.Update(func(data []byte) ([]byte, error) {
			var err error
			if old, err = s.decode(gjson.GetBytes(data, s.path())); err != nil {
				return nil, err
			}
			return sjson.DeleteBytes(data, s.path())
		})
	})
	if err != nil {
		return nil, err
	}
	return old, nil
}

func (s *PackageJSONStore) decode(res gjson.Result) (Config, error) {
	if !res.Exists() {
		return Config{}, nil
	}
	if !res.IsObject() {
		return nil, errors.New(errors.ErrCodeConfigStoreFailed,
			fmt.Sprintf("config.%s in %s is not an object", s.namespace, s.file.Path()))
	}
	cfg := make(Config)
	for key, value := range res.Map() {
		cfg[key] = value.Value()
	}
	return cfg, nil
}

// withRetry retries fn on transient failures. Missing or malformed files are
// not retried.
func (s *PackageJSONStore) withRetry(ctx context.Context, name string, fn func() error) error {
	opts := s.retry
	opts.Name = name
	if opts.Logger == nil {
		opts.Logger = s.logger
	}
	_, err := retry.Do(ctx, opts, func() (struct{}, error) {
		err := fn()
		if errors.HasCode(err, errors.ErrCodeFileNotFound) ||
			errors.HasCode(err, errors.ErrCodeFileNotJSON) ||
			errors.HasCode(err, errors.ErrCodeConfigStoreFailed) {
			return struct{}{}, retry.Permanent(err)
		}
		return struct{}{}, err
	})
	return err
}
