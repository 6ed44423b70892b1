package config

import (
	"context"

	"github.com/felixgeelhaar/frontvue/internal/errors"
)

// Proxy is the view of a single plugin over a Manager. Every key is
// transparently prefixed so a plugin only sees its own options.
type Proxy struct {
	manager  *Manager
	prefixer *Prefixer
	name     string
}

// NewProxy creates the view of plugin name over manager.
func NewProxy(manager *Manager, name string) (*Proxy, error) {
	if manager == nil {
		return nil, errors.New(errors.ErrCodeConfigManagerRequired, "a configuration manager is required")
	}
	if name == "" {
		return nil, errors.New(errors.ErrCodeConfigPrefixRequired, "plugin name must be a non-empty string")
	}
	prefixer, err := NewPrefixer(PluginPrefix(name))
	if err != nil {
		return nil, err
	}
	return &Proxy{manager: manager, prefixer: prefixer, name: name}, nil
}

// Name returns the plugin name.
func (p *Proxy) Name() string {
	return p.name
}

// Prefix returns the key prefix of the plugin.
func (p *Proxy) Prefix() string {
	return p.prefixer.Prefix()
}

// Get returns every option of the plugin with the prefix stripped.
func (p *Proxy) Get(ctx context.Context) (Config, error) {
	cfg, err := p.manager.Get(ctx)
	if err != nil {
		return nil, err
	}
	own := make(Config)
	for k, v := range cfg {
		if p.prefixer.HasPrefix(k) {
			own[p.prefixer.StripKey(k)] = v
		}
	}
	return own, nil
}

// GetKey returns a single option, or nil when it is not set.
func (p *Proxy) GetKey(ctx context.Context, key string) (any, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	return p.manager.GetKey(ctx, p.prefixer.Key(key))
}

// GetKeys returns the options that exist among keys, unprefixed.
func (p *Proxy) GetKeys(ctx context.Context, keys ...string) (Config, error) {
	if err := validateKeys(keys); err != nil {
		return nil, err
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = p.prefixer.Key(k)
	}
	cfg, err := p.manager.GetKeys(ctx, prefixed...)
	if err != nil {
		return nil, err
	}
	return p.prefixer.Remove(cfg), nil
}

// Has reports whether the option exists.
func (p *Proxy) Has(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	return p.manager.Has(ctx, p.prefixer.Key(key))
}

// Set stores a single option.
func (p *Proxy) Set(ctx context.Context, key string, value any) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return p.manager.Set(ctx, p.prefixer.Key(key), value)
}

// Merge stores several options. An empty values reports false.
func (p *Proxy) Merge(ctx context.Context, values Config) (bool, error) {
	if err := validateKeys(values.Keys()); err != nil {
		return false, err
	}
	return p.manager.Merge(ctx, p.prefixer.Apply(values))
}

// Remove deletes options.
func (p *Proxy) Remove(ctx context.Context, keys ...string) error {
	if err := validateKeys(keys); err != nil {
		return err
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = p.prefixer.Key(k)
	}
	return p.manager.Remove(ctx, prefixed...)
}
