package config

import (
	"strings"

	"github.com/felixgeelhaar/frontvue/internal/errors"
)

const (
	pluginPrefixStart = "plugin-"
	pluginPrefixEnd   = ":"
)

// PluginPrefix returns the key prefix of a plugin: "plugin-<name>:". A name
// that is already a prefix is returned unchanged.
func PluginPrefix(name string) string {
	if strings.HasPrefix(name, pluginPrefixStart) && strings.HasSuffix(name, pluginPrefixEnd) {
		return name
	}
	return pluginPrefixStart + name + pluginPrefixEnd
}

// Prefixer adds and strips a fixed key prefix.
type Prefixer struct {
	prefix string
}

// NewPrefixer creates a Prefixer. The prefix must not be empty.
func NewPrefixer(prefix string) (*Prefixer, error) {
	if prefix == "" {
		return nil, errors.New(errors.ErrCodeConfigPrefixRequired, "prefix must be a non-empty string")
	}
	return &Prefixer{prefix: prefix}, nil
}

// Prefix returns the prefix.
func (p *Prefixer) Prefix() string {
	return p.prefix
}

// HasPrefix reports whether key carries the prefix.
func (p *Prefixer) HasPrefix(key string) bool {
	return strings.HasPrefix(key, p.prefix)
}

// Key returns key with the prefix added, unless it is already there.
func (p *Prefixer) Key(key string) string {
	if p.HasPrefix(key) {
		return key
	}
	return p.prefix + key
}

// StripKey returns key without the prefix.
func (p *Prefixer) StripKey(key string) string {
	return strings.TrimPrefix(key, p.prefix)
}

// Apply returns a copy of cfg with every key prefixed. When both "k" and
// "<prefix>k" are present the prefixed entry wins.
func (p *Prefixer) Apply(cfg Config) Config {
	out := make(Config, len(cfg))
	for k, v := range cfg {
		if !p.HasPrefix(k) {
			out[p.prefix+k] = v
		}
	}
	for k, v := range cfg {
		if p.HasPrefix(k) {
			out[k] = v
		}
	}
	return out
}

// Remove returns a copy of cfg with the prefix stripped from every key that
// carries it. Other keys are copied unchanged unless a stripped key takes
// their place.
func (p *Prefixer) Remove(cfg Config) Config {
	out := make(Config, len(cfg))
	for k, v := range cfg {
		if !p.HasPrefix(k) {
			out[k] = v
		}
	}
	for k, v := range cfg {
		if p.HasPrefix(k) {
			out[p.StripKey(k)] = v
		}
	}
	return out
}
