// Package config manages the frontvue configuration namespace stored in
// package.json and the per-plugin views over it.
package config

import (
	"context"
	"maps"
	"slices"
)

// Config is a flat key/value namespace. Values are JSON-serializable.
type Config map[string]any

// Clone returns a shallow copy of c. A nil Config clones to an empty one.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	maps.Copy(out, c)
	return out
}

// Keys returns the keys of c in sorted order.
func (c Config) Keys() []string {
	return slices.Sorted(maps.Keys(c))
}

// Store persists one configuration namespace.
type Store interface {
	// Fetch returns the current namespace content.
	Fetch(ctx context.Context) (Config, error)
	// Update replaces the namespace content with cfg.
	Update(ctx context.Context, cfg Config) error
}

// Destroyer is implemented by stores that can remove their namespace.
type Destroyer interface {
	// Destroy removes the namespace and returns its last content.
	Destroy(ctx context.Context) (Config, error)
}
