package plugin

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Scope is the package scope official plugins are published under.
const Scope = "@frontvue"

// ModuleName converts a short plugin name into its module name: foo becomes
// @frontvue/plugin-foo. Scoped names are returned unchanged.
func ModuleName(name string) string {
	if strings.HasPrefix(name, "@") {
		return name
	}
	return Scope + "/plugin-" + strings.TrimPrefix(name, "plugin-")
}

// ShortName reverses ModuleName for official plugins.
func ShortName(module string) string {
	if rest, ok := strings.CutPrefix(module, Scope+"/plugin-"); ok {
		return rest
	}
	return module
}

// ErrNotRegistered is returned by resolvers that do not know a module.
var ErrNotRegistered = stderrors.New("plugin is not registered")

// Resolver turns a module name into plugin entries. An entry is anything
// NewInstallable or Manager.Use accepts, including nested slices.
type Resolver interface {
	Resolve(ctx context.Context, module string) ([]any, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, module string) ([]any, error)

func (f ResolverFunc) Resolve(ctx context.Context, module string) ([]any, error) {
	return f(ctx, module)
}

// Registry holds plugins compiled into the binary.
type Registry struct {
	mu      sync.RWMutex
	entries map[string][]any
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string][]any)}
}

// DefaultRegistry is the registry used by Register and by managers without
// an explicit resolver.
var DefaultRegistry = NewRegistry()

// Register adds entries to DefaultRegistry under name.
func Register(name string, entries ...any) {
	DefaultRegistry.Register(name, entries...)
}

// Register adds entries under name. Short and module names are equivalent.
func (r *Registry) Register(name string, entries ...any) {
	module := ModuleName(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[module] = append(r.entries[module], entries...)
}

// Modules lists the registered module names, sorted.
func (r *Registry) Modules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns a copy of the entries registered under module.
func (r *Registry) Resolve(ctx context.Context, module string) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries, ok := r.entries[ModuleName(module)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", module, ErrNotRegistered)
	}
	return append([]any(nil), entries...), nil
}

// ChainResolver asks each resolver in turn and returns the first success.
type ChainResolver []Resolver

func (c ChainResolver) Resolve(ctx context.Context, module string) ([]any, error) {
	var errs []error
	for _, r := range c {
		if r == nil {
			continue
		}
		entries, err := r.Resolve(ctx, module)
		if err == nil {
			return entries, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("%s: %w", module, ErrNotRegistered)
	}
	return nil, stderrors.Join(errs...)
}
