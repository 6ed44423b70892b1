package plugin

import (
	"context"
	"fmt"
	"reflect"

	"github.com/felixgeelhaar/frontvue/internal/errors"
	"github.com/felixgeelhaar/frontvue/internal/log"
)

// Manager resolves plugin entries and installs them one after another.
type Manager struct {
	tasks     TaskSource
	wizard    ConfigSource
	deps      DependencySource
	resolver  Resolver
	providers ProviderFactory
	base      *log.Logger
	logger    *log.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithResolver sets the resolver used for plugin names.
func WithResolver(r Resolver) Option {
	return func(m *Manager) {
		m.resolver = r
	}
}

// WithLogger sets the manager logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithProviderFactory sets the factory of the utilities handed to plugin
// tasks.
func WithProviderFactory(f ProviderFactory) Option {
	return func(m *Manager) {
		m.providers = f
	}
}

// NewManager creates a plugin manager. All three collaborators are required.
func NewManager(tasks TaskSource, wizard ConfigSource, deps DependencySource, opts ...Option) (*Manager, error) {
	if isNil(tasks) {
		return nil, errors.New(errors.ErrCodePluginTaskManagerRequired, "plugin manager requires a task manager")
	}
	if isNil(wizard) {
		return nil, errors.New(errors.ErrCodePluginWizardRequired, "plugin manager requires a configuration wizard")
	}
	if isNil(deps) {
		return nil, errors.New(errors.ErrCodePluginDepsRequired, "plugin manager requires a dependencies manager")
	}

	m := &Manager{tasks: tasks, wizard: wizard, deps: deps}
	for _, opt := range opts {
		opt(m)
	}
	m.base = log.OrDefault(m.logger)
	m.logger = m.base.Channel("PluginManager")
	if m.resolver == nil {
		m.resolver = DefaultRegistry
	}
	if m.providers == nil {
		m.providers = DefaultProviderFactory(m.base)
	}
	return m, nil
}

// Use installs entries in order. Plugin names are resolved first; entries
// that fail to resolve, to normalize or to install are logged and skipped.
// Only cancellation of ctx is reported.
func (m *Manager) Use(ctx context.Context, entries ...any) error {
	plugins := m.ParsePlugins(ctx, entries)
	for _, p := range plugins {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.install(ctx, p)
	}
	return ctx.Err()
}

// ParsePlugins resolves, flattens and normalizes entries. Malformed entries
// are logged and dropped.
func (m *Manager) ParsePlugins(ctx context.Context, entries []any) []Installable {
	var plugins []Installable
	for _, entry := range m.flatten(ctx, entries) {
		p, err := NewInstallable(entry,
			WithInstallableLogger(m.base),
			WithProvider(m.providers),
		)
		if err != nil {
			m.logger.WithError(err).Error("Invalid plugin entry, skipping")
			continue
		}
		plugins = append(plugins, p)
	}
	return plugins
}

// LoadPlugin resolves a plugin name into its entries.
func (m *Manager) LoadPlugin(ctx context.Context, name string) ([]any, error) {
	module := ModuleName(name)
	entries, err := m.resolver.Resolve(ctx, module)
	if err != nil {
		return nil, errors.NewPluginNotFoundError(module, err)
	}
	return entries, nil
}

func (m *Manager) flatten(ctx context.Context, entries []any) []any {
	var out []any
	for _, entry := range entries {
		switch v := entry.(type) {
		case string:
			resolved, err := m.LoadPlugin(ctx, v)
			if err != nil {
				m.logger.WithError(err).Error(fmt.Sprintf("Plugin '%s' could not be loaded, skipping", v))
				continue
			}
			out = append(out, m.flatten(ctx, resolved)...)
		case []any:
			out = append(out, m.flatten(ctx, v)...)
		default:
			rv := reflect.ValueOf(entry)
			if rv.Kind() != reflect.Slice {
				out = append(out, entry)
				continue
			}
			nested := make([]any, rv.Len())
			for i := range nested {
				nested[i] = rv.Index(i).Interface()
			}
			out = append(out, m.flatten(ctx, nested)...)
		}
	}
	return out
}

func (m *Manager) install(ctx context.Context, p Installable) {
	subs := Subscribers{
		Tasks:        m.tasks.Subscribers(),
		Config:       m.wizard.Subscriber(),
		Dependencies: m.deps.Subscriber(),
	}
	m.logger.Debug(fmt.Sprintf("Installing plugin '%s'", p.Name()))
	if err := p.Install(ctx, subs); err != nil {
		m.logger.WithError(err).Error(fmt.Sprintf("Plugin '%s' failed to install", p.Name()))
	}
}
