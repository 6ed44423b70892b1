package deps

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/felixgeelhaar/frontvue/internal/errors"
	"github.com/felixgeelhaar/frontvue/internal/log"
)

// Manager collects manifests by plugin name and defers installation until
// Install is called.
type Manager struct {
	mu        sync.Mutex
	manifests map[string]Manifest
	installer Installer

	factory InstallerFactory
	cwd     string
	logger  *log.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithInstallerFactory replaces the package.json installer.
func WithInstallerFactory(f InstallerFactory) Option {
	return func(m *Manager) { m.factory = f }
}

// WithCwd sets the project directory of the default installer.
func WithCwd(dir string) Option {
	return func(m *Manager) { m.cwd = dir }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a dependencies manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{manifests: make(map[string]Manifest)}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = log.OrDefault(m.logger).Channel("dependencies")
	if m.factory == nil {
		m.factory = func(ctx context.Context) (Installer, error) {
			cwd := m.cwd
			if cwd == "" {
				var err error
				if cwd, err = os.Getwd(); err != nil {
					return nil, err
				}
			}
			return NewPackageInstaller(ctx, cwd, WithInstallerLogger(m.logger))
		}
	}
	return m
}

// Subscriber returns a fresh one-shot subscriber.
func (m *Manager) Subscriber() *Subscriber {
	return &Subscriber{manager: m}
}

// IsRegistered reports whether a manifest is registered under name.
func (m *Manager) IsRegistered(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.manifests[name]
	return ok
}

// Manifests returns a copy of the registered manifests.
func (m *Manager) Manifests() map[string]Manifest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]Manifest, len(m.manifests))
	for name, manifest := range m.manifests {
		out[name] = manifest.Clone()
	}
	return out
}

func (m *Manager) register(manifest Manifest, name string) bool {
	if name == "" {
		m.logger.Error("dependencies need a name to be registered")
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Debug(fmt.Sprintf("Registering dependencies for %s", name))
	if _, ok := m.manifests[name]; ok {
		err := errors.New(errors.ErrCodeDepsAlreadyRegistered,
			fmt.Sprintf("there are dependencies already registered under this name: %s", name))
		m.logger.WithError(err).Error("skipping dependencies")
		return false
	}
	m.manifests[name] = manifest.Clone()
	return true
}

// Install creates the installer on first use, adds every manifest in name
// order and runs the package manager.
func (m *Manager) Install(ctx context.Context) error {
	m.mu.Lock()
	if m.installer == nil {
		installer, err := m.factory(ctx)
		if err != nil {
			m.mu.Unlock()
			return err
		}
		m.installer = installer
	}
	installer := m.installer
	names := make([]string, 0, len(m.manifests))
	for name := range m.manifests {
		names = append(names, name)
	}
	slices.Sort(names)
	manifests := make([]Manifest, len(names))
	for i, name := range names {
		manifests[i] = m.manifests[name]
	}
	m.mu.Unlock()

	for _, manifest := range manifests {
		if err := installer.Add(ctx, manifest); err != nil {
			return err
		}
	}
	return installer.Run(ctx)
}

// Subscriber registers one manifest. It can be used once.
type Subscriber struct {
	manager *Manager
	used    atomic.Bool
}

// Spent reports whether the subscriber was used.
func (s *Subscriber) Spent() bool {
	return s.used.Load()
}

// Register stores manifest under name. It reports false when the subscriber
// was used before or name is taken.
func (s *Subscriber) Register(manifest Manifest, name string) bool {
	if !s.used.CompareAndSwap(false, true) {
		return false
	}
	return s.manager.register(manifest, name)
}
