package plugin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/frontvue/internal/config"
	"github.com/felixgeelhaar/frontvue/internal/deps"
	"github.com/felixgeelhaar/frontvue/internal/log"
	"github.com/felixgeelhaar/frontvue/internal/task"
	"github.com/felixgeelhaar/frontvue/internal/wizard"
)

type testEnv struct {
	config *config.Manager
	tasks  *task.Manager
	wizard *wizard.Wizard
	deps   *deps.Manager
}

func newTestEnv(t *testing.T, hooks ...string) *testEnv {
	t.Helper()
	cfg, err := config.NewManager(context.Background(), config.DefaultNamespace,
		config.WithStore(config.NewMemoryStore(nil)),
		config.WithLogger(log.Nop()),
	)
	require.NoError(t, err)
	wiz, err := wizard.NewWizard(cfg, wizard.WithPrompter(wizard.DefaultsPrompter{}), wizard.WithLogger(log.Nop()))
	require.NoError(t, err)

	return &testEnv{
		config: cfg,
		tasks:  task.NewManager(hooks, task.WithLogger(log.Nop())),
		wizard: wiz,
		deps:   deps.NewManager(deps.WithLogger(log.Nop())),
	}
}

func (e *testEnv) subscribers() Subscribers {
	return Subscribers{
		Tasks:        e.tasks.Subscribers(),
		Config:       e.wizard.Subscriber(),
		Dependencies: e.deps.Subscriber(),
	}
}

func (e *testEnv) manager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	opts = append([]Option{WithLogger(log.Nop())}, opts...)
	m, err := NewManager(e.tasks, e.wizard, e.deps, opts...)
	require.NoError(t, err)
	return m
}

func noopTask(context.Context, *Provider) error { return nil }

// namedPlugin is a hand-written Installable.
type namedPlugin struct {
	name      string
	installed int
	err       error
}

func (p *namedPlugin) Name() string        { return p.name }
func (p *namedPlugin) Description() string { return "hand-written plugin" }

func (p *namedPlugin) Install(context.Context, Subscribers) error {
	p.installed++
	return p.err
}

func taskOf(name string) task.Task {
	return task.Task{Name: name, Fn: func(context.Context) error { return nil }}
}
