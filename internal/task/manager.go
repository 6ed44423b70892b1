package task

import (
	"context"
	"fmt"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/frontvue/internal/errors"
	"github.com/felixgeelhaar/frontvue/internal/log"
)

// Manager owns the registry of tasks per hook. The hook list is fixed at
// construction.
type Manager struct {
	hooks   []string
	hookSet map[string]struct{}

	mu    sync.RWMutex
	tasks Tasks
	// fns is keyed by hook, then task name.
	fns map[string]map[string]Func

	logger         *log.Logger
	maxConcurrency int
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithMaxConcurrency limits how many tasks of a hook run at once. Zero or
// less means no limit.
func WithMaxConcurrency(n int) Option {
	return func(m *Manager) { m.maxConcurrency = n }
}

// NewManager creates a manager for hooks. Empty and repeated hook names are
// dropped.
func NewManager(hooks []string, opts ...Option) *Manager {
	m := &Manager{
		hookSet: make(map[string]struct{}, len(hooks)),
		tasks:   make(Tasks),
		fns:     make(map[string]map[string]Func),
	}
	for _, h := range hooks {
		if h == "" {
			continue
		}
		if _, dup := m.hookSet[h]; dup {
			continue
		}
		m.hookSet[h] = struct{}{}
		m.hooks = append(m.hooks, h)
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = log.OrDefault(m.logger).Channel("tasks")
	return m
}

// Hooks returns the hooks in construction order.
func (m *Manager) Hooks() []string {
	return slices.Clone(m.hooks)
}

// HasHook reports whether hook is known.
func (m *Manager) HasHook(hook string) bool {
	_, ok := m.hookSet[hook]
	return ok
}

// Tasks returns a copy of the registry.
func (m *Manager) Tasks() Tasks {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tasks.Clone()
}

// HasTasks reports whether at least one task is registered under hook.
func (m *Manager) HasTasks(hook string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tasks[hook]) > 0
}

// Subscribers returns a fresh one-shot subscriber set.
func (m *Manager) Subscribers() *Subscribers {
	return &Subscribers{manager: m}
}

func (m *Manager) subscribe(hook string, t Task) SubscribeResult {
	if !m.HasHook(hook) {
		return UnknownHook
	}
	if t.Name == "" || t.Fn == nil {
		return InvalidTask
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if slices.Contains(m.tasks[hook], t.Name) {
		return Duplicate
	}
	m.tasks[hook] = append(m.tasks[hook], t.Name)
	if m.fns[hook] == nil {
		m.fns[hook] = make(map[string]Func)
	}
	m.fns[hook][t.Name] = t.Fn
	m.logger.Debug("task registered", "hook", hook, "task", t.Name)
	return Subscribed
}

// Run executes every task of hook concurrently and waits for all of them.
// It reports false without error when the hook is unknown or has no tasks.
// When a task fails the others are cancelled and a TASK-001 error wrapping
// the first failure is returned.
func (m *Manager) Run(ctx context.Context, hook string) (bool, error) {
	if !m.HasHook(hook) {
		m.logger.Warn(fmt.Sprintf("hook '%s' doesn't exist", hook))
		return false, nil
	}

	m.mu.RLock()
	names := slices.Clone(m.tasks[hook])
	fns := make([]Func, len(names))
	for i, name := range names {
		fns[i] = m.fns[hook][name]
	}
	m.mu.RUnlock()

	if len(names) == 0 {
		m.logger.Warn(fmt.Sprintf("hook '%s' doesn't have any tasks", hook))
		return false, nil
	}

	runID := uuid.NewString()
	logger := m.logger.With("hook", hook, "run_id", runID)
	logger.Debug("running hook", "tasks", names)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	if m.maxConcurrency > 0 {
		g.SetLimit(m.maxConcurrency)
	}
	for i, name := range names {
		fn := fns[i]
		g.Go(func() error {
			return runTask(gctx, logger, name, fn)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("hook failed", "error", err, "duration", time.Since(start))
		return false, errors.Wrap(errors.ErrCodeTaskFailed, fmt.Sprintf("hook '%s' failed", hook), err)
	}

	logger.Debug("hook finished", "duration", time.Since(start))
	return true, nil
}

func runTask(ctx context.Context, logger *log.Logger, name string, fn Func) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("task panicked", "task", name, "stack", string(debug.Stack()))
			err = fmt.Errorf("task '%s' panicked: %v", name, r)
		}
	}()

	if err := fn(ctx); err != nil {
		return fmt.Errorf("task '%s': %w", name, err)
	}
	return nil
}
