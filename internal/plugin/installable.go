package plugin

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"

	"github.com/felixgeelhaar/frontvue/internal/errors"
	"github.com/felixgeelhaar/frontvue/internal/log"
	"github.com/felixgeelhaar/frontvue/internal/task"
)

// IsInstallable reports whether v can be installed as is. A value that
// implements Installable but has an empty name is reported as an error.
func IsInstallable(v any) (bool, error) {
	inst, ok := v.(Installable)
	if !ok || isNil(v) {
		return false, nil
	}
	if inst.Name() == "" {
		return false, errors.New(errors.ErrCodePluginNameless, "plugin implements Install but has no name").
			WithSuggestion("Return a non-empty value from Name()")
	}
	return true, nil
}

// InstallableOption configures NewInstallable.
type InstallableOption func(*descriptorPlugin)

// WithInstallableLogger sets the logger of a descriptor plugin.
func WithInstallableLogger(logger *log.Logger) InstallableOption {
	return func(p *descriptorPlugin) {
		p.logger = logger
	}
}

// WithProvider sets the factory of the utilities handed to the plugin task.
func WithProvider(factory ProviderFactory) InstallableOption {
	return func(p *descriptorPlugin) {
		p.providers = factory
	}
}

// NewInstallable normalizes entry into an Installable. Installables are
// returned unchanged; descriptors are validated and wrapped.
func NewInstallable(entry any, opts ...InstallableOption) (Installable, error) {
	ok, err := IsInstallable(entry)
	if err != nil {
		return nil, err
	}
	if ok {
		return entry.(Installable), nil
	}

	var d Descriptor
	switch v := entry.(type) {
	case Descriptor:
		d = v
	case *Descriptor:
		if v == nil {
			return nil, unsupportedEntry(entry)
		}
		d = *v
	default:
		return nil, unsupportedEntry(entry)
	}

	switch {
	case d.Task == nil:
		return nil, errors.New(errors.ErrCodePluginInvalidTask, fmt.Sprintf("plugin %q has no task function", d.Name))
	case d.Hook == "":
		return nil, errors.New(errors.ErrCodePluginInvalidHook, fmt.Sprintf("plugin %q has no hook", d.Name))
	case d.Name == "":
		return nil, errors.New(errors.ErrCodePluginInvalidName, "plugin has no name")
	}

	p := &descriptorPlugin{desc: d}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = log.OrDefault(p.logger).Channel(d.Name)
	if p.providers == nil {
		p.providers = DefaultProviderFactory(p.logger)
	}
	return p, nil
}

func unsupportedEntry(entry any) error {
	return errors.New(errors.ErrCodePluginUnsupportedEntry, fmt.Sprintf("unsupported plugin entry of type %T", entry)).
		WithSuggestion("Pass a plugin.Descriptor, a plugin.Installable or a plugin name")
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

type descriptorPlugin struct {
	desc      Descriptor
	logger    *log.Logger
	providers ProviderFactory
}

type installStep struct {
	name string
	run  func(ctx context.Context, subs Subscribers) error
}

func (p *descriptorPlugin) Name() string        { return p.desc.Name }
func (p *descriptorPlugin) Description() string { return p.desc.Description }

// Install registers the task, the questionnaire and the dependencies of the
// plugin. Every step runs even when an earlier one fails.
func (p *descriptorPlugin) Install(ctx context.Context, subs Subscribers) error {
	steps := []installStep{
		{name: "task", run: p.subscribeTask},
		{name: "config", run: p.subscribeConfig},
		{name: "dependencies", run: p.registerDependencies},
	}

	var errs []error
	for _, step := range steps {
		if err := step.run(ctx, subs); err != nil {
			p.logger.WithError(err).Error(fmt.Sprintf("Plugin install step %q failed", step.name))
			errs = append(errs, fmt.Errorf("%s: %w", step.name, err))
		}
	}
	return stderrors.Join(errs...)
}

func (p *descriptorPlugin) subscribeTask(_ context.Context, subs Subscribers) error {
	if subs.Tasks == nil || !subs.Tasks.Has(p.desc.Hook) {
		p.logger.Debug(fmt.Sprintf("Hook '%s' is not available, skipping task", p.desc.Hook))
		return nil
	}
	res := subs.Tasks.Subscribe(p.desc.Hook, task.Task{Name: p.desc.Name, Fn: p.taskFunc()})
	if !res.OK() {
		return fmt.Errorf("task %q was not subscribed to hook %q: %s", p.desc.Name, p.desc.Hook, res)
	}
	return nil
}

func (p *descriptorPlugin) subscribeConfig(ctx context.Context, subs Subscribers) error {
	if p.desc.ConfigDefaults == nil || p.desc.ConfigQuestionnaire == nil || subs.Config == nil {
		return nil
	}
	q := *p.desc.ConfigQuestionnaire
	q.Namespace = p.namespace()
	ok, err := subs.Config.Subscribe(ctx, p.desc.ConfigDefaults, q)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("questionnaire %q was not registered", q.Namespace)
	}
	return nil
}

func (p *descriptorPlugin) registerDependencies(_ context.Context, subs Subscribers) error {
	if p.desc.Dependencies == nil || subs.Dependencies == nil {
		return nil
	}
	if !subs.Dependencies.Register(*p.desc.Dependencies, p.desc.Name) {
		return fmt.Errorf("dependencies of %q were not registered", p.desc.Name)
	}
	return nil
}

// namespace is the configuration namespace of the plugin.
func (p *descriptorPlugin) namespace() string {
	if q := p.desc.ConfigQuestionnaire; q != nil && q.Namespace != "" {
		return q.Namespace
	}
	return p.desc.Name
}

func (p *descriptorPlugin) taskFunc() task.Func {
	return func(ctx context.Context) error {
		provider, err := p.providers(ctx, p.namespace())
		if err != nil {
			return fmt.Errorf("building utilities for %q: %w", p.desc.Name, err)
		}
		provider.Name = p.desc.Name
		if provider.Logger == nil {
			provider.Logger = p.logger
		}

		provider.Logger.Debug("Started...")
		if err := p.desc.Task(ctx, provider); err != nil {
			return err
		}
		provider.Logger.Debug("Finished...")
		return nil
	}
}
