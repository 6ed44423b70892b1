// Package plugin turns plugin descriptions into installables and installs
// them against the task manager, the config wizard and the dependencies
// manager.
package plugin

import (
	"context"

	"github.com/felixgeelhaar/frontvue/internal/config"
	"github.com/felixgeelhaar/frontvue/internal/deps"
	"github.com/felixgeelhaar/frontvue/internal/task"
	"github.com/felixgeelhaar/frontvue/internal/wizard"
)

// Func is the body of a plugin task. It receives the utilities of the
// plugin.
type Func func(ctx context.Context, p *Provider) error

// Descriptor is the raw description of a single-task plugin.
type Descriptor struct {
	Name        string
	Description string
	Hook        string
	Task        Func

	// ConfigDefaults and ConfigQuestionnaire are only used together. The
	// questionnaire namespace defaults to Name.
	ConfigDefaults      config.Config
	ConfigQuestionnaire *wizard.Questionnaire

	Dependencies *deps.Manifest
}

// Installable is a plugin ready to be installed.
type Installable interface {
	Name() string
	Description() string
	Install(ctx context.Context, subs Subscribers) error
}

// Subscribers is the set of one-shot registration capabilities handed to a
// plugin for a single install.
type Subscribers struct {
	Tasks        TaskSubscriber
	Config       ConfigSubscriber
	Dependencies DependencySubscriber
}

// TaskSubscriber registers a task under a hook.
type TaskSubscriber interface {
	Has(hook string) bool
	Subscribe(hook string, t task.Task) task.SubscribeResult
}

// ConfigSubscriber registers a questionnaire.
type ConfigSubscriber interface {
	Subscribe(ctx context.Context, defaults config.Config, q wizard.Questionnaire) (bool, error)
}

// DependencySubscriber registers a dependencies manifest.
type DependencySubscriber interface {
	Register(manifest deps.Manifest, name string) bool
}

// TaskSource hands out task subscriber sets.
type TaskSource interface {
	Subscribers() *task.Subscribers
}

// ConfigSource hands out questionnaire subscribers.
type ConfigSource interface {
	Subscriber() *wizard.Subscriber
}

// DependencySource hands out dependency subscribers.
type DependencySource interface {
	Subscriber() *deps.Subscriber
}
