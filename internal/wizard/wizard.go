package wizard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/felixgeelhaar/frontvue/internal/config"
	"github.com/felixgeelhaar/frontvue/internal/errors"
	"github.com/felixgeelhaar/frontvue/internal/log"
)

// Wizard keeps the registered questionnaires and persists their answers
// through a config.Proxy named after the questionnaire namespace.
type Wizard struct {
	manager  *config.Manager
	prompter Prompter
	logger   *log.Logger

	mu             sync.RWMutex
	questionnaires map[string][]Question
	order          []string
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithPrompter sets the prompter. The default answers with defaults.
func WithPrompter(p Prompter) Option {
	return func(w *Wizard) { w.prompter = p }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(w *Wizard) { w.logger = l }
}

// NewWizard creates a wizard storing answers in manager.
func NewWizard(manager *config.Manager, opts ...Option) (*Wizard, error) {
	if manager == nil {
		return nil, errors.New(errors.ErrCodeConfigManagerRequired, "the config wizard requires a configuration manager")
	}
	w := &Wizard{
		manager:        manager,
		prompter:       DefaultsPrompter{},
		questionnaires: make(map[string][]Question),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = log.OrDefault(w.logger).Channel("wizard")
	return w, nil
}

// ValidateQuestionnaire checks q against the registered questionnaires.
func (w *Wizard) ValidateQuestionnaire(q Questionnaire) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.validate(q)
}

func (w *Wizard) validate(q Questionnaire) error {
	if q.Namespace == "" {
		return errors.New(errors.ErrCodeWizardInvalidNamespace, "questionnaire namespace is invalid, please provide a non-empty string")
	}
	if len(q.Questions) == 0 {
		return errors.New(errors.ErrCodeWizardInvalidQuestions, "questionnaire needs to have questions and they must not be empty")
	}
	if _, ok := w.questionnaires[q.Namespace]; ok {
		return errors.New(errors.ErrCodeWizardNamespaceExists,
			fmt.Sprintf("configuration questionnaire with following namespace already exists: %s", q.Namespace))
	}

	var invalid []string
	for i, question := range q.Questions {
		if !question.Valid() {
			invalid = append(invalid, strconv.Itoa(i))
		}
	}
	if len(invalid) > 0 {
		return errors.New(errors.ErrCodeWizardInvalidQuestion,
			fmt.Sprintf("questionnaire has invalid questions ('%s') with indexes: %s", q.Namespace, strings.Join(invalid, ", "))).
			WithSuggestion("Every question needs a name, a type and a message")
	}
	return nil
}

// AddQuestionnaire registers every valid questionnaire. Invalid ones are
// logged and skipped. It reports whether at least one was added.
func (w *Wizard) AddQuestionnaire(items ...Questionnaire) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	added := false
	for _, q := range items {
		if err := w.validate(q); err != nil {
			w.logger.WithError(err).Error("skipping questionnaire", "namespace", q.Namespace)
			continue
		}
		w.questionnaires[q.Namespace] = append([]Question(nil), q.Questions...)
		w.order = append(w.order, q.Namespace)
		added = true
	}
	return added
}

// Questionnaires returns a copy of the registered questionnaires.
func (w *Wizard) Questionnaires() map[string][]Question {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make(map[string][]Question, len(w.questionnaires))
	for ns, qs := range w.questionnaires {
		out[ns] = append([]Question(nil), qs...)
	}
	return out
}

// Namespaces returns the registered namespaces in registration order.
func (w *Wizard) Namespaces() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]string(nil), w.order...)
}

func (w *Wizard) questions(namespace string) ([]Question, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	qs, ok := w.questionnaires[namespace]
	return qs, ok
}

// StartQuestionnaire asks the questions of namespace. Values already stored
// for the namespace are offered as defaults.
func (w *Wizard) StartQuestionnaire(ctx context.Context, namespace string) (config.Config, error) {
	questions, ok := w.questions(namespace)
	if !ok {
		return nil, errors.New(errors.ErrCodeWizardUnknownNamespace,
			fmt.Sprintf("there are no questionnaires with that name: %s", namespace))
	}

	proxy, err := config.NewProxy(w.manager, namespace)
	if err != nil {
		return nil, err
	}
	stored, err := proxy.Get(ctx)
	if err != nil {
		return nil, err
	}
	return w.prompt(ctx, questions, stored)
}

// Start runs every questionnaire concurrently and returns the answers keyed
// by namespace. Failed questionnaires are logged and left out.
func (w *Wizard) Start(ctx context.Context) map[string]config.Config {
	namespaces := w.Namespaces()
	answers := make(map[string]config.Config, len(namespaces))
	if len(namespaces) == 0 {
		return answers
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, ns := range namespaces {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.logger.Info(fmt.Sprintf("Starting configuration questionnaire for '%s'", ns))

			result, err := w.StartQuestionnaire(ctx, ns)
			if err != nil {
				w.logger.WithError(err).Error("questionnaire failed", "namespace", ns)
				return
			}

			mu.Lock()
			answers[ns] = result
			mu.Unlock()
		}()
	}
	wg.Wait()

	return answers
}

// IsConfigured reports whether every key of defaults is stored for plugin
// name. Partially configured plugins are not configured. A plugin without
// defaults asks nothing, so it is always configured.
func (w *Wizard) IsConfigured(ctx context.Context, name string, defaults config.Config) (bool, error) {
	proxy, err := config.NewProxy(w.manager, name)
	if err != nil {
		return false, err
	}
	if len(defaults) == 0 {
		return true, nil
	}
	stored, err := proxy.GetKeys(ctx, defaults.Keys()...)
	if err != nil {
		return false, err
	}
	return len(stored) == len(defaults), nil
}

// SetConfiguration stores cfg under the prefix of plugin name.
func (w *Wizard) SetConfiguration(ctx context.Context, name string, cfg config.Config) (bool, error) {
	proxy, err := config.NewProxy(w.manager, name)
	if err != nil {
		return false, err
	}
	return proxy.Merge(ctx, cfg)
}

// prompt asks questions with defaults taken from prefill where present.
func (w *Wizard) prompt(ctx context.Context, questions []Question, prefill config.Config) (config.Config, error) {
	asked := make([]Question, len(questions))
	for i, q := range questions {
		if v, ok := prefill[q.Name]; ok {
			q.Default = v
		}
		asked[i] = q
	}

	answers, err := w.prompter.Prompt(ctx, asked)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeWizardPromptFailed, "failed to collect answers", err)
	}
	return answers, nil
}
