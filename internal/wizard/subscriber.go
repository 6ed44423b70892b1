package wizard

import (
	"context"
	"sync/atomic"

	"github.com/felixgeelhaar/frontvue/internal/config"
)

// Subscriber registers one plugin questionnaire. It can be used once; later
// calls report false and do nothing.
type Subscriber struct {
	wizard *Wizard
	used   atomic.Bool
}

// Subscriber returns a fresh one-shot subscriber.
func (w *Wizard) Subscriber() *Subscriber {
	return &Subscriber{wizard: w}
}

// Spent reports whether the subscriber was used.
func (s *Subscriber) Spent() bool {
	return s.used.Load()
}

// Subscribe registers q and, unless the plugin named by q.Namespace is
// already configured, asks the questions that have no stored answer yet and
// persists defaults, stored values and answers together. It reports false
// when the subscriber was already used or the namespace is taken.
func (s *Subscriber) Subscribe(ctx context.Context, defaults config.Config, q Questionnaire) (bool, error) {
	if !s.used.CompareAndSwap(false, true) {
		return false, nil
	}
	w := s.wizard

	if !w.AddQuestionnaire(q) {
		return false, nil
	}

	configured, err := w.IsConfigured(ctx, q.Namespace, defaults)
	if err != nil {
		return false, err
	}
	if configured {
		w.logger.Debug("plugin already configured", "namespace", q.Namespace)
		return true, nil
	}

	proxy, err := config.NewProxy(w.manager, q.Namespace)
	if err != nil {
		return false, err
	}
	stored, err := proxy.Get(ctx)
	if err != nil {
		return false, err
	}

	prefill := defaults.Clone()
	for k, v := range stored {
		prefill[k] = v
	}

	var missing []Question
	for _, question := range q.Questions {
		if _, ok := stored[question.Name]; !ok {
			missing = append(missing, question)
		}
	}

	merged := prefill.Clone()
	if len(missing) > 0 {
		answers, err := w.prompt(ctx, missing, prefill)
		if err != nil {
			return false, err
		}
		for k, v := range answers {
			merged[k] = v
		}
	}

	if len(merged) == 0 {
		return true, nil
	}
	if _, err := w.SetConfiguration(ctx, q.Namespace, merged); err != nil {
		return false, err
	}
	return true, nil
}
