// Package wizard collects configuration answers for plugins that have not
// been configured yet.
package wizard

import (
	"context"

	"github.com/felixgeelhaar/frontvue/internal/config"
)

// QuestionType selects how a question is asked.
type QuestionType string

// Question types.
const (
	TypeInput    QuestionType = "input"
	TypePassword QuestionType = "password"
	TypeConfirm  QuestionType = "confirm"
	TypeList     QuestionType = "list"
	TypeCheckbox QuestionType = "checkbox"
)

// Question is a single prompt. Name is the configuration key the answer is
// stored under.
type Question struct {
	Name    string       `json:"name" yaml:"name"`
	Type    QuestionType `json:"type" yaml:"type"`
	Message string       `json:"message" yaml:"message"`
	Default any          `json:"default,omitempty" yaml:"default,omitempty"`
	Choices []string     `json:"choices,omitempty" yaml:"choices,omitempty"`
}

// Valid reports whether the question has a name, a type and a message.
func (q Question) Valid() bool {
	return q.Name != "" && q.Type != "" && q.Message != ""
}

// Questionnaire is an ordered list of questions owned by a namespace.
type Questionnaire struct {
	Namespace string     `json:"namespace" yaml:"namespace"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Prompter asks questions and returns the answers keyed by question name.
type Prompter interface {
	Prompt(ctx context.Context, questions []Question) (config.Config, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, questions []Question) (config.Config, error)

// Prompt implements Prompter.
func (f PrompterFunc) Prompt(ctx context.Context, questions []Question) (config.Config, error) {
	return f(ctx, questions)
}

// DefaultsPrompter answers every question with its default. It is used
// when no terminal is available.
type DefaultsPrompter struct{}

// Prompt implements Prompter.
func (DefaultsPrompter) Prompt(ctx context.Context, questions []Question) (config.Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	answers := make(config.Config, len(questions))
	for _, q := range questions {
		answers[q.Name] = DefaultAnswer(q)
	}
	return answers, nil
}

// DefaultAnswer returns the default of q, or the zero answer of its type.
func DefaultAnswer(q Question) any {
	if q.Default != nil {
		return q.Default
	}
	switch q.Type {
	case TypeConfirm:
		return false
	case TypeCheckbox:
		return []string{}
	case TypeList:
		if len(q.Choices) > 0 {
			return q.Choices[0]
		}
	}
	return ""
}
