package tui

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/frontvue/internal/config"
	"github.com/felixgeelhaar/frontvue/internal/wizard"
)

// HuhPrompter asks wizard questions in the terminal. Forms are shown one at
// a time even when several questionnaires run concurrently.
type HuhPrompter struct {
	mu sync.Mutex
}

// NewHuhPrompter creates an interactive prompter.
func NewHuhPrompter() *HuhPrompter {
	return &HuhPrompter{}
}

// Prompt implements wizard.Prompter.
func (p *HuhPrompter) Prompt(ctx context.Context, questions []wizard.Question) (config.Config, error) {
	if len(questions) == 0 {
		return config.Config{}, nil
	}

	fields, collect, err := buildFields(questions)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	form := huh.NewForm(huh.NewGroup(fields...))
	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("prompt failed: %w", err)
	}
	return collect(), nil
}

// buildFields maps questions to huh fields. The returned function reads the
// answers once the form has run.
func buildFields(questions []wizard.Question) ([]huh.Field, func() config.Config, error) {
	fields := make([]huh.Field, 0, len(questions))
	readers := make(map[string]func() any, len(questions))

	for _, q := range questions {
		switch q.Type {
		case wizard.TypeConfirm:
			value := toBool(q.Default)
			fields = append(fields, huh.NewConfirm().Title(q.Message).Value(&value))
			readers[q.Name] = func() any { return value }

		case wizard.TypeList:
			if len(q.Choices) == 0 {
				return nil, nil, fmt.Errorf("question %q has no choices", q.Name)
			}
			value := toString(q.Default)
			fields = append(fields, huh.NewSelect[string]().
				Title(q.Message).
				Options(huh.NewOptions(q.Choices...)...).
				Value(&value))
			readers[q.Name] = func() any { return value }

		case wizard.TypeCheckbox:
			if len(q.Choices) == 0 {
				return nil, nil, fmt.Errorf("question %q has no choices", q.Name)
			}
			value := toStrings(q.Default)
			fields = append(fields, huh.NewMultiSelect[string]().
				Title(q.Message).
				Options(huh.NewOptions(q.Choices...)...).
				Value(&value))
			readers[q.Name] = func() any { return value }

		default:
			value := toString(q.Default)
			input := huh.NewInput().Title(q.Message).Value(&value)
			if q.Type == wizard.TypePassword {
				input = input.EchoMode(huh.EchoModePassword)
			}
			fields = append(fields, input)
			readers[q.Name] = func() any { return value }
		}
	}

	collect := func() config.Config {
		answers := make(config.Config, len(readers))
		for name, read := range readers {
			answers[name] = read()
		}
		return answers
	}
	return fields, collect, nil
}

func toString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

func toBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, _ := strconv.ParseBool(val)
		return b
	default:
		return false
	}
}

func toStrings(v any) []string {
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, toString(item))
		}
		return out
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	default:
		return nil
	}
}

// IsInteractive returns true if stdin is a terminal (not piped)
func IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

var ciEnvVars = []string{
	"CI",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"JENKINS_URL",
	"TRAVIS",
	"CIRCLECI",
	"BUILDKITE",
}

// InCI reports whether a known CI environment variable is set.
func InCI() bool {
	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return true
		}
	}
	return false
}

// ShouldPrompt returns true if prompts should be shown based on environment.
// Prompts are disabled in CI environments or when stdin is not a terminal.
func ShouldPrompt() bool {
	return !InCI() && IsInteractive()
}

// Prompter returns the interactive prompter when prompting is possible and
// allowed, and wizard.DefaultsPrompter otherwise.
func Prompter(noInput bool) wizard.Prompter {
	if noInput || !ShouldPrompt() {
		return wizard.DefaultsPrompter{}
	}
	return NewHuhPrompter()
}
