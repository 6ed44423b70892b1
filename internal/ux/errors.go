package ux

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/frontvue/internal/errors"
)

// ErrorWithSuggestion wraps an error with helpful recovery suggestions
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\n💡 Suggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError adds a suggestion to errors that do not carry one. Coded
// errors with suggestions are returned unchanged.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	var fe *errors.FrontvueError
	if stderrors.As(err, &fe) && len(fe.Suggestions) > 0 {
		return err
	}

	errMsg := err.Error()

	switch {
	case errors.HasCode(err, errors.ErrCodeFileNotFound) || strings.Contains(errMsg, "no such file or directory"):
		if strings.Contains(errMsg, "package.json") {
			return NewErrorWithSuggestion(err,
				"Run 'frontvue init' to create a project, or pass --cwd pointing at an existing one")
		}
	case errors.HasCode(err, errors.ErrCodeTaskFailed):
		return NewErrorWithSuggestion(err,
			"Run again with --log-level debug to see the output of every task")
	case strings.Contains(errMsg, "executable file not found"):
		return NewErrorWithSuggestion(err,
			"Install the missing program and make sure it is on your PATH")
	case strings.Contains(errMsg, "permission denied"):
		return NewErrorWithSuggestion(err,
			"Check file permissions and ensure you have access to the project directory")
	}

	return err
}

// FormatError provides consistent error formatting with context
func FormatError(err error, context string) error {
	if err == nil {
		return nil
	}

	enhanced := EnhanceError(err)
	if context != "" {
		return fmt.Errorf("%s: %w", context, enhanced)
	}
	return enhanced
}
