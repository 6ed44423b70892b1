package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigAccessFailed       ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalidNamespace   ErrorCode = "CONFIG-002"
	ErrCodeConfigInvalidKey         ErrorCode = "CONFIG-003"
	ErrCodeConfigManagerRequired    ErrorCode = "CONFIG-004"
	ErrCodeConfigPrefixRequired     ErrorCode = "CONFIG-005"
	ErrCodeConfigStoreFailed        ErrorCode = "CONFIG-006"
	ErrCodeConfigDestroyUnsupported ErrorCode = "CONFIG-007"

	// Questionnaire errors (WIZARD-001 to WIZARD-099)
	ErrCodeWizardInvalidNamespace ErrorCode = "WIZARD-001"
	ErrCodeWizardInvalidQuestions ErrorCode = "WIZARD-002"
	ErrCodeWizardNamespaceExists  ErrorCode = "WIZARD-003"
	ErrCodeWizardInvalidQuestion  ErrorCode = "WIZARD-004"
	ErrCodeWizardUnknownNamespace ErrorCode = "WIZARD-005"
	ErrCodeWizardPromptFailed     ErrorCode = "WIZARD-006"

	// Plugin errors (PLUGIN-001 to PLUGIN-099)
	ErrCodePluginTaskManagerRequired ErrorCode = "PLUGIN-001"
	ErrCodePluginWizardRequired      ErrorCode = "PLUGIN-002"
	ErrCodePluginDepsRequired        ErrorCode = "PLUGIN-003"
	ErrCodePluginNotFound            ErrorCode = "PLUGIN-004"
	ErrCodePluginInvalidTask         ErrorCode = "PLUGIN-005"
	ErrCodePluginInvalidHook         ErrorCode = "PLUGIN-006"
	ErrCodePluginInvalidName         ErrorCode = "PLUGIN-007"
	ErrCodePluginNameless            ErrorCode = "PLUGIN-008"
	ErrCodePluginManifestInvalid     ErrorCode = "PLUGIN-009"
	ErrCodePluginUnsupportedEntry    ErrorCode = "PLUGIN-010"

	// Task errors (TASK-001 to TASK-099)
	ErrCodeTaskFailed ErrorCode = "TASK-001"

	// Dependency errors (DEPS-001 to DEPS-099)
	ErrCodeDepsNoManagers        ErrorCode = "DEPS-001"
	ErrCodeDepsAddFailed         ErrorCode = "DEPS-002"
	ErrCodeDepsInstallFailed     ErrorCode = "DEPS-003"
	ErrCodeDepsAlreadyRegistered ErrorCode = "DEPS-004"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeFileNotJSON     ErrorCode = "IO-005"
)

// FrontvueError represents an enhanced error with code, suggestions, and documentation
type FrontvueError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *FrontvueError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FrontvueError) Unwrap() error {
	return e.Cause
}

// New creates a new FrontvueError
func New(code ErrorCode, message string) *FrontvueError {
	return &FrontvueError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new FrontvueError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *FrontvueError {
	return &FrontvueError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *FrontvueError) WithSuggestion(suggestion string) *FrontvueError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *FrontvueError) WithSuggestions(suggestions ...string) *FrontvueError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *FrontvueError) WithDocs(url string) *FrontvueError {
	e.DocsURL = url
	return e
}

// CodeOf returns the code of the outermost FrontvueError in err's chain,
// or an empty code if there is none.
func CodeOf(err error) ErrorCode {
	var fe *FrontvueError
	if stderrors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// HasCode reports whether any FrontvueError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var fe *FrontvueError
		if !stderrors.As(err, &fe) {
			return false
		}
		if fe.Code == code {
			return true
		}
		err = fe.Cause
	}
	return false
}

// Common error constructors for frequently used errors

// NewConfigAccessError is returned by the configuration manager whenever the
// backing store cannot be read or written.
func NewConfigAccessError(cause error) *FrontvueError {
	return Wrap(ErrCodeConfigAccessFailed, "there was an error while accessing the configuration", cause).
		WithSuggestion("Check that package.json exists and is valid JSON").
		WithSuggestion("Verify you have read and write permissions for the file")
}

// NewPluginNotFoundError creates a plugin resolution error
func NewPluginNotFoundError(name string, cause error) *FrontvueError {
	return Wrap(ErrCodePluginNotFound, fmt.Sprintf("plugin could not be loaded: %s", name), cause).
		WithSuggestion("Check the plugin name for typos").
		WithSuggestion("Pass --plugin-dir pointing at the directory that contains the plugin manifest")
}

// NewNoPackageManagersError creates an error for a system without package managers
func NewNoPackageManagersError(managers []string) *FrontvueError {
	return New(ErrCodeDepsNoManagers, fmt.Sprintf("no package managers were found on your system (%s)", strings.Join(managers, ", "))).
		WithSuggestion("Install at least one package manager (e.g. 'yarn', 'npm')")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *FrontvueError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewFileNotJSONError creates an error for files that cannot be parsed as JSON
func NewFileNotJSONError(path string) *FrontvueError {
	return New(ErrCodeFileNotJSON, fmt.Sprintf("file is not in a JSON-like format: %s", path)).
		WithSuggestion("Check the file syntax")
}
