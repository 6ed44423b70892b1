package exitcode

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/felixgeelhaar/frontvue/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ConfigError indicates the configuration could not be read, written or collected
	ConfigError = 3

	// PluginError indicates a plugin could not be loaded or installed
	PluginError = 4

	// TaskError indicates a task of the pipeline failed
	TaskError = 5

	// DependencyError indicates the dependencies could not be installed
	DependencyError = 6

	// Interrupted indicates the run was cancelled by the user
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	code := DetermineExitCode(err)
	Exit(code)
}

// DetermineExitCode maps an error to an exit code. Coded errors are mapped
// by category; plain errors fall back to message matching.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}
	if stderrors.Is(err, context.Canceled) {
		return Interrupted
	}

	if code := errors.CodeOf(err); code != "" {
		category, _, _ := strings.Cut(string(code), "-")
		switch category {
		case "CONFIG", "WIZARD", "IO":
			return ConfigError
		case "PLUGIN":
			return PluginError
		case "TASK":
			return TaskError
		case "DEPS":
			return DependencyError
		}
	}

	errMsg := strings.ToLower(err.Error())

	// Usage errors, as reported by cobra
	for _, marker := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "invalid argument", "required flag", "accepts ", "requires at least", "requires at most"} {
		if strings.Contains(errMsg, marker) {
			return UsageError
		}
	}

	// Default to general error
	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case ConfigError:
		return "Configuration error"
	case PluginError:
		return "Plugin error"
	case TaskError:
		return "Task failed"
	case DependencyError:
		return "Dependency installation failed"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
