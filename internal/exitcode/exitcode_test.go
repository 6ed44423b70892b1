package exitcode

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/felixgeelhaar/frontvue/internal/errors"
)

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected int
	}{
		{"Success", Success, 0},
		{"GeneralError", GeneralError, 1},
		{"UsageError", UsageError, 2},
		{"ConfigError", ConfigError, 3},
		{"PluginError", PluginError, 4},
		{"TaskError", TaskError, 5},
		{"DependencyError", DependencyError, 6},
		{"Interrupted", Interrupted, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.expected {
				t.Errorf("Exit code %s = %d, want %d", tt.name, tt.code, tt.expected)
			}
		})
	}
}

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "nil error returns success",
			err:      nil,
			expected: Success,
		},
		{
			name:     "cancelled",
			err:      fmt.Errorf("running init: %w", context.Canceled),
			expected: Interrupted,
		},
		{
			name:     "config access",
			err:      errors.NewConfigAccessError(stderrors.New("disk full")),
			expected: ConfigError,
		},
		{
			name:     "wizard",
			err:      errors.New(errors.ErrCodeWizardPromptFailed, "prompt failed"),
			expected: ConfigError,
		},
		{
			name:     "missing package.json",
			err:      errors.NewFileNotFoundError("package.json"),
			expected: ConfigError,
		},
		{
			name:     "plugin",
			err:      errors.NewPluginNotFoundError("@frontvue/plugin-sass", nil),
			expected: PluginError,
		},
		{
			name:     "wrapped task failure",
			err:      fmt.Errorf("dev: %w", errors.New(errors.ErrCodeTaskFailed, "task failed")),
			expected: TaskError,
		},
		{
			name:     "dependencies",
			err:      errors.NewNoPackageManagersError([]string{"yarn", "npm"}),
			expected: DependencyError,
		},
		{
			name:     "unknown command",
			err:      stderrors.New(`unknown command "bild" for "frontvue"`),
			expected: UsageError,
		},
		{
			name:     "unknown flag",
			err:      stderrors.New("unknown flag: --foo"),
			expected: UsageError,
		},
		{
			name:     "wrong arg count",
			err:      stderrors.New("accepts 1 arg(s), received 2"),
			expected: UsageError,
		},
		{
			name:     "generic error",
			err:      stderrors.New("something went wrong"),
			expected: GeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetermineExitCode(tt.err)
			if got != tt.expected {
				t.Errorf("DetermineExitCode(%v) = %d, want %d", tt.err, got, tt.expected)
			}
		})
	}
}

func TestGetExitCodeDescription(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{Success, "Success"},
		{GeneralError, "General error"},
		{UsageError, "Usage error (invalid flags or arguments)"},
		{ConfigError, "Configuration error"},
		{PluginError, "Plugin error"},
		{TaskError, "Task failed"},
		{DependencyError, "Dependency installation failed"},
		{Interrupted, "Interrupted"},
		{42, "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := GetExitCodeDescription(tt.code); got != tt.want {
				t.Errorf("GetExitCodeDescription(%d) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}
