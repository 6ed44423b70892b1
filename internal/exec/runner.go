// Package exec runs external commands behind an interface that tests can stub.
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"time"
)

// ErrNotFound is returned when the requested binary is not on PATH.
var ErrNotFound = exec.ErrNotFound

// DefaultWaitDelay is how long Run waits for the output pipes to close after
// the context ends and the process was killed.
const DefaultWaitDelay = time.Second

// Result is the outcome of a command that was started.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Success reports whether the command exited with status zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// RunOpts holds optional parameters for a command.
type RunOpts struct {
	Dir string            // working directory
	Env map[string]string // overlay on the current environment

	// Stdout and Stderr, when set, receive the output as it is produced in
	// addition to the captured copy in Result.
	Stdout io.Writer
	Stderr io.Writer

	// WaitDelay overrides DefaultWaitDelay.
	WaitDelay time.Duration
}

// Runner runs external commands.
//
// Run returns a Result with ExitCode set whenever the process started, even
// if it exited non-zero. An error is returned only when the process could
// not run at all: binary missing, context done or an I/O failure. When the
// context ends the returned error wraps ctx.Err().
type Runner interface {
	Run(ctx context.Context, name string, args []string, opts RunOpts) (Result, error)
}

// OSRunner is the Runner backed by os/exec.
type OSRunner struct{}

// NewOSRunner creates an OSRunner.
func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

// Run executes the command and captures its output.
func (r *OSRunner) Run(ctx context.Context, name string, args []string, opts RunOpts) (Result, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, name, args...)
	killProcessGroup(cmd)
	cmd.WaitDelay = DefaultWaitDelay
	if opts.WaitDelay > 0 {
		cmd.WaitDelay = opts.WaitDelay
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = tee(&stdout, opts.Stdout)
	cmd.Stderr = tee(&stderr, opts.Stderr)

	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}

	if len(opts.Env) > 0 {
		cmd.Env = cmd.Environ()
		keys := make([]string, 0, len(opts.Env))
		for k := range opts.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			cmd.Env = append(cmd.Env, k+"="+opts.Env[k])
		}
	}

	err := cmd.Run()

	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if ctxErr := ctx.Err(); err != nil && ctxErr != nil {
		result.ExitCode = -1
		return result, fmt.Errorf("%s stopped: %w", name, ctxErr)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("failed to execute %s: %w", name, err)
	}

	return result, nil
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

// Available reports whether name can be started and answers `name --version`
// with exit status zero. The trimmed version output is returned on success.
func Available(ctx context.Context, r Runner, name string) (string, bool, error) {
	res, err := r.Run(ctx, name, []string{"--version"}, RunOpts{})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	if !res.Success() {
		return "", false, nil
	}
	return string(bytes.TrimSpace([]byte(res.Stdout))), true, nil
}
