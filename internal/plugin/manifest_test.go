package plugin

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/frontvue/internal/config"
	"github.com/felixgeelhaar/frontvue/internal/deps"
	"github.com/felixgeelhaar/frontvue/internal/errors"
	"github.com/felixgeelhaar/frontvue/internal/exec"
	"github.com/felixgeelhaar/frontvue/internal/log"
)

type runCall struct {
	name string
	args []string
	opts exec.RunOpts
}

type stubRunner struct {
	calls  []runCall
	result exec.Result
	err    error
}

func (s *stubRunner) Run(_ context.Context, name string, args []string, opts exec.RunOpts) (exec.Result, error) {
	s.calls = append(s.calls, runCall{name: name, args: args, opts: opts})
	if opts.Stdout != nil {
		_, _ = opts.Stdout.Write([]byte("compiled\n"))
	}
	return s.result, s.err
}

const sassManifest = `name: sass
description: Compiles sass sources
hook: process
entrypoint: bin/run.sh
args: ["--minify"]
config:
  defaults:
    outputStyle: compressed
  questionnaire:
    questions:
      - name: outputStyle
        type: list
        message: Which output style?
        choices: [compressed, expanded]
dependencies:
  sass: ^1.69.0
`

func writePlugin(t *testing.T, root, dir, file, content string) string {
	t.Helper()
	pluginDir := filepath.Join(root, dir)
	require.NoError(t, os.MkdirAll(filepath.Join(pluginDir, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pluginDir, "bin", "run.sh"), []byte("#!/bin/sh\n"), 0o755))
	path := filepath.Join(pluginDir, file)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadManifestYAML(t *testing.T) {
	root := t.TempDir()
	path := writePlugin(t, root, "sass", "plugin.yaml", sassManifest)

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "sass", m.Name)
	assert.Equal(t, "process", m.Hook)
	assert.Equal(t, []string{"--minify"}, m.Args)
	assert.Equal(t, filepath.Join(root, "sass", "bin", "run.sh"), m.EntrypointPath())
	require.NotNil(t, m.Config)
	assert.Equal(t, config.Config{"outputStyle": "compressed"}, m.Config.Defaults)
	require.NotNil(t, m.Config.Questionnaire)
	assert.Equal(t, []string{"compressed", "expanded"}, m.Config.Questionnaire.Questions[0].Choices)
	assert.Equal(t, map[string]string{"sass": "^1.69.0"}, m.Dependencies)
}

func TestLoadManifestJSON(t *testing.T) {
	root := t.TempDir()
	path := writePlugin(t, root, "clean", "plugin.json",
		`{"name": "clean", "hook": "clean", "entrypoint": "bin/run.sh"}`)

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "clean", m.Name)
	assert.Nil(t, m.Config)
}

func TestLoadManifestInvalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"missing hook", "plugin.json", `{"name": "x", "entrypoint": "bin/run.sh"}`},
		{"unknown field", "plugin.json", `{"name": "x", "hook": "init", "entrypoint": "bin/run.sh", "version": 2}`},
		{"bad question type", "plugin.yaml", "name: x\nhook: init\nentrypoint: bin/run.sh\nconfig:\n  questionnaire:\n    questions:\n      - {name: a, type: slider, message: A?}\n"},
		{"not an object", "plugin.yaml", "- a\n- b\n"},
		{"broken yaml", "plugin.yaml", "name: [x\n"},
		{"broken json", "plugin.json", `{"name": `},
		{"missing entrypoint file", "plugin.json", `{"name": "x", "hook": "init", "entrypoint": "bin/missing"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePlugin(t, t.TempDir(), "x", tt.file, tt.content)
			_, err := LoadManifest(path)
			assert.True(t, errors.HasCode(err, errors.ErrCodePluginManifestInvalid), "got %v", err)
		})
	}
}

func TestManifestResolverDiscover(t *testing.T) {
	root := t.TempDir()
	writePlugin(t, root, "sass", "plugin.yaml", sassManifest)
	writePlugin(t, root, "broken", "plugin.json", `{"name": "broken"}`)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "no-manifest"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("plugins"), 0o644))

	r := NewManifestResolver([]string{filepath.Join(root, "missing"), root}, WithManifestLogger(log.Nop()))
	manifests, err := r.Discover(context.Background())
	assert.True(t, errors.HasCode(err, errors.ErrCodePluginManifestInvalid))
	require.Len(t, manifests, 1)
	assert.Equal(t, "sass", manifests[0].Name)
}

func TestManifestResolverResolve(t *testing.T) {
	root := t.TempDir()
	writePlugin(t, root, "plugin-sass", "plugin.yaml", sassManifest)
	r := NewManifestResolver([]string{root}, WithManifestLogger(log.Nop()))

	for _, name := range []string{"sass", "@frontvue/plugin-sass"} {
		entries, err := r.Resolve(context.Background(), name)
		require.NoError(t, err, name)
		require.Len(t, entries, 1)
		d, ok := entries[0].(Descriptor)
		require.True(t, ok)
		assert.Equal(t, "sass", d.Name)
		assert.Equal(t, "process", d.Hook)
		assert.Equal(t, config.Config{"outputStyle": "compressed"}, d.ConfigDefaults)
		assert.Equal(t, &deps.Manifest{Dependencies: map[string]string{"sass": "^1.69.0"}}, d.Dependencies)
	}

	_, err := r.Resolve(context.Background(), "less")
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestManifestTaskRunsEntrypoint(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	path := writePlugin(t, root, "sass", "plugin.yaml", sassManifest)
	m, err := LoadManifest(path)
	require.NoError(t, err)

	env := newTestEnv(t, "process")
	require.NoError(t, env.config.Set(ctx, "plugin-sass:outputStyle", "expanded"))
	core, err := config.NewProxy(env.config, "frontvue")
	require.NoError(t, err)

	runner := &stubRunner{}
	r := NewManifestResolver([]string{root}, WithRunner(runner), WithManifestLogger(log.Nop()))
	pm := env.manager(t,
		WithResolver(r),
		WithProviderFactory(ConfigProviderFactory(env.config, core, root, log.Nop())),
	)
	require.NoError(t, pm.Use(ctx, r.Descriptor(m)))

	ok, err := env.tasks.Run(ctx, "process")
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	assert.Equal(t, m.EntrypointPath(), call.name)
	assert.Equal(t, []string{"--minify"}, call.args)
	assert.Equal(t, root, call.opts.Dir)
	assert.Equal(t, "sass", call.opts.Env[EnvPlugin])
	assert.Equal(t, "process", call.opts.Env[EnvHook])
	assert.Equal(t, filepath.Join(root, "src"), call.opts.Env[EnvSourceDir])

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(call.opts.Env[EnvConfig]), &payload))
	assert.Equal(t, map[string]any{"outputStyle": "expanded"}, payload)
}

func TestManifestTaskFailsOnExitCode(t *testing.T) {
	root := t.TempDir()
	path := writePlugin(t, root, "clean", "plugin.json", `{"name": "clean", "hook": "clean", "entrypoint": "bin/run.sh"}`)
	m, err := LoadManifest(path)
	require.NoError(t, err)

	r := NewManifestResolver(nil, WithRunner(&stubRunner{result: exec.Result{ExitCode: 2}}), WithManifestLogger(log.Nop()))
	d := r.Descriptor(m)

	err = d.Task(context.Background(), &Provider{Name: "clean", Logger: log.Nop()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited with status 2")
}

// blockingRunner waits for the context like a hung entrypoint and reports
// the kill as an exit status.
type blockingRunner struct{}

func (blockingRunner) Run(ctx context.Context, _ string, _ []string, _ exec.RunOpts) (exec.Result, error) {
	<-ctx.Done()
	return exec.Result{ExitCode: -1}, nil
}

func TestManifestTaskTimeout(t *testing.T) {
	root := t.TempDir()
	path := writePlugin(t, root, "slow", "plugin.json", `{"name": "slow", "hook": "process", "entrypoint": "bin/run.sh"}`)
	m, err := LoadManifest(path)
	require.NoError(t, err)

	r := NewManifestResolver(nil, WithRunner(blockingRunner{}), WithTimeout(50*time.Millisecond), WithManifestLogger(log.Nop()))
	err = r.Descriptor(m).Task(context.Background(), &Provider{Name: "slow", Logger: log.Nop()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestManifestTaskTimeoutStopsScript(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	root := t.TempDir()
	path := writePlugin(t, root, "slow", "plugin.json", `{"name": "slow", "hook": "process", "entrypoint": "bin/run.sh"}`)
	script := filepath.Join(root, "slow", "bin", "run.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nsleep 5\ntrue\n"), 0o755))
	m, err := LoadManifest(path)
	require.NoError(t, err)

	r := NewManifestResolver(nil, WithTimeout(200*time.Millisecond), WithManifestLogger(log.Nop()))
	start := time.Now()
	err = r.Descriptor(m).Task(context.Background(), &Provider{Name: "slow", Logger: log.Nop(), Paths: Paths{Cwd: root}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), 3*time.Second)
}
