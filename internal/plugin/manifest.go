package plugin

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/frontvue/internal/config"
	"github.com/felixgeelhaar/frontvue/internal/deps"
	"github.com/felixgeelhaar/frontvue/internal/errors"
	"github.com/felixgeelhaar/frontvue/internal/exec"
	"github.com/felixgeelhaar/frontvue/internal/log"
	"github.com/felixgeelhaar/frontvue/internal/wizard"
)

// Manifest file names, in lookup order.
var ManifestFiles = []string{"plugin.yaml", "plugin.yml", "plugin.json"}

// DefaultTimeout bounds a single run of a manifest plugin entrypoint.
const DefaultTimeout = 5 * time.Minute

// Environment variables passed to manifest plugin entrypoints.
const (
	EnvConfig    = "FRONTVUE_CONFIG"
	EnvPlugin    = "FRONTVUE_PLUGIN"
	EnvHook      = "FRONTVUE_HOOK"
	EnvCwd       = "FRONTVUE_CWD"
	EnvSourceDir = "FRONTVUE_SOURCE_DIR"
	EnvBuildDir  = "FRONTVUE_BUILD_DIR"
)

// Manifest describes an external plugin whose task is an executable.
type Manifest struct {
	Name            string            `json:"name"`
	Description     string            `json:"description,omitempty"`
	Hook            string            `json:"hook"`
	Entrypoint      string            `json:"entrypoint"`
	Args            []string          `json:"args,omitempty"`
	Config          *ManifestConfig   `json:"config,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`

	// Dir is the directory holding the manifest file.
	Dir string `json:"-"`
}

// ManifestConfig is the configuration section of a manifest.
type ManifestConfig struct {
	Defaults      config.Config         `json:"defaults,omitempty"`
	Questionnaire *wizard.Questionnaire `json:"questionnaire,omitempty"`
}

// EntrypointPath resolves the entrypoint against the manifest directory.
func (m *Manifest) EntrypointPath() string {
	if filepath.IsAbs(m.Entrypoint) {
		return m.Entrypoint
	}
	return filepath.Join(m.Dir, m.Entrypoint)
}

//go:embed manifest.schema.json
var manifestSchemaJSON []byte

var manifestSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(manifestSchemaJSON))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("manifest.schema.json", doc); err != nil {
		return nil, err
	}
	return c.Compile("manifest.schema.json")
})

// LoadManifest reads, validates and decodes the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, invalidManifest(path, fmt.Errorf("read manifest: %w", err))
	}

	var raw any
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, invalidManifest(path, fmt.Errorf("parse yaml manifest: %w", err))
		}
		if data, err = json.Marshal(raw); err != nil {
			return nil, invalidManifest(path, fmt.Errorf("convert yaml manifest: %w", err))
		}
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, invalidManifest(path, fmt.Errorf("parse json manifest: %w", err))
	}
	schema, err := manifestSchema()
	if err != nil {
		return nil, fmt.Errorf("compile manifest schema: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return nil, invalidManifest(path, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, invalidManifest(path, err)
	}
	m.Dir = filepath.Dir(path)

	if _, err := os.Stat(m.EntrypointPath()); err != nil {
		return nil, invalidManifest(path, fmt.Errorf("entrypoint not found: %s", m.EntrypointPath()))
	}
	return &m, nil
}

func invalidManifest(path string, cause error) error {
	return errors.Wrap(errors.ErrCodePluginManifestInvalid, fmt.Sprintf("invalid plugin manifest %s", path), cause).
		WithSuggestion("Check the manifest against the plugin manifest schema")
}

// ManifestResolver resolves plugin names to manifest plugins found in plugin
// directories. Every direct subdirectory holding a manifest file is a plugin.
type ManifestResolver struct {
	dirs    []string
	runner  exec.Runner
	timeout time.Duration
	logger  *log.Logger
}

// ManifestOption configures a ManifestResolver.
type ManifestOption func(*ManifestResolver)

// WithRunner sets the runner used for entrypoints.
func WithRunner(r exec.Runner) ManifestOption {
	return func(m *ManifestResolver) {
		m.runner = r
	}
}

// WithTimeout bounds each entrypoint run.
func WithTimeout(d time.Duration) ManifestOption {
	return func(m *ManifestResolver) {
		m.timeout = d
	}
}

// WithManifestLogger sets the resolver logger.
func WithManifestLogger(l *log.Logger) ManifestOption {
	return func(m *ManifestResolver) {
		m.logger = l
	}
}

// NewManifestResolver creates a resolver searching dirs in order.
func NewManifestResolver(dirs []string, opts ...ManifestOption) *ManifestResolver {
	r := &ManifestResolver{
		dirs:    dirs,
		runner:  exec.NewOSRunner(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = log.OrDefault(r.logger).Channel("ManifestResolver")
	return r
}

// Dirs returns the searched directories.
func (r *ManifestResolver) Dirs() []string {
	return append([]string(nil), r.dirs...)
}

// Discover loads every manifest in the plugin directories. Invalid manifests
// are reported in the joined error; the valid ones are still returned.
// Missing directories are skipped.
func (r *ManifestResolver) Discover(ctx context.Context) ([]*Manifest, error) {
	var (
		found []*Manifest
		errs  []error
	)
	for _, dir := range r.dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		manifests, err := discoverInDir(dir)
		found = append(found, manifests...)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return found, stderrors.Join(errs...)
}

func discoverInDir(dir string) ([]*Manifest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var (
		found []*Manifest
		errs  []error
	)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := findManifest(filepath.Join(dir, entry.Name()))
		if path == "" {
			continue
		}
		m, err := LoadManifest(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		found = append(found, m)
	}
	return found, stderrors.Join(errs...)
}

func findManifest(dir string) string {
	for _, name := range ManifestFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Resolve returns the descriptor of the manifest plugin matching module,
// either by manifest name or by directory name.
func (r *ManifestResolver) Resolve(ctx context.Context, module string) ([]any, error) {
	manifests, discoverErr := r.Discover(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if discoverErr != nil {
		r.logger.WithError(discoverErr).Warn("Some plugin manifests could not be loaded")
	}

	module = ModuleName(module)
	for _, m := range manifests {
		if ModuleName(m.Name) == module || ModuleName(filepath.Base(m.Dir)) == module {
			return []any{r.Descriptor(m)}, nil
		}
	}
	return nil, stderrors.Join(fmt.Errorf("%s: %w", module, ErrNotRegistered), discoverErr)
}

// Descriptor turns a manifest into a plugin descriptor whose task runs the
// entrypoint.
func (r *ManifestResolver) Descriptor(m *Manifest) Descriptor {
	d := Descriptor{
		Name:        m.Name,
		Description: m.Description,
		Hook:        m.Hook,
		Task:        r.task(m),
	}
	if m.Config != nil && m.Config.Questionnaire != nil {
		q := *m.Config.Questionnaire
		d.ConfigQuestionnaire = &q
		d.ConfigDefaults = config.Config{}
		for _, question := range q.Questions {
			d.ConfigDefaults[question.Name] = wizard.DefaultAnswer(question)
		}
		for k, v := range m.Config.Defaults {
			d.ConfigDefaults[k] = v
		}
	}
	if len(m.Dependencies) > 0 || len(m.DevDependencies) > 0 {
		d.Dependencies = &deps.Manifest{
			Dependencies:    m.Dependencies,
			DevDependencies: m.DevDependencies,
		}
	}
	return d
}

func (r *ManifestResolver) task(m *Manifest) Func {
	return func(ctx context.Context, p *Provider) error {
		values := config.Config{}
		if p.Config != nil {
			var err error
			if values, err = p.Config.Get(ctx); err != nil {
				return err
			}
		}
		payload, err := json.Marshal(values)
		if err != nil {
			return fmt.Errorf("encode plugin configuration: %w", err)
		}

		runCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		stdout := exec.NewLineWriter(p.Logger.Info)
		stderr := exec.NewLineWriter(p.Logger.Error)
		res, err := r.runner.Run(runCtx, m.EntrypointPath(), m.Args, exec.RunOpts{
			Dir: p.Paths.Cwd,
			Env: map[string]string{
				EnvConfig:    string(payload),
				EnvPlugin:    m.Name,
				EnvHook:      m.Hook,
				EnvCwd:       p.Paths.Cwd,
				EnvSourceDir: p.Paths.SourceDir,
				EnvBuildDir:  p.Paths.BuildDir,
			},
			Stdout: stdout,
			Stderr: stderr,
		})
		stdout.Flush()
		stderr.Flush()

		if ctx.Err() == nil && stderrors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("plugin %s timed out after %v", m.Name, r.timeout)
		}
		if err != nil {
			return fmt.Errorf("plugin %s could not run: %w", m.Name, err)
		}
		if !res.Success() {
			return fmt.Errorf("plugin %s exited with status %d", m.Name, res.ExitCode)
		}
		return nil
	}
}
