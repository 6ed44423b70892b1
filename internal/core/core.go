// Package core assembles the frontvue application: configuration, wizard,
// task manager, dependencies manager and plugin manager.
package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/frontvue/internal/config"
	"github.com/felixgeelhaar/frontvue/internal/deps"
	"github.com/felixgeelhaar/frontvue/internal/exec"
	"github.com/felixgeelhaar/frontvue/internal/log"
	"github.com/felixgeelhaar/frontvue/internal/plugin"
	"github.com/felixgeelhaar/frontvue/internal/task"
	"github.com/felixgeelhaar/frontvue/internal/tasks"
	"github.com/felixgeelhaar/frontvue/internal/wizard"
)

// Name is the application name.
const Name = "frontvue"

// PluginsKey is the configuration key listing the plugins to install.
const PluginsKey = "plugins"

// DefaultHooks are the hooks of the task pipeline, in execution order.
var DefaultHooks = []string{"init", "dependencies", "template", "clean", "process", "watch"}

// Hook sequences run by the CLI commands.
var (
	InitHooks = []string{"init", "dependencies"}
	DevHooks  = []string{"clean", "template", "process", "watch"}
)

// Options configures New. Zero values fall back to defaults.
type Options struct {
	// Cwd is the project directory. Defaults to the process working directory.
	Cwd string
	// Namespace is the package.json config namespace. Defaults to Name.
	Namespace string
	// ConfigPath is the configuration file. Defaults to <Cwd>/package.json.
	ConfigPath string
	// Store replaces the package.json store.
	Store config.Store

	Hooks          []string
	MaxConcurrency int

	Prompter wizard.Prompter
	// PluginDirs are searched for manifest plugins. Defaults to DefaultPluginDirs.
	PluginDirs []string
	// Plugins are installed after the builtin and configured plugins.
	Plugins []any
	// SkipConfiguredPlugins ignores the plugins listed in the configuration.
	SkipConfiguredPlugins bool

	Installer deps.InstallerFactory
	Runner    exec.Runner
	Logger    *log.Logger
}

// DefaultPluginDirs returns <cwd>/.frontvue/plugins and ~/.frontvue/plugins.
func DefaultPluginDirs(cwd string) []string {
	dirs := []string{filepath.Join(cwd, "."+Name, "plugins")}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "."+Name, "plugins"))
	}
	return dirs
}

// App is an assembled frontvue instance.
type App struct {
	Name     string
	Cwd      string
	Logger   *log.Logger
	Config   *config.Manager
	Core     *config.Proxy
	Wizard   *wizard.Wizard
	Tasks    *task.Manager
	Deps     *deps.Manager
	Plugins  *plugin.Manager
	Resolver *plugin.ManifestResolver
}

// New assembles an App and installs the builtin plugins, the plugins listed
// under the plugins configuration key and opts.Plugins.
func New(ctx context.Context, opts Options) (*App, error) {
	logger := log.OrDefault(opts.Logger)

	cwd := opts.Cwd
	if cwd == "" {
		var err error
		if cwd, err = os.Getwd(); err != nil {
			return nil, err
		}
	}
	cwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, err
	}

	namespace := opts.Namespace
	if namespace == "" {
		namespace = Name
	}
	cfgOpts := []config.Option{config.WithLogger(logger)}
	switch {
	case opts.Store != nil:
		cfgOpts = append(cfgOpts, config.WithStore(opts.Store))
	case opts.ConfigPath != "":
		cfgOpts = append(cfgOpts, config.WithPath(opts.ConfigPath))
	default:
		cfgOpts = append(cfgOpts, config.WithPath(filepath.Join(cwd, config.DefaultPath)))
	}
	cfg, err := config.NewManager(ctx, namespace, cfgOpts...)
	if err != nil {
		return nil, err
	}
	core, err := config.NewProxy(cfg, tasks.CoreNamespace)
	if err != nil {
		return nil, err
	}

	wizOpts := []wizard.Option{wizard.WithLogger(logger)}
	if opts.Prompter != nil {
		wizOpts = append(wizOpts, wizard.WithPrompter(opts.Prompter))
	}
	wiz, err := wizard.NewWizard(cfg, wizOpts...)
	if err != nil {
		return nil, err
	}

	runner := opts.Runner
	if runner == nil {
		runner = exec.NewOSRunner()
	}
	installer := opts.Installer
	if installer == nil {
		installer = func(ctx context.Context) (deps.Installer, error) {
			return deps.NewPackageInstaller(ctx, cwd,
				deps.WithRunner(runner),
				deps.WithInstallerLogger(logger.Channel("dependencies")),
			)
		}
	}
	dm := deps.NewManager(deps.WithCwd(cwd), deps.WithLogger(logger), deps.WithInstallerFactory(installer))

	hooks := opts.Hooks
	if len(hooks) == 0 {
		hooks = DefaultHooks
	}
	taskOpts := []task.Option{task.WithLogger(logger)}
	if opts.MaxConcurrency > 0 {
		taskOpts = append(taskOpts, task.WithMaxConcurrency(opts.MaxConcurrency))
	}
	tm := task.NewManager(hooks, taskOpts...)

	dirs := opts.PluginDirs
	if dirs == nil {
		dirs = DefaultPluginDirs(cwd)
	}
	resolver := plugin.NewManifestResolver(dirs, plugin.WithRunner(runner), plugin.WithManifestLogger(logger))

	pm, err := plugin.NewManager(tm, wiz, dm,
		plugin.WithLogger(logger),
		plugin.WithResolver(plugin.ChainResolver{plugin.DefaultRegistry, resolver}),
		plugin.WithProviderFactory(plugin.ConfigProviderFactory(cfg, core, cwd, logger)),
	)
	if err != nil {
		return nil, err
	}

	app := &App{
		Name:     Name,
		Cwd:      cwd,
		Logger:   logger.Channel(Name),
		Config:   cfg,
		Core:     core,
		Wizard:   wiz,
		Tasks:    tm,
		Deps:     dm,
		Plugins:  pm,
		Resolver: resolver,
	}

	entries := []any{tasks.Builtin(dm)}
	if !opts.SkipConfiguredPlugins {
		configured, err := app.ConfiguredPlugins(ctx)
		if err != nil {
			return nil, err
		}
		entries = append(entries, configured)
	}
	entries = append(entries, opts.Plugins...)
	if err := pm.Use(ctx, entries...); err != nil {
		return nil, err
	}
	return app, nil
}

// ConfiguredPlugins returns the plugin names listed under PluginsKey. A
// single string is accepted as a one-element list; other values are
// skipped with a warning.
func (a *App) ConfiguredPlugins(ctx context.Context) ([]string, error) {
	value, err := a.Config.GetKey(ctx, PluginsKey)
	if err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		names := make([]string, 0, len(v))
		for _, item := range v {
			name, ok := item.(string)
			if !ok || name == "" {
				a.Logger.Warn(fmt.Sprintf("Ignoring plugin entry %v, expected a plugin name", item))
				continue
			}
			names = append(names, name)
		}
		return names, nil
	default:
		a.Logger.Warn(fmt.Sprintf("Ignoring '%s' setting, expected a list of plugin names", PluginsKey))
		return nil, nil
	}
}

// Run runs hooks in order and stops at the first failing hook. Hooks without
// tasks are skipped.
func (a *App) Run(ctx context.Context, hooks ...string) error {
	for _, hook := range hooks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := a.Tasks.Run(ctx, hook); err != nil {
			return err
		}
	}
	return nil
}

// Configure starts every registered questionnaire.
func (a *App) Configure(ctx context.Context) map[string]config.Config {
	return a.Wizard.Start(ctx)
}
