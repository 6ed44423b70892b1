package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/frontvue/internal/config"
	"github.com/felixgeelhaar/frontvue/internal/core"
	"github.com/felixgeelhaar/frontvue/internal/deps"
	"github.com/felixgeelhaar/frontvue/internal/exec"
	"github.com/felixgeelhaar/frontvue/internal/log"
	"github.com/felixgeelhaar/frontvue/internal/tui"
	"github.com/felixgeelhaar/frontvue/internal/ux"
	"github.com/felixgeelhaar/frontvue/internal/wizard"
)

// CommandContext holds the persistent flags shared by every command. The
// root command binds its flags directly to the fields.
type CommandContext struct {
	// Project
	Cwd        string
	ConfigPath string
	Namespace  string
	PluginDirs []string

	// Output control
	Format   string
	NoColor  bool
	NoInput  bool
	LogLevel string
	// LogFormat is text or json
	LogFormat string

	logger *log.Logger

	// overrides used by tests
	prompter  wizard.Prompter
	installer deps.InstallerFactory
	runner    exec.Runner
}

// setupLogger builds the process logger from the flags. Logs go to w.
func (cc *CommandContext) setupLogger(w io.Writer) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(cc.LogLevel)
	cfg.Format = log.ParseFormat(cc.LogFormat)
	cfg.Output = log.NewOutput(w)
	cc.logger = log.New(cfg)
	log.SetDefaultLogger(cc.logger)
	return cc.logger
}

func (cc *CommandContext) log() *log.Logger {
	return log.OrDefault(cc.logger)
}

// workDir is --cwd or the process working directory.
func (cc *CommandContext) workDir() (string, error) {
	if cc.Cwd != "" {
		return filepath.Abs(cc.Cwd)
	}
	return os.Getwd()
}

// projectDir is --cwd, or the closest directory above the working directory
// holding a package.json.
func (cc *CommandContext) projectDir() (string, error) {
	if cc.Cwd != "" {
		return filepath.Abs(cc.Cwd)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	root, found, err := ux.FindProjectRoot(wd)
	if err != nil {
		return "", err
	}
	if found {
		cc.log().Debug("Using project root", "path", root)
	}
	return root, nil
}

func (cc *CommandContext) configPath(dir string) string {
	if cc.ConfigPath != "" {
		return cc.ConfigPath
	}
	return filepath.Join(dir, config.DefaultPath)
}

func (cc *CommandContext) namespace() string {
	if cc.Namespace != "" {
		return cc.Namespace
	}
	return core.Name
}

func (cc *CommandContext) wizardPrompter() wizard.Prompter {
	if cc.prompter != nil {
		return cc.prompter
	}
	return tui.Prompter(cc.NoInput)
}

// newApp assembles the application for the project in dir.
func (cc *CommandContext) newApp(ctx context.Context, dir string) (*core.App, error) {
	return core.New(ctx, core.Options{
		Cwd:        dir,
		Namespace:  cc.namespace(),
		ConfigPath: cc.configPath(dir),
		Prompter:   cc.wizardPrompter(),
		PluginDirs: cc.pluginDirs(dir),
		Installer:  cc.installer,
		Runner:     cc.runner,
		Logger:     cc.log(),
	})
}

func (cc *CommandContext) pluginDirs(dir string) []string {
	if len(cc.PluginDirs) > 0 {
		return cc.PluginDirs
	}
	return core.DefaultPluginDirs(dir)
}

// configManager opens the configuration without installing plugins.
func (cc *CommandContext) configManager(ctx context.Context) (*config.Manager, error) {
	dir, err := cc.projectDir()
	if err != nil {
		return nil, err
	}
	return config.NewManager(ctx, cc.namespace(),
		config.WithPath(cc.configPath(dir)),
		config.WithLogger(cc.log()),
	)
}

func (cc *CommandContext) formatter(cmd *cobra.Command) (ux.Formatter, error) {
	return ux.NewFormatter(cc.Format, &ux.FormatterOptions{
		Writer:  cmd.OutOrStdout(),
		NoColor: cc.NoColor,
	})
}

func (cc *CommandContext) printer(cmd *cobra.Command) *ux.Printer {
	return ux.NewPrinter(cmd.OutOrStdout(), cc.NoColor)
}

func (cc *CommandContext) commandRunner() exec.Runner {
	if cc.runner != nil {
		return cc.runner
	}
	return exec.NewOSRunner()
}
