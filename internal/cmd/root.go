package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/frontvue/internal/version"
)

// NewRootCommand builds the frontvue command tree.
func NewRootCommand() *cobra.Command {
	return newRootCmd(&CommandContext{})
}

func newRootCmd(cc *CommandContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "frontvue",
		Short: "Plugin driven front-end project scaffolding",
		Long: `frontvue creates and builds front-end projects through a pipeline of hooks.
Plugins subscribe tasks to the hooks, ask their configuration questions once and
register the npm dependencies they need. The configuration is kept in the
"config.frontvue" section of package.json.`,
		Version:       version.GetInfo().Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cc.setupLogger(cmd.ErrOrStderr())
		},
	}
	rootCmd.SetVersionTemplate("frontvue {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cc.Cwd, "cwd", "", "project directory (default: closest directory with a package.json)")
	flags.StringVar(&cc.ConfigPath, "config", "", "configuration file (default: <project>/package.json)")
	flags.StringVar(&cc.Namespace, "namespace", "", "configuration namespace inside package.json (default: frontvue)")
	flags.StringSliceVar(&cc.PluginDirs, "plugin-dir", nil, "directories searched for plugin manifests")
	flags.StringVar(&cc.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&cc.LogFormat, "log-format", "text", "log format (text, json)")
	flags.StringVar(&cc.Format, "format", "text", "output format (text, json, yaml)")
	flags.BoolVar(&cc.NoColor, "no-color", false, "disable colored output")
	flags.BoolVar(&cc.NoInput, "no-input", false, "never prompt, answer every question with its default")

	rootCmd.AddCommand(
		newInitCmd(cc),
		newConfigCmd(cc),
		newDevCmd(cc),
		newRunCmd(cc),
		newTasksCmd(cc),
		newVersionCmd(cc),
		newDoctorCmd(cc),
		newCompletionCmd(),
	)
	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx
func ExecuteContext(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
