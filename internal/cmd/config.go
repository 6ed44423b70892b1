package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/felixgeelhaar/frontvue/internal/config"
)

func newConfigCmd(cc *CommandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Start configuration wizard",
		Long: `Start the configuration wizard. Every installed plugin's questionnaire is
asked again, pre-filled with the stored answers.

Use the subcommands to read and edit the stored configuration directly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cc.projectDir()
			if err != nil {
				return err
			}
			app, err := cc.newApp(cmd.Context(), dir)
			if err != nil {
				return err
			}

			cc.printer(cmd).Info("Starting configuration...")
			answers := app.Configure(cmd.Context())
			out := make(map[string]any, len(answers))
			for namespace, cfg := range answers {
				out[namespace] = map[string]any(cfg)
			}

			f, err := cc.formatter(cmd)
			if err != nil {
				return err
			}
			return f.Format(out)
		},
	}

	configCmd.AddCommand(
		newConfigGetCmd(cc),
		newConfigSetCmd(cc),
		newConfigUnsetCmd(cc),
		newConfigPathCmd(cc),
	)
	return configCmd
}

func newConfigGetCmd(cc *CommandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get [keys...]",
		Short: "Print the stored configuration",
		Long:  "Print the whole configuration namespace, or only the given keys. Unknown keys are left out.",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := cc.configManager(cmd.Context())
			if err != nil {
				return err
			}

			var cfg config.Config
			if len(args) == 0 {
				cfg, err = m.Get(cmd.Context())
			} else {
				cfg, err = m.GetKeys(cmd.Context(), args...)
			}
			if err != nil {
				return err
			}

			f, err := cc.formatter(cmd)
			if err != nil {
				return err
			}
			return f.Format(map[string]any(cfg))
		},
	}
}

func newConfigSetCmd(cc *CommandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a configuration value",
		Long: `Store a configuration value. Values that parse as JSON are stored as such,
anything else is stored as a string.

Examples:
  frontvue config set plugin-frontvue:sourceDir app
  frontvue config set plugins '["sass", "@acme/plugin-lint"]'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := cc.configManager(cmd.Context())
			if err != nil {
				return err
			}
			if err := m.Set(cmd.Context(), args[0], parseValue(args[1])); err != nil {
				return err
			}
			cc.printer(cmd).Success("Set %s", args[0])
			return nil
		},
	}
}

func newConfigUnsetCmd(cc *CommandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unset <keys...>",
		Short: "Remove configuration keys",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := cc.configManager(cmd.Context())
			if err != nil {
				return err
			}
			if err := m.Remove(cmd.Context(), args...); err != nil {
				return err
			}
			cc.printer(cmd).Success("Removed %d key(s)", len(args))
			return nil
		},
	}
}

func newConfigPathCmd(cc *CommandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file and namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cc.projectDir()
			if err != nil {
				return err
			}
			path, err := filepath.Abs(cc.configPath(dir))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s#config.%s\n", path, cc.namespace())
			return err
		},
	}
}

// parseValue decodes s as JSON when it is valid JSON and returns it as a
// string otherwise.
func parseValue(s string) any {
	if !gjson.Valid(s) {
		return s
	}
	return gjson.Parse(s).Value()
}
