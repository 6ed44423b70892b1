package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/frontvue/internal/core"
)

func newDevCmd(cc *CommandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dev",
		Short: "Run the development pipeline",
		Long:  "Run the clean, template, process and watch hooks in order. Hooks without tasks are skipped.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cc.projectDir()
			if err != nil {
				return err
			}
			app, err := cc.newApp(cmd.Context(), dir)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), core.DevHooks...)
		},
	}
}

func newRunCmd(cc *CommandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run <hook>",
		Short: "Run every task subscribed to a hook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cc.projectDir()
			if err != nil {
				return err
			}
			app, err := cc.newApp(cmd.Context(), dir)
			if err != nil {
				return err
			}

			hook := args[0]
			if !app.Tasks.HasHook(hook) {
				return fmt.Errorf("invalid argument %q: unknown hook (available: %s)", hook, strings.Join(app.Tasks.Hooks(), ", "))
			}
			ok, err := app.Tasks.Run(cmd.Context(), hook)
			if err != nil {
				return err
			}
			p := cc.printer(cmd)
			if !ok {
				p.Warn("No tasks are subscribed to '%s'", hook)
				return nil
			}
			p.Success("Hook '%s' finished", hook)
			return nil
		},
	}
}
