package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/frontvue/internal/ux"
)

type hookTasks struct {
	Hook  string   `json:"hook" yaml:"hook"`
	Tasks []string `json:"tasks" yaml:"tasks"`
}

func newTasksCmd(cc *CommandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List the hooks and the tasks subscribed to them",
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

			registry := app.Tasks.Tasks()
			list := make([]hookTasks, 0, len(app.Tasks.Hooks()))
			for _, hook := range app.Tasks.Hooks() {
				list = append(list, hookTasks{Hook: hook, Tasks: append([]string{}, registry[hook]...)})
			}

			if cc.Format != "" && cc.Format != "text" {
				f, err := cc.formatter(cmd)
				if err != nil {
					return err
				}
				return f.Format(list)
			}

			var rows [][]string
			for _, h := range list {
				if len(h.Tasks) == 0 {
					rows = append(rows, []string{h.Hook, "-"})
					continue
				}
				for _, name := range h.Tasks {
					rows = append(rows, []string{h.Hook, name})
				}
			}
			ux.RenderTable(cmd.OutOrStdout(), []string{"Hook", "Task"}, rows)
			return nil
		},
	}
}
