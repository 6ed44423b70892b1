package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/frontvue/internal/deps"
	"github.com/felixgeelhaar/frontvue/internal/health"
	"github.com/felixgeelhaar/frontvue/internal/plugin"
	"github.com/felixgeelhaar/frontvue/internal/ux"
)

// MinNodeVersion is the oldest Node.js release the generated projects
// support.
const MinNodeVersion = ">= 18.0.0"

func newDoctorCmd(cc *CommandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment and the project setup",
		Long: `Check that a package manager and Node.js are installed, that the project's
package.json holds a frontvue configuration and that every plugin manifest in the
plugin directories is valid.

The command fails when any check is unhealthy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cc.projectDir()
			if err != nil {
				return err
			}
			runner := cc.commandRunner()
			manager := health.NewManager(
				health.NewPackageManagerChecker(runner, deps.DefaultManagers),
				health.NewToolChecker(runner, "node", MinNodeVersion, true),
				health.NewToolChecker(runner, "git", "", false),
				health.NewProjectChecker(cc.configPath(dir), cc.namespace()),
				health.NewPluginChecker(plugin.NewManifestResolver(cc.pluginDirs(dir), plugin.WithManifestLogger(cc.log()))),
			)

			reports := manager.Check(cmd.Context())
			overall := health.OverallStatus(reports)

			if cc.Format != "" && cc.Format != "text" {
				f, err := cc.formatter(cmd)
				if err != nil {
					return err
				}
				if err := f.Format(map[string]any{"status": overall, "checks": reports}); err != nil {
					return err
				}
			} else {
				printReports(cmd, cc, reports, overall)
			}

			if overall == health.StatusUnhealthy {
				return fmt.Errorf("environment check failed: %s", strings.Join(unhealthy(reports), ", "))
			}
			return nil
		},
	}
}

func printReports(cmd *cobra.Command, cc *CommandContext, reports []health.Report, overall health.Status) {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		msg := r.Message
		if s, ok := r.Details["suggestion"].(string); ok {
			msg += " (" + s + ")"
		}
		rows = append(rows, []string{r.Status.String(), r.Name, msg})
	}
	ux.RenderTable(cmd.OutOrStdout(), []string{"Status", "Check", "Message"}, rows)

	p := cc.printer(cmd)
	switch overall {
	case health.StatusHealthy:
		p.Success("Everything looks good")
	case health.StatusDegraded:
		p.Warn("Some checks reported problems, frontvue may not work as expected")
	default:
		p.Error("Some checks failed")
	}
}

func unhealthy(reports []health.Report) []string {
	var names []string
	for _, r := range reports {
		if r.Status == health.StatusUnhealthy {
			names = append(names, r.Name)
		}
	}
	return names
}
