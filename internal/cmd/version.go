package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/frontvue/internal/version"
)

func newVersionCmd(cc *CommandContext) *cobra.Command {
	var verbose bool

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print version information including version number, git commit,
build date, Go version, and platform.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.GetInfo()

			if cc.Format != "" && cc.Format != "text" {
				f, err := cc.formatter(cmd)
				if err != nil {
					return err
				}
				return f.Format(info)
			}

			if verbose {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "frontvue %s\n", info.Short())
			return err
		},
	}
	versionCmd.Flags().BoolVar(&verbose, "verbose", false, "show detailed version information")
	return versionCmd
}
