package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/felixgeelhaar/frontvue/internal/core"
	"github.com/felixgeelhaar/frontvue/internal/jsonfile"
	"github.com/felixgeelhaar/frontvue/internal/ux"
)

func newInitCmd(cc *CommandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init [name]",
		Short: "Initialize a new project",
		Long: `Initialize a new project in ./<name>, or in the current directory when no
name is given. A package.json is created when missing, then the init and
dependencies hooks run.

Examples:
  # Initialize the current directory
  frontvue init

  # Create ./my-app and initialize it without prompting
  frontvue init my-app --no-input`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cc.workDir()
			if err != nil {
				return err
			}
			name := filepath.Base(dir)
			if len(args) == 1 {
				name = args[0]
				dir = filepath.Join(dir, name)
			}

			p := cc.printer(cmd)
			p.Info("Creating a new project in %s", dir)

			path := cc.configPath(dir)
			created, err := ensurePackageJSON(path, name)
			if err != nil {
				return ux.FormatError(err, "creating package.json")
			}
			if created {
				p.Success("Created %s", path)
			}

			app, err := cc.newApp(cmd.Context(), dir)
			if err != nil {
				return err
			}
			if err := app.Run(cmd.Context(), core.InitHooks...); err != nil {
				return err
			}
			p.Success("Project %s is ready", name)
			return nil
		},
	}
}

// ensurePackageJSON creates a minimal package.json at path unless one
// exists.
func ensurePackageJSON(path, name string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}

	doc := []byte("{}")
	for _, field := range []struct {
		key   string
		value any
	}{
		{"name", name},
		{"version", "0.1.0"},
		{"private", true},
		{"config", map[string]any{}},
	} {
		var err error
		if doc, err = sjson.SetBytes(doc, field.key, field.value); err != nil {
			return false, err
		}
	}
	if err := jsonfile.New(path).Write(doc); err != nil {
		return false, err
	}
	return true, nil
}

