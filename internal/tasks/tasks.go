// Package tasks holds the plugins frontvue installs on itself.
package tasks

import (
	"context"
	"fmt"
	"os"

	"github.com/felixgeelhaar/frontvue/internal/config"
	"github.com/felixgeelhaar/frontvue/internal/deps"
	"github.com/felixgeelhaar/frontvue/internal/plugin"
	"github.com/felixgeelhaar/frontvue/internal/wizard"
)

// CoreNamespace is the questionnaire namespace of the core settings.
const CoreNamespace = "frontvue"

// CoreQuestionnaire asks for the project directories.
func CoreQuestionnaire() *wizard.Questionnaire {
	return &wizard.Questionnaire{
		Namespace: CoreNamespace,
		Questions: []wizard.Question{
			{
				Name:    plugin.KeySourceDir,
				Type:    wizard.TypeInput,
				Message: "Where are the project sources?",
				Default: plugin.DefaultSourceDir,
			},
			{
				Name:    plugin.KeyBuildDir,
				Type:    wizard.TypeInput,
				Message: "Where should the build output go?",
				Default: plugin.DefaultBuildDir,
			},
		},
	}
}

// InitProject initializes a new project: it carries the core questionnaire
// and creates the configured source and build directories.
func InitProject() plugin.Descriptor {
	return plugin.Descriptor{
		Name:        "init-project",
		Description: "Task for initializing a new project",
		Hook:        "init",
		Task:        initProject,
		ConfigDefaults: config.Config{
			plugin.KeySourceDir: plugin.DefaultSourceDir,
			plugin.KeyBuildDir:  plugin.DefaultBuildDir,
		},
		ConfigQuestionnaire: CoreQuestionnaire(),
	}
}

func initProject(ctx context.Context, p *plugin.Provider) error {
	p.Logger.Info(fmt.Sprintf(">>> Running Task: %s", p.Name))
	for _, dir := range []string{p.Paths.SourceDir, p.Paths.BuildDir} {
		if err := ctx.Err(); err != nil {
			return err
		}
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
		p.Logger.Debug("Directory ready", "path", dir)
	}
	return nil
}

// InstallDependencies installs the dependencies registered by plugins.
func InstallDependencies(manager *deps.Manager) plugin.Descriptor {
	return plugin.Descriptor{
		Name:        "install-dependencies",
		Description: "Task for installing plugin dependencies",
		Hook:        "dependencies",
		Task: func(ctx context.Context, _ *plugin.Provider) error {
			return manager.Install(ctx)
		},
	}
}

// Builtin returns every builtin plugin, in install order.
func Builtin(manager *deps.Manager) []plugin.Descriptor {
	return []plugin.Descriptor{
		InitProject(),
		InstallDependencies(manager),
	}
}
