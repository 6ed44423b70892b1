package plugin

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/felixgeelhaar/frontvue/internal/config"
	"github.com/felixgeelhaar/frontvue/internal/log"
)

// Provider carries the utilities a plugin task can use.
type Provider struct {
	Name   string
	Logger *log.Logger
	// Config is the plugin's view of the configuration. It is nil when the
	// plugin runs without a configuration manager.
	Config *config.Proxy
	Paths  Paths
}

// ProviderFactory builds the provider of the plugin whose configuration
// lives under namespace.
type ProviderFactory func(ctx context.Context, namespace string) (*Provider, error)

// DefaultProviderFactory returns providers that only carry a logger.
func DefaultProviderFactory(logger *log.Logger) ProviderFactory {
	return func(_ context.Context, namespace string) (*Provider, error) {
		return &Provider{
			Name:   namespace,
			Logger: log.OrDefault(logger).Channel(namespace),
		}, nil
	}
}

// ConfigProviderFactory returns providers with a configuration proxy and the
// project paths read from core.
func ConfigProviderFactory(manager *config.Manager, core *config.Proxy, cwd string, logger *log.Logger) ProviderFactory {
	return func(ctx context.Context, namespace string) (*Provider, error) {
		proxy, err := config.NewProxy(manager, namespace)
		if err != nil {
			return nil, err
		}
		paths, err := NewPaths(ctx, cwd, core)
		if err != nil {
			return nil, err
		}
		return &Provider{
			Name:   namespace,
			Logger: log.OrDefault(logger).Channel(namespace),
			Config: proxy,
			Paths:  paths,
		}, nil
	}
}

// Default project directories, relative to the working directory.
const (
	DefaultSourceDir = "src"
	DefaultBuildDir  = "dist"
)

// Configuration keys of the project directories.
const (
	KeySourceDir = "sourceDir"
	KeyBuildDir  = "buildDir"
)

// Paths are the absolute project directories.
type Paths struct {
	Cwd       string
	SourceDir string
	BuildDir  string
}

// NewPaths resolves the source and build directories configured in core
// against cwd. Missing settings fall back to src and dist. A nil core uses
// the defaults.
func NewPaths(ctx context.Context, cwd string, core *config.Proxy) (Paths, error) {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return Paths{}, err
	}

	source, build := DefaultSourceDir, DefaultBuildDir
	if core != nil {
		values, err := core.GetKeys(ctx, KeySourceDir, KeyBuildDir)
		if err != nil {
			return Paths{}, err
		}
		if v, ok := values[KeySourceDir]; ok && fmt.Sprint(v) != "" {
			source = fmt.Sprint(v)
		}
		if v, ok := values[KeyBuildDir]; ok && fmt.Sprint(v) != "" {
			build = fmt.Sprint(v)
		}
	}

	return Paths{
		Cwd:       abs,
		SourceDir: resolve(abs, source),
		BuildDir:  resolve(abs, build),
	}, nil
}

func resolve(base, dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(base, dir)
}
