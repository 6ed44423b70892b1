package health

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/felixgeelhaar/frontvue/internal/errors"
	"github.com/felixgeelhaar/frontvue/internal/jsonfile"
	"github.com/felixgeelhaar/frontvue/internal/plugin"
)

// ProjectChecker checks the project's package.json and its configuration
// namespace.
type ProjectChecker struct {
	path      string
	namespace string
}

// NewProjectChecker creates a checker for the package.json at path.
func NewProjectChecker(path, namespace string) *ProjectChecker {
	return &ProjectChecker{path: path, namespace: namespace}
}

func (c *ProjectChecker) Name() string {
	return "project"
}

func (c *ProjectChecker) Check(ctx context.Context) *Result {
	data, err := jsonfile.New(c.path).Read()
	switch {
	case errors.HasCode(err, errors.ErrCodeFileNotFound):
		return Unhealthy("package.json not found").
			WithDetail("path", c.path).
			WithDetail("suggestion", "Run 'frontvue init' to create a project")
	case err != nil:
		return Unhealthy("package.json cannot be read").
			WithDetail("path", c.path).
			WithDetail("error", err.Error())
	}

	value := gjson.GetBytes(data, jsonfile.Path("config", c.namespace))
	if !value.Exists() {
		return Degraded(fmt.Sprintf("no configuration under %q yet", "config."+c.namespace)).
			WithDetail("path", c.path).
			WithDetail("suggestion", "Run 'frontvue config' to answer the setup questions")
	}
	if !value.IsObject() {
		return Unhealthy(fmt.Sprintf("%q is not an object", "config."+c.namespace)).
			WithDetail("path", c.path)
	}

	return Healthy("package.json is valid").
		WithDetail("path", c.path).
		WithDetail("keys", len(value.Map()))
}

// ManifestDiscoverer finds plugin manifests.
type ManifestDiscoverer interface {
	Discover(ctx context.Context) ([]*plugin.Manifest, error)
}

// PluginChecker checks that every plugin manifest in the plugin directories
// is valid.
type PluginChecker struct {
	discoverer ManifestDiscoverer
}

// NewPluginChecker creates a checker over d.
func NewPluginChecker(d ManifestDiscoverer) *PluginChecker {
	return &PluginChecker{discoverer: d}
}

func (c *PluginChecker) Name() string {
	return "plugins"
}

func (c *PluginChecker) Check(ctx context.Context) *Result {
	manifests, err := c.discoverer.Discover(ctx)
	names := make([]string, len(manifests))
	for i, m := range manifests {
		names[i] = m.Name
	}
	if err != nil {
		return Degraded("some plugin manifests are invalid").
			WithDetail("plugins", names).
			WithDetail("error", err.Error())
	}
	if len(manifests) == 0 {
		return Healthy("no manifest plugins found")
	}
	return Healthy(fmt.Sprintf("%d manifest plugin(s) found", len(manifests))).
		WithDetail("plugins", names)
}
