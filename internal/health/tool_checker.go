package health

import (
	"context"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/felixgeelhaar/frontvue/internal/exec"
)

var versionPattern = regexp.MustCompile(`v?(\d+)(\.\d+)?(\.\d+)?`)

// ToolChecker checks that a binary answers `<binary> --version` and, when a
// constraint is set, that the version satisfies it.
type ToolChecker struct {
	runner     exec.Runner
	binary     string
	constraint string
	required   bool
}

// NewToolChecker creates a checker for binary. A missing optional tool is
// reported degraded, a missing required one unhealthy.
func NewToolChecker(runner exec.Runner, binary, constraint string, required bool) *ToolChecker {
	return &ToolChecker{runner: runner, binary: binary, constraint: constraint, required: required}
}

func (c *ToolChecker) Name() string {
	return c.binary
}

func (c *ToolChecker) Check(ctx context.Context) *Result {
	output, ok, err := exec.Available(ctx, c.runner, c.binary)
	if err != nil {
		return Unhealthy("failed to execute " + c.binary).WithDetail("error", err.Error())
	}
	if !ok {
		return c.missing()
	}

	v, err := ParseVersion(output)
	if err != nil {
		return Degraded(c.binary + " is installed but its version cannot be parsed").
			WithDetail("output", output)
	}
	if c.constraint == "" {
		return Healthy(c.binary + " is installed").WithDetail("version", v.String())
	}

	constraint, err := semver.NewConstraint(c.constraint)
	if err != nil {
		return Unhealthy("invalid version constraint " + c.constraint).WithDetail("error", err.Error())
	}
	if !constraint.Check(v) {
		return Degraded(c.binary + " " + v.String() + " does not satisfy " + c.constraint).
			WithDetail("version", v.String()).
			WithDetail("suggestion", "Upgrade "+c.binary+" to "+c.constraint)
	}
	return Healthy(c.binary + " is installed").WithDetail("version", v.String())
}

func (c *ToolChecker) missing() *Result {
	msg := c.binary + " command not found in PATH"
	if c.required {
		return Unhealthy(msg).WithDetail("suggestion", "Install "+c.binary)
	}
	return Degraded(msg)
}

// ParseVersion extracts the first version number from a `--version` output
// such as "git version 2.42.0.windows.1" or "v20.11.0".
func ParseVersion(output string) (*semver.Version, error) {
	match := versionPattern.FindString(strings.TrimSpace(output))
	if match == "" {
		return nil, semver.ErrInvalidSemVer
	}
	return semver.NewVersion(match)
}

// PackageManagerChecker checks that at least one of the package managers
// used by the dependencies step is installed.
type PackageManagerChecker struct {
	runner   exec.Runner
	managers []string
}

// NewPackageManagerChecker creates a checker for managers, in preference
// order.
func NewPackageManagerChecker(runner exec.Runner, managers []string) *PackageManagerChecker {
	return &PackageManagerChecker{runner: runner, managers: managers}
}

func (c *PackageManagerChecker) Name() string {
	return "package-manager"
}

func (c *PackageManagerChecker) Check(ctx context.Context) *Result {
	var available []string
	versions := make(map[string]string)
	for _, m := range c.managers {
		output, ok, err := exec.Available(ctx, c.runner, m)
		if err != nil || !ok {
			continue
		}
		available = append(available, m)
		versions[m] = output
	}

	if len(available) == 0 {
		return Unhealthy("no package managers were found (" + strings.Join(c.managers, ", ") + ")").
			WithDetail("suggestion", "Install at least one package manager (e.g. 'yarn', 'npm')")
	}
	return Healthy(available[0] + " will be used to install dependencies").
		WithDetail("available", available).
		WithDetail("versions", versions)
}
