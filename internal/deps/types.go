// Package deps collects the npm dependencies plugins ask for and installs
// them with the first available package manager.
package deps

import (
	"context"
	"maps"
)

// Manifest lists packages and version ranges.
type Manifest struct {
	Dependencies    map[string]string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty" yaml:"devDependencies,omitempty"`
}

// Empty reports whether m lists no package.
func (m Manifest) Empty() bool {
	return len(m.Dependencies) == 0 && len(m.DevDependencies) == 0
}

// Clone returns a deep copy of m.
func (m Manifest) Clone() Manifest {
	return Manifest{
		Dependencies:    maps.Clone(m.Dependencies),
		DevDependencies: maps.Clone(m.DevDependencies),
	}
}

// sections returns the package.json sections of m in file order.
func (m Manifest) sections() []section {
	return []section{
		{name: "dependencies", packages: m.Dependencies},
		{name: "devDependencies", packages: m.DevDependencies},
	}
}

type section struct {
	name     string
	packages map[string]string
}

// Installer merges manifests into a project and installs them.
type Installer interface {
	Add(ctx context.Context, manifest Manifest) error
	Run(ctx context.Context) error
}

// InstallerFactory creates the installer when it is first needed.
type InstallerFactory func(ctx context.Context) (Installer, error)
