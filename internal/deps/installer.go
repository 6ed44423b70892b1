package deps

import (
	"context"
	stderrors "errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/felixgeelhaar/frontvue/internal/errors"
	"github.com/felixgeelhaar/frontvue/internal/exec"
	"github.com/felixgeelhaar/frontvue/internal/jsonfile"
	"github.com/felixgeelhaar/frontvue/internal/log"
	"github.com/felixgeelhaar/frontvue/internal/retry"
)

// DefaultManagers are the package managers looked for, in preference order.
var DefaultManagers = []string{"yarn", "npm"}

// PackageInstaller merges manifests into <cwd>/package.json and runs
// `<manager> install`.
type PackageInstaller struct {
	cwd       string
	filename  string
	file      *jsonfile.File
	runner    exec.Runner
	managers  []string
	available []string
	logger    *log.Logger
	retry     retry.Options
}

// InstallerOption configures a PackageInstaller.
type InstallerOption func(*PackageInstaller)

// WithManagers sets the package managers to look for.
func WithManagers(managers ...string) InstallerOption {
	return func(p *PackageInstaller) { p.managers = managers }
}

// WithRunner sets the command runner.
func WithRunner(r exec.Runner) InstallerOption {
	return func(p *PackageInstaller) { p.runner = r }
}

// WithFilename sets the manifest file name inside cwd.
func WithFilename(name string) InstallerOption {
	return func(p *PackageInstaller) { p.filename = name }
}

// WithInstallerLogger sets the logger.
func WithInstallerLogger(l *log.Logger) InstallerOption {
	return func(p *PackageInstaller) { p.logger = l }
}

// WithInstallerRetry sets the retry budget used when probing managers.
func WithInstallerRetry(opts retry.Options) InstallerOption {
	return func(p *PackageInstaller) { p.retry = opts }
}

// NewPackageInstaller creates an installer for the project in cwd and checks
// the package managers. Finding none is logged; Run reports it.
func NewPackageInstaller(ctx context.Context, cwd string, opts ...InstallerOption) (*PackageInstaller, error) {
	if cwd == "" {
		return nil, errors.New(errors.ErrCodeDepsInstallFailed, "the dependencies installer requires a working directory")
	}

	p := &PackageInstaller{
		cwd:      cwd,
		filename: "package.json",
		managers: DefaultManagers,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.runner == nil {
		p.runner = exec.NewOSRunner()
	}
	p.logger = log.OrDefault(p.logger).Channel("installer")
	p.file = jsonfile.New(filepath.Join(cwd, p.filename))

	if err := p.checkForManagers(ctx); err != nil {
		p.logger.LogError(err)
	}
	return p, nil
}

// Available returns the package managers found, in preference order.
func (p *PackageInstaller) Available() []string {
	return slices.Clone(p.available)
}

func (p *PackageInstaller) checkForManagers(ctx context.Context) error {
	p.logger.Debug("Looking for package managers…")

	for _, manager := range p.managers {
		opts := p.retry
		opts.Name = fmt.Sprintf("checking for %s", manager)
		if opts.Logger == nil {
			opts.Logger = p.logger
		}

		version, err := retry.Do(ctx, opts, func() (string, error) {
			v, ok, err := exec.Available(ctx, p.runner, manager)
			if err != nil {
				return "", err
			}
			if !ok {
				return "", retry.Permanent(errNotInstalled)
			}
			return v, nil
		})
		if err != nil {
			if !stderrors.Is(err, errNotInstalled) {
				p.logger.Debug("package manager check failed", "manager", manager, "error", err)
			}
			continue
		}

		p.logger.Debug("Package manager found", "manager", manager, "version", version)
		p.available = append(p.available, manager)
	}

	if len(p.available) == 0 {
		return errors.NewNoPackageManagersError(p.managers)
	}
	return nil
}

var errNotInstalled = stderrors.New("not installed")

// Add merges manifest into package.json. Packages already present with a
// different range are left alone and reported; identical ones are skipped.
// Every touched section is sorted by package name.
func (p *PackageInstaller) Add(ctx context.Context, manifest Manifest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := p.file.Update(func(data []byte) ([]byte, error) {
		var err error
		for _, sec := range manifest.sections() {
			if len(sec.packages) == 0 {
				continue
			}
			if data, err = p.mergeSection(data, sec); err != nil {
				return nil, err
			}
		}
		return data, nil
	})
	if err != nil {
		p.logger.WithError(err).Fatal("failed to add dependencies", "file", p.file.Path())
		return errors.Wrap(errors.ErrCodeDepsAddFailed, fmt.Sprintf("failed to add dependencies to %s", p.file.Path()), err)
	}
	return nil
}

func (p *PackageInstaller) mergeSection(data []byte, sec section) ([]byte, error) {
	merged := make(map[string]string)
	current := gjson.GetBytes(data, jsonfile.Path(sec.name))
	current.ForEach(func(key, value gjson.Result) bool {
		merged[key.String()] = value.String()
		return true
	})

	for _, name := range slices.Sorted(maps.Keys(sec.packages)) {
		wanted := sec.packages[name]
		existing, ok := merged[name]
		switch {
		case !ok:
			merged[name] = wanted
		case existing != wanted:
			p.logger.Warn(fmt.Sprintf("Package already exists with different version %s@%s, %s is required!", name, existing, wanted),
				"comparison", compareRanges(existing, wanted))
			p.logger.Warn("Unexpected behaviour or errors might occur. Please change the version of the package manually!")
		default:
			p.logger.Debug(fmt.Sprintf("Package already exists %s@%s. Skipping…", name, wanted))
		}
	}

	raw := []byte("{}")
	var err error
	for _, name := range slices.Sorted(maps.Keys(merged)) {
		if raw, err = sjson.SetBytes(raw, jsonfile.Path(name), merged[name]); err != nil {
			return nil, err
		}
	}
	return sjson.SetRawBytes(data, jsonfile.Path(sec.name), raw)
}

// compareRanges describes how the installed range relates to the required
// one.
func compareRanges(existing, wanted string) string {
	constraint, err := semver.NewConstraint(wanted)
	if err != nil {
		return "required range is not a semver range"
	}
	base, err := semver.NewVersion(strings.TrimLeft(existing, "^~=>< v"))
	if err != nil {
		return "installed range is not a semver range"
	}
	if constraint.Check(base) {
		return "installed version satisfies the required range"
	}

	wantedBase, err := semver.NewVersion(strings.TrimLeft(wanted, "^~=>< v"))
	if err != nil {
		return "installed version does not satisfy the required range"
	}
	if base.LessThan(wantedBase) {
		return "installed version is older than required"
	}
	return "installed version is newer than required"
}

// Run installs the dependencies with the first available package manager.
func (p *PackageInstaller) Run(ctx context.Context) error {
	if len(p.available) == 0 {
		return errors.New(errors.ErrCodeDepsNoManagers,
			"you need at least one package manager on your system (e.g. 'yarn', 'npm')")
	}

	manager := p.available[0]
	p.logger.Info(fmt.Sprintf("Installing dependencies using %s", manager))

	stdout := exec.NewLineWriter(p.logger.Debug)
	stderr := exec.NewLineWriter(p.logger.Error)
	res, err := p.runner.Run(ctx, manager, []string{"install"}, exec.RunOpts{
		Dir:    p.cwd,
		Stdout: stdout,
		Stderr: stderr,
	})
	stdout.Flush()
	stderr.Flush()

	if err != nil {
		p.logger.WithError(err).Fatal("failed to start the package manager", "manager", manager)
		return errors.Wrap(errors.ErrCodeDepsInstallFailed, fmt.Sprintf("%s install failed", manager), err)
	}
	if !res.Success() {
		return errors.New(errors.ErrCodeDepsInstallFailed,
			fmt.Sprintf("%s install exited with status %d", manager, res.ExitCode)).
			WithSuggestion(fmt.Sprintf("Run '%s install' in %s to see the full output", manager, p.cwd))
	}
	return nil
}
