package manifest

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/fundtree/fundtree/pkg/errors"
	"github.com/fundtree/fundtree/pkg/integrations/crates"
)

// enrichWorkers bounds concurrent crates.io lookups. The registry client is
// rate limited anyway; this just caps in-flight requests.
const enrichWorkers = 4

// Registry looks up crate metadata from a package registry. It is satisfied
// by [crates.Client].
type Registry interface {
	FetchCrate(ctx context.Context, name string) (*crates.CrateInfo, error)
}

// CargoLock resolves dependencies by reading Cargo.lock directly, for
// environments without a cargo toolchain. The lockfile carries no repository
// URLs, so when a registry client is provided each crate is enriched with
// the registry's repository field; lookup failures degrade that crate to
// "no repository" rather than failing the resolve.
type CargoLock struct {
	registry Registry
	opts     Options
}

// NewCargoLock creates a lockfile-backed resolver. Pass nil for registry to
// skip repository enrichment.
func NewCargoLock(registry Registry, opts Options) *CargoLock {
	return &CargoLock{registry: registry, opts: opts.WithDefaults()}
}

func (r *CargoLock) Name() string { return "cargo-lock" }

// Resolve parses <dir>/Cargo.lock. Workspace members are identified by their
// missing source field and excluded.
func (r *CargoLock) Resolve(ctx context.Context, dir string) ([]Dependency, error) {
	path := filepath.Join(dir, "Cargo.lock")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", path)
	}

	deps, err := parseCargoLock(data)
	if err != nil {
		return nil, err
	}

	if r.registry != nil {
		r.enrich(ctx, deps)
	}
	return deps, nil
}

// parseCargoLock extracts registry packages from lockfile TOML, preserving
// declaration order.
func parseCargoLock(data []byte) ([]Dependency, error) {
	var lock cargoLockFile
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "error parsing Cargo.lock")
	}

	var deps []Dependency
	for _, pkg := range lock.Packages {
		if pkg.Source == "" {
			// workspace members carry no source entry
			continue
		}
		deps = append(deps, Dependency{Name: pkg.Name, Version: pkg.Version})
	}
	return deps, nil
}

// enrich fills in repository URLs from crates.io, bounded and in parallel.
// Results land by index so enumeration order is unaffected by completion
// order.
func (r *CargoLock) enrich(ctx context.Context, deps []Dependency) {
	var wg sync.WaitGroup
	sem := make(chan struct{}, enrichWorkers)

	for i := range deps {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			info, err := r.registry.FetchCrate(ctx, deps[idx].Name)
			if err != nil {
				r.opts.Logger("crates.io lookup failed: %s: %v", deps[idx].Name, err)
				return
			}
			deps[idx].Repository = info.Repository
			if deps[idx].Repository == "" {
				deps[idx].Repository = info.HomePage
			}
		}(i)
	}

	wg.Wait()
}

type cargoLockFile struct {
	Packages []struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
		Source  string `toml:"source"`
	} `toml:"package"`
}
