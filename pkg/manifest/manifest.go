// Package manifest resolves a Cargo project's dependency set.
//
// Two resolvers are provided: [CargoMetadata], which shells out to the cargo
// toolchain for the fully resolved transitive graph, and [CargoLock], which
// reads Cargo.lock directly and can recover repository URLs from crates.io.
// [Detect] picks the best resolver available for a directory.
package manifest

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/fundtree/fundtree/pkg/errors"
)

// Dependency is one resolved entry of the project's dependency set.
type Dependency struct {
	Name       string // Package name
	Version    string // Resolved version
	Repository string // Source repository URL (may be empty)
}

// Resolver produces the resolved dependency set for a project directory,
// excluding the project's own workspace packages.
type Resolver interface {
	// Resolve returns the dependencies in a stable enumeration order.
	Resolve(ctx context.Context, dir string) ([]Dependency, error)
	// Name returns the resolver's identifier (e.g., "cargo-metadata").
	Name() string
}

// Options configures resolver behavior.
type Options struct {
	Logger func(string, ...any) // Diagnostic callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Detect picks a resolver for the given project directory: CargoMetadata
// when the cargo binary is available, CargoLock when a Cargo.lock exists.
// The registry client is only used by the lock-file resolver, to recover
// repository URLs; it may be nil.
func Detect(dir string, registry Registry, opts Options) (Resolver, error) {
	if _, err := os.Stat(filepath.Join(dir, "Cargo.toml")); err != nil {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "no Cargo.toml in %s", dir)
	}
	if _, err := exec.LookPath("cargo"); err == nil {
		return NewCargoMetadata(), nil
	}
	if _, err := os.Stat(filepath.Join(dir, "Cargo.lock")); err == nil {
		return NewCargoLock(registry, opts), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidManifest,
		"cannot resolve dependencies in %s: cargo is not installed and no Cargo.lock exists", dir)
}
