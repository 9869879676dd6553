package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"

	"github.com/fundtree/fundtree/pkg/errors"
)

// CargoMetadata resolves dependencies by executing
// `cargo metadata --format-version 1` in the project directory.
// The output is the fully resolved transitive set, including repository
// URLs from each crate's manifest.
type CargoMetadata struct {
	// cargoBin overrides the cargo executable; defaults to "cargo".
	cargoBin string
}

// NewCargoMetadata creates a resolver backed by the cargo toolchain.
func NewCargoMetadata() *CargoMetadata {
	return &CargoMetadata{cargoBin: "cargo"}
}

func (r *CargoMetadata) Name() string { return "cargo-metadata" }

// Resolve runs cargo metadata and returns the dependency set, excluding the
// workspace's own packages. A failure here is fatal to the run: without the
// metadata there is no dependency set to analyze.
func (r *CargoMetadata) Resolve(ctx context.Context, dir string) ([]Dependency, error) {
	cmd := exec.CommandContext(ctx, r.cargoBin, "metadata", "--format-version", "1")
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err,
			"cargo metadata failed in %s: %s", dir, bytes.TrimSpace(stderr.Bytes()))
	}

	return parseCargoMetadata(stdout.Bytes())
}

// parseCargoMetadata decodes cargo metadata JSON into the dependency set,
// preserving cargo's package enumeration order.
func parseCargoMetadata(data []byte) ([]Dependency, error) {
	var meta cargoMetadataOutput
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "error parsing cargo metadata output")
	}

	members := make(map[string]bool, len(meta.WorkspaceMembers))
	for _, id := range meta.WorkspaceMembers {
		members[id] = true
	}

	var deps []Dependency
	for _, pkg := range meta.Packages {
		if members[pkg.ID] {
			// skip packages within the workspace itself
			continue
		}
		deps = append(deps, Dependency{
			Name:       pkg.Name,
			Version:    pkg.Version,
			Repository: pkg.Repository,
		})
	}
	return deps, nil
}

type cargoMetadataOutput struct {
	Packages []struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Version    string `json:"version"`
		Repository string `json:"repository"`
	} `json:"packages"`
	WorkspaceMembers []string `json:"workspace_members"`
	WorkspaceRoot    string   `json:"workspace_root"`
}
