// Package funding implements the funding discovery engine: it enumerates a
// resolved dependency set into candidate repositories, fetches and parses
// each repository's funding declaration (once per repository, concurrently),
// aggregates crates under the funding endpoints they declare, and renders
// the result as a tree.
package funding

import (
	"net/url"
	"strings"

	"github.com/fundtree/fundtree/pkg/integrations"
	"github.com/fundtree/fundtree/pkg/manifest"
)

// CrateRef identifies one dependency by name and resolved version.
// Two versions of the same crate are tracked as distinct dependencies.
type CrateRef struct {
	Name    string
	Version string
}

// String renders the ref the way it appears as a tree leaf.
func (c CrateRef) String() string { return c.Name + " " + c.Version }

// RepoKey is the owner/name identity of a hosted repository. It is the
// dedup key for funding lookups: crates sharing a RepoKey share exactly one
// fetch and one parse result.
type RepoKey struct {
	Owner string
	Name  string
}

func (k RepoKey) String() string { return k.Owner + "/" + k.Name }

// Candidate pairs a crate with its repository, when one could be derived.
// A nil Repo marks the crate as unattributable: it is excluded from lookups
// but still counted in the run summary.
type Candidate struct {
	Ref  CrateRef
	Repo *RepoKey
}

// Enumerate turns resolver output into the ordered candidate set, dropping
// duplicate (name, version) pairs. Entries whose repository URL cannot be
// parsed, or is not hosted on a supported platform, become unattributable
// candidates rather than errors.
func Enumerate(deps []manifest.Dependency) []Candidate {
	seen := make(map[CrateRef]bool, len(deps))
	candidates := make([]Candidate, 0, len(deps))

	for _, dep := range deps {
		ref := CrateRef{Name: dep.Name, Version: dep.Version}
		if seen[ref] {
			continue
		}
		seen[ref] = true

		c := Candidate{Ref: ref}
		if key, ok := ParseRepoKey(dep.Repository); ok {
			c.Repo = &key
		}
		candidates = append(candidates, c)
	}
	return candidates
}

// supported funding-declaration hosts.
var githubHosts = map[string]bool{
	"github.com":     true,
	"www.github.com": true,
}

// ParseRepoKey derives the owner/name key from a repository URL. Scheme-less
// values get one https:// prepend before strict parsing; URLs that still
// fail to parse, or that point at an unsupported host, yield ok=false.
func ParseRepoKey(raw string) (RepoKey, bool) {
	raw = integrations.NormalizeRepoURL(raw)
	if raw == "" {
		return RepoKey{}, false
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		u, err = url.Parse("https://" + raw)
	}
	if err != nil || u.Host == "" {
		return RepoKey{}, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return RepoKey{}, false
	}
	if !githubHosts[strings.ToLower(u.Host)] {
		return RepoKey{}, false
	}

	parts := strings.SplitN(strings.Trim(u.Path, "/"), "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return RepoKey{}, false
	}
	return RepoKey{
		Owner: parts[0],
		Name:  strings.TrimSuffix(parts[1], ".git"),
	}, true
}
