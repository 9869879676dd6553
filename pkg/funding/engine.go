package funding

import (
	"context"
	"sync"
)

// defaultWorkers bounds concurrent funding-file fetches.
const defaultWorkers = 8

// Fetcher retrieves a repository's raw funding declaration. found=false with
// a nil error means the repository declares no funding file.
type Fetcher interface {
	FundingFile(ctx context.Context, owner, repo string) (content string, found bool, err error)
}

// Options configures an Engine.
type Options struct {
	// Workers caps concurrent fetches. Zero or negative uses the default.
	Workers int
	// Logger receives a message for each repository whose lookup failed.
	// Failed lookups degrade to "no endpoints" rather than aborting the run.
	Logger func(format string, args ...any)
}

// WithDefaults fills in unset option values.
func (o Options) WithDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = defaultWorkers
	}
	if o.Logger == nil {
		o.Logger = func(string, ...any) {}
	}
	return o
}

// Engine resolves funding endpoints for a candidate set. Each distinct
// repository is fetched and parsed exactly once per run; crates sharing a
// repository share the memoized result.
type Engine struct {
	fetcher Fetcher
	opts    Options
}

// NewEngine creates an engine backed by the given fetcher.
func NewEngine(fetcher Fetcher, opts Options) *Engine {
	return &Engine{fetcher: fetcher, opts: opts.WithDefaults()}
}

// Resolution pairs a crate with the funding endpoints its repository
// declares. Unattributable crates and crates whose lookup failed carry an
// empty endpoint list.
type Resolution struct {
	Ref       CrateRef
	Endpoints []string
}

// Resolve fetches funding declarations for every distinct repository among
// the candidates and fans the parsed endpoints back out to each crate. The
// returned slice matches the candidate order regardless of fetch completion
// order.
func (e *Engine) Resolve(ctx context.Context, candidates []Candidate) []Resolution {
	var unique []RepoKey
	index := make(map[RepoKey]int)
	for _, c := range candidates {
		if c.Repo == nil {
			continue
		}
		if _, ok := index[*c.Repo]; ok {
			continue
		}
		index[*c.Repo] = len(unique)
		unique = append(unique, *c.Repo)
	}

	endpoints := make([][]string, len(unique))
	sem := make(chan struct{}, e.opts.Workers)
	var wg sync.WaitGroup

	for i, key := range unique {
		wg.Add(1)
		go func(i int, key RepoKey) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			endpoints[i] = e.lookup(ctx, key)
		}(i, key)
	}
	wg.Wait()

	results := make([]Resolution, len(candidates))
	for i, c := range candidates {
		results[i] = Resolution{Ref: c.Ref}
		if c.Repo != nil {
			results[i].Endpoints = endpoints[index[*c.Repo]]
		}
	}
	return results
}

// lookup fetches and parses one repository's funding declaration. Fetch
// errors are logged and degrade to no endpoints.
func (e *Engine) lookup(ctx context.Context, key RepoKey) []string {
	content, found, err := e.fetcher.FundingFile(ctx, key.Owner, key.Name)
	if err != nil {
		e.opts.Logger("failed to fetch funding file for %s: %v", key, err)
		return nil
	}
	if !found {
		return nil
	}
	return ParseDeclaration([]byte(content))
}
