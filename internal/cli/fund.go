package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fundtree/fundtree/pkg/errors"
	"github.com/fundtree/fundtree/pkg/funding"
	"github.com/fundtree/fundtree/pkg/integrations"
	"github.com/fundtree/fundtree/pkg/integrations/crates"
	"github.com/fundtree/fundtree/pkg/integrations/github"
	"github.com/fundtree/fundtree/pkg/manifest"
)

// fundOptions holds the root command's flag values.
type fundOptions struct {
	token       string
	lockfile    bool
	concurrency int
	timeout     time.Duration
}

func defaultFundOptions() fundOptions {
	return fundOptions{timeout: defaultTimeout}
}

// runFund executes the funding lookup for the project in dir.
func (c *CLI) runFund(ctx context.Context, dir string, opts fundOptions) error {
	token := resolveToken(opts.token)
	if token == "" {
		return errors.New(errors.ErrCodeInvalidToken,
			"a GitHub API token must be provided through the --github-token flag or the FUNDTREE_GITHUB_TOKEN environment variable")
	}

	deps, err := c.resolveDependencies(ctx, dir, opts)
	if err != nil {
		return err
	}
	candidates := funding.Enumerate(deps)
	c.Logger.Debug("resolved dependency set", "dependencies", len(candidates))

	lookupCtx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	gh := github.NewClient(token)
	verify := newSpinnerWithContext(lookupCtx, "Verifying GitHub token...")
	verify.Start()
	user, err := gh.FetchUser(lookupCtx)
	if err != nil {
		verify.StopWithError("GitHub token verification failed")
		return verifyTokenError(err)
	}
	verify.Stop()
	c.Logger.Debug("authenticated with GitHub", "user", user.Login)

	repos := countRepos(candidates)
	spinner := newSpinnerWithContext(lookupCtx,
		fmt.Sprintf("Checking %d repositories for funding links...", repos))
	spinner.Start()

	engine := funding.NewEngine(gh, funding.Options{
		Workers: opts.concurrency,
		Logger:  c.Logger.Warnf,
	})
	results := engine.Resolve(lookupCtx, candidates)
	if spinner.Cancelled() {
		spinner.Stop()
	} else {
		spinner.StopWithSuccess(fmt.Sprintf("Checked %d repositories", repos))
	}

	attr := funding.Aggregate(results)
	sum := funding.Summarize(results)
	fmt.Print(funding.Render(attr, sum, projectLabel(dir)))

	return nil
}

// verifyTokenError classifies a token verification failure into the error
// taxonomy: rejected credential, rate-limit exhaustion, timeout, or a
// generic network failure. All are fatal at this point in the run.
func verifyTokenError(err error) error {
	switch {
	case stderrors.Is(err, integrations.ErrUnauthorized):
		return errors.New(errors.ErrCodeInvalidToken, "the provided GitHub API token was rejected")
	case stderrors.Is(err, integrations.ErrRateLimited):
		return errors.Wrap(errors.ErrCodeRateLimited, err, "verify GitHub API token")
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "verify GitHub API token")
	default:
		return errors.Wrap(errors.ErrCodeNetwork, err, "verify GitHub API token")
	}
}

// resolveToken applies the token precedence: flag, then app-specific env
// var, then the conventional GITHUB_TOKEN.
func resolveToken(flag string) string {
	if flag != "" {
		return flag
	}
	if token := os.Getenv("FUNDTREE_GITHUB_TOKEN"); token != "" {
		return token
	}
	return os.Getenv("GITHUB_TOKEN")
}

// resolveDependencies picks a resolver and runs it. --lockfile forces the
// Cargo.lock path; otherwise detection prefers cargo metadata.
func (c *CLI) resolveDependencies(ctx context.Context, dir string, opts fundOptions) ([]manifest.Dependency, error) {
	mopts := manifest.Options{Logger: c.Logger.Warnf}
	registry := crates.NewClient()

	var resolver manifest.Resolver
	if opts.lockfile {
		resolver = manifest.NewCargoLock(registry, mopts)
	} else {
		var err error
		resolver, err = manifest.Detect(dir, registry, mopts)
		if err != nil {
			return nil, err
		}
	}
	c.Logger.Debug("resolving dependencies", "resolver", resolver.Name(), "dir", dir)

	deps, err := resolver.Resolve(ctx, dir)
	if err != nil {
		return nil, err
	}
	return deps, nil
}

// countRepos reports the number of distinct repositories in the candidate set.
func countRepos(candidates []funding.Candidate) int {
	seen := make(map[funding.RepoKey]bool)
	for _, c := range candidates {
		if c.Repo != nil {
			seen[*c.Repo] = true
		}
	}
	return len(seen)
}

// projectLabel renders the tree root label: the absolute project path when
// it can be derived, the raw argument otherwise.
func projectLabel(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}
