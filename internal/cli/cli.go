// Package cli implements the fundtree command-line interface.
//
// The root command resolves a Cargo project's dependency set, looks up each
// dependency repository's funding declaration on GitHub, and prints a tree
// of funding links grouped by endpoint. All diagnostics go to stderr; the
// tree itself is the only stdout output, so it can be piped or redirected.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fundtree/fundtree/pkg/buildinfo"
)

// defaultTimeout bounds the whole GitHub lookup phase.
const defaultTimeout = 5 * time.Minute

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for the command tree.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command. fundtree is a single-verb
// tool, so the funding lookup runs on the root command itself.
func (c *CLI) RootCommand() *cobra.Command {
	opts := defaultFundOptions()

	root := &cobra.Command{
		Use:   "fundtree [dir]",
		Short: "Fundtree finds funding links for a Cargo project's dependencies",
		Long: `Fundtree resolves a Cargo project's dependency set, looks up each
dependency repository's FUNDING.yml on GitHub, and prints a tree of
sponsorship links grouped by funding endpoint.

A GitHub API token is required (the API rejects anonymous content
requests at any useful rate). Provide one via --github-token or the
FUNDTREE_GITHUB_TOKEN / GITHUB_TOKEN environment variables.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return c.runFund(cmd.Context(), dir, opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.Flags().StringVar(&opts.token, "github-token", "", "GitHub API token (defaults to $FUNDTREE_GITHUB_TOKEN, then $GITHUB_TOKEN)")
	root.Flags().BoolVar(&opts.lockfile, "lockfile", false, "read Cargo.lock directly instead of running cargo metadata")
	root.Flags().IntVar(&opts.concurrency, "concurrency", 0, "maximum concurrent GitHub requests (0 = default)")
	root.Flags().DurationVar(&opts.timeout, "timeout", defaultTimeout, "overall timeout for GitHub lookups")

	return root
}
