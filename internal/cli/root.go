// Package cli wires the pipeline stages into the crisisetl command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/crisis-data-etl/internal/config"
	"github.com/couchcryptid/crisis-data-etl/internal/observability"
)

// Shared run state, populated by the root PersistentPreRunE before any
// subcommand executes.
var (
	cfg     *config.Config
	wl      *config.Watchlist
	logger  *slog.Logger
	metrics *observability.Metrics
)

var rootCmd = &cobra.Command{
	Use:   "crisisetl",
	Short: "Collect, classify, and locate crisis posts from Reddit",
	Long: `crisisetl is a three-stage batch pipeline for crisis-related Reddit posts.

The collect stage fetches watchlist subreddits and writes the raw and cleaned
datasets. The classify stage labels each post with sentiment and risk level.
The locate stage extracts place mentions, geocodes them via Nominatim, and
renders the location artifacts. Stages hand data to each other only through
JSON files in the data directory, so each can be run on its own.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return setup()
	},
	PersistentPostRunE: func(*cobra.Command, []string) error {
		return teardown()
	},
}

func setup() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	wl, err = config.LoadWatchlist(cfg.WatchlistFile)
	if err != nil {
		return fmt.Errorf("load watchlist: %w", err)
	}
	logger = observability.NewLogger(cfg).With("run_id", uuid.NewString())
	metrics = observability.NewMetrics()
	return nil
}

func teardown() error {
	if metrics == nil {
		return nil
	}
	if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
		logger.Warn("metrics textfile write failed", "error", err)
	}
	return nil
}

// Execute runs the command tree with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
