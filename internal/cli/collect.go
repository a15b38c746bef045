package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/crisis-data-etl/internal/adapter/reddit"
	"github.com/couchcryptid/crisis-data-etl/internal/collect"
	"github.com/couchcryptid/crisis-data-etl/internal/config"
	"github.com/couchcryptid/crisis-data-etl/internal/pipeline"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Fetch watchlist subreddits and write the raw and cleaned datasets",
	RunE:  runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, _ []string) error {
	stage, err := newCollectStage()
	if err != nil {
		return err
	}
	return pipeline.New(logger, metrics, stage).Run(cmd.Context())
}

func newCollectStage() (*collect.Collector, error) {
	creds, err := config.LoadCredentials(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	fetcher := reddit.NewClient(cfg, creds, metrics, logger)
	return collect.New(cfg, wl, fetcher, metrics, logger), nil
}
