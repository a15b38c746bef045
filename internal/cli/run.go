package cli

import (
	"github.com/spf13/cobra"

	"github.com/couchcryptid/crisis-data-etl/internal/classify"
	"github.com/couchcryptid/crisis-data-etl/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run <user-agent>",
	Short: "Run the full pipeline: collect, classify, locate",
	Args:  cobra.ExactArgs(1),
	RunE:  runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	collectStage, err := newCollectStage()
	if err != nil {
		return err
	}
	locateStage, err := newLocateStage(args[0])
	if err != nil {
		return err
	}

	runner := pipeline.New(logger, metrics,
		collectStage,
		classify.New(cfg, wl, metrics, logger),
		locateStage,
	)
	return runner.Run(cmd.Context())
}
