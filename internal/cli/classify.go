package cli

import (
	"github.com/spf13/cobra"

	"github.com/couchcryptid/crisis-data-etl/internal/classify"
	"github.com/couchcryptid/crisis-data-etl/internal/pipeline"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Label the cleaned dataset with sentiment and risk level",
	RunE:  runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, _ []string) error {
	stage := classify.New(cfg, wl, metrics, logger)
	return pipeline.New(logger, metrics, stage).Run(cmd.Context())
}
