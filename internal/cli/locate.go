package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/crisis-data-etl/internal/adapter/nominatim"
	"github.com/couchcryptid/crisis-data-etl/internal/locate"
	"github.com/couchcryptid/crisis-data-etl/internal/pipeline"
)

var locateCmd = &cobra.Command{
	Use:   "locate <user-agent>",
	Short: "Geocode place mentions and write the location artifacts",
	Long: `Extracts place names from the classified dataset, geocodes them via
Nominatim, and writes the located dataset, the top locations table, and the
heatmap.

The Nominatim usage policy requires an identifying User-Agent, so one must be
given as the only argument.`,
	Args: cobra.ExactArgs(1),
	RunE: runLocate,
}

func init() {
	rootCmd.AddCommand(locateCmd)
}

func runLocate(cmd *cobra.Command, args []string) error {
	stage, err := newLocateStage(args[0])
	if err != nil {
		return err
	}
	return pipeline.New(logger, metrics, stage).Run(cmd.Context())
}

func newLocateStage(userAgent string) (*locate.Locator, error) {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return nil, errors.New("geocoding user agent must not be empty")
	}
	client := nominatim.NewClient(cfg, userAgent, metrics, logger)
	geocoder := nominatim.NewCachedGeocoder(client, cfg.GeocodeCacheSize, metrics)
	return locate.New(cfg, wl, geocoder, metrics, logger), nil
}
