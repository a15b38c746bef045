package locate

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/crisis-data-etl/internal/config"
	"github.com/couchcryptid/crisis-data-etl/internal/dataset"
	"github.com/couchcryptid/crisis-data-etl/internal/domain"
	"github.com/couchcryptid/crisis-data-etl/internal/observability"
)

type fakeGeocoder struct {
	results map[string]domain.GeocodingResult
	errs    map[string]error
	calls   map[string]int
}

func newFakeGeocoder() *fakeGeocoder {
	return &fakeGeocoder{
		results: map[string]domain.GeocodingResult{
			"New York City": {
				Lat:         40.7127281,
				Lon:         -74.0060152,
				PlaceName:   "New York",
				DisplayName: "New York, United States",
			},
			"Texas": {
				Lat:         31.2638905,
				Lon:         -98.5456116,
				PlaceName:   "Texas",
				DisplayName: "Texas, United States",
			},
		},
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

func (f *fakeGeocoder) Geocode(_ context.Context, place string) (domain.GeocodingResult, error) {
	f.calls[place]++
	if err := f.errs[place]; err != nil {
		return domain.GeocodingResult{}, err
	}
	return f.results[place], nil
}

func testLocator(t *testing.T, geocoder domain.Geocoder) (*Locator, *config.Config) {
	t.Helper()

	cfg := &config.Config{DataDir: t.TempDir()}
	wl := config.DefaultWatchlist()
	return New(cfg, wl, geocoder, observability.NewMetricsForTesting(), testLogger()), cfg
}

func classifiedPosts() []domain.Post {
	ts := domain.NewTimestamp(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))
	return []domain.Post{
		{
			Subreddit: "r/mentalhealth",
			PostID:    "t3_a1",
			Timestamp: ts,
			Content:   "i am in new york city right now",
			Sentiment: domain.SentimentNegative,
			RiskLevel: domain.RiskHigh,
		},
		{
			Subreddit: "r/depression",
			PostID:    "t3_b2",
			Timestamp: ts,
			Content:   "leaving nyc for texas",
			Sentiment: domain.SentimentNeutral,
			RiskLevel: domain.RiskMedium,
		},
		{
			Subreddit: "r/depression",
			PostID:    "t3_c3",
			Timestamp: ts,
			Content:   "i feel stuck in the uk",
			Sentiment: domain.SentimentNegative,
			RiskLevel: domain.RiskLow,
		},
		{
			Subreddit: "r/addiction",
			PostID:    "t3_d4",
			Timestamp: ts,
			Content:   "nothing here at all",
			Sentiment: domain.SentimentNeutral,
			RiskLevel: domain.RiskLow,
		},
	}
}

func TestLocatorRun(t *testing.T) {
	geocoder := newFakeGeocoder()
	l, cfg := testLocator(t, geocoder)
	require.NoError(t, dataset.WritePosts(cfg.ArtifactPath(config.UpdatedDataset), classifiedPosts()))

	require.NoError(t, l.Run(context.Background()))

	located, err := dataset.ReadPosts(cfg.ArtifactPath(config.LocatedDataset))
	require.NoError(t, err)
	require.Len(t, located, 4)

	// Classification fields survive location enrichment untouched.
	assert.Equal(t, domain.SentimentNegative, located[0].Sentiment)
	assert.Equal(t, domain.RiskHigh, located[0].RiskLevel)

	require.Equal(t, []string{"New York City"}, located[0].Locations)
	require.Len(t, located[0].Coordinates, 1)
	nyc := located[0].Coordinates[0]
	assert.InDelta(t, 40.7127281, nyc.Lat, 1e-9)
	assert.InDelta(t, -74.0060152, nyc.Lon, 1e-9)
	assert.True(t, nyc.Lat > 40.4 && nyc.Lat < 41.0, "latitude outside the city")
	assert.True(t, nyc.Lon > -74.3 && nyc.Lon < -73.6, "longitude outside the city")

	assert.Equal(t, []string{"New York City", "Texas"}, located[1].Locations)
	require.Len(t, located[1].Coordinates, 2)
	assert.InDelta(t, 31.2638905, located[1].Coordinates[1].Lat, 1e-9)

	// The unresolvable place is dropped, keeping alignment.
	assert.Empty(t, located[2].Locations)
	assert.Empty(t, located[2].Coordinates)
	assert.Empty(t, located[3].Locations)

	// Each distinct place is geocoded exactly once.
	assert.Equal(t, 1, geocoder.calls["New York City"])
	assert.Equal(t, 1, geocoder.calls["Texas"])
	assert.Equal(t, 1, geocoder.calls["United Kingdom"])

	table, err := os.ReadFile(cfg.ArtifactPath(config.TopLocationsTable))
	require.NoError(t, err)
	assert.Equal(t, "Location,Count\nNew York City,2\nTexas,1\n", string(table))

	page, err := os.ReadFile(cfg.ArtifactPath(config.HeatmapPage))
	require.NoError(t, err)
	assert.Contains(t, string(page), "L.heatLayer")
	assert.Contains(t, string(page), "40.7127281")
}

func TestLocatorRun_GeocodeErrorDropsPlace(t *testing.T) {
	geocoder := newFakeGeocoder()
	geocoder.errs["Texas"] = errors.New("nominatim unreachable")
	l, cfg := testLocator(t, geocoder)
	require.NoError(t, dataset.WritePosts(cfg.ArtifactPath(config.UpdatedDataset), classifiedPosts()))

	require.NoError(t, l.Run(context.Background()))

	located, err := dataset.ReadPosts(cfg.ArtifactPath(config.LocatedDataset))
	require.NoError(t, err)
	assert.Equal(t, []string{"New York City"}, located[1].Locations)

	table, err := os.ReadFile(cfg.ArtifactPath(config.TopLocationsTable))
	require.NoError(t, err)
	assert.NotContains(t, string(table), "Texas")
}

func TestLocatorRun_MissingInput(t *testing.T) {
	l, _ := testLocator(t, newFakeGeocoder())

	err := l.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read dataset")
}

func TestLocatorRun_ContextCancelled(t *testing.T) {
	l, _ := testLocator(t, newFakeGeocoder())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, l.Run(ctx), context.Canceled)
}

func TestLocatorName(t *testing.T) {
	l, _ := testLocator(t, newFakeGeocoder())
	assert.Equal(t, "locate", l.Name())
}
