package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.DataDir)
	assert.Equal(t, "praw_details.txt", cfg.CredentialsFile)
	assert.Empty(t, cfg.WatchlistFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.MetricsTextfile)

	assert.Equal(t, "https://oauth.reddit.com", cfg.RedditBaseURL)
	assert.Equal(t, "https://www.reddit.com/api/v1/access_token", cfg.RedditTokenURL)
	assert.Equal(t, 1000, cfg.PostLimit)
	assert.Equal(t, 100, cfg.PageSize)
	assert.Equal(t, 10*time.Second, cfg.RedditTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)

	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.NominatimBaseURL)
	assert.Equal(t, 2*time.Second, cfg.GeocodeDelay)
	assert.Equal(t, 10*time.Second, cfg.GeocodeTimeout)
	assert.Equal(t, 3, cfg.GeocodeRetries)
	assert.Equal(t, 512, cfg.GeocodeCacheSize)

	assert.Equal(t, 1000, cfg.VocabularySize)
	assert.Equal(t, 30, cfg.RiskTermCount)
	assert.Equal(t, 0.0, cfg.RiskThreshold)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATA_DIR", "/var/lib/crisis")
	t.Setenv("CREDENTIALS_FILE", "/etc/crisis/reddit.txt")
	t.Setenv("WATCHLIST_FILE", "/etc/crisis/watchlist.toml")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("METRICS_TEXTFILE", "/var/lib/node_exporter/crisis.prom")
	t.Setenv("REDDIT_BASE_URL", "http://localhost:8089")
	t.Setenv("REDDIT_TOKEN_URL", "http://localhost:8089/token")
	t.Setenv("POST_LIMIT", "250")
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("HTTP_TIMEOUT", "30s")
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("NOMINATIM_BASE_URL", "http://localhost:8090")
	t.Setenv("GEOCODE_DELAY", "100ms")
	t.Setenv("GEOCODE_TIMEOUT", "5s")
	t.Setenv("GEOCODE_RETRIES", "1")
	t.Setenv("GEOCODE_CACHE_SIZE", "64")
	t.Setenv("VOCAB_SIZE", "500")
	t.Setenv("RISK_TERM_COUNT", "10")
	t.Setenv("RISK_THRESHOLD", "0.15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/crisis", cfg.DataDir)
	assert.Equal(t, "/etc/crisis/reddit.txt", cfg.CredentialsFile)
	assert.Equal(t, "/etc/crisis/watchlist.toml", cfg.WatchlistFile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "/var/lib/node_exporter/crisis.prom", cfg.MetricsTextfile)
	assert.Equal(t, "http://localhost:8089", cfg.RedditBaseURL)
	assert.Equal(t, "http://localhost:8089/token", cfg.RedditTokenURL)
	assert.Equal(t, 250, cfg.PostLimit)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, 30*time.Second, cfg.RedditTimeout)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, "http://localhost:8090", cfg.NominatimBaseURL)
	assert.Equal(t, 100*time.Millisecond, cfg.GeocodeDelay)
	assert.Equal(t, 5*time.Second, cfg.GeocodeTimeout)
	assert.Equal(t, 1, cfg.GeocodeRetries)
	assert.Equal(t, 64, cfg.GeocodeCacheSize)
	assert.Equal(t, 500, cfg.VocabularySize)
	assert.Equal(t, 10, cfg.RiskTermCount)
	assert.Equal(t, 0.15, cfg.RiskThreshold)
}

func TestLoad_InvalidPostLimit(t *testing.T) {
	t.Setenv("POST_LIMIT", "not-a-number")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POST_LIMIT")
}

func TestLoad_ZeroPostLimit(t *testing.T) {
	t.Setenv("POST_LIMIT", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POST_LIMIT")
}

func TestLoad_PageSizeTooLarge(t *testing.T) {
	t.Setenv("PAGE_SIZE", "500")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAGE_SIZE")
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_TIMEOUT")
}

func TestLoad_NegativeGeocodeDelay(t *testing.T) {
	t.Setenv("GEOCODE_DELAY", "-2s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEOCODE_DELAY")
}

func TestLoad_NegativeRiskThreshold(t *testing.T) {
	t.Setenv("RISK_THRESHOLD", "-0.5")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RISK_THRESHOLD")
}

func TestLoad_ZeroVocabSize(t *testing.T) {
	t.Setenv("VOCAB_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VOCAB_SIZE")
}

func TestArtifactPath(t *testing.T) {
	t.Setenv("DATA_DIR", "/data")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/data", UncleanedDataset), cfg.ArtifactPath(UncleanedDataset))
	assert.Equal(t, filepath.Join("/data", HeatmapPage), cfg.ArtifactPath(HeatmapPage))
}
