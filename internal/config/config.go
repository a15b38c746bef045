package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Artifact filenames written under the data directory, one set per stage.
const (
	UncleanedDataset  = "uncleaned_dataset.json"
	CleanedDataset    = "cleaned_dataset.json"
	UpdatedDataset    = "updated_dataset.json"
	LocatedDataset    = "updated_dataset_with_locations.json"
	SummaryTable      = "summary_table.csv"
	DistributionChart = "distribution_of_posts.jpeg"
	TopLocationsTable = "top_5_locations.csv"
	HeatmapPage       = "crisis_heatmap.html"
)

// Config holds all pipeline settings, populated from environment variables.
type Config struct {
	DataDir         string
	CredentialsFile string
	WatchlistFile   string
	LogLevel        string
	LogFormat       string
	MetricsTextfile string

	// Reddit listing configuration.
	RedditBaseURL  string
	RedditTokenURL string
	PostLimit      int
	PageSize       int
	RedditTimeout  time.Duration
	MaxRetries     int

	// Nominatim geocoding configuration.
	NominatimBaseURL string
	GeocodeDelay     time.Duration
	GeocodeTimeout   time.Duration
	GeocodeRetries   int
	GeocodeCacheSize int

	// Classification configuration.
	VocabularySize int
	RiskTermCount  int
	RiskThreshold  float64
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	postLimit, err := envInt("POST_LIMIT", 1000)
	if err != nil {
		return nil, err
	}
	pageSize, err := envInt("PAGE_SIZE", 100)
	if err != nil {
		return nil, err
	}
	maxRetries, err := envInt("MAX_RETRIES", 3)
	if err != nil {
		return nil, err
	}
	redditTimeout, err := envDuration("HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	geocodeDelay, err := envDuration("GEOCODE_DELAY", 2*time.Second)
	if err != nil {
		return nil, err
	}
	geocodeTimeout, err := envDuration("GEOCODE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	geocodeRetries, err := envInt("GEOCODE_RETRIES", 3)
	if err != nil {
		return nil, err
	}
	cacheSize, err := envInt("GEOCODE_CACHE_SIZE", 512)
	if err != nil {
		return nil, err
	}
	vocabSize, err := envInt("VOCAB_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	riskTermCount, err := envInt("RISK_TERM_COUNT", 30)
	if err != nil {
		return nil, err
	}
	riskThreshold, err := envFloat("RISK_THRESHOLD", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:         envOrDefault("DATA_DIR", "."),
		CredentialsFile: envOrDefault("CREDENTIALS_FILE", "praw_details.txt"),
		WatchlistFile:   os.Getenv("WATCHLIST_FILE"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),

		RedditBaseURL:  envOrDefault("REDDIT_BASE_URL", "https://oauth.reddit.com"),
		RedditTokenURL: envOrDefault("REDDIT_TOKEN_URL", "https://www.reddit.com/api/v1/access_token"),
		PostLimit:      postLimit,
		PageSize:       pageSize,
		RedditTimeout:  redditTimeout,
		MaxRetries:     maxRetries,

		NominatimBaseURL: envOrDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocodeDelay:     geocodeDelay,
		GeocodeTimeout:   geocodeTimeout,
		GeocodeRetries:   geocodeRetries,
		GeocodeCacheSize: cacheSize,

		VocabularySize: vocabSize,
		RiskTermCount:  riskTermCount,
		RiskThreshold:  riskThreshold,
	}

	if cfg.DataDir == "" {
		return nil, errors.New("DATA_DIR is required")
	}
	if cfg.CredentialsFile == "" {
		return nil, errors.New("CREDENTIALS_FILE is required")
	}
	if cfg.PostLimit <= 0 {
		return nil, errors.New("POST_LIMIT must be positive")
	}
	if cfg.PageSize <= 0 || cfg.PageSize > 100 {
		return nil, errors.New("PAGE_SIZE must be between 1 and 100")
	}
	if cfg.MaxRetries < 0 {
		return nil, errors.New("MAX_RETRIES must not be negative")
	}
	if cfg.GeocodeRetries < 0 {
		return nil, errors.New("GEOCODE_RETRIES must not be negative")
	}
	if cfg.GeocodeCacheSize <= 0 {
		return nil, errors.New("GEOCODE_CACHE_SIZE must be positive")
	}
	if cfg.VocabularySize <= 0 {
		return nil, errors.New("VOCAB_SIZE must be positive")
	}
	if cfg.RiskTermCount <= 0 {
		return nil, errors.New("RISK_TERM_COUNT must be positive")
	}
	if cfg.RiskThreshold < 0 {
		return nil, errors.New("RISK_THRESHOLD must not be negative")
	}

	return cfg, nil
}

// ArtifactPath resolves an artifact filename against the data directory.
func (c *Config) ArtifactPath(name string) string {
	return filepath.Join(c.DataDir, name)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
