package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/couchcryptid/crisis-data-etl/internal/config"
	"github.com/couchcryptid/crisis-data-etl/internal/domain"
	"github.com/couchcryptid/crisis-data-etl/internal/observability"
)

// Client implements domain.Geocoder using the Nominatim search API. The
// usage policy requires an identifying User-Agent and at most one request
// per second, enforced here with a rate limiter sized from GEOCODE_DELAY.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	retries    int
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim geocoding client. userAgent identifies the
// caller to the service and must not be empty.
func NewClient(cfg *config.Config, userAgent string, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.GeocodeTimeout,
		},
		baseURL:   strings.TrimRight(cfg.NominatimBaseURL, "/"),
		userAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Every(cfg.GeocodeDelay), 1),
		retries:   cfg.GeocodeRetries,
		metrics:   metrics,
		logger:    logger,
	}
}

// Geocode converts a place name to coordinates. Timeouts are retried after
// the configured delay; every other failure is returned immediately.
func (c *Client) Geocode(ctx context.Context, place string) (domain.GeocodingResult, error) {
	params := url.Values{
		"q":      {place},
		"format": {"jsonv2"},
		"limit":  {"1"},
	}
	fullURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.GeocodingResult{}, fmt.Errorf("geocode delay: %w", err)
		}

		result, err := c.doRequest(ctx, fullURL)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !isTimeout(err) {
			return domain.GeocodingResult{}, err
		}
		c.logger.Warn("geocode request timed out, retrying",
			"place", place,
			"attempt", attempt+1)
	}
	return domain.GeocodingResult{}, fmt.Errorf("geocode %q: %w", place, lastErr)
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.GeocodingResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodingResult{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return domain.GeocodingResult{}, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	var places []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodingResult{}, fmt.Errorf("decode response: %w", err)
	}

	if len(places) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
		return domain.GeocodingResult{}, nil
	}

	p := places[0]
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("parse lat %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("parse lon %q: %w", p.Lon, err)
	}

	c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	return domain.GeocodingResult{
		Lat:         lat,
		Lon:         lon,
		PlaceName:   p.Name,
		DisplayName: p.DisplayName,
		Importance:  p.Importance,
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Nominatim API response types.

type searchResult struct {
	Lat         string  `json:"lat"` // coordinates arrive as strings
	Lon         string  `json:"lon"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Importance  float64 `json:"importance"`
}
