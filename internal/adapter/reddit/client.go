package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/crisis-data-etl/internal/config"
	"github.com/couchcryptid/crisis-data-etl/internal/domain"
	"github.com/couchcryptid/crisis-data-etl/internal/observability"
)

// Client fetches subreddit listings through Reddit's OAuth2 application-only
// flow. Reddit requires a descriptive User-Agent on the token request and on
// every API call, and throttles clients to roughly one request per second.
type Client struct {
	httpClient *http.Client
	baseURL    string
	pageSize   int
	maxRetries int
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient builds an authenticated listing client from the application
// credentials. Tokens are fetched lazily and refreshed automatically by the
// client-credentials token source.
func NewClient(cfg *config.Config, creds config.Credentials, metrics *observability.Metrics, logger *slog.Logger) *Client {
	oauthCfg := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     cfg.RedditTokenURL,
	}

	// The inner client stamps the user agent on both token and API requests.
	base := &http.Client{
		Timeout:   cfg.RedditTimeout,
		Transport: &userAgentTransport{agent: creds.UserAgent, next: http.DefaultTransport},
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	httpClient := oauthCfg.Client(ctx)
	httpClient.Timeout = cfg.RedditTimeout

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.RedditBaseURL, "/"),
		pageSize:   cfg.PageSize,
		maxRetries: cfg.MaxRetries,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		metrics:    metrics,
		logger:     logger,
	}
}

// HotPosts pages through a subreddit's hot listing until limit posts have
// been fetched or the listing is exhausted.
func (c *Client) HotPosts(ctx context.Context, subreddit string, limit int) ([]domain.Post, error) {
	var posts []domain.Post
	after := ""
	for len(posts) < limit {
		pageSize := min(c.pageSize, limit-len(posts))
		page, next, err := c.fetchPage(ctx, subreddit, pageSize, after)
		if err != nil {
			return nil, err
		}
		for _, lp := range page {
			posts = append(posts, toPost(lp))
		}
		if next == "" || len(page) == 0 {
			break
		}
		after = next
	}
	c.metrics.PostsFetched.WithLabelValues(subreddit).Add(float64(len(posts)))
	return posts, nil
}

// fetchPage requests one listing page, retrying transient failures with
// exponential backoff. Authentication and other client errors fail fast.
func (c *Client) fetchPage(ctx context.Context, subreddit string, limit int, after string) ([]listingPost, string, error) {
	params := url.Values{
		"limit":    {strconv.Itoa(limit)},
		"raw_json": {"1"},
	}
	if after != "" {
		params.Set("after", after)
	}
	fullURL := fmt.Sprintf("%s/r/%s/hot?%s", c.baseURL, url.PathEscape(subreddit), params.Encode())

	backoff := 500 * time.Millisecond
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if !sleepWithContext(ctx, backoff) {
				return nil, "", ctx.Err()
			}
			backoff = min(backoff*2, 8*time.Second)
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, "", fmt.Errorf("rate limit wait: %w", err)
		}

		page, next, retryable, err := c.doListing(ctx, fullURL)
		if err == nil {
			return page, next, nil
		}
		lastErr = err
		if !retryable {
			return nil, "", err
		}
		c.logger.Warn("listing fetch failed, retrying",
			"subreddit", subreddit,
			"attempt", attempt+1,
			"error", err)
	}
	return nil, "", fmt.Errorf("fetch r/%s after %d attempts: %w", subreddit, c.maxRetries+1, lastErr)
}

func (c *Client) doListing(ctx context.Context, fullURL string) (posts []listingPost, after string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, "", false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, "", false, fmt.Errorf("%w: %v", domain.ErrAuthentication, err)
		}
		return nil, "", true, fmt.Errorf("listing request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return nil, "", false, fmt.Errorf("%w: reddit API status %d", domain.ErrAuthentication, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return nil, "", true, fmt.Errorf("reddit API status %d", resp.StatusCode)
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, "", false, fmt.Errorf("reddit API error: status %d: %s", resp.StatusCode, body)
	}

	var l listing
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		return nil, "", false, fmt.Errorf("decode listing: %w", err)
	}

	posts = make([]listingPost, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, l.Data.After, false, nil
}

func toPost(lp listingPost) domain.Post {
	content := strings.TrimSpace(lp.Title + " " + lp.Selftext)
	return domain.Post{
		Subreddit: "r/" + lp.Subreddit,
		PostID:    lp.ID,
		Timestamp: domain.NewTimestamp(time.Unix(int64(lp.CreatedUTC), 0)),
		Content:   strings.ToLower(content),
		Likes:     lp.Score,
		Comments:  lp.NumComments,
		Shares:    lp.NumCrossposts,
	}
}

// sleepWithContext waits for the backoff duration unless the context is
// cancelled first. Returns false if cancelled.
func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// userAgentTransport stamps the configured User-Agent on every request.
type userAgentTransport struct {
	agent string
	next  http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.agent)
	return t.next.RoundTrip(clone)
}

// Reddit listing envelope types.

type listing struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Data listingPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type listingPost struct {
	ID            string  `json:"id"`
	Subreddit     string  `json:"subreddit"`
	Title         string  `json:"title"`
	Selftext      string  `json:"selftext"`
	CreatedUTC    float64 `json:"created_utc"`
	Score         int     `json:"score"`
	NumComments   int     `json:"num_comments"`
	NumCrossposts int     `json:"num_crossposts"`
}
