package collect

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/couchcryptid/crisis-data-etl/internal/config"
	"github.com/couchcryptid/crisis-data-etl/internal/dataset"
	"github.com/couchcryptid/crisis-data-etl/internal/domain"
	"github.com/couchcryptid/crisis-data-etl/internal/observability"
)

// Fetcher pages through a subreddit's hot listing, returning up to limit
// posts already mapped to the record schema.
type Fetcher interface {
	HotPosts(ctx context.Context, subreddit string, limit int) ([]domain.Post, error)
}

// Collector is the stage that fetches watchlist subreddits, keeps posts
// matching the keyword filter, and writes the raw and cleaned datasets.
type Collector struct {
	cfg     *config.Config
	wl      *config.Watchlist
	fetcher Fetcher
	metrics *observability.Metrics
	logger  *slog.Logger
}

func New(cfg *config.Config, wl *config.Watchlist, fetcher Fetcher, metrics *observability.Metrics, logger *slog.Logger) *Collector {
	return &Collector{
		cfg:     cfg,
		wl:      wl,
		fetcher: fetcher,
		metrics: metrics,
		logger:  logger,
	}
}

func (c *Collector) Name() string { return "collect" }

// Run fetches and filters posts, then writes uncleaned_dataset.json followed
// by cleaned_dataset.json.
func (c *Collector) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	posts, err := c.Fetch(ctx)
	if err != nil {
		return err
	}

	uncleanedPath := c.cfg.ArtifactPath(config.UncleanedDataset)
	if err := dataset.WritePosts(uncleanedPath, posts); err != nil {
		return err
	}
	c.logger.Info("uncleaned dataset written", "path", uncleanedPath, "posts", len(posts))

	cleanedPath := c.cfg.ArtifactPath(config.CleanedDataset)
	if err := dataset.WritePosts(cleanedPath, CleanPosts(posts)); err != nil {
		return err
	}
	c.logger.Info("cleaned dataset written", "path", cleanedPath, "posts", len(posts))
	return nil
}

// Fetch pulls the hot listing of every watchlist subreddit and keeps posts
// that match at least one keyword. A subreddit that fails to fetch is skipped;
// an authentication failure or zero reachable subreddits aborts.
func (c *Collector) Fetch(ctx context.Context) ([]domain.Post, error) {
	var kept []domain.Post
	seen := make(map[string]struct{})
	reachable := 0

	for _, sub := range c.wl.Subreddits {
		posts, err := c.fetcher.HotPosts(ctx, sub, c.cfg.PostLimit)
		if err != nil {
			if errors.Is(err, domain.ErrAuthentication) {
				return nil, err
			}
			if ctx.Err() != nil {
				return nil, err
			}
			c.logger.Warn("subreddit fetch failed, skipping", "subreddit", sub, "error", err)
			c.metrics.FetchErrors.WithLabelValues(sub).Inc()
			continue
		}
		reachable++

		for _, p := range posts {
			if !c.matchesKeywords(p.Content) {
				continue
			}
			if _, dup := seen[p.PostID]; dup {
				c.metrics.PostsDuplicate.Inc()
				continue
			}
			seen[p.PostID] = struct{}{}
			c.metrics.PostsKept.WithLabelValues(sub).Inc()
			kept = append(kept, p)
		}
		c.logger.Info("subreddit fetched", "subreddit", sub, "posts", len(posts), "kept", len(kept))
	}

	if reachable == 0 {
		return nil, errors.New("no subreddit could be fetched")
	}
	return kept, nil
}

// matchesKeywords reports whether the casefolded content mentions any
// watchlist keyword. An empty keyword list keeps everything.
func (c *Collector) matchesKeywords(content string) bool {
	if len(c.wl.Keywords) == 0 {
		return true
	}
	for _, kw := range c.wl.Keywords {
		if strings.Contains(content, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// CleanPosts returns a copy of posts with every record's content normalized
// for classification. The input is not modified.
func CleanPosts(posts []domain.Post) []domain.Post {
	cleaned := make([]domain.Post, len(posts))
	for i, p := range posts {
		p.Content = domain.CleanContent(p.Content)
		cleaned[i] = p
	}
	return cleaned
}
