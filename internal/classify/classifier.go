package classify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/couchcryptid/crisis-data-etl/internal/config"
	"github.com/couchcryptid/crisis-data-etl/internal/dataset"
	"github.com/couchcryptid/crisis-data-etl/internal/domain"
	"github.com/couchcryptid/crisis-data-etl/internal/observability"
)

// Classifier is the pipeline stage that labels every cleaned post with
// sentiment and risk, then writes the enriched dataset, the summary table,
// and the distribution chart.
type Classifier struct {
	cfg     *config.Config
	wl      *config.Watchlist
	metrics *observability.Metrics
	logger  *slog.Logger
}

// New creates the classification stage.
func New(cfg *config.Config, wl *config.Watchlist, metrics *observability.Metrics, logger *slog.Logger) *Classifier {
	return &Classifier{cfg: cfg, wl: wl, metrics: metrics, logger: logger}
}

// Name implements pipeline.Stage.
func (c *Classifier) Name() string { return "classify" }

// Run reads the cleaned dataset and writes the stage artifacts. Every input
// record appears in the output exactly once, in order.
func (c *Classifier) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	posts, err := dataset.ReadPosts(c.cfg.ArtifactPath(config.CleanedDataset))
	if err != nil {
		return err
	}

	labeled := c.Label(posts)

	outPath := c.cfg.ArtifactPath(config.UpdatedDataset)
	if err := dataset.WritePosts(outPath, labeled); err != nil {
		return err
	}
	c.logger.Info("labeled dataset written", "path", outPath, "records", len(labeled))

	rows := SummaryCounts(labeled)
	if err := c.writeSummaryTable(rows); err != nil {
		return err
	}

	return c.writeChart(rows)
}

// Label computes sentiment and risk for every post. No record is dropped or
// reordered.
func (c *Classifier) Label(posts []domain.Post) []domain.Post {
	docs := make([]string, len(posts))
	for i := range posts {
		docs[i] = posts[i].Content
	}
	vec := Fit(docs, c.cfg.VocabularySize)
	scorer := NewRiskScorer(vec, c.wl.CrisisPhrases, c.cfg.RiskTermCount, c.cfg.RiskThreshold, c.logger)
	c.logger.Debug("risk scorer fitted",
		"vocabulary", len(vec.Vocabulary()),
		"high_risk_terms", len(scorer.HighRiskTerms()))

	labeled := make([]domain.Post, len(posts))
	for i, p := range posts {
		p.Sentiment = ScoreSentiment(p.Content)
		p.RiskLevel = scorer.Level(i, p.Content)
		c.metrics.PostsClassified.WithLabelValues(p.Sentiment, p.RiskLevel).Inc()
		labeled[i] = p
	}
	return labeled
}

func (c *Classifier) writeSummaryTable(rows []SummaryRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{row.Sentiment, row.RiskLevel, strconv.Itoa(row.Count)})
	}

	path := c.cfg.ArtifactPath(config.SummaryTable)
	if err := dataset.WriteCSV(path, []string{"sentiment", "risk_level", "count"}, records); err != nil {
		return err
	}
	c.logger.Info("summary table written", "path", path, "buckets", len(rows))
	return nil
}

func (c *Classifier) writeChart(rows []SummaryRow) error {
	var buf bytes.Buffer
	if err := RenderDistributionChart(&buf, rows); err != nil {
		if errors.Is(err, ErrNoChartData) {
			c.logger.Warn("no posts to chart, skipping distribution chart")
			return nil
		}
		return fmt.Errorf("distribution chart: %w", err)
	}

	path := c.cfg.ArtifactPath(config.DistributionChart)
	if err := dataset.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return err
	}
	c.logger.Info("distribution chart written", "path", path, "bytes", buf.Len())
	return nil
}
