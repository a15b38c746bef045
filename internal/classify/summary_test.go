package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/crisis-data-etl/internal/domain"
)

func labeledPost(sentiment, risk string) domain.Post {
	return domain.Post{
		Subreddit: "r/mentalhealth",
		PostID:    "t3_x",
		Content:   "content",
		Sentiment: sentiment,
		RiskLevel: risk,
	}
}

func TestSummaryCounts(t *testing.T) {
	posts := []domain.Post{
		labeledPost(domain.SentimentNegative, domain.RiskHigh),
		labeledPost(domain.SentimentNegative, domain.RiskMedium),
		labeledPost(domain.SentimentPositive, domain.RiskLow),
		labeledPost(domain.SentimentNegative, domain.RiskHigh),
		labeledPost(domain.SentimentNegative, domain.RiskHigh),
		labeledPost(domain.SentimentNegative, domain.RiskMedium),
		labeledPost(domain.SentimentNeutral, domain.RiskLow),
	}

	rows := SummaryCounts(posts)

	assert.Equal(t, []SummaryRow{
		{Sentiment: domain.SentimentNegative, RiskLevel: domain.RiskHigh, Count: 3},
		{Sentiment: domain.SentimentNegative, RiskLevel: domain.RiskMedium, Count: 2},
		{Sentiment: domain.SentimentNeutral, RiskLevel: domain.RiskLow, Count: 1},
		{Sentiment: domain.SentimentPositive, RiskLevel: domain.RiskLow, Count: 1},
	}, rows)
}

func TestSummaryCounts_Empty(t *testing.T) {
	assert.Empty(t, SummaryCounts(nil))
}
