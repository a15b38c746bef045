package classify

import (
	"github.com/grassmudhorses/vader-go/lexicon"
	"github.com/grassmudhorses/vader-go/sentitext"

	"github.com/couchcryptid/crisis-data-etl/internal/domain"
)

// ScoreSentiment labels content by the sign of its VADER compound polarity:
// above zero is positive, below zero negative, exactly zero neutral.
func ScoreSentiment(content string) string {
	parsed := sentitext.Parse(content, lexicon.DefaultLexicon)
	score := sentitext.PolarityScore(parsed)

	switch {
	case score.Compound > 0:
		return domain.SentimentPositive
	case score.Compound < 0:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}
