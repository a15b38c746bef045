package classify

import (
	"log/slog"
	"strings"

	"github.com/couchcryptid/crisis-data-etl/internal/domain"
)

// RiskScorer assigns risk levels from crisis-phrase matches and corpus
// TF-IDF weight. Levels are evaluated in order: high when a crisis phrase
// occurs, medium when the document's summed weight over the high-risk term
// set exceeds the threshold, low otherwise.
type RiskScorer struct {
	phrases   []string
	terms     []string
	threshold float64
	vec       *Vectorizer
}

// NewRiskScorer builds a scorer over an already-fitted vectorizer. Crisis
// phrases pass through the same cleaning transform as post content so they
// match the text domain the classifier sees; phrases that normalize to
// nothing are dropped.
func NewRiskScorer(vec *Vectorizer, phrases []string, termCount int, threshold float64, logger *slog.Logger) *RiskScorer {
	normalized := make([]string, 0, len(phrases))
	for _, phrase := range phrases {
		cleaned := domain.CleanContent(phrase)
		if cleaned == "" {
			logger.Warn("crisis phrase is all stopwords, skipping", "phrase", phrase)
			continue
		}
		normalized = append(normalized, cleaned)
	}

	return &RiskScorer{
		phrases:   normalized,
		terms:     vec.TopTerms(termCount),
		threshold: threshold,
		vec:       vec,
	}
}

// HighRiskTerms returns the term set used for the medium tier.
func (r *RiskScorer) HighRiskTerms() []string {
	return r.terms
}

// Level classifies the document at index doc with cleaned content.
func (r *RiskScorer) Level(doc int, content string) string {
	if r.matchesPhrase(content) {
		return domain.RiskHigh
	}
	if r.vec.DocScore(doc, r.terms) > r.threshold {
		return domain.RiskMedium
	}
	return domain.RiskLow
}

// matchesPhrase reports whether any crisis phrase occurs in content on word
// boundaries. Content is space-normalized by cleaning, so padding both sides
// with spaces turns substring search into whole-word search.
func (r *RiskScorer) matchesPhrase(content string) bool {
	padded := " " + content + " "
	for _, phrase := range r.phrases {
		if strings.Contains(padded, " "+phrase+" ") {
			return true
		}
	}
	return false
}
