package classify

import (
	"sort"

	"github.com/couchcryptid/crisis-data-etl/internal/domain"
)

// SummaryRow is one (sentiment, risk level) bucket with its post count.
type SummaryRow struct {
	Sentiment string
	RiskLevel string
	Count     int
}

// SummaryCounts aggregates posts into (sentiment, risk level) buckets,
// ordered by count descending, then sentiment, then risk level.
func SummaryCounts(posts []domain.Post) []SummaryRow {
	type bucket struct {
		sentiment string
		riskLevel string
	}
	counts := make(map[bucket]int)
	for _, p := range posts {
		counts[bucket{p.Sentiment, p.RiskLevel}]++
	}

	rows := make([]SummaryRow, 0, len(counts))
	for b, n := range counts {
		rows = append(rows, SummaryRow{Sentiment: b.sentiment, RiskLevel: b.riskLevel, Count: n})
	}
	sort.Slice(rows, func(a, b int) bool {
		if rows[a].Count != rows[b].Count {
			return rows[a].Count > rows[b].Count
		}
		if rows[a].Sentiment != rows[b].Sentiment {
			return rows[a].Sentiment < rows[b].Sentiment
		}
		return rows[a].RiskLevel < rows[b].RiskLevel
	})
	return rows
}
