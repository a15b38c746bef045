package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the wire format for post timestamps: UTC, second precision.
const TimeLayout = "2006-01-02 15:04:05"

// Sentiment labels assigned by the classification stage.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Risk levels assigned by the classification stage.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// ValidSentiment reports whether s is one of the three sentiment labels.
func ValidSentiment(s string) bool {
	return s == SentimentPositive || s == SentimentNegative || s == SentimentNeutral
}

// ValidRiskLevel reports whether s is one of the three risk levels.
func ValidRiskLevel(s string) bool {
	return s == RiskLow || s == RiskMedium || s == RiskHigh
}

// Timestamp wraps time.Time with the dataset encoding: "2006-01-02 15:04:05"
// in UTC, no zone suffix.
type Timestamp struct {
	time.Time
}

// NewTimestamp converts t to UTC and truncates it to second precision.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.UTC().Truncate(time.Second)}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(TimeLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := time.ParseInLocation(TimeLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// Geo is a WGS-84 coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Post is one collected social-media post plus the annotations the later
// stages accumulate. Collector fields are always present; sentiment and risk
// appear after classification, locations and coordinates after location
// extraction. Coordinates[i] is the geocode of Locations[i].
type Post struct {
	Subreddit string    `json:"subreddit"`
	PostID    string    `json:"post_id"`
	Timestamp Timestamp `json:"timestamp"`
	Content   string    `json:"content"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
	Shares    int       `json:"shares"`

	Sentiment string `json:"sentiment,omitempty"`
	RiskLevel string `json:"risk_level,omitempty"`

	Locations   []string `json:"locations,omitempty"`
	Coordinates []Geo    `json:"coordinates,omitempty"`
}
