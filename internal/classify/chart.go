package classify

import (
	"bytes"
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/couchcryptid/crisis-data-etl/internal/domain"
)

// ErrNoChartData is returned when every (sentiment, risk level) bucket is empty.
var ErrNoChartData = errors.New("no data to chart")

var riskOrder = []string{domain.RiskLow, domain.RiskMedium, domain.RiskHigh}

var sentimentColors = []struct {
	label string
	color chart.Style
}{
	{domain.SentimentPositive, chart.Style{FillColor: chart.ColorGreen}},
	{domain.SentimentNegative, chart.Style{FillColor: chart.ColorRed}},
	{domain.SentimentNeutral, chart.Style{FillColor: chart.ColorLightGray}},
}

// RenderDistributionChart draws one stacked bar per risk level, segmented by
// sentiment, and writes the result as JPEG. Risk levels with no posts are
// omitted; segment labels carry the absolute counts.
func RenderDistributionChart(w io.Writer, rows []SummaryRow) error {
	counts := make(map[string]map[string]int)
	for _, row := range rows {
		if counts[row.RiskLevel] == nil {
			counts[row.RiskLevel] = make(map[string]int)
		}
		counts[row.RiskLevel][row.Sentiment] += row.Count
	}

	var bars []chart.StackedBar
	for _, risk := range riskOrder {
		bySentiment := counts[risk]
		var total int
		for _, n := range bySentiment {
			total += n
		}
		if total == 0 {
			continue
		}

		bar := chart.StackedBar{Name: risk, Width: 160}
		for _, sc := range sentimentColors {
			n := bySentiment[sc.label]
			if n == 0 {
				continue
			}
			bar.Values = append(bar.Values, chart.Value{
				Label: fmt.Sprintf("%s (%d)", sc.label, n),
				Value: float64(n),
				Style: sc.color,
			})
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return ErrNoChartData
	}

	sbc := chart.StackedBarChart{
		Title:      "Distribution of Posts by Sentiment & Risk Level",
		Width:      810,
		Height:     500,
		BarSpacing: 80,
		Bars:       bars,
	}

	var buf bytes.Buffer
	if err := sbc.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return fmt.Errorf("decode rendered chart: %w", err)
	}
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: 90}); err != nil {
		return fmt.Errorf("encode chart jpeg: %w", err)
	}
	return nil
}
