package locate

import (
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"

	"github.com/couchcryptid/crisis-data-etl/internal/config"
	"github.com/couchcryptid/crisis-data-etl/internal/observability"
)

// Extractor pulls place names out of post content. Named entities labelled as
// geopolitical are taken first, then watchlist abbreviations are expanded
// token-wise, then canonical place names spelled out in the text are matched
// directly. The direct match matters because collected content is casefolded,
// which entity recognition handles poorly.
type Extractor struct {
	abbreviations map[string]string
	canonical     []string
	unwanted      map[string]struct{}
	metrics       *observability.Metrics
	logger        *slog.Logger
}

// NewExtractor builds an extractor from the watchlist gazetteer.
func NewExtractor(wl *config.Watchlist, metrics *observability.Metrics, logger *slog.Logger) *Extractor {
	e := &Extractor{
		abbreviations: make(map[string]string, len(wl.Abbreviations)),
		unwanted:      make(map[string]struct{}, len(wl.UnwantedWords)),
		metrics:       metrics,
		logger:        logger,
	}

	names := make(map[string]struct{})
	for abbr, full := range wl.Abbreviations {
		e.abbreviations[strings.ToLower(abbr)] = full
		names[full] = struct{}{}
	}
	for full := range names {
		e.canonical = append(e.canonical, full)
	}
	sort.Strings(e.canonical)

	for _, w := range wl.UnwantedWords {
		e.unwanted[strings.ToLower(w)] = struct{}{}
	}
	return e
}

// Places returns the distinct place names found in content, in first-seen
// order with unwanted words removed.
func (e *Extractor) Places(content string) []string {
	var places []string
	seen := make(map[string]struct{})
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		key := strings.ToLower(name)
		if _, ok := e.unwanted[key]; ok {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		places = append(places, name)
		e.metrics.PlacesExtracted.Inc()
	}

	doc, err := prose.NewDocument(content)
	if err != nil {
		e.logger.Warn("entity recognition failed", "error", err)
	} else {
		for _, ent := range doc.Entities() {
			if ent.Label == "GPE" {
				add(ent.Text)
			}
		}
	}

	for _, tok := range strings.Fields(content) {
		if full, ok := e.abbreviations[normalizeForMatch(tok)]; ok {
			add(full)
		}
	}

	padded := " " + normalizeForMatch(content) + " "
	for _, full := range e.canonical {
		if strings.Contains(padded, " "+normalizeForMatch(full)+" ") {
			add(full)
		}
	}

	return places
}

// normalizeForMatch lowercases s, removes every rune that is not a letter,
// digit, or space, and collapses runs of whitespace. "Washington, D.C." and
// "washington dc" normalize to the same string.
func normalizeForMatch(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
