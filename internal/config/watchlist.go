package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Watchlist defines what the collector fetches and how posts are scored:
// target subreddits, the keyword filter, crisis phrases for risk
// classification, and the place-extraction gazetteer.
type Watchlist struct {
	Subreddits    []string          `toml:"subreddits"`
	Keywords      []string          `toml:"keywords"`
	CrisisPhrases []string          `toml:"crisis_phrases"`
	Abbreviations map[string]string `toml:"abbreviations"`
	UnwantedWords []string          `toml:"unwanted_words"`
}

// DefaultWatchlist returns the built-in watchlist used when no TOML override
// is configured.
func DefaultWatchlist() *Watchlist {
	return &Watchlist{
		Subreddits: []string{"depression", "mentalhealth", "suicidewatch", "addiction"},
		Keywords: []string{
			"depressed", "depression", "suicidal", "suicide", "self-harm",
			"addiction", "relapse", "overwhelmed", "hopeless", "anxiety",
			"panic attack", "substance abuse", "mental breakdown", "therapy help",
		},
		CrisisPhrases: []string{
			"dont want to be here", "cant do this anymore", "dont want to live",
			"no reason to live", "ending it all", "want to die", "want to kill",
		},
		Abbreviations: map[string]string{
			"nyc": "New York City",
			"la":  "Los Angeles",
			"sf":  "San Francisco",
			"uk":  "United Kingdom",
			"usa": "United States",
			"us":  "United States",
			"uae": "United Arab Emirates",
			"tx":  "Texas",
			"ca":  "California",
			"dc":  "Washington, D.C.",
		},
		UnwantedWords: []string{
			"meth", "kinda", "example", "country", "place",
			"world", "earth", "everywhere", "phobia", "mcas",
		},
	}
}

// LoadWatchlist returns the default watchlist, with any list or table that is
// set in the TOML file at path replacing its default. An empty path means no
// override.
func LoadWatchlist(path string) (*Watchlist, error) {
	wl := DefaultWatchlist()
	if path == "" {
		return wl, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read watchlist file: %w", err)
	}

	var file Watchlist
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse watchlist file %s: %w", path, err)
	}

	if len(file.Subreddits) > 0 {
		wl.Subreddits = file.Subreddits
	}
	if len(file.Keywords) > 0 {
		wl.Keywords = file.Keywords
	}
	if len(file.CrisisPhrases) > 0 {
		wl.CrisisPhrases = file.CrisisPhrases
	}
	if len(file.Abbreviations) > 0 {
		// Abbreviation matching is case-insensitive, keyed on lowercase.
		wl.Abbreviations = make(map[string]string, len(file.Abbreviations))
		for abbr, full := range file.Abbreviations {
			wl.Abbreviations[strings.ToLower(abbr)] = full
		}
	}
	if len(file.UnwantedWords) > 0 {
		wl.UnwantedWords = file.UnwantedWords
	}
	return wl, nil
}
