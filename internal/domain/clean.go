package domain

import (
	"regexp"
	"strings"
)

// markupRe matches every run of runes that are not letters, digits, or whitespace.
var markupRe = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

// CleanContent normalizes post content for classification: lowercases, strips
// markup, emoji, and punctuation, removes English stopwords, and collapses
// whitespace. The transform is idempotent, so cleaning already-cleaned
// content returns it unchanged.
func CleanContent(text string) string {
	text = strings.ToLower(text)
	text = markupRe.ReplaceAllString(text, "")

	words := strings.Fields(text)
	kept := words[:0]
	for _, w := range words {
		if IsStopword(w) {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}
