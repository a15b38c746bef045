package classify

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/couchcryptid/crisis-data-etl/internal/domain"
)

// tokenRe matches word tokens of at least two characters.
var tokenRe = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vectorizer holds smoothed, L2-normalized TF-IDF weights for a fitted
// corpus. The vocabulary keeps the most frequent terms up to the feature
// limit and is stored in alphabetical order; English stopwords are excluded
// during tokenization.
type Vectorizer struct {
	vocabulary []string
	index      map[string]int
	idf        []float64
	rows       []map[int]float64 // per-document sparse weight vectors
}

// Fit tokenizes the documents, selects the vocabulary, and computes the
// per-document TF-IDF weight vectors.
func Fit(docs []string, maxFeatures int) *Vectorizer {
	tokenized := make([][]string, len(docs))
	corpusCounts := make(map[string]int)
	docFreq := make(map[string]int)

	for i, doc := range docs {
		tokens := tokenize(doc)
		tokenized[i] = tokens
		seen := make(map[string]bool, len(tokens))
		for _, tok := range tokens {
			corpusCounts[tok]++
			if !seen[tok] {
				seen[tok] = true
				docFreq[tok]++
			}
		}
	}

	vocabulary := selectVocabulary(corpusCounts, maxFeatures)
	index := make(map[string]int, len(vocabulary))
	for i, term := range vocabulary {
		index[term] = i
	}

	// Smoothed inverse document frequency: log((1+n)/(1+df)) + 1.
	n := len(docs)
	idf := make([]float64, len(vocabulary))
	for i, term := range vocabulary {
		idf[i] = math.Log(float64(1+n)/float64(1+docFreq[term])) + 1
	}

	rows := make([]map[int]float64, len(docs))
	for i, tokens := range tokenized {
		row := make(map[int]float64)
		for _, tok := range tokens {
			if j, ok := index[tok]; ok {
				row[j]++
			}
		}
		var norm float64
		for j, tf := range row {
			w := tf * idf[j]
			row[j] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range row {
				row[j] /= norm
			}
		}
		rows[i] = row
	}

	return &Vectorizer{
		vocabulary: vocabulary,
		index:      index,
		idf:        idf,
		rows:       rows,
	}
}

// Vocabulary returns the fitted terms in alphabetical order.
func (v *Vectorizer) Vocabulary() []string {
	return v.vocabulary
}

// DocWeight returns the normalized TF-IDF weight of term in document doc.
func (v *Vectorizer) DocWeight(doc int, term string) float64 {
	j, ok := v.index[term]
	if !ok {
		return 0
	}
	return v.rows[doc][j]
}

// DocScore sums the document's weights over the given terms.
func (v *Vectorizer) DocScore(doc int, terms []string) float64 {
	row := v.rows[doc]
	var score float64
	for _, term := range terms {
		if j, ok := v.index[term]; ok {
			score += row[j]
		}
	}
	return score
}

// TopTerms returns the n vocabulary terms with the highest total TF-IDF
// weight across the corpus. Ties resolve alphabetically so the selection is
// deterministic.
func (v *Vectorizer) TopTerms(n int) []string {
	totals := make([]float64, len(v.vocabulary))
	for _, row := range v.rows {
		for j, w := range row {
			totals[j] += w
		}
	}

	order := make([]int, len(v.vocabulary))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if totals[order[a]] != totals[order[b]] {
			return totals[order[a]] > totals[order[b]]
		}
		return v.vocabulary[order[a]] < v.vocabulary[order[b]]
	})

	n = min(n, len(order))
	top := make([]string, n)
	for i := 0; i < n; i++ {
		top[i] = v.vocabulary[order[i]]
	}
	return top
}

// selectVocabulary keeps the maxFeatures most frequent terms, returned in
// alphabetical order. Frequency ties resolve alphabetically.
func selectVocabulary(counts map[string]int, maxFeatures int) []string {
	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	if maxFeatures > 0 && len(terms) > maxFeatures {
		sort.SliceStable(terms, func(a, b int) bool {
			return counts[terms[a]] > counts[terms[b]]
		})
		terms = terms[:maxFeatures]
		sort.Strings(terms)
	}
	return terms
}

func tokenize(doc string) []string {
	var tokens []string
	for _, tok := range tokenRe.FindAllString(strings.ToLower(doc), -1) {
		if domain.IsStopword(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}
