package salary

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// DefaultMaxFeatures caps the vocabulary size.
const DefaultMaxFeatures = 500

// tokens are runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`)

// Vectorizer is a fitted TF-IDF transform. Vocabulary maps a term to its
// column; IDF is indexed by column.
type Vectorizer struct {
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	MaxFeatures int            `json:"max_features"`
}

func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// FitVectorizer learns the vocabulary and idf weights from docs. The vocabulary
// keeps the maxFeatures most frequent terms across the corpus, ties broken
// alphabetically, and numbers columns in term order.
func FitVectorizer(docs []string, maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}

	counts := make(map[string]int)
	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, tok := range tokenize(doc) {
			counts[tok]++
			if !seen[tok] {
				seen[tok] = true
				docFreq[tok]++
			}
		}
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v := &Vectorizer{
		Vocabulary:  make(map[string]int, len(terms)),
		IDF:         make([]float64, len(terms)),
		MaxFeatures: maxFeatures,
	}
	for i, term := range terms {
		v.Vocabulary[term] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	return v
}

// Transform returns the L2-normalized tf-idf row for text. Terms outside the
// vocabulary are ignored; a text with none of them maps to the zero vector.
func (v *Vectorizer) Transform(text string) []float64 {
	row := make([]float64, len(v.IDF))
	for _, tok := range tokenize(text) {
		if idx, ok := v.Vocabulary[tok]; ok {
			row[idx]++
		}
	}

	var norm float64
	for i := range row {
		row[i] *= v.IDF[i]
		norm += row[i] * row[i]
	}
	if norm == 0 {
		return row
	}
	norm = math.Sqrt(norm)
	for i := range row {
		row[i] /= norm
	}
	return row
}
