// Package skills matches a curated list of skill phrases against free text.
// It is a local enrichment for prediction responses and makes no external call.
package skills

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultLimit is the number of matches returned when limit is not positive.
const DefaultLimit = 10

// Keywords is the curated phrase list, lowercase. Match results follow this order.
var Keywords = []string{
	"python",
	"sql",
	"machine learning",
	"deep learning",
	"data analysis",
	"statistics",
	"excel",
	"tableau",
	"power bi",
	"spark",
	"hadoop",
	"aws",
	"azure",
	"gcp",
	"docker",
	"kubernetes",
	"tensorflow",
	"pytorch",
	"scikit-learn",
	"pandas",
	"numpy",
	"java",
	"scala",
	"javascript",
	"typescript",
	"react",
	"node.js",
	"c++",
	"c#",
	"golang",
	"rust",
	"nlp",
	"computer vision",
	"etl",
	"airflow",
	"kafka",
	"mongodb",
	"postgresql",
	"nosql",
	"git",
	"linux",
	"fastapi",
	"django",
	"flask",
	"rest api",
	"ci/cd",
	"agile",
	"scrum",
}

// MatchKeywords returns the curated phrases found in text as whole words,
// case-insensitively, in list order and truncated to limit.
func MatchKeywords(text string, limit int) []string {
	return MatchFrom(Keywords, text, limit)
}

// MatchFrom is MatchKeywords over a caller-supplied list of lowercase phrases.
func MatchFrom(phrases []string, text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultLimit
	}
	lower := strings.ToLower(text)

	matches := make([]string, 0, limit)
	for _, phrase := range phrases {
		if len(matches) == limit {
			break
		}
		if phrase != "" && containsWord(lower, phrase) {
			matches = append(matches, phrase)
		}
	}
	return matches
}

// containsWord reports whether phrase occurs in text with no letter or digit
// immediately on either side.
func containsWord(text, phrase string) bool {
	for start := 0; start <= len(text)-len(phrase); {
		i := strings.Index(text[start:], phrase)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(phrase)
		if boundaryBefore(text, i) && boundaryAfter(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		start = i + size
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
