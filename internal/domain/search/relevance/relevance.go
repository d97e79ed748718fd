// Package relevance scores blogs against a free-text query with a fixed additive
// point system over title, summary and body.
//
// Rules, applied to case-folded text:
//
//	title == phrase                     +100
//	title contains phrase (otherwise)   +50 + (100 - runeOffset) * 0.5
//	each query word found in title      +30
//	summary contains phrase             +20
//	each query word found in summary    +10
//	phrase occurrences in body          +10 each, max 50
//	word occurrences in body (summed)   +2 each, max 30
//
// The total is rounded to two decimals with round-half-to-even.
package relevance

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	exactTitlePoints    = 100.0
	titlePhrasePoints   = 50.0
	positionOrigin      = 100
	positionWeight      = 0.5
	titleWordPoints     = 30.0
	summaryPhrasePoints = 20.0
	summaryWordPoints   = 10.0
	bodyPhrasePoints    = 10
	bodyPhraseCap       = 50
	bodyWordPoints      = 2
	bodyWordCap         = 30
)

// Fold lower-cases s rune by rune with the Unicode simple lowercase mapping.
// The mapping ignores locale and context and never changes the rune count,
// so title offsets survive folding: İ becomes i and a word-final Σ becomes σ.
func Fold(s string) string {
	return strings.Map(unicode.ToLower, s)
}

// Query is a compiled search phrase.
type Query struct {
	phrase string
	words  []string
}

// Compile trims and folds the raw search text and splits it into words.
func Compile(search string) *Query {
	phrase := Fold(strings.TrimSpace(search))
	return &Query{phrase: phrase, words: strings.Fields(phrase)}
}

// Empty reports whether the query has no search text.
func (q *Query) Empty() bool { return q.phrase == "" }

// Phrase returns the folded search phrase.
func (q *Query) Phrase() string { return q.phrase }

// Words returns the folded search words.
func (q *Query) Words() []string { return q.words }

// Match applies the containment pre-filter and, when it passes, scores the blog.
// ok is false when none of title, summary or body contains the phrase.
func (q *Query) Match(title string, summary *string, body string) (score float64, ok bool) {
	t, s, b := q.fold(title, summary, body)
	if !strings.Contains(t, q.phrase) && !strings.Contains(s, q.phrase) && !strings.Contains(b, q.phrase) {
		return 0, false
	}
	return q.score(t, s, summary != nil, b), true
}

// Score returns the relevance of a blog without applying the pre-filter.
// An empty query scores zero.
func (q *Query) Score(title string, summary *string, body string) float64 {
	t, s, b := q.fold(title, summary, body)
	return q.score(t, s, summary != nil, b)
}

// Score is a convenience wrapper compiling search and scoring a single blog.
func Score(title string, summary *string, body, search string) float64 {
	return Compile(search).Score(title, summary, body)
}

func (q *Query) fold(title string, summary *string, body string) (t, s, b string) {
	t = Fold(title)
	if summary != nil {
		s = Fold(*summary)
	}
	b = Fold(body)
	return t, s, b
}

func (q *Query) score(title, summary string, hasSummary bool, body string) float64 {
	if q.phrase == "" {
		return 0
	}

	var score float64

	if title == q.phrase {
		score += exactTitlePoints
	} else if idx := strings.Index(title, q.phrase); idx >= 0 {
		pos := utf8.RuneCountInString(title[:idx])
		score += titlePhrasePoints + float64(positionOrigin-pos)*positionWeight
	}

	for _, w := range q.words {
		if strings.Contains(title, w) {
			score += titleWordPoints
		}
	}

	if hasSummary && summary != "" && strings.Contains(summary, q.phrase) {
		score += summaryPhrasePoints
	}
	for _, w := range q.words {
		if strings.Contains(summary, w) {
			score += summaryWordPoints
		}
	}

	score += float64(min(countOccurrences(body, q.phrase)*bodyPhrasePoints, bodyPhraseCap))

	wordHits := 0
	for _, w := range q.words {
		wordHits += countOccurrences(body, w)
	}
	score += float64(min(wordHits*bodyWordPoints, bodyWordCap))

	return Round(score)
}

// countOccurrences counts non-overlapping matches scanning left to right.
func countOccurrences(text, pattern string) int {
	if pattern == "" {
		return 0
	}
	return strings.Count(text, pattern)
}

// Round rounds to two decimals, half to even.
func Round(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
