package services

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Similarity scores how alike a query and a candidate string are on a
// 0-100 scale. The ranking engine only depends on this interface, so the
// underlying algorithm can be swapped without touching the scoring logic.
type Similarity interface {
	// Ratio is tolerant of word reordering ("you shape of" vs "shape of you")
	Ratio(query, candidate string) int

	// PartialRatio scores the best-matching substring window, used for
	// artist-field checks where the candidate embeds the queried name
	PartialRatio(query, candidate string) int
}

// fuzzySimilarity implements Similarity with fuzzywuzzy-style ratios
type fuzzySimilarity struct{}

// NewSimilarity returns the default token-based similarity scorer
func NewSimilarity() Similarity {
	return fuzzySimilarity{}
}

func (fuzzySimilarity) Ratio(query, candidate string) int {
	return fuzzy.TokenSortRatio(query, candidate)
}

func (fuzzySimilarity) PartialRatio(query, candidate string) int {
	return fuzzy.PartialRatio(query, candidate)
}
