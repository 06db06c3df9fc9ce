package faq

import (
	"fmt"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// MatchThreshold is the rating a candidate must strictly exceed to be
// treated as a confident match.
const MatchThreshold = 0.6

// Similarity metric names accepted by NewScorer.
const (
	MetricDice        = "dice"
	MetricLevenshtein = "levenshtein"
	MetricJaroWinkler = "jaro-winkler"
)

// Scorer rates how alike two strings are on a [0,1] scale.
type Scorer interface {
	Score(a, b string) float64
	BestMatch(query string, candidates []string) BestMatch
}

// NgramScorer compares canonicalized text with a strutil metric. It holds no
// mutable state and is safe for concurrent use.
type NgramScorer struct {
	metric strutil.StringMetric
}

// NewScorer builds a scorer for the named metric; an empty name selects the
// bigram Sorensen-Dice coefficient.
func NewScorer(name string) (*NgramScorer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", MetricDice:
		dice := metrics.NewSorensenDice()
		dice.CaseSensitive = false
		dice.NgramSize = 2
		return &NgramScorer{metric: dice}, nil
	case MetricLevenshtein:
		lev := metrics.NewLevenshtein()
		lev.CaseSensitive = false
		return &NgramScorer{metric: lev}, nil
	case MetricJaroWinkler:
		jw := metrics.NewJaroWinkler()
		jw.CaseSensitive = false
		return &NgramScorer{metric: jw}, nil
	default:
		return nil, fmt.Errorf("unknown similarity metric %q", name)
	}
}

// Score implements Scorer.
func (s *NgramScorer) Score(a, b string) float64 {
	ca, cb := canonicalText(a), canonicalText(b)
	if ca == "" || cb == "" {
		return 0
	}
	if ca == cb {
		return 1
	}
	return clampRating(strutil.Similarity(ca, cb, s.metric))
}

// BestMatch implements Scorer.
func (s *NgramScorer) BestMatch(query string, candidates []string) BestMatch {
	return bestMatch(s, query, candidates)
}

// bestMatch rates every candidate in order. Ties keep the lowest index.
func bestMatch(s Scorer, query string, candidates []string) BestMatch {
	result := BestMatch{BestIndex: -1, Ratings: make([]MatchCandidate, len(candidates))}
	for i, candidate := range candidates {
		rating := s.Score(query, candidate)
		result.Ratings[i] = MatchCandidate{Target: candidate, Rating: rating}
		if result.BestIndex < 0 || rating > result.BestRating {
			result.BestIndex = i
			result.BestRating = rating
		}
	}
	return result
}

func clampRating(v float64) float64 {
	switch {
	case v != v, v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

var _ Scorer = (*NgramScorer)(nil)
