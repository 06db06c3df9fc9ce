package faq

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewScorerRejectsUnknownMetric(t *testing.T) {
	_, err := NewScorer("cosine")
	require.Error(t, err)

	for _, name := range []string{"", MetricDice, MetricLevenshtein, "Jaro-Winkler"} {
		scorer, err := NewScorer(name)
		require.NoError(t, err, name)
		require.NotNil(t, scorer)
	}
}

func TestScorerBounds(t *testing.T) {
	for _, name := range []string{MetricDice, MetricLevenshtein, MetricJaroWinkler} {
		scorer, err := NewScorer(name)
		require.NoError(t, err)

		require.Equal(t, 1.0, scorer.Score("Hola", "hola"), name)
		require.Equal(t, 1.0, scorer.Score("How do I reset my password?", "how do i reset my password"), name)
		require.Equal(t, 0.0, scorer.Score("", "hola"), name)
		require.Equal(t, 0.0, scorer.Score("hola", "   "), name)

		rating := scorer.Score("opening hours", "what are your opening hours")
		require.GreaterOrEqual(t, rating, 0.0, name)
		require.LessOrEqual(t, rating, 1.0, name)
	}
}

func TestDiceScorerProperties(t *testing.T) {
	scorer, err := NewScorer(MetricDice)
	require.NoError(t, err)

	require.Equal(t, 0.0, scorer.Score("abc", "xyz"))
	require.InDelta(t, scorer.Score("reset password", "reset my password"), scorer.Score("reset my password", "reset password"), 1e-9)
	require.Greater(t, scorer.Score("reset password", "reset my password"), scorer.Score("reset password", "opening hours"))
}

func TestBestMatchAlignsRatings(t *testing.T) {
	scorer, err := NewScorer(MetricDice)
	require.NoError(t, err)

	candidates := []string{"opening hours", "Hola", "hola"}
	match := scorer.BestMatch("HOLA", candidates)

	require.Equal(t, 1, match.BestIndex, "ties keep the first candidate")
	require.Equal(t, 1.0, match.BestRating)
	require.Len(t, match.Ratings, len(candidates))
	for i, candidate := range candidates {
		require.Equal(t, candidate, match.Ratings[i].Target)
	}
}

func TestBestMatchEmptyCandidates(t *testing.T) {
	scorer, err := NewScorer("")
	require.NoError(t, err)

	match := scorer.BestMatch("hola", nil)
	require.Equal(t, -1, match.BestIndex)
	require.Zero(t, match.BestRating)
	require.Empty(t, match.Ratings)
}

func TestScorerConcurrentUse(t *testing.T) {
	scorer, err := NewScorer(MetricDice)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]float64, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = scorer.Score("where is my order", "where is my order?")
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		require.Equal(t, 1.0, r)
	}
}
