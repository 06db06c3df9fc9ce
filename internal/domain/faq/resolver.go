package faq

import (
	"context"
	"sort"
	"strings"

	apperrors "github.com/yanqian/faq-chatbot/pkg/errors"
)

const (
	candidatePoolSize = 5
	maxSuggestions    = 3
)

// Resolver maps a chat message to a stored answer or a list of suggestions.
// It only reads from its stores.
type Resolver struct {
	pairs         QAStore
	associations  AssociationStore
	scorer        Scorer
	clarification string
}

// NewResolver constructs a Resolver. An empty clarification falls back to
// DefaultClarification.
func NewResolver(pairs QAStore, associations AssociationStore, scorer Scorer, clarification string) *Resolver {
	if strings.TrimSpace(clarification) == "" {
		clarification = DefaultClarification
	}
	return &Resolver{
		pairs:         pairs,
		associations:  associations,
		scorer:        scorer,
		clarification: clarification,
	}
}

// Resolve answers message directly when a stored question, or a learned
// phrasing, rates above MatchThreshold. Otherwise it returns the top
// suggestions together with every known association.
func (r *Resolver) Resolve(ctx context.Context, message string) (ResolutionResult, error) {
	if strings.TrimSpace(message) == "" {
		return ResolutionResult{}, apperrors.Wrap(apperrors.CodeInvalidInput, "message cannot be empty", nil)
	}

	pairs, err := r.pairs.ListPairs(ctx)
	if err != nil {
		return ResolutionResult{}, apperrors.Wrap(apperrors.CodeStorageUnavailable, "failed to load qa pairs", err)
	}

	questions := make([]string, len(pairs))
	for i, pair := range pairs {
		questions[i] = pair.Question
	}
	direct := r.scorer.BestMatch(message, questions)
	if direct.BestIndex >= 0 && direct.BestRating > MatchThreshold {
		return ResolutionResult{
			Response:   pairs[direct.BestIndex].Answer,
			Understood: true,
			Outcome:    OutcomeDirect,
		}, nil
	}

	associations, err := r.associations.ListAssociations(ctx)
	if err != nil {
		return ResolutionResult{}, apperrors.Wrap(apperrors.CodeStorageUnavailable, "failed to load question associations", err)
	}

	if len(associations) > 0 {
		originals := make([]string, len(associations))
		for i, assoc := range associations {
			originals[i] = assoc.OriginalQuestion
		}
		learned := r.scorer.BestMatch(message, originals)
		if learned.BestIndex >= 0 && learned.BestRating > MatchThreshold {
			target := associations[learned.BestIndex].AssociatedQuestion
			if pair, ok := findPair(pairs, target); ok {
				return ResolutionResult{
					Response:   pair.Answer,
					Understood: true,
					Outcome:    OutcomeAssociation,
				}, nil
			}
		}
	}

	if associations == nil {
		associations = []QuestionAssociation{}
	}
	return ResolutionResult{
		Response:            r.clarification,
		Understood:          false,
		PossibleQuestions:   suggest(direct.Ratings),
		AssociatedQuestions: associations,
		Outcome:             OutcomeDisambiguation,
	}, nil
}

// suggest orders ratings best first, drops repeated questions, and keeps the
// top maxSuggestions out of a pool of candidatePoolSize.
func suggest(ratings []MatchCandidate) []SuggestedQuestion {
	ordered := make([]MatchCandidate, len(ratings))
	copy(ordered, ratings)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Rating > ordered[j].Rating
	})

	seen := make(map[string]struct{}, len(ordered))
	pool := make([]SuggestedQuestion, 0, candidatePoolSize)
	for _, candidate := range ordered {
		if len(pool) == candidatePoolSize {
			break
		}
		if _, dup := seen[candidate.Target]; dup {
			continue
		}
		seen[candidate.Target] = struct{}{}
		pool = append(pool, SuggestedQuestion{Question: candidate.Target, Rating: candidate.Rating})
	}
	if len(pool) > maxSuggestions {
		pool = pool[:maxSuggestions]
	}
	return pool
}

func findPair(pairs []QAPair, question string) (QAPair, bool) {
	for _, pair := range pairs {
		if pair.Question == question {
			return pair, true
		}
	}
	return QAPair{}, false
}
