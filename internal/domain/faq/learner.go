package faq

import (
	"context"
	"strings"

	apperrors "github.com/yanqian/faq-chatbot/pkg/errors"
)

// Learner records which stored question a user meant by an unmatched message.
type Learner struct {
	pairs        QAStore
	associations AssociationStore
}

// NewLearner constructs a Learner.
func NewLearner(pairs QAStore, associations AssociationStore) *Learner {
	return &Learner{pairs: pairs, associations: associations}
}

// RecordSelection answers selectedQuestion and remembers that
// originalMessage refers to it. selectedQuestion must match a stored
// question exactly, case included.
func (l *Learner) RecordSelection(ctx context.Context, originalMessage, selectedQuestion string) (SelectionResult, error) {
	original := strings.TrimSpace(originalMessage)
	if original == "" {
		return SelectionResult{}, apperrors.Wrap(apperrors.CodeInvalidInput, "originalMessage cannot be empty", nil)
	}
	if strings.TrimSpace(selectedQuestion) == "" {
		return SelectionResult{}, apperrors.Wrap(apperrors.CodeInvalidInput, "selectedQuestion cannot be empty", nil)
	}

	pair, found, err := l.pairs.FindByQuestion(ctx, selectedQuestion)
	if err != nil {
		return SelectionResult{}, apperrors.Wrap(apperrors.CodeStorageUnavailable, "failed to look up question", err)
	}
	if !found {
		return SelectionResult{}, apperrors.Wrap(apperrors.CodeQuestionNotFound, "selected question not found", nil)
	}

	if _, err := l.associations.UpsertAssociation(ctx, original, pair.Question); err != nil {
		return SelectionResult{}, apperrors.Wrap(apperrors.CodeStorageUnavailable, "failed to save question association", err)
	}

	return SelectionResult{Response: pair.Answer, Understood: true}, nil
}

// AddAssociation stores an association without checking that the associated
// question exists.
func (l *Learner) AddAssociation(ctx context.Context, originalQuestion, associatedQuestion string) (QuestionAssociation, error) {
	original := strings.TrimSpace(originalQuestion)
	associated := strings.TrimSpace(associatedQuestion)
	if original == "" || associated == "" {
		return QuestionAssociation{}, apperrors.Wrap(apperrors.CodeInvalidInput, "originalQuestion and associatedQuestion are required", nil)
	}
	assoc, err := l.associations.UpsertAssociation(ctx, original, associated)
	if err != nil {
		return QuestionAssociation{}, apperrors.Wrap(apperrors.CodeStorageUnavailable, "failed to save question association", err)
	}
	return assoc, nil
}
