package faq

import (
	"context"
	"errors"
)

// ErrDuplicateQuestion is returned when a question already exists ignoring case.
var ErrDuplicateQuestion = errors.New("question already exists")

// QAStore owns the QAPair collection.
type QAStore interface {
	ListPairs(ctx context.Context) ([]QAPair, error)
	InsertPair(ctx context.Context, question, answer string) (QAPair, error)
	FindByQuestion(ctx context.Context, question string) (QAPair, bool, error)
}

// AssociationStore owns the QuestionAssociation collection. UpsertAssociation
// must create the pair with count 1 or increment it atomically.
type AssociationStore interface {
	ListAssociations(ctx context.Context) ([]QuestionAssociation, error)
	UpsertAssociation(ctx context.Context, original, associated string) (QuestionAssociation, error)
}

// Repository is a storage engine holding both collections.
type Repository interface {
	QAStore
	AssociationStore
	Reset(ctx context.Context) error
}
