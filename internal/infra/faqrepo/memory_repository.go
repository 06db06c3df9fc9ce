package faqrepo

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/yanqian/faq-chatbot/internal/domain/faq"
	"github.com/yanqian/faq-chatbot/pkg/util"
)

type associationKey struct {
	original   string
	associated string
}

// MemoryRepository is an in-memory faq.Repository used for tests/dev.
type MemoryRepository struct {
	mu          sync.RWMutex
	nextPairID  int64
	nextAssocID int64
	now         func() time.Time

	pairs        []faq.QAPair
	byKey        map[string]int
	associations []faq.QuestionAssociation
	byPair       map[associationKey]int
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	r := &MemoryRepository{now: util.Clock(nil)}
	r.resetLocked()
	return r
}

// ListPairs implements faq.QAStore.
func (r *MemoryRepository) ListPairs(_ context.Context) ([]faq.QAPair, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]faq.QAPair(nil), r.pairs...), nil
}

// InsertPair implements faq.QAStore.
func (r *MemoryRepository) InsertPair(_ context.Context, question, answer string) (faq.QAPair, error) {
	key := questionKey(question)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byKey[key]; exists {
		return faq.QAPair{}, faq.ErrDuplicateQuestion
	}
	pair := faq.QAPair{
		ID:        r.nextPairID,
		Question:  question,
		Answer:    answer,
		CreatedAt: r.now(),
	}
	r.nextPairID++
	r.byKey[key] = len(r.pairs)
	r.pairs = append(r.pairs, pair)
	return pair, nil
}

// FindByQuestion implements faq.QAStore.
func (r *MemoryRepository) FindByQuestion(_ context.Context, question string) (faq.QAPair, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byKey[questionKey(question)]
	if !ok || r.pairs[idx].Question != question {
		return faq.QAPair{}, false, nil
	}
	return r.pairs[idx], true, nil
}

// ListAssociations implements faq.AssociationStore.
func (r *MemoryRepository) ListAssociations(_ context.Context) ([]faq.QuestionAssociation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]faq.QuestionAssociation(nil), r.associations...), nil
}

// UpsertAssociation implements faq.AssociationStore.
func (r *MemoryRepository) UpsertAssociation(_ context.Context, original, associated string) (faq.QuestionAssociation, error) {
	key := associationKey{original: original, associated: associated}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if idx, ok := r.byPair[key]; ok {
		r.associations[idx].Count++
		r.associations[idx].UpdatedAt = now
		return r.associations[idx], nil
	}
	assoc := faq.QuestionAssociation{
		ID:                 r.nextAssocID,
		OriginalQuestion:   original,
		AssociatedQuestion: associated,
		Count:              1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	r.nextAssocID++
	r.byPair[key] = len(r.associations)
	r.associations = append(r.associations, assoc)
	return assoc, nil
}

// Reset drops every pair and association.
func (r *MemoryRepository) Reset(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetLocked()
	return nil
}

func (r *MemoryRepository) resetLocked() {
	r.nextPairID = 1
	r.nextAssocID = 1
	r.pairs = nil
	r.byKey = make(map[string]int)
	r.associations = nil
	r.byPair = make(map[associationKey]int)
}

// questionKey is the uniqueness key shared by every backend.
func questionKey(question string) string {
	return strings.ToLower(question)
}

var _ faq.Repository = (*MemoryRepository)(nil)
