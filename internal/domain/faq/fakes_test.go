package faq

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// fakeRepo is a minimal Repository with call tracing and failure injection.
type fakeRepo struct {
	mu           sync.Mutex
	pairs        []QAPair
	associations []QuestionAssociation
	calls        []string
	writes       int

	listPairsErr error
	listAssocErr error
	findErr      error
	upsertErr    error
	insertErr    error
}

func (f *fakeRepo) ListPairs(context.Context) ([]QAPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "ListPairs")
	if f.listPairsErr != nil {
		return nil, f.listPairsErr
	}
	return append([]QAPair(nil), f.pairs...), nil
}

func (f *fakeRepo) InsertPair(_ context.Context, question, answer string) (QAPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "InsertPair")
	if f.insertErr != nil {
		return QAPair{}, f.insertErr
	}
	for _, p := range f.pairs {
		if strings.EqualFold(p.Question, question) {
			return QAPair{}, ErrDuplicateQuestion
		}
	}
	f.writes++
	pair := QAPair{ID: int64(len(f.pairs) + 1), Question: question, Answer: answer}
	f.pairs = append(f.pairs, pair)
	return pair, nil
}

func (f *fakeRepo) FindByQuestion(_ context.Context, question string) (QAPair, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "FindByQuestion")
	if f.findErr != nil {
		return QAPair{}, false, f.findErr
	}
	for _, p := range f.pairs {
		if p.Question == question {
			return p, true, nil
		}
	}
	return QAPair{}, false, nil
}

func (f *fakeRepo) ListAssociations(context.Context) ([]QuestionAssociation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "ListAssociations")
	if f.listAssocErr != nil {
		return nil, f.listAssocErr
	}
	return append([]QuestionAssociation(nil), f.associations...), nil
}

func (f *fakeRepo) UpsertAssociation(_ context.Context, original, associated string) (QuestionAssociation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "UpsertAssociation")
	if f.upsertErr != nil {
		return QuestionAssociation{}, f.upsertErr
	}
	f.writes++
	for i, a := range f.associations {
		if a.OriginalQuestion == original && a.AssociatedQuestion == associated {
			f.associations[i].Count++
			return f.associations[i], nil
		}
	}
	assoc := QuestionAssociation{
		ID:                 int64(len(f.associations) + 1),
		OriginalQuestion:   original,
		AssociatedQuestion: associated,
		Count:              1,
	}
	f.associations = append(f.associations, assoc)
	return assoc, nil
}

func (f *fakeRepo) Reset(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "Reset")
	f.pairs = nil
	f.associations = nil
	return nil
}

// stubScorer rates candidates from a fixed table and ignores the query.
type stubScorer struct {
	ratings map[string]float64
}

func (s stubScorer) Score(_, b string) float64 {
	return s.ratings[b]
}

func (s stubScorer) BestMatch(query string, candidates []string) BestMatch {
	return bestMatch(s, query, candidates)
}

type fakeQueryLog struct {
	counts map[string]int64
	err    error
}

func (q *fakeQueryLog) IncrementQuery(_ context.Context, canonical, _ string) error {
	if q.err != nil {
		return q.err
	}
	if q.counts == nil {
		q.counts = make(map[string]int64)
	}
	q.counts[canonical]++
	return nil
}

func (q *fakeQueryLog) TopQueries(context.Context, int) ([]TrendingQuery, error) {
	if q.err != nil {
		return nil, q.err
	}
	out := make([]TrendingQuery, 0, len(q.counts))
	for k, v := range q.counts {
		out = append(out, TrendingQuery{Query: k, Count: v})
	}
	return out, nil
}

type fakeRecorder struct {
	outcomes   []string
	selections []string
	pairs      int
	assocs     int
}

func (r *fakeRecorder) ObserveResolution(outcome string, _ time.Duration) {
	r.outcomes = append(r.outcomes, outcome)
}

func (r *fakeRecorder) ObserveSelection(status string) {
	r.selections = append(r.selections, status)
}

func (r *fakeRecorder) SetStorageCounts(pairs, associations int) {
	r.pairs, r.assocs = pairs, associations
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}
