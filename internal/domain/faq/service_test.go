package faq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/faq-chatbot/pkg/errors"
)

func newServiceUnderTest(t *testing.T, repo *fakeRepo, queries *fakeQueryLog, recorder *fakeRecorder) Service {
	t.Helper()
	svc, err := NewService(Config{TopRecommendations: 5}, repo, queries, recorder, newTestLogger())
	require.NoError(t, err)
	return svc
}

func TestNewService_UnknownMetric(t *testing.T) {
	_, err := NewService(Config{SimilarityMetric: "soundex"}, &fakeRepo{}, &fakeQueryLog{}, nil, newTestLogger())
	require.Error(t, err)
}

func TestService_ProcessMessageLogsQueryAndOutcome(t *testing.T) {
	repo := &fakeRepo{pairs: []QAPair{{ID: 1, Question: "Hola", Answer: "¡Hola!"}}}
	queries := &fakeQueryLog{}
	recorder := &fakeRecorder{}
	svc := newServiceUnderTest(t, repo, queries, recorder)

	res, err := svc.ProcessMessage(context.Background(), MessageRequest{Message: "  HOLA! "})
	require.NoError(t, err)
	require.True(t, res.Understood)
	require.Equal(t, int64(1), queries.counts["hola"])
	require.Equal(t, []string{"direct"}, recorder.outcomes)

	_, err = svc.ProcessMessage(context.Background(), MessageRequest{Message: ""})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Equal(t, []string{"direct", "error"}, recorder.outcomes)
}

func TestService_ProcessMessageIgnoresQueryLogFailure(t *testing.T) {
	repo := &fakeRepo{pairs: []QAPair{{ID: 1, Question: "Hola", Answer: "¡Hola!"}}}
	svc := newServiceUnderTest(t, repo, &fakeQueryLog{err: errors.New("valkey down")}, &fakeRecorder{})

	res, err := svc.ProcessMessage(context.Background(), MessageRequest{Message: "hola"})
	require.NoError(t, err)
	require.Equal(t, "¡Hola!", res.Response)

	_, err = svc.Trending(context.Background())
	require.True(t, apperrors.IsCode(err, apperrors.CodeStorageUnavailable))
}

func TestService_AddPair(t *testing.T) {
	repo := &fakeRepo{}
	recorder := &fakeRecorder{}
	svc := newServiceUnderTest(t, repo, &fakeQueryLog{}, recorder)

	pair, err := svc.AddPair(context.Background(), AddPairRequest{Question: " Hola ", Answer: "¡Hola!"})
	require.NoError(t, err)
	require.Equal(t, "Hola", pair.Question)
	require.Equal(t, 1, recorder.pairs)

	_, err = svc.AddPair(context.Background(), AddPairRequest{Question: "HOLA", Answer: "again"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeDuplicateQuestion))

	_, err = svc.AddPair(context.Background(), AddPairRequest{Question: "", Answer: "x"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.AddPair(context.Background(), AddPairRequest{Question: "x", Answer: " "})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	pairs, err := svc.ListPairs(context.Background())
	require.NoError(t, err)
	require.Len(t, pairs, 1)
}

func TestService_SelectSuggestedQuestionRecordsStatus(t *testing.T) {
	repo := &fakeRepo{pairs: []QAPair{{ID: 1, Question: "Refund policy", Answer: "30 days"}}}
	recorder := &fakeRecorder{}
	svc := newServiceUnderTest(t, repo, &fakeQueryLog{}, recorder)

	res, err := svc.SelectSuggestedQuestion(context.Background(), SelectionRequest{OriginalMessage: "money back", SelectedQuestion: "Refund policy"})
	require.NoError(t, err)
	require.Equal(t, "30 days", res.Response)

	_, err = svc.SelectSuggestedQuestion(context.Background(), SelectionRequest{OriginalMessage: "money back", SelectedQuestion: "Nope"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeQuestionNotFound))

	require.Equal(t, []string{"learned", "not_found"}, recorder.selections)
	require.Equal(t, 1, recorder.assocs)

	associations, err := svc.ListAssociations(context.Background())
	require.NoError(t, err)
	require.Len(t, associations, 1)
}

func TestService_LearnedPhrasingResolvesNextTime(t *testing.T) {
	repo := &fakeRepo{pairs: []QAPair{
		{ID: 1, Question: "What is your refund policy?", Answer: "30 days"},
		{ID: 2, Question: "Where is my order?", Answer: "Check the tracking page"},
	}}
	svc := newServiceUnderTest(t, repo, &fakeQueryLog{}, &fakeRecorder{})
	ctx := context.Background()

	first, err := svc.ProcessMessage(ctx, MessageRequest{Message: "I want my cash returned"})
	require.NoError(t, err)
	require.False(t, first.Understood)

	_, err = svc.SelectSuggestedQuestion(ctx, SelectionRequest{OriginalMessage: "I want my cash returned", SelectedQuestion: "What is your refund policy?"})
	require.NoError(t, err)

	second, err := svc.ProcessMessage(ctx, MessageRequest{Message: "i want my cash returned!"})
	require.NoError(t, err)
	require.True(t, second.Understood)
	require.Equal(t, "30 days", second.Response)
	require.Equal(t, OutcomeAssociation, second.Outcome)
}

func TestService_SeedResetsAndSkipsDuplicates(t *testing.T) {
	repo := &fakeRepo{
		pairs:        []QAPair{{ID: 1, Question: "old", Answer: "stale"}},
		associations: []QuestionAssociation{{ID: 1, OriginalQuestion: "x", AssociatedQuestion: "old", Count: 3}},
	}
	svc := newServiceUnderTest(t, repo, &fakeQueryLog{}, &fakeRecorder{})

	report, err := svc.Seed(context.Background(), []SeedPair{
		{Question: "Hola", Answer: "¡Hola!"},
		{Question: "hola", Answer: "duplicate"},
		{Question: "Adiós", Answer: "Hasta luego"},
		{Question: "", Answer: "blank"},
	}, true)
	require.NoError(t, err)
	require.Equal(t, SeedReport{Reset: true, Inserted: 2, Skipped: 2}, report)
	require.Len(t, repo.pairs, 2)
	require.Empty(t, repo.associations)
}

func TestService_SeedStopsOnStorageError(t *testing.T) {
	repo := &fakeRepo{insertErr: errors.New("read-only")}
	svc := newServiceUnderTest(t, repo, &fakeQueryLog{}, &fakeRecorder{})

	_, err := svc.Seed(context.Background(), []SeedPair{{Question: "Hola", Answer: "¡Hola!"}}, false)
	require.True(t, apperrors.IsCode(err, apperrors.CodeStorageUnavailable))
	require.NotContains(t, repo.calls, "Reset")
}

func TestService_Snapshot(t *testing.T) {
	repo := &fakeRepo{
		pairs:        []QAPair{{ID: 1, Question: "Hola", Answer: "¡Hola!"}},
		associations: []QuestionAssociation{{ID: 1, OriginalQuestion: "buenas", AssociatedQuestion: "Hola", Count: 1}},
	}
	svc := newServiceUnderTest(t, repo, &fakeQueryLog{}, &fakeRecorder{})

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Pairs, 1)
	require.Len(t, snap.Associations, 1)
	require.False(t, snap.TakenAt.IsZero())

	repo.listAssocErr = errors.New("gone")
	_, err = svc.Snapshot(context.Background())
	require.True(t, apperrors.IsCode(err, apperrors.CodeStorageUnavailable))
}

func TestService_SnapshotOfEmptyStoreEncodesEmptyLists(t *testing.T) {
	svc := newServiceUnderTest(t, &fakeRepo{}, &fakeQueryLog{}, &fakeRecorder{})

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	raw, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.JSONEq(t, `[]`, string(decoded["pairs"]))
	require.JSONEq(t, `[]`, string(decoded["associations"]))
}

func TestResolutionResultJSON(t *testing.T) {
	understood, err := json.Marshal(ResolutionResult{Response: "hi", Understood: true, Outcome: OutcomeDirect})
	require.NoError(t, err)
	require.JSONEq(t, `{"response":"hi","understood":true}`, string(understood))

	unsure, err := json.Marshal(ResolutionResult{Response: "pick one"})
	require.NoError(t, err)
	require.JSONEq(t, `{"response":"pick one","understood":false,"possibleQuestions":[],"associatedQuestions":[]}`, string(unsure))
}
