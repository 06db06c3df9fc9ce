package faq

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/yanqian/faq-chatbot/pkg/errors"
	"github.com/yanqian/faq-chatbot/pkg/util"
)

// Service exposes the chatbot operations to the transports.
type Service interface {
	ListPairs(ctx context.Context) ([]QAPair, error)
	AddPair(ctx context.Context, req AddPairRequest) (QAPair, error)
	ListAssociations(ctx context.Context) ([]QuestionAssociation, error)
	ProcessMessage(ctx context.Context, req MessageRequest) (ResolutionResult, error)
	SelectSuggestedQuestion(ctx context.Context, req SelectionRequest) (SelectionResult, error)
	AddAssociation(ctx context.Context, req AssociationRequest) (QuestionAssociation, error)
	Trending(ctx context.Context) ([]TrendingQuery, error)
	Seed(ctx context.Context, pairs []SeedPair, reset bool) (SeedReport, error)
	Snapshot(ctx context.Context) (Snapshot, error)
}

type service struct {
	cfg      Config
	repo     Repository
	queries  QueryLog
	resolver *Resolver
	learner  *Learner
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires up the FAQ domain.
func NewService(cfg Config, repo Repository, queries QueryLog, recorder Recorder, logger *slog.Logger) (Service, error) {
	scorer, err := NewScorer(cfg.SimilarityMetric)
	if err != nil {
		return nil, err
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &service{
		cfg:      cfg,
		repo:     repo,
		queries:  queries,
		resolver: NewResolver(repo, repo, scorer, cfg.ClarificationText),
		learner:  NewLearner(repo, repo),
		recorder: recorder,
		logger:   logger.With("component", "faq.service"),
		now:      util.NowUTC,
	}, nil
}

func (s *service) ListPairs(ctx context.Context) ([]QAPair, error) {
	pairs, err := s.repo.ListPairs(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageUnavailable, "failed to load qa pairs", err)
	}
	return pairs, nil
}

func (s *service) AddPair(ctx context.Context, req AddPairRequest) (QAPair, error) {
	question := strings.TrimSpace(req.Question)
	answer := strings.TrimSpace(req.Answer)
	if question == "" {
		return QAPair{}, apperrors.Wrap(apperrors.CodeInvalidInput, "question cannot be empty", nil)
	}
	if answer == "" {
		return QAPair{}, apperrors.Wrap(apperrors.CodeInvalidInput, "answer cannot be empty", nil)
	}
	pair, err := s.repo.InsertPair(ctx, question, answer)
	if err != nil {
		if errors.Is(err, ErrDuplicateQuestion) {
			return QAPair{}, apperrors.Wrap(apperrors.CodeDuplicateQuestion, "question already exists", err)
		}
		return QAPair{}, apperrors.Wrap(apperrors.CodeStorageUnavailable, "failed to insert qa pair", err)
	}
	s.logger.Info("qa pair added", "id", pair.ID)
	s.refreshCounts(ctx)
	return pair, nil
}

func (s *service) ListAssociations(ctx context.Context) ([]QuestionAssociation, error) {
	associations, err := s.repo.ListAssociations(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageUnavailable, "failed to load question associations", err)
	}
	return associations, nil
}

func (s *service) ProcessMessage(ctx context.Context, req MessageRequest) (ResolutionResult, error) {
	start := s.now()
	result, err := s.resolver.Resolve(ctx, req.Message)
	elapsed := s.now().Sub(start)
	if err != nil {
		s.recorder.ObserveResolution("error", elapsed)
		return ResolutionResult{}, err
	}
	s.recorder.ObserveResolution(string(result.Outcome), elapsed)

	message := strings.TrimSpace(req.Message)
	if err := s.queries.IncrementQuery(ctx, normalizeQuestion(message), message); err != nil {
		s.logger.Warn("query log increment failed", "error", err)
	}
	if !result.Understood {
		s.logger.Debug("message not understood", "suggestions", len(result.PossibleQuestions))
	}
	return result, nil
}

func (s *service) SelectSuggestedQuestion(ctx context.Context, req SelectionRequest) (SelectionResult, error) {
	result, err := s.learner.RecordSelection(ctx, req.OriginalMessage, req.SelectedQuestion)
	if err != nil {
		status := "error"
		if apperrors.IsCode(err, apperrors.CodeQuestionNotFound) {
			status = "not_found"
		}
		s.recorder.ObserveSelection(status)
		return SelectionResult{}, err
	}
	s.recorder.ObserveSelection("learned")
	s.refreshCounts(ctx)
	return result, nil
}

func (s *service) AddAssociation(ctx context.Context, req AssociationRequest) (QuestionAssociation, error) {
	assoc, err := s.learner.AddAssociation(ctx, req.OriginalQuestion, req.AssociatedQuestion)
	if err != nil {
		return QuestionAssociation{}, err
	}
	s.refreshCounts(ctx)
	return assoc, nil
}

func (s *service) Trending(ctx context.Context) ([]TrendingQuery, error) {
	recs, err := s.queries.TopQueries(ctx, s.cfg.TopRecommendations)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageUnavailable, "failed to load trending queries", err)
	}
	if recs == nil {
		recs = []TrendingQuery{}
	}
	return recs, nil
}

// Seed inserts sample pairs, optionally wiping both collections first.
// Blank and duplicate pairs are skipped.
func (s *service) Seed(ctx context.Context, pairs []SeedPair, reset bool) (SeedReport, error) {
	report := SeedReport{Reset: reset}
	if reset {
		if err := s.repo.Reset(ctx); err != nil {
			return report, apperrors.Wrap(apperrors.CodeStorageUnavailable, "failed to reset storage", err)
		}
	}
	for _, p := range pairs {
		question := strings.TrimSpace(p.Question)
		answer := strings.TrimSpace(p.Answer)
		if question == "" || answer == "" {
			report.Skipped++
			continue
		}
		if _, err := s.repo.InsertPair(ctx, question, answer); err != nil {
			if errors.Is(err, ErrDuplicateQuestion) {
				report.Skipped++
				continue
			}
			return report, apperrors.Wrap(apperrors.CodeStorageUnavailable, "failed to seed qa pair", err)
		}
		report.Inserted++
	}
	s.logger.Info("seed completed", "reset", reset, "inserted", report.Inserted, "skipped", report.Skipped)
	s.refreshCounts(ctx)
	return report, nil
}

func (s *service) Snapshot(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{TakenAt: s.now()}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pairs, err := s.repo.ListPairs(gctx)
		snap.Pairs = pairs
		return err
	})
	g.Go(func() error {
		associations, err := s.repo.ListAssociations(gctx)
		snap.Associations = associations
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, apperrors.Wrap(apperrors.CodeStorageUnavailable, "failed to read snapshot", err)
	}
	if snap.Pairs == nil {
		snap.Pairs = []QAPair{}
	}
	if snap.Associations == nil {
		snap.Associations = []QuestionAssociation{}
	}
	return snap, nil
}

func (s *service) refreshCounts(ctx context.Context) {
	pairs, err := s.repo.ListPairs(ctx)
	if err != nil {
		s.logger.Warn("storage count refresh failed", "error", err)
		return
	}
	associations, err := s.repo.ListAssociations(ctx)
	if err != nil {
		s.logger.Warn("storage count refresh failed", "error", err)
		return
	}
	s.recorder.SetStorageCounts(len(pairs), len(associations))
}
