package service

import (
	"context"
	"errors"
	"strings"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"

	"go.uber.org/zap"
)

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	// Generate returns the quiz for url, generating it when it is not cached.
	Generate(ctx context.Context, url string) (*domain.QuizResult, error)
	// History lists every generated quiz, newest first.
	History(ctx context.Context) ([]domain.HistoryEntry, error)
	// GetQuiz returns a previously generated quiz.
	GetQuiz(ctx context.Context, url string) (*domain.QuizResult, error)
}

// quizService implements QuizService
type quizService struct {
	fetcher   domain.ArticleFetcher
	generator domain.QuizGenerator
	repo      domain.QuizRepository
	responses ResponseCacheService
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	fetcher domain.ArticleFetcher,
	generator domain.QuizGenerator,
	repo domain.QuizRepository,
	responses ResponseCacheService,
) QuizService {
	if responses == nil {
		responses = &noopResponseCacheService{}
	}
	return &quizService{
		fetcher:   fetcher,
		generator: generator,
		repo:      repo,
		responses: responses,
	}
}

// Generate runs cache-check, fetch, generate, persist, cache-store and
// history invalidation. Nothing is cached or stored when fetching or
// generation fails. A failed store write is logged and the quiz is still
// returned.
func (s *quizService) Generate(ctx context.Context, rawURL string) (*domain.QuizResult, error) {
	url := strings.TrimSpace(rawURL)
	if url == "" {
		return nil, domain.NewInputError(domain.MsgURLRequired)
	}
	l := logger.Get().With(zap.String("url", url))

	if cached, ok := s.cachedQuiz(ctx, l, url); ok {
		l.Info("Serving generated quiz from cache")
		return cached, nil
	}

	article, err := s.fetcher.FetchArticle(ctx, url)
	if err == nil && article == nil {
		err = errors.New("article not found")
	}
	if err != nil {
		l.Warn("Failed to fetch article", zap.Error(err))
		return nil, domain.NewFetchError(err)
	}

	generated, err := s.generator.Generate(ctx, article.Title, article.Content)
	if err != nil {
		l.Error("Quiz generation failed", zap.Error(err))
		return nil, domain.NewGenerationError(err)
	}

	result := domain.NewQuizResult(url, article, generated)
	if err := result.Validate(); err != nil {
		l.Error("Generated quiz failed validation", zap.Error(err))
		return nil, domain.NewGenerationError(err)
	}

	if err := s.repo.SaveQuiz(ctx, result); err != nil {
		l.Error("Failed to persist generated quiz; returning it anyway", zap.Error(err))
	}
	if err := s.responses.PutQuiz(ctx, result); err != nil {
		l.Warn("Failed to cache generated quiz", zap.Error(err))
	}
	if err := s.responses.InvalidateHistory(ctx); err != nil {
		l.Warn("Failed to invalidate history cache", zap.Error(err))
	}

	l.Info("Generated quiz", zap.String("title", result.Title), zap.Int("questions", len(result.Quiz)))
	return result, nil
}

func (s *quizService) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	l := logger.Get()

	cached, err := s.responses.GetHistory(ctx)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrResponseNotCached) {
		l.Warn("History cache read failed; treating as miss", zap.Error(err))
	}

	history, err := s.repo.ListHistory(ctx)
	if err != nil {
		l.Error("Failed to fetch history", zap.Error(err))
		return nil, domain.NewPersistenceError(domain.MsgHistoryFetchFailed, err)
	}

	if err := s.responses.PutHistory(ctx, history); err != nil {
		l.Warn("Failed to cache history", zap.Error(err))
	}
	return history, nil
}

func (s *quizService) GetQuiz(ctx context.Context, rawURL string) (*domain.QuizResult, error) {
	url := strings.TrimSpace(rawURL)
	if url == "" {
		return nil, domain.NewInputError(domain.MsgURLRequired)
	}
	l := logger.Get().With(zap.String("url", url))

	if cached, ok := s.cachedQuiz(ctx, l, url); ok {
		return cached, nil
	}

	result, err := s.repo.GetQuizByURL(ctx, url)
	if err != nil {
		l.Error("Failed to fetch quiz", zap.Error(err))
		return nil, domain.NewPersistenceError(domain.MsgQuizFetchFailed, err)
	}
	if result == nil {
		return nil, domain.NewQuizNotFoundError()
	}

	if err := s.responses.PutQuiz(ctx, result); err != nil {
		l.Warn("Failed to cache quiz", zap.Error(err))
	}
	return result, nil
}

// cachedQuiz reports a cache hit. Cache failures count as misses.
func (s *quizService) cachedQuiz(ctx context.Context, l *zap.Logger, url string) (*domain.QuizResult, bool) {
	cached, err := s.responses.GetQuiz(ctx, url)
	if err == nil && cached != nil {
		return cached, true
	}
	if err != nil && !errors.Is(err, ErrResponseNotCached) {
		l.Warn("Quiz cache read failed; treating as miss", zap.Error(err))
	}
	return nil, false
}
