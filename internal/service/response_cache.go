package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"wiki-quiz/internal/cache"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"

	"go.uber.org/zap"
)

// ErrResponseNotCached is returned when a cached response is absent or expired.
var ErrResponseNotCached = errors.New("response not found in cache")

// ResponseCacheService caches rendered quiz results and the history listing.
// Every value it holds can be rebuilt from the QuizRepository.
type ResponseCacheService interface {
	GetQuiz(ctx context.Context, url string) (*domain.QuizResult, error)
	PutQuiz(ctx context.Context, result *domain.QuizResult) error

	GetHistory(ctx context.Context) ([]domain.HistoryEntry, error)
	PutHistory(ctx context.Context, history []domain.HistoryEntry) error
	InvalidateHistory(ctx context.Context) error
}

type responseCacheServiceImpl struct {
	cache      domain.Cache
	resultTTL  time.Duration
	historyTTL time.Duration
}

// NewResponseCacheService creates a ResponseCacheService on top of a generic cache.
func NewResponseCacheService(c domain.Cache, resultTTL, historyTTL time.Duration) ResponseCacheService {
	if c == nil {
		logger.Get().Warn("ResponseCacheService initialized with nil cache. Service will be no-op.")
		return &noopResponseCacheService{}
	}
	return &responseCacheServiceImpl{
		cache:      c,
		resultTTL:  resultTTL,
		historyTTL: historyTTL,
	}
}

func (s *responseCacheServiceImpl) GetQuiz(ctx context.Context, url string) (*domain.QuizResult, error) {
	var result domain.QuizResult
	if err := s.get(ctx, cache.QuizResultKey(url), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *responseCacheServiceImpl) PutQuiz(ctx context.Context, result *domain.QuizResult) error {
	if result == nil {
		return domain.NewInternalError("cannot cache nil quiz result", nil)
	}
	return s.put(ctx, cache.QuizResultKey(result.URL), result, s.resultTTL)
}

func (s *responseCacheServiceImpl) GetHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	var history []domain.HistoryEntry
	if err := s.get(ctx, cache.HistoryKey(), &history); err != nil {
		return nil, err
	}
	if history == nil {
		history = []domain.HistoryEntry{}
	}
	return history, nil
}

func (s *responseCacheServiceImpl) PutHistory(ctx context.Context, history []domain.HistoryEntry) error {
	if history == nil {
		history = []domain.HistoryEntry{}
	}
	return s.put(ctx, cache.HistoryKey(), history, s.historyTTL)
}

func (s *responseCacheServiceImpl) InvalidateHistory(ctx context.Context) error {
	return s.delete(ctx, cache.HistoryKey())
}

func (s *responseCacheServiceImpl) get(ctx context.Context, key string, dest any) error {
	l := logger.Get()

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			l.Debug("Response cache miss", zap.String("key", key))
			return ErrResponseNotCached
		}
		l.Error("Failed to get response from cache", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to get response from cache for key %s", key), err)
	}
	if data == "" {
		l.Debug("Response cache miss (empty data string)", zap.String("key", key))
		return ErrResponseNotCached
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		l.Error("Failed to unmarshal cached response", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to unmarshal response from cache for key %s", key), err)
	}
	l.Debug("Response cache hit", zap.String("key", key))
	return nil
}

func (s *responseCacheServiceImpl) put(ctx context.Context, key string, value any, ttl time.Duration) error {
	l := logger.Get()

	data, err := json.Marshal(value)
	if err != nil {
		l.Error("Failed to marshal response for caching", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError("failed to marshal response for caching", err)
	}
	if err := s.cache.Set(ctx, key, string(data), ttl); err != nil {
		l.Error("Failed to cache response", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to set response to cache for key %s", key), err)
	}
	l.Debug("Cached response", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (s *responseCacheServiceImpl) delete(ctx context.Context, key string) error {
	if err := s.cache.Delete(ctx, key); err != nil {
		logger.Get().Error("Failed to invalidate cached response", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to delete cache key %s", key), err)
	}
	return nil
}

// noopResponseCacheService is used when no cache is configured; every read misses.
type noopResponseCacheService struct{}

func (noopResponseCacheService) GetQuiz(context.Context, string) (*domain.QuizResult, error) {
	return nil, ErrResponseNotCached
}
func (noopResponseCacheService) PutQuiz(context.Context, *domain.QuizResult) error { return nil }
func (noopResponseCacheService) GetHistory(context.Context) ([]domain.HistoryEntry, error) {
	return nil, ErrResponseNotCached
}
func (noopResponseCacheService) PutHistory(context.Context, []domain.HistoryEntry) error { return nil }
func (noopResponseCacheService) InvalidateHistory(context.Context) error                { return nil }
