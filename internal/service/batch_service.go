package service

import (
	"context"
	"strings"
	"sync"
	"time"
	"wiki-quiz/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchOutcome is the result of pre-generating one URL.
type BatchOutcome struct {
	URL       string
	Title     string
	Questions int
	Skipped   bool
	Err       error
}

// BatchReport summarises a batch run. Outcomes keep the input order.
type BatchReport struct {
	Outcomes  []BatchOutcome
	Generated int
	Skipped   int
	Failed    int
	Duration  time.Duration
}

// BatchService pre-generates quizzes for many articles through QuizService.
type BatchService interface {
	GenerateAll(ctx context.Context, urls []string) (*BatchReport, error)
}

type batchService struct {
	quizService  QuizService
	repo         domain.QuizRepository
	concurrency  int
	skipExisting bool
	logger       *zap.Logger
}

// NewBatchService creates a new instance of batchService. concurrency bounds
// the number of in-flight generations; skipExisting leaves already stored
// quizzes untouched.
func NewBatchService(
	quizService QuizService,
	repo domain.QuizRepository,
	concurrency int,
	skipExisting bool,
	logger *zap.Logger,
) BatchService {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &batchService{
		quizService:  quizService,
		repo:         repo,
		concurrency:  concurrency,
		skipExisting: skipExisting,
		logger:       logger,
	}
}

// GenerateAll processes every URL. A failing URL does not stop the others;
// the returned error is non-nil only when ctx is cancelled.
func (s *batchService) GenerateAll(ctx context.Context, urls []string) (*BatchReport, error) {
	start := time.Now()
	s.logger.Info("Starting batch quiz generation", zap.Int("urls", len(urls)), zap.Int("concurrency", s.concurrency))

	outcomes := make([]BatchOutcome, len(urls))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, rawURL := range urls {
		i, url := i, strings.TrimSpace(rawURL)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcome := s.generateOne(gctx, url)

			mu.Lock()
			outcomes[i] = outcome
			mu.Unlock()
			return nil
		})
	}
	waitErr := g.Wait()

	report := &BatchReport{Outcomes: outcomes, Duration: time.Since(start)}
	for _, o := range outcomes {
		switch {
		case o.Skipped:
			report.Skipped++
		case o.Err != nil:
			report.Failed++
		case o.URL != "":
			report.Generated++
		}
	}

	s.logger.Info("Batch quiz generation finished",
		zap.Int("generated", report.Generated),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Duration("duration", report.Duration))
	return report, waitErr
}

func (s *batchService) generateOne(ctx context.Context, url string) BatchOutcome {
	outcome := BatchOutcome{URL: url}
	if url == "" {
		outcome.Err = domain.NewInputError(domain.MsgURLRequired)
		return outcome
	}

	if s.skipExisting && s.repo != nil {
		existing, err := s.repo.GetQuizByURL(ctx, url)
		if err != nil {
			s.logger.Warn("Could not check for an existing quiz; generating anyway", zap.String("url", url), zap.Error(err))
		} else if existing != nil {
			s.logger.Info("Quiz already stored, skipping", zap.String("url", url))
			outcome.Skipped = true
			outcome.Title = existing.Title
			outcome.Questions = len(existing.Quiz)
			return outcome
		}
	}

	result, err := s.quizService.Generate(ctx, url)
	if err != nil {
		s.logger.Error("Failed to generate quiz", zap.String("url", url), zap.Error(err))
		outcome.Err = err
		return outcome
	}

	s.logger.Info("Generated quiz", zap.String("url", url), zap.String("title", result.Title), zap.Int("questions", len(result.Quiz)))
	outcome.Title = result.Title
	outcome.Questions = len(result.Quiz)
	return outcome
}
