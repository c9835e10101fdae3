package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/repository/models"
	"wiki-quiz/internal/util"

	"github.com/jmoiron/sqlx"
)

const (
	upsertQuizQuery = `INSERT INTO quizzes (url, title, summary, quiz, related_topics, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (url) DO UPDATE SET
		title = excluded.title,
		summary = excluded.summary,
		quiz = excluded.quiz,
		related_topics = excluded.related_topics,
		updated_at = excluded.updated_at`

	getQuizByURLQuery = `SELECT url, title, summary, quiz, related_topics, created_at, updated_at
	FROM quizzes
	WHERE url = ?`

	listHistoryQuery = `SELECT url, title, created_at
	FROM quizzes
	ORDER BY created_at DESC`
)

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx. The same
// SQL runs on postgres (pgx) and sqlite; placeholders are rebound per driver.
type QuizDatabaseAdapter struct {
	db           DBTX
	pinger       Pinger
	queryTimeout time.Duration
	clock        util.Clock
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter.
// A non-positive queryTimeout disables the per-query deadline.
func NewQuizDatabaseAdapter(db *sqlx.DB, queryTimeout time.Duration, clock util.Clock) *QuizDatabaseAdapter {
	if clock == nil {
		clock = util.SystemClock{}
	}
	return &QuizDatabaseAdapter{
		db:           db,
		pinger:       db,
		queryTimeout: queryTimeout,
		clock:        clock,
	}
}

func (a *QuizDatabaseAdapter) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.queryTimeout)
}

// SaveQuiz inserts result, or replaces the stored quiz for the same URL.
// created_at of an existing row is kept.
func (a *QuizDatabaseAdapter) SaveQuiz(ctx context.Context, result *domain.QuizResult) error {
	if result == nil {
		return errors.New("quiz result cannot be nil")
	}

	now := a.clock.Now().UTC().Truncate(time.Microsecond)
	row, err := toModelQuiz(result, now)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	_, err = a.db.ExecContext(ctx, a.db.Rebind(upsertQuizQuery),
		row.URL, row.Title, row.Summary, row.Quiz, row.RelatedTopics, row.CreatedAt, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save quiz for %s: %w", result.URL, err)
	}
	return nil
}

// GetQuizByURL returns nil, nil when no quiz is stored for url.
func (a *QuizDatabaseAdapter) GetQuizByURL(ctx context.Context, url string) (*domain.QuizResult, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	var row models.Quiz
	if err := a.db.GetContext(ctx, &row, a.db.Rebind(getQuizByURLQuery), url); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by url: %w", err)
	}
	return toDomainQuizResult(&row)
}

// ListHistory returns every stored quiz, newest first. It never returns a nil slice.
func (a *QuizDatabaseAdapter) ListHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	var rows []models.QuizHistory
	if err := a.db.SelectContext(ctx, &rows, listHistoryQuery); err != nil {
		return nil, fmt.Errorf("failed to list quiz history: %w", err)
	}

	history := make([]domain.HistoryEntry, 0, len(rows))
	for _, r := range rows {
		history = append(history, domain.HistoryEntry{
			URL:       r.URL,
			Title:     r.Title,
			CreatedAt: r.CreatedAt.UTC(),
		})
	}
	return history, nil
}

func (a *QuizDatabaseAdapter) Ping(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return a.pinger.PingContext(ctx)
}

func toModelQuiz(result *domain.QuizResult, now time.Time) (*models.Quiz, error) {
	quiz, err := models.NewJSONText(result.Quiz)
	if err != nil {
		return nil, fmt.Errorf("failed to encode quiz: %w", err)
	}
	topics := result.RelatedTopics
	if topics == nil {
		topics = domain.RelatedTopics{}
	}
	relatedTopics, err := models.NewJSONText(topics)
	if err != nil {
		return nil, fmt.Errorf("failed to encode related topics: %w", err)
	}
	return &models.Quiz{
		URL:           result.URL,
		Title:         result.Title,
		Summary:       result.Summary,
		Quiz:          quiz,
		RelatedTopics: relatedTopics,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func toDomainQuizResult(row *models.Quiz) (*domain.QuizResult, error) {
	result := &domain.QuizResult{
		URL:           row.URL,
		Title:         row.Title,
		Summary:       row.Summary,
		Quiz:          []domain.QuizQuestion{},
		RelatedTopics: domain.RelatedTopics{},
	}
	if err := row.Quiz.Unmarshal(&result.Quiz); err != nil {
		return nil, fmt.Errorf("failed to decode stored quiz for %s: %w", row.URL, err)
	}
	if err := row.RelatedTopics.Unmarshal(&result.RelatedTopics); err != nil {
		return nil, fmt.Errorf("failed to decode stored related topics for %s: %w", row.URL, err)
	}
	return result, nil
}

var _ domain.QuizRepository = (*QuizDatabaseAdapter)(nil)
