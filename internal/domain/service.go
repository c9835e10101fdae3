package domain

import "context"

// ArticleFetcher retrieves article text for a URL.
type ArticleFetcher interface {
	FetchArticle(ctx context.Context, url string) (*Article, error)
}

// QuizGenerator turns article text into a validated quiz.
// It either returns a fully valid GeneratedQuiz or an error; never a partial result.
type QuizGenerator interface {
	Generate(ctx context.Context, title, content string) (*GeneratedQuiz, error)
}

// QuizRepository defines the interface for quiz persistence, keyed by URL.
type QuizRepository interface {
	// SaveQuiz inserts the result or replaces the existing row for the same URL.
	SaveQuiz(ctx context.Context, result *QuizResult) error

	// GetQuizByURL returns nil, nil when no quiz exists for url.
	GetQuizByURL(ctx context.Context, url string) (*QuizResult, error)

	// ListHistory returns every stored quiz, newest first.
	ListHistory(ctx context.Context) ([]HistoryEntry, error)

	// Ping checks the database connection.
	Ping(ctx context.Context) error
}
