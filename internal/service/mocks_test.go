package service

import (
	"context"
	"time"
	"wiki-quiz/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockArticleFetcher ---
type MockArticleFetcher struct {
	mock.Mock
}

func (m *MockArticleFetcher) FetchArticle(ctx context.Context, url string) (*domain.Article, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

// --- MockQuizGenerator ---
type MockQuizGenerator struct {
	mock.Mock
}

func (m *MockQuizGenerator) Generate(ctx context.Context, title, content string) (*domain.GeneratedQuiz, error) {
	args := m.Called(ctx, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneratedQuiz), args.Error(1)
}

// --- MockQuizRepository ---
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) SaveQuiz(ctx context.Context, result *domain.QuizResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockQuizRepository) GetQuizByURL(ctx context.Context, url string) (*domain.QuizResult, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizResult), args.Error(1)
}

func (m *MockQuizRepository) ListHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HistoryEntry), args.Error(1)
}

func (m *MockQuizRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- fixtures ---

const turingURL = "https://en.wikipedia.org/wiki/Alan_Turing"

func turingArticle() *domain.Article {
	return &domain.Article{
		Title:   "Alan Turing",
		Content: "Alan Mathison Turing was an English mathematician and computer scientist.",
		Summary: "English mathematician and computer scientist.",
	}
}

func turingQuiz() *domain.GeneratedQuiz {
	return &domain.GeneratedQuiz{
		Quiz: []domain.QuizQuestion{{
			Question:      "What machine did Turing help break?",
			Options:       []string{"Enigma", "Lorenz", "Purple", "Typex"},
			CorrectAnswer: 0,
			Explanation:   "The Bombe attacked Enigma.",
			Difficulty:    domain.DifficultyEasy,
		}},
		RelatedTopics: domain.RelatedTopics{"Enigma machine": "https://en.wikipedia.org/wiki/Enigma_machine"},
	}
}
