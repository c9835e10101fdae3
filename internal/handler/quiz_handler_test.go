package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/handler"
	"wiki-quiz/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const turingURL = "https://en.wikipedia.org/wiki/Alan_Turing"

// --- Manual Mocks ---

type MockQuizService struct {
	GenerateFunc func(ctx context.Context, url string) (*domain.QuizResult, error)
	HistoryFunc  func(ctx context.Context) ([]domain.HistoryEntry, error)
	GetQuizFunc  func(ctx context.Context, url string) (*domain.QuizResult, error)
}

func (m *MockQuizService) Generate(ctx context.Context, url string) (*domain.QuizResult, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, url)
	}
	panic("MockQuizService.GenerateFunc not implemented")
}

func (m *MockQuizService) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx)
	}
	panic("MockQuizService.HistoryFunc not implemented")
}

func (m *MockQuizService) GetQuiz(ctx context.Context, url string) (*domain.QuizResult, error) {
	if m.GetQuizFunc != nil {
		return m.GetQuizFunc(ctx, url)
	}
	panic("MockQuizService.GetQuizFunc not implemented")
}

func sampleResult() *domain.QuizResult {
	return &domain.QuizResult{
		URL:     turingURL,
		Title:   "Alan Turing",
		Summary: "English mathematician and computer scientist.",
		Quiz: []domain.QuizQuestion{{
			Question:      "Who proposed the imitation game?",
			Options:       []string{"Alan Turing", "Ada Lovelace", "Kurt Godel", "John McCarthy"},
			CorrectAnswer: 0,
			Explanation:   "Turing proposed it in 1950.",
			Difficulty:    domain.DifficultyEasy,
		}},
		RelatedTopics: domain.RelatedTopics{"Enigma machine": "https://en.wikipedia.org/wiki/Enigma_machine"},
	}
}

func setupApp(svc *MockQuizService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	quizHandler := handler.NewQuizHandler(svc)
	vm := middleware.NewValidationMiddleware()
	app.Post("/api/generate", vm.ValidateGenerateRequest(), quizHandler.Generate)
	app.Get("/api/history", quizHandler.History)
	app.Get("/api/quiz/*", quizHandler.GetQuiz)
	return app
}

func decodeError(t *testing.T, body io.Reader) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestQuizHandler_Generate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotURL string
		svc := &MockQuizService{GenerateFunc: func(ctx context.Context, u string) (*domain.QuizResult, error) {
			gotURL = u
			return sampleResult(), nil
		}}
		app := setupApp(svc)

		req := httptest.NewRequest("POST", "/api/generate", strings.NewReader(`{"url":"  `+turingURL+` "}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, turingURL, gotURL)

		var body dto.QuizResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Alan Turing", body.Title)
		require.Len(t, body.Quiz, 1)
		assert.Len(t, body.Quiz[0].Options, 4)
		assert.Equal(t, "Easy", body.Quiz[0].Difficulty)
		assert.Equal(t, "https://en.wikipedia.org/wiki/Enigma_machine", body.RelatedTopics["Enigma machine"])
	})

	t.Run("missing url", func(t *testing.T) {
		app := setupApp(&MockQuizService{})

		for _, payload := range []string{`{}`, `{"url":""}`, `{"url":"   "}`, ``} {
			req := httptest.NewRequest("POST", "/api/generate", strings.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, payload)
			assert.Equal(t, dto.ErrorResponse{Error: "URL is required"}, decodeError(t, resp.Body), payload)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		app := setupApp(&MockQuizService{})

		req := httptest.NewRequest("POST", "/api/generate", strings.NewReader(`{"url":`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Invalid request body", decodeError(t, resp.Body).Error)
	})

	t.Run("fetch failure", func(t *testing.T) {
		svc := &MockQuizService{GenerateFunc: func(ctx context.Context, u string) (*domain.QuizResult, error) {
			return nil, domain.NewFetchError(errors.New("unexpected status: 404"))
		}}
		app := setupApp(svc)

		req := httptest.NewRequest("POST", "/api/generate", strings.NewReader(`{"url":"https://en.wikipedia.org/wiki/Nope"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, dto.ErrorResponse{Error: "Failed to scrape Wikipedia article"}, decodeError(t, resp.Body))
	})

	t.Run("generation failure", func(t *testing.T) {
		svc := &MockQuizService{GenerateFunc: func(ctx context.Context, u string) (*domain.QuizResult, error) {
			return nil, domain.NewGenerationError(domain.NewValidationError("quiz", "must be a non-empty list"))
		}}
		app := setupApp(svc)

		req := httptest.NewRequest("POST", "/api/generate", strings.NewReader(`{"url":"`+turingURL+`"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		body := decodeError(t, resp.Body)
		assert.Equal(t, "LLM generation failed", body.Error)
		assert.Equal(t, "LLM response validation failed: quiz must be a non-empty list", body.Detail)
	})
}

func TestQuizHandler_History(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		svc := &MockQuizService{HistoryFunc: func(ctx context.Context) ([]domain.HistoryEntry, error) {
			return []domain.HistoryEntry{{URL: turingURL, Title: "Alan Turing", CreatedAt: created}}, nil
		}}
		app := setupApp(svc)

		resp, err := app.Test(httptest.NewRequest("GET", "/api/history", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var items []dto.HistoryItemResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
		require.Len(t, items, 1)
		assert.Equal(t, turingURL, items[0].URL)
		assert.True(t, created.Equal(items[0].CreatedAt))
	})

	t.Run("empty history renders an empty array", func(t *testing.T) {
		svc := &MockQuizService{HistoryFunc: func(ctx context.Context) ([]domain.HistoryEntry, error) {
			return nil, nil
		}}
		app := setupApp(svc)

		resp, err := app.Test(httptest.NewRequest("GET", "/api/history", nil))
		require.NoError(t, err)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(raw))
	})

	t.Run("store failure", func(t *testing.T) {
		svc := &MockQuizService{HistoryFunc: func(ctx context.Context) ([]domain.HistoryEntry, error) {
			return nil, domain.NewPersistenceError(domain.MsgHistoryFetchFailed, errors.New("connection refused"))
		}}
		app := setupApp(svc)

		resp, err := app.Test(httptest.NewRequest("GET", "/api/history", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, dto.ErrorResponse{Error: "Failed to fetch history", Detail: "connection refused"}, decodeError(t, resp.Body))
	})
}

func TestQuizHandler_GetQuiz(t *testing.T) {
	newService := func(got *string) *MockQuizService {
		return &MockQuizService{GetQuizFunc: func(ctx context.Context, u string) (*domain.QuizResult, error) {
			*got = u
			if u != turingURL {
				return nil, domain.NewQuizNotFoundError()
			}
			return sampleResult(), nil
		}}
	}

	paths := map[string]string{
		"percent encoded": "/api/quiz/" + url.PathEscape(turingURL),
		"query parameter": "/api/quiz/?url=" + url.QueryEscape(turingURL),
		"raw":             "/api/quiz/" + turingURL,
		"collapsed slash": "/api/quiz/https:/en.wikipedia.org/wiki/Alan_Turing",
	}
	for name, path := range paths {
		t.Run(name, func(t *testing.T) {
			var got string
			app := setupApp(newService(&got))

			resp, err := app.Test(httptest.NewRequest("GET", path, nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Equal(t, turingURL, got)
		})
	}

	t.Run("not found", func(t *testing.T) {
		var got string
		app := setupApp(newService(&got))

		path := "/api/quiz/" + url.PathEscape("https://en.wikipedia.org/wiki/Unknown")
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.Equal(t, dto.ErrorResponse{Error: "Quiz not found"}, decodeError(t, resp.Body))
	})

	t.Run("missing url", func(t *testing.T) {
		app := setupApp(&MockQuizService{})

		resp, err := app.Test(httptest.NewRequest("GET", "/api/quiz/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "URL is required", decodeError(t, resp.Body).Error)
	})

	t.Run("store failure", func(t *testing.T) {
		svc := &MockQuizService{GetQuizFunc: func(ctx context.Context, u string) (*domain.QuizResult, error) {
			return nil, domain.NewPersistenceError(domain.MsgQuizFetchFailed, errors.New("timeout"))
		}}
		app := setupApp(svc)

		resp, err := app.Test(httptest.NewRequest("GET", "/api/quiz/"+url.PathEscape(turingURL), nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "Failed to fetch quiz", decodeError(t, resp.Body).Error)
	})
}
