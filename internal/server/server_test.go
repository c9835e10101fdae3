package server_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/handler"
	"wiki-quiz/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hopperURL = "http://127.0.0.1:8080/wiki/Grace_Hopper"

type fakeQuizService struct {
	stored map[string]*domain.QuizResult
}

func (f *fakeQuizService) Generate(ctx context.Context, u string) (*domain.QuizResult, error) {
	result := &domain.QuizResult{
		URL:   u,
		Title: "Grace Hopper",
		Quiz: []domain.QuizQuestion{{
			Question:      "Which language did Grace Hopper help design?",
			Options:       []string{"COBOL", "Lisp", "Fortran", "ALGOL"},
			CorrectAnswer: 0,
			Explanation:   "She was a key designer of COBOL.",
		}},
		RelatedTopics: domain.RelatedTopics{},
	}
	f.stored[u] = result
	return result, nil
}

func (f *fakeQuizService) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	entries := make([]domain.HistoryEntry, 0, len(f.stored))
	for u, r := range f.stored {
		entries = append(entries, domain.HistoryEntry{URL: u, Title: r.Title, CreatedAt: time.Now()})
	}
	return entries, nil
}

func (f *fakeQuizService) GetQuiz(ctx context.Context, u string) (*domain.QuizResult, error) {
	if r, ok := f.stored[u]; ok {
		return r, nil
	}
	return nil, domain.NewQuizNotFoundError()
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func newTestApp() *fiber.App {
	svc := &fakeQuizService{stored: map[string]*domain.QuizResult{}}
	return server.New(config.ServerConfig{CORSOrigins: "*"}, server.Handlers{
		Quiz:   handler.NewQuizHandler(svc),
		Health: handler.NewHealthHandler(okPinger{}, okPinger{}),
	})
}

func TestNew_QuizRoutes(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/history", nil))
	require.NoError(t, err)
	var before []dto.HistoryItemResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&before))
	assert.Empty(t, before)

	req := httptest.NewRequest("POST", "/api/generate", strings.NewReader(`{"url":"`+hopperURL+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/history", nil))
	require.NoError(t, err)
	var after []dto.HistoryItemResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&after))
	require.Len(t, after, 1)
	assert.Equal(t, hopperURL, after[0].URL)

	for _, path := range []string{
		"/api/quiz/" + hopperURL,
		"/api/quiz/" + url.PathEscape(hopperURL),
		"/api/quiz/?url=" + url.QueryEscape(hopperURL),
	} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)

		var body dto.QuizResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, hopperURL, body.URL, path)
	}
}

func TestNew_HealthAndMiddleware(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Len(t, resp.Header.Get(fiber.HeaderXRequestID), 26)
}
