package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/handler"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	healthy := pingFunc(func(context.Context) error { return nil })
	broken := pingFunc(func(context.Context) error { return errors.New("dial tcp: connection refused") })

	tests := []struct {
		name       string
		db         handler.Pinger
		cache      handler.Pinger
		wantStatus int
		want       dto.HealthResponse
	}{
		{"all healthy", healthy, healthy, fiber.StatusOK, dto.HealthResponse{Status: "ok", Database: "ok", Cache: "ok"}},
		{"database down", broken, healthy, fiber.StatusServiceUnavailable, dto.HealthResponse{Status: "degraded", Database: "unavailable", Cache: "ok"}},
		{"cache down", healthy, broken, fiber.StatusServiceUnavailable, dto.HealthResponse{Status: "degraded", Database: "ok", Cache: "unavailable"}},
		{"no cache configured", healthy, nil, fiber.StatusOK, dto.HealthResponse{Status: "ok", Database: "ok", Cache: "ok"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/api/health", handler.NewHealthHandler(tt.db, tt.cache).Health)

			resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body dto.HealthResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.want, body)
		})
	}
}
