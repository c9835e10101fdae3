package handler

import (
	"context"
	"time"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	statusOK          = "ok"
	statusDegraded    = "degraded"
	statusUnavailable = "unavailable"

	healthCheckTimeout = 2 * time.Second
)

// Pinger is anything whose liveness can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports the status of the store and the cache.
type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler creates a new HealthHandler. A nil cache is reported as ok.
func NewHealthHandler(db Pinger, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Health godoc
// @Summary Health check
// @Description Pings the database and the cache
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
	defer cancel()

	resp := dto.HealthResponse{
		Status:   statusOK,
		Database: probe(ctx, "database", h.db),
		Cache:    probe(ctx, "cache", h.cache),
	}
	if resp.Database != statusOK || resp.Cache != statusOK {
		resp.Status = statusDegraded
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}

func probe(ctx context.Context, name string, p Pinger) string {
	if p == nil {
		return statusOK
	}
	if err := p.Ping(ctx); err != nil {
		logger.Get().Warn("Health check failed", zap.String("component", name), zap.Error(err))
		return statusUnavailable
	}
	return statusOK
}
