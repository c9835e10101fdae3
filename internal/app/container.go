// Package app wires configuration into the quiz pipeline shared by the API
// server and the batch CLI.
package app

import (
	"context"
	"fmt"
	"wiki-quiz/internal/adapter"
	"wiki-quiz/internal/adapter/llm"
	"wiki-quiz/internal/adapter/quizgen"
	"wiki-quiz/internal/adapter/scraper"
	"wiki-quiz/internal/cache"
	"wiki-quiz/internal/config"
	"wiki-quiz/internal/database"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/handler"
	"wiki-quiz/internal/logger"
	"wiki-quiz/internal/repository"
	"wiki-quiz/internal/server"
	"wiki-quiz/internal/service"
	"wiki-quiz/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// Container holds the long-lived dependencies of one process.
type Container struct {
	Config      *config.Config
	DB          *sqlx.DB
	Cache       domain.Cache
	Repository  *repository.QuizDatabaseAdapter
	QuizService service.QuizService

	redisClient *redis.Client
}

type options struct {
	model   llms.Model
	fetcher domain.ArticleFetcher
	clock   util.Clock
}

// Option overrides a component built by NewContainer.
type Option func(*options)

// WithModel uses model instead of the configured LLM provider.
func WithModel(model llms.Model) Option {
	return func(o *options) { o.model = model }
}

// WithFetcher uses fetcher instead of the Wikipedia scraper.
func WithFetcher(fetcher domain.ArticleFetcher) Option {
	return func(o *options) { o.fetcher = fetcher }
}

// WithClock sets the clock used for cache expiry and row timestamps.
func WithClock(clock util.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// NewContainer connects to the store and cache, runs migrations when
// configured, and assembles the quiz service. Call Close when done.
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	o := options{clock: util.SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	l := logger.Get()

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c := &Container{Config: cfg, DB: db}

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db.DB, cfg.Database); err != nil {
			c.Close()
			return nil, err
		}
	}

	switch cfg.Cache.Driver {
	case config.CacheRedis:
		client, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		l.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
		c.redisClient = client
		c.Cache = adapter.NewRedisCacheAdapter(client)
	default:
		c.Cache = adapter.NewMemoryCache(o.clock)
	}

	model := o.model
	if model == nil {
		model, err = llm.NewModel(ctx, cfg.LLM)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		l.Info("LLM client initialized", zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))
	}

	fetcher := o.fetcher
	if fetcher == nil {
		fetcher = scraper.NewWikipediaScraper(cfg.Scraper)
	}

	c.Repository = repository.NewQuizDatabaseAdapter(db, cfg.Database.QueryTimeout, o.clock)
	responses := service.NewResponseCacheService(c.Cache, cfg.Cache.ResultTTL, cfg.Cache.HistoryTTL)
	generator := quizgen.NewLLMQuizGenerator(model, cfg.LLM, cfg.Quiz)
	c.QuizService = service.NewQuizService(fetcher, generator, c.Repository, responses)

	return c, nil
}

// Handlers builds the HTTP handlers over the container's services.
func (c *Container) Handlers() server.Handlers {
	return server.Handlers{
		Quiz:   handler.NewQuizHandler(c.QuizService),
		Health: handler.NewHealthHandler(c.Repository, c.Cache),
	}
}

// Close releases the database and redis connections.
func (c *Container) Close() {
	l := logger.Get()
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			l.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			l.Warn("Failed to close database", zap.Error(err))
		}
	}
}
