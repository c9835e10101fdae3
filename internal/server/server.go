package server

import (
	"wiki-quiz/internal/config"
	"wiki-quiz/internal/handler"
	"wiki-quiz/internal/middleware"
	"wiki-quiz/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Quiz   *handler.QuizHandler
	Health *handler.HealthHandler
}

// New builds the fiber app with middleware and every route registered.
func New(cfg config.ServerConfig, h Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "wiki-quiz",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	origins := cfg.CORSOrigins
	if origins == "" {
		origins = "*"
	}

	app.Use(requestid.New(requestid.Config{Generator: util.NewULID}))
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	validationMiddleware := middleware.NewValidationMiddleware()

	api := app.Group("/api")
	api.Post("/generate", validationMiddleware.ValidateGenerateRequest(), h.Quiz.Generate)
	api.Get("/history", h.Quiz.History)
	api.Get("/quiz/*", h.Quiz.GetQuiz)
	api.Get("/health", h.Health.Health)

	return app
}
