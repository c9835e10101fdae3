package handler

import (
	"net/url"
	"strings"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/middleware"
	"wiki-quiz/internal/service"
	"wiki-quiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// Generate godoc
// @Summary Generate a quiz from a Wikipedia article
// @Description Scrapes the article, asks the LLM for a quiz and stores the result. Repeated requests within the cache TTL are served from cache.
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateRequest true "Article URL"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /generate [post]
func (h *QuizHandler) Generate(c *fiber.Ctx) error {
	articleURL, ok := c.Locals(middleware.LocalValidatedURL).(string)
	if !ok {
		var req dto.GenerateRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return domain.NewError(domain.ErrInvalidInput, domain.MsgInvalidBody, err)
			}
		}
		validated, err := h.validator.ValidateGenerateRequest(&req)
		if err != nil {
			return err
		}
		articleURL = validated
	}

	result, err := h.service.Generate(c.UserContext(), articleURL)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(result))
}

// History godoc
// @Summary List generated quizzes
// @Description Returns every generated quiz, newest first
// @Tags quiz
// @Produce json
// @Success 200 {array} dto.HistoryItemResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /history [get]
func (h *QuizHandler) History(c *fiber.Ctx) error {
	entries, err := h.service.History(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewHistoryResponse(entries))
}

// GetQuiz godoc
// @Summary Get a stored quiz
// @Description Returns the quiz generated for an article URL. The URL goes in the path, percent-encoded or raw, or in the url query parameter.
// @Tags quiz
// @Produce json
// @Param url path string true "Article URL"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /quiz/{url} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	raw, err := quizURLParam(c)
	if err != nil {
		return err
	}
	articleURL, err := h.validator.ValidateArticleURL(raw)
	if err != nil {
		return err
	}

	result, err := h.service.GetQuiz(c.UserContext(), articleURL)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(result))
}

// quizURLParam reads the article URL from the wildcard segment, falling back
// to the url query parameter.
func quizURLParam(c *fiber.Ctx) (string, error) {
	raw := c.Params("*")
	if raw == "" {
		return c.Query("url"), nil
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", domain.NewError(domain.ErrInvalidInput, "Invalid quiz URL", err)
	}
	// proxies and some clients collapse "//" in paths
	if strings.HasPrefix(decoded, "https:/") && !strings.HasPrefix(decoded, "https://") {
		decoded = "https://" + strings.TrimPrefix(decoded, "https:/")
	} else if strings.HasPrefix(decoded, "http:/") && !strings.HasPrefix(decoded, "http://") {
		decoded = "http://" + strings.TrimPrefix(decoded, "http:/")
	}
	return decoded, nil
}
