package middleware

import (
	"errors"
	"net/http"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const internalErrorMessage = "Internal server error"

// ErrorHandler is the centralized fiber error handler. Client errors render
// {"error": message}; server errors add the underlying cause as "detail".
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		l := logger.Get()

		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode := mapDomainErrorToHTTPStatus(domainErr)
			resp := dto.ErrorResponse{Error: domainErr.Message}

			if statusCode >= http.StatusInternalServerError {
				l.Error("Domain error occurred",
					zap.String("code", string(domainErr.Code)),
					zap.String("message", domainErr.Message),
					zap.String("path", c.Path()),
					zap.Int("status", statusCode),
					zap.Error(domainErr.Err),
				)
				resp.Detail = errorDetail(domainErr)
			} else {
				l.Warn("Request rejected",
					zap.String("code", string(domainErr.Code)),
					zap.String("message", domainErr.Message),
					zap.String("path", c.Path()),
					zap.Int("status", statusCode),
					zap.NamedError("cause", domainErr.Err),
				)
			}
			return c.Status(statusCode).JSON(resp)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			l.Warn("Fiber error occurred",
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
				zap.String("path", c.Path()),
			)
			resp := dto.ErrorResponse{Error: fiberErr.Message}
			return c.Status(fiberErr.Code).JSON(resp)
		}

		l.Error("Unknown error occurred",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error:  internalErrorMessage,
			Detail: err.Error(),
		})
	}
}

// mapDomainErrorToHTTPStatus maps domain errors to HTTP status codes
func mapDomainErrorToHTTPStatus(err *domain.DomainError) int {
	switch err.Code {
	case domain.ErrInvalidInput, domain.ErrFetchFailed:
		return http.StatusBadRequest
	case domain.ErrQuizNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errorDetail(err *domain.DomainError) string {
	if err.Err != nil {
		return err.Err.Error()
	}
	return err.Message
}
