package middleware

import (
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// LocalValidatedURL is the fiber Locals key holding the validated article URL.
const LocalValidatedURL = "validated_url"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateGenerateRequest parses the generate body and stores the URL for the handler.
func (vm *ValidationMiddleware) ValidateGenerateRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.GenerateRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return domain.NewError(domain.ErrInvalidInput, domain.MsgInvalidBody, err)
			}
		}

		url, err := vm.validator.ValidateGenerateRequest(&req)
		if err != nil {
			return err // This will be handled by ErrorHandler middleware
		}

		c.Locals(LocalValidatedURL, url)
		return c.Next()
	}
}
