package validation

import (
	"strings"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
)

// MaxURLLength bounds accepted article URLs.
const MaxURLLength = 2048

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateGenerateRequest checks the generate request body and returns the
// trimmed URL.
func (v *Validator) ValidateGenerateRequest(req *dto.GenerateRequest) (string, error) {
	if req == nil {
		return "", domain.NewInputError(domain.MsgURLRequired)
	}
	return v.ValidateArticleURL(req.URL)
}

// ValidateArticleURL only checks presence and length; whether the URL points
// at a readable article is decided by the fetcher.
func (v *Validator) ValidateArticleURL(raw string) (string, error) {
	url := strings.TrimSpace(raw)
	if url == "" {
		return "", domain.NewInputError(domain.MsgURLRequired)
	}
	if len(url) > MaxURLLength {
		return "", domain.NewInputError("URL is too long")
	}
	return url, nil
}
