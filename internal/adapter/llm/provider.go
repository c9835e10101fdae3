package llm

import (
	"context"
	"fmt"
	"net/http"
	"wiki-quiz/internal/config"
	"wiki-quiz/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// NewModel builds the langchaingo model selected by cfg.Provider.
func NewModel(ctx context.Context, cfg config.LLMConfig) (llms.Model, error) {
	logger.Get().Info("Initializing LLM client",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model))

	switch cfg.Provider {
	case config.ProviderGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini API key cannot be empty")
		}
		model, err := googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return model, nil

	case config.ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai API key cannot be empty")
		}
		model, err := openai.New(
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		return model, nil

	case config.ProviderOllama:
		if cfg.ServerURL == "" {
			return nil, fmt.Errorf("ollama server URL cannot be empty")
		}
		// the generator applies its own deadline per call; this bounds the transport
		httpClient := &http.Client{Timeout: cfg.Timeout}
		model, err := ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(httpClient),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
		return model, nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
