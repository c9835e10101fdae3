package quizgen

import (
	"context"
	"errors"
	"fmt"
	"time"
	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// LLMQuizGenerator implements domain.QuizGenerator on top of a langchaingo model.
type LLMQuizGenerator struct {
	model           llms.Model
	temperature     float64
	timeout         time.Duration
	questionCount   int
	maxContentChars int
}

func NewLLMQuizGenerator(model llms.Model, llmCfg config.LLMConfig, quizCfg config.QuizConfig) *LLMQuizGenerator {
	return &LLMQuizGenerator{
		model:           model,
		temperature:     llmCfg.Temperature,
		timeout:         llmCfg.Timeout,
		questionCount:   quizCfg.QuestionCount,
		maxContentChars: quizCfg.MaxContentChars,
	}
}

// Generate prompts the model once and returns the validated quiz. Transport
// failures are returned as-is; there is no retry.
func (g *LLMQuizGenerator) Generate(ctx context.Context, title, content string) (*domain.GeneratedQuiz, error) {
	l := logger.Get()
	prompt := BuildPrompt(title, content, g.questionCount, g.maxContentChars)

	raw, err := g.callLLM(ctx, prompt)
	if err != nil {
		return nil, err
	}

	span, ok := ExtractFirstBalancedObject(raw)
	if !ok {
		l.Error("Could not find a balanced JSON object in LLM response",
			zap.String("title", title),
			zap.String("raw_llm_response", raw))
		return nil, &domain.ParseError{Err: errors.New("no JSON object found in LLM response")}
	}

	generated, err := ParseQuizResponse(span)
	if err != nil {
		l.Error("Rejected LLM response",
			zap.String("title", title),
			zap.Error(err),
			zap.String("json_span", span))
		return nil, err
	}

	l.Info("Generated quiz",
		zap.String("title", title),
		zap.Int("questions", len(generated.Quiz)),
		zap.Int("related_topics", len(generated.RelatedTopics)))
	return generated, nil
}

func (g *LLMQuizGenerator) callLLM(ctx context.Context, prompt string) (string, error) {
	l := logger.Get()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	response, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt, llms.WithTemperature(g.temperature))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("LLM request timed out", zap.Duration("timeout", g.timeout), zap.Error(err))
			return "", fmt.Errorf("LLM request timed out: %w", err)
		}
		l.Error("Failed to get response from LLM", zap.Error(err))
		return "", fmt.Errorf("LLM call failed: %w", err)
	}

	l.Debug("LLM responded", zap.Duration("latency", time.Since(start)), zap.Int("bytes", len(response)))
	return response, nil
}

var _ domain.QuizGenerator = (*LLMQuizGenerator)(nil)
