// Package llmtest provides a scripted llms.Model for tests.
package llmtest

import (
	"context"
	"errors"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

// StubModel replies with a fixed text (or error) and records every prompt it receives.
type StubModel struct {
	mu       sync.Mutex
	Response string
	Err      error
	// Respond, when set, overrides Response/Err and is given the prompt.
	Respond func(prompt string) (string, error)

	prompts []string
	options []llms.CallOptions
}

func (s *StubModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	var prompt string
	for _, m := range messages {
		for _, part := range m.Parts {
			if text, ok := part.(llms.TextContent); ok {
				prompt += text.Text
			}
		}
	}

	text, err := s.Call(ctx, prompt, options...)
	if err != nil {
		return nil, err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: text}},
	}, nil
}

func (s *StubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.options = append(s.options, opts)
	respond, response, stubErr := s.Respond, s.Response, s.Err
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if respond != nil {
		return respond(prompt)
	}
	if stubErr != nil {
		return "", stubErr
	}
	if response == "" {
		return "", errors.New("llmtest: no response configured")
	}
	return response, nil
}

// Calls reports how many prompts the model has received.
func (s *StubModel) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

// LastPrompt returns the most recent prompt, or "" if none.
func (s *StubModel) LastPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.prompts) == 0 {
		return ""
	}
	return s.prompts[len(s.prompts)-1]
}

// LastOptions returns the call options of the most recent call.
func (s *StubModel) LastOptions() llms.CallOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.options) == 0 {
		return llms.CallOptions{}
	}
	return s.options[len(s.options)-1]
}

var _ llms.Model = (*StubModel)(nil)
