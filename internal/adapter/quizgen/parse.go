package quizgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"wiki-quiz/internal/domain"
)

const wikipediaArticleBase = "https://en.wikipedia.org/wiki/"

// ParseQuizResponse decodes and validates the JSON object produced by the LLM.
// It returns either a fully valid quiz or an error, never a partial result:
// *domain.ParseError for malformed JSON and *domain.ValidationError for
// anything that violates the quiz schema.
func ParseQuizResponse(span string) (*domain.GeneratedQuiz, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &root); err != nil {
		return nil, &domain.ParseError{Err: err}
	}

	rawQuiz, ok := present(root, "quiz")
	if !ok {
		return nil, domain.NewValidationError("quiz", "is required")
	}
	rawTopics, ok := present(root, "related_topics")
	if !ok {
		return nil, domain.NewValidationError("related_topics", "is required")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(rawQuiz, &items); err != nil {
		return nil, domain.NewValidationError("quiz", "must be a list")
	}
	if len(items) == 0 {
		return nil, domain.NewValidationError("quiz", "must be a non-empty list")
	}

	questions := make([]domain.QuizQuestion, 0, len(items))
	for i, item := range items {
		q, err := parseQuestion(item)
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("quiz[%d]%s", i, err.suffix()), err.Reason)
		}
		questions = append(questions, *q)
	}

	topics, err := parseRelatedTopics(rawTopics)
	if err != nil {
		return nil, err
	}

	return &domain.GeneratedQuiz{Quiz: questions, RelatedTopics: topics}, nil
}

// fieldError is a validation failure inside one question; Field is empty for
// the question object itself.
type fieldError struct {
	Field  string
	Reason string
}

func (e *fieldError) suffix() string {
	if e.Field == "" {
		return ""
	}
	return "." + e.Field
}

func parseQuestion(raw json.RawMessage) (*domain.QuizQuestion, *fieldError) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, &fieldError{Reason: "must be an object"}
	}

	var q domain.QuizQuestion

	rawQuestion, ok := present(fields, "question")
	if !ok {
		return nil, &fieldError{Field: "question", Reason: "is required"}
	}
	if err := json.Unmarshal(rawQuestion, &q.Question); err != nil {
		return nil, &fieldError{Field: "question", Reason: "must be a string"}
	}
	if strings.TrimSpace(q.Question) == "" {
		return nil, &fieldError{Field: "question", Reason: "must not be empty"}
	}

	rawOptions, ok := present(fields, "options")
	if !ok {
		return nil, &fieldError{Field: "options", Reason: "is required"}
	}
	var options []*string
	if err := json.Unmarshal(rawOptions, &options); err != nil {
		return nil, &fieldError{Field: "options", Reason: "must be a list of strings"}
	}
	if len(options) != domain.OptionCount {
		return nil, &fieldError{Field: "options", Reason: fmt.Sprintf("must have exactly %d entries, got %d", domain.OptionCount, len(options))}
	}
	q.Options = make([]string, 0, len(options))
	for i, opt := range options {
		if opt == nil {
			return nil, &fieldError{Field: "options", Reason: fmt.Sprintf("entry %d must be a string, got null", i)}
		}
		q.Options = append(q.Options, *opt)
	}

	rawAnswer, ok := present(fields, "correct_answer")
	if !ok {
		return nil, &fieldError{Field: "correct_answer", Reason: "is required"}
	}
	answer, err := strconv.Atoi(string(bytes.TrimSpace(rawAnswer)))
	if err != nil {
		return nil, &fieldError{Field: "correct_answer", Reason: "must be an integer"}
	}
	if answer < 0 || answer >= domain.OptionCount {
		return nil, &fieldError{Field: "correct_answer", Reason: fmt.Sprintf("must be between 0 and %d, got %d", domain.OptionCount-1, answer)}
	}
	q.CorrectAnswer = answer

	rawExplanation, ok := present(fields, "explanation")
	if !ok {
		return nil, &fieldError{Field: "explanation", Reason: "is required"}
	}
	if err := json.Unmarshal(rawExplanation, &q.Explanation); err != nil {
		return nil, &fieldError{Field: "explanation", Reason: "must be a string"}
	}

	if rawDifficulty, ok := present(fields, "difficulty"); ok {
		var s string
		if err := json.Unmarshal(rawDifficulty, &s); err != nil {
			return nil, &fieldError{Field: "difficulty", Reason: "must be a string"}
		}
		d, known := domain.ParseDifficulty(s)
		if !known {
			return nil, &fieldError{Field: "difficulty", Reason: fmt.Sprintf("must be Easy, Medium or Hard, got %q", s)}
		}
		q.Difficulty = d
	}

	return &q, nil
}

// parseRelatedTopics accepts the canonical name -> URL object, or a plain list
// of topic names which are mapped to their English Wikipedia URLs.
func parseRelatedTopics(raw json.RawMessage) (domain.RelatedTopics, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, domain.NewValidationError("related_topics", "must be an object or a list")
	}

	switch trimmed[0] {
	case '{':
		var raw map[string]*string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, domain.NewValidationError("related_topics", "must map topic names to URL strings")
		}
		topics := make(domain.RelatedTopics, len(raw))
		for name, link := range raw {
			if link == nil {
				return nil, domain.NewValidationError("related_topics", fmt.Sprintf("URL for %q must be a string, got null", name))
			}
			topics[name] = *link
		}
		return topics, nil
	case '[':
		var names []*string
		if err := json.Unmarshal(trimmed, &names); err != nil {
			return nil, domain.NewValidationError("related_topics", "must be a list of strings")
		}
		topics := make(domain.RelatedTopics, len(names))
		for _, entry := range names {
			if entry == nil {
				return nil, domain.NewValidationError("related_topics", "entries must be strings, got null")
			}
			name := strings.TrimSpace(*entry)
			if name == "" {
				continue
			}
			topics[name] = WikipediaURL(name)
		}
		return topics, nil
	default:
		return nil, domain.NewValidationError("related_topics", "must be an object or a list")
	}
}

// WikipediaURL builds the English Wikipedia URL for an article name.
func WikipediaURL(name string) string {
	return wikipediaArticleBase + url.PathEscape(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// present reports whether key exists with a non-null value.
func present(m map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	raw, ok := m[key]
	if !ok || string(bytes.TrimSpace(raw)) == "null" {
		return nil, false
	}
	return raw, true
}
