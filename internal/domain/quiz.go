package domain

import (
	"fmt"
	"strings"
	"time"
)

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

// Article is the text extracted from a Wikipedia page.
type Article struct {
	Title   string
	Content string
	Summary string
}

// Difficulty of a single question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty matches s case-insensitively against the known levels.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, true
	case "medium":
		return DifficultyMedium, true
	case "hard":
		return DifficultyHard, true
	default:
		return "", false
	}
}

// QuizQuestion is one multiple-choice question.
type QuizQuestion struct {
	Question      string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer int        `json:"correct_answer"`
	Explanation   string     `json:"explanation"`
	Difficulty    Difficulty `json:"difficulty,omitempty"`
}

// Validate checks the invariants every stored or served question must hold.
func (q *QuizQuestion) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return NewValidationError("question", "is required")
	}
	if len(q.Options) != OptionCount {
		return NewValidationError("options", fmt.Sprintf("must have exactly %d entries, got %d", OptionCount, len(q.Options)))
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= OptionCount {
		return NewValidationError("correct_answer", fmt.Sprintf("must be between 0 and %d, got %d", OptionCount-1, q.CorrectAnswer))
	}
	return nil
}

// RelatedTopics maps a topic name to its Wikipedia URL.
type RelatedTopics map[string]string

// GeneratedQuiz is the portion of a quiz produced by the LLM.
type GeneratedQuiz struct {
	Quiz          []QuizQuestion `json:"quiz"`
	RelatedTopics RelatedTopics  `json:"related_topics"`
}

// QuizResult is a complete generation, keyed by the article URL.
type QuizResult struct {
	URL           string         `json:"url"`
	Title         string         `json:"title"`
	Summary       string         `json:"summary"`
	Quiz          []QuizQuestion `json:"quiz"`
	RelatedTopics RelatedTopics  `json:"related_topics"`
}

// NewQuizResult composes the stored/served result from an article and its generated quiz.
func NewQuizResult(url string, article *Article, generated *GeneratedQuiz) *QuizResult {
	topics := generated.RelatedTopics
	if topics == nil {
		topics = RelatedTopics{}
	}
	return &QuizResult{
		URL:           url,
		Title:         article.Title,
		Summary:       article.Summary,
		Quiz:          generated.Quiz,
		RelatedTopics: topics,
	}
}

// Validate checks the result-level invariants: a non-empty quiz of valid questions.
func (r *QuizResult) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return NewValidationError("url", "is required")
	}
	if len(r.Quiz) == 0 {
		return NewValidationError("quiz", "must be a non-empty list")
	}
	for i := range r.Quiz {
		if err := r.Quiz[i].Validate(); err != nil {
			if ve, ok := err.(*ValidationError); ok {
				return NewValidationError(fmt.Sprintf("quiz[%d].%s", i, ve.Field), ve.Reason)
			}
			return err
		}
	}
	return nil
}

// HistoryEntry is one row of the generation history.
type HistoryEntry struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
