package dto

import (
	"time"
	"wiki-quiz/internal/domain"
)

// GenerateRequest is the body of POST /api/generate
// @Description Request body for generating a quiz
type GenerateRequest struct {
	URL string `json:"url" example:"https://en.wikipedia.org/wiki/Alan_Turing"`
}

// QuestionResponse is one quiz question
type QuestionResponse struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty,omitempty"`
}

// QuizResponse represents a generated quiz in the API response
// @Description Generated quiz for one article
type QuizResponse struct {
	URL           string             `json:"url"`
	Title         string             `json:"title"`
	Summary       string             `json:"summary"`
	Quiz          []QuestionResponse `json:"quiz"`
	RelatedTopics map[string]string  `json:"related_topics"`
}

// HistoryItemResponse is one row of GET /api/history
type HistoryItemResponse struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponse represents an error in the API response. Detail is only set
// for server-side failures.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// HealthResponse reports dependency status for GET /api/health
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// NewQuizResponse converts a domain result for the wire.
func NewQuizResponse(r *domain.QuizResult) QuizResponse {
	questions := make([]QuestionResponse, 0, len(r.Quiz))
	for _, q := range r.Quiz {
		questions = append(questions, QuestionResponse{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Difficulty:    string(q.Difficulty),
		})
	}
	topics := map[string]string(r.RelatedTopics)
	if topics == nil {
		topics = map[string]string{}
	}
	return QuizResponse{
		URL:           r.URL,
		Title:         r.Title,
		Summary:       r.Summary,
		Quiz:          questions,
		RelatedTopics: topics,
	}
}

// NewHistoryResponse converts history entries for the wire; never nil.
func NewHistoryResponse(entries []domain.HistoryEntry) []HistoryItemResponse {
	items := make([]HistoryItemResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, HistoryItemResponse{URL: e.URL, Title: e.Title, CreatedAt: e.CreatedAt})
	}
	return items
}
