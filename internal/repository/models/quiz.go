package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// JSONText is a JSON document stored in a JSONB (postgres) or TEXT (sqlite) column.
type JSONText json.RawMessage

// NewJSONText marshals v into a JSONText.
func NewJSONText(v any) (JSONText, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return JSONText(b), nil
}

// Value implements the driver.Valuer interface
func (j JSONText) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "null", nil
	}
	if !json.Valid(j) {
		return nil, errors.New("JSONText Value: invalid JSON")
	}
	// string rather than []byte so sqlite stores TEXT, not BLOB
	return string(j), nil
}

// Scan implements the sql.Scanner interface
func (j *JSONText) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = JSONText(v)
	default:
		return fmt.Errorf("JSONText Scan: unsupported type %T", value)
	}
	return nil
}

// Unmarshal decodes the document into v. A NULL or empty column leaves v untouched.
func (j JSONText) Unmarshal(v any) error {
	if len(j) == 0 || string(j) == "null" {
		return nil
	}
	return json.Unmarshal(j, v)
}

// Quiz is one row of the quizzes table.
type Quiz struct {
	URL           string    `db:"url"`
	Title         string    `db:"title"`
	Summary       string    `db:"summary"`
	Quiz          JSONText  `db:"quiz"`
	RelatedTopics JSONText  `db:"related_topics"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// QuizHistory is the projection used for the history listing.
type QuizHistory struct {
	URL       string    `db:"url"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"`
}
