package quizgen

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const quizPromptTemplate = `You are an expert quiz writer. Create a quiz of %d multiple-choice questions based on the following Wikipedia article.

Title: %s
Content: %s

Difficulty mix: %d Easy, %d Medium and %d Hard questions.
Every question must have exactly 4 options. "correct_answer" is the zero-based index (0-3) of the correct option.
Also suggest related Wikipedia topics as an object mapping the topic name to its Wikipedia URL.

Return ONLY valid JSON in this exact format:
{
  "quiz": [
    {
      "question": "Question text?",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correct_answer": 0,
      "explanation": "Why the correct option is right",
      "difficulty": "Easy"
    }
  ],
  "related_topics": {
    "Topic name": "https://en.wikipedia.org/wiki/Topic_name"
  }
}

Do not include any text before or after the JSON. Return only the JSON object.`

// BuildPrompt renders the generation prompt. content is cut to maxChars runes.
func BuildPrompt(title, content string, questionCount, maxChars int) string {
	easy, medium, hard := DifficultyMix(questionCount)
	return fmt.Sprintf(quizPromptTemplate,
		questionCount,
		strings.TrimSpace(title),
		TruncateRunes(strings.TrimSpace(content), maxChars),
		easy, medium, hard,
	)
}

// DifficultyMix splits n questions into 30% easy, 30% hard and the rest medium.
func DifficultyMix(n int) (easy, medium, hard int) {
	if n <= 0 {
		return 0, 0, 0
	}
	easy = n * 3 / 10
	hard = n * 3 / 10
	medium = n - easy - hard
	return easy, medium, hard
}

// TruncateRunes returns at most maxChars runes of s without splitting a character.
func TruncateRunes(s string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	count := 0
	for i := range s {
		if count == maxChars {
			return s[:i]
		}
		count++
	}
	return s
}
