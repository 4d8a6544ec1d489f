package domain

import (
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// QuestionType is the Open Trivia DB question type.
type QuestionType string

const (
	TypeAny      QuestionType = ""
	TypeMultiple QuestionType = "multiple"
	TypeBoolean  QuestionType = "boolean"
)

// Question is an immutable trivia question as returned by a question source.
type Question struct {
	Category         string       `json:"category" yaml:"category"`
	Type             QuestionType `json:"type" yaml:"type"`
	Difficulty       string       `json:"difficulty" yaml:"difficulty"`
	Text             string       `json:"question" yaml:"question"`
	CorrectAnswer    string       `json:"correct_answer" yaml:"correct_answer"`
	IncorrectAnswers []string     `json:"incorrect_answers" yaml:"incorrect_answers"`
}

// Validate checks the shape of a question: a non-empty prompt and correct answer, and a
// correct answer that does not reappear among the incorrect ones.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" || q.CorrectAnswer == "" {
		return ErrMalformedQuestion
	}
	if len(q.IncorrectAnswers) == 0 {
		return ErrMalformedQuestion
	}
	for _, a := range q.IncorrectAnswers {
		if a == q.CorrectAnswer {
			return ErrDuplicateAnswer
		}
	}
	return nil
}

// Choices returns every answer (incorrect ones plus the correct one) in an order
// drawn from rnd. A nil rnd keeps the incorrect answers first and the correct one last.
func (q Question) Choices(rnd *rand.Rand) []string {
	choices := make([]string, 0, len(q.IncorrectAnswers)+1)
	choices = append(choices, q.IncorrectAnswers...)
	choices = append(choices, q.CorrectAnswer)
	if rnd != nil {
		rnd.Shuffle(len(choices), func(i, j int) {
			choices[i], choices[j] = choices[j], choices[i]
		})
	}
	return choices
}

// BatchRequest describes a question batch fetch. Zero values mean "any".
type BatchRequest struct {
	Amount     int
	Category   Category
	Difficulty Difficulty
	Type       QuestionType
}

// Batch is the raw answer of a question source.
type Batch struct {
	ResponseCode int        `json:"response_code"`
	Results      []Question `json:"results"`
}

// Open Trivia DB response codes.
const (
	ResponseSuccess          = 0
	ResponseNoResults        = 1
	ResponseInvalidParameter = 2
	ResponseTokenNotFound    = 3
	ResponseTokenEmpty       = 4
	ResponseRateLimit        = 5
)

// ScoreEntry is a saved result. Entries are append-only.
type ScoreEntry struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Score      int       `json:"score"`
	Category   string    `json:"category"`
	Difficulty string    `json:"difficulty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewScoreEntry builds an entry with a fresh ID. The username is trimmed.
func NewScoreEntry(username string, score int, category, difficulty string, at time.Time) ScoreEntry {
	return ScoreEntry{
		ID:         uuid.NewString(),
		Username:   strings.TrimSpace(username),
		Score:      score,
		Category:   category,
		Difficulty: difficulty,
		Timestamp:  at,
	}
}

// Ranks reports whether a should be listed before b on a leaderboard:
// higher score first, then whoever reached it earlier, then by name.
func Ranks(a, b ScoreEntry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	return a.Username < b.Username
}
