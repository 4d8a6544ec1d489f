package memory

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"trivia-quiz/internal/domain"
)

// StaticQuestionSource serves batches from a fixed question pool (useful for offline
// play, demos and tests).
type StaticQuestionSource struct {
	pool []domain.Question

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewStaticQuestionSource(pool []domain.Question) *StaticQuestionSource {
	return &StaticQuestionSource{
		pool: pool,
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// FetchBatch picks up to req.Amount random questions matching the request filters.
// An empty selection is reported as ResponseNoResults, the way Open Trivia DB does.
func (s *StaticQuestionSource) FetchBatch(ctx context.Context, req domain.BatchRequest) (domain.Batch, error) {
	if err := ctx.Err(); err != nil {
		return domain.Batch{}, err
	}

	matches := make([]domain.Question, 0, len(s.pool))
	for _, q := range s.pool {
		if req.Category != domain.CategoryAny && q.Category != req.Category.Name() {
			continue
		}
		if req.Difficulty != domain.DifficultyAny && q.Difficulty != string(req.Difficulty) {
			continue
		}
		if req.Type != domain.TypeAny && q.Type != req.Type {
			continue
		}
		matches = append(matches, q)
	}
	if len(matches) == 0 {
		return domain.Batch{ResponseCode: domain.ResponseNoResults, Results: []domain.Question{}}, nil
	}

	s.mu.Lock()
	s.rnd.Shuffle(len(matches), func(i, j int) { matches[i], matches[j] = matches[j], matches[i] })
	s.mu.Unlock()

	if req.Amount > 0 && len(matches) > req.Amount {
		matches = matches[:req.Amount]
	}
	return domain.Batch{ResponseCode: domain.ResponseSuccess, Results: matches}, nil
}

// LoadQuestionFile reads a YAML list of questions for the static source.
func LoadQuestionFile(path string) ([]domain.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question file: %w", err)
	}
	var questions []domain.Question
	if err := yaml.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse question file: %w", err)
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
	}
	return questions, nil
}

// SampleQuestions is the built-in pool used when no question file is configured.
func SampleQuestions() []domain.Question {
	gk := domain.CategoryGeneralKnowledge.Name()
	sci := domain.CategoryScienceNature.Name()
	hist := domain.CategoryHistory.Name()
	geo := domain.CategoryGeography.Name()
	return []domain.Question{
		{Category: gk, Type: domain.TypeMultiple, Difficulty: "easy", Text: "How many days are there in a leap year?", CorrectAnswer: "366", IncorrectAnswers: []string{"365", "364", "367"}},
		{Category: gk, Type: domain.TypeMultiple, Difficulty: "easy", Text: "Which color do you get by mixing blue and yellow?", CorrectAnswer: "Green", IncorrectAnswers: []string{"Purple", "Orange", "Brown"}},
		{Category: gk, Type: domain.TypeBoolean, Difficulty: "easy", Text: "A dozen is equal to twelve.", CorrectAnswer: "True", IncorrectAnswers: []string{"False"}},
		{Category: gk, Type: domain.TypeMultiple, Difficulty: "medium", Text: "How many keys does a standard piano have?", CorrectAnswer: "88", IncorrectAnswers: []string{"76", "92", "84"}},
		{Category: sci, Type: domain.TypeMultiple, Difficulty: "easy", Text: "What is the chemical symbol for gold?", CorrectAnswer: "Au", IncorrectAnswers: []string{"Ag", "Gd", "Go"}},
		{Category: sci, Type: domain.TypeBoolean, Difficulty: "easy", Text: "Sound travels faster in water than in air.", CorrectAnswer: "True", IncorrectAnswers: []string{"False"}},
		{Category: sci, Type: domain.TypeMultiple, Difficulty: "medium", Text: "Which planet has the most moons?", CorrectAnswer: "Saturn", IncorrectAnswers: []string{"Jupiter", "Uranus", "Neptune"}},
		{Category: sci, Type: domain.TypeMultiple, Difficulty: "hard", Text: "What is the atomic number of tungsten?", CorrectAnswer: "74", IncorrectAnswers: []string{"72", "76", "78"}},
		{Category: hist, Type: domain.TypeMultiple, Difficulty: "easy", Text: "In which year did World War II end?", CorrectAnswer: "1945", IncorrectAnswers: []string{"1944", "1946", "1939"}},
		{Category: hist, Type: domain.TypeMultiple, Difficulty: "medium", Text: "Who was the first emperor of Rome?", CorrectAnswer: "Augustus", IncorrectAnswers: []string{"Julius Caesar", "Nero", "Tiberius"}},
		{Category: hist, Type: domain.TypeBoolean, Difficulty: "medium", Text: "The Berlin Wall fell in 1989.", CorrectAnswer: "True", IncorrectAnswers: []string{"False"}},
		{Category: geo, Type: domain.TypeMultiple, Difficulty: "easy", Text: "What is the capital of Australia?", CorrectAnswer: "Canberra", IncorrectAnswers: []string{"Sydney", "Melbourne", "Perth"}},
		{Category: geo, Type: domain.TypeMultiple, Difficulty: "medium", Text: "Which river flows through Budapest?", CorrectAnswer: "Danube", IncorrectAnswers: []string{"Rhine", "Vistula", "Elbe"}},
		{Category: geo, Type: domain.TypeBoolean, Difficulty: "hard", Text: "Lake Baikal is the deepest lake in the world.", CorrectAnswer: "True", IncorrectAnswers: []string{"False"}},
	}
}
