package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"trivia-quiz/internal/domain"
)

func TestStaticQuestionSourceFilters(t *testing.T) {
	src := NewStaticQuestionSource(SampleQuestions())

	tests := map[string]struct {
		req      domain.BatchRequest
		wantCode int
		check    func(t *testing.T, q domain.Question)
	}{
		"any": {
			req:      domain.BatchRequest{Amount: 10},
			wantCode: domain.ResponseSuccess,
		},
		"category and difficulty": {
			req:      domain.BatchRequest{Amount: 10, Category: domain.CategoryHistory, Difficulty: domain.DifficultyMedium},
			wantCode: domain.ResponseSuccess,
			check: func(t *testing.T, q domain.Question) {
				require.Equal(t, "History", q.Category)
				require.Equal(t, "medium", q.Difficulty)
			},
		},
		"boolean only": {
			req:      domain.BatchRequest{Amount: 10, Type: domain.TypeBoolean},
			wantCode: domain.ResponseSuccess,
			check: func(t *testing.T, q domain.Question) {
				require.Equal(t, domain.TypeBoolean, q.Type)
			},
		},
		"no match": {
			req:      domain.BatchRequest{Amount: 10, Category: domain.CategoryAnimals},
			wantCode: domain.ResponseNoResults,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			batch, err := src.FetchBatch(context.Background(), tt.req)
			require.NoError(t, err)
			require.Equal(t, tt.wantCode, batch.ResponseCode)
			require.LessOrEqual(t, len(batch.Results), tt.req.Amount)
			if tt.wantCode == domain.ResponseSuccess {
				require.NotEmpty(t, batch.Results)
			}
			for _, q := range batch.Results {
				require.NoError(t, q.Validate())
				if tt.check != nil {
					tt.check(t, q)
				}
			}
		})
	}
}

func TestStaticQuestionSourceHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewStaticQuestionSource(SampleQuestions()).FetchBatch(ctx, domain.BatchRequest{Amount: 1})
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadQuestionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.yaml")
	data := `
- category: Animals
  type: boolean
  difficulty: easy
  question: Bats are mammals.
  correct_answer: "True"
  incorrect_answers: ["False"]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	questions, err := LoadQuestionFile(path)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	require.Equal(t, "Bats are mammals.", questions[0].Text)
	require.Equal(t, []string{"False"}, questions[0].IncorrectAnswers)
}

func TestLoadQuestionFileRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.yaml")
	data := `
- question: Pick one
  correct_answer: A
  incorrect_answers: [A, B]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	_, err := LoadQuestionFile(path)
	require.ErrorIs(t, err, domain.ErrDuplicateAnswer)
}
