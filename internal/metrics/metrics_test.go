package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/domain"
)

var _ app.Observer = (*Metrics)(nil)

func TestMetricsCountEvents(t *testing.T) {
	m := New()

	m.QuizStarted(domain.CategoryHistory, domain.DifficultyEasy)
	m.QuizStarted(domain.CategoryAny, domain.DifficultyAny)
	m.BatchFetched(app.FetchOK)
	m.BatchFetched(app.FetchOK)
	m.BatchFetched(app.FetchTransport)
	m.AnswerRecorded(app.AnswerCorrect)
	m.AnswerRecorded(app.AnswerTimeout)
	m.QuizFinished(7)
	m.ScoreSaved()
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	require.Equal(t, 1.0, testutil.ToFloat64(m.quizzesStarted.WithLabelValues("History", "easy")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.quizzesStarted.WithLabelValues("any", "any")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.batches.WithLabelValues(app.FetchOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.batches.WithLabelValues(app.FetchTransport)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.answers.WithLabelValues(app.AnswerTimeout)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.scoresSaved))
	require.Equal(t, 1.0, testutil.ToFloat64(m.sessions))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ScoreSaved()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "trivia_scores_saved_total 1")
	require.Contains(t, string(body), "go_goroutines")
}
