// Package metrics exposes quiz engine events as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trivia-quiz/internal/domain"
)

// Metrics implements app.Observer. One instance is shared by every engine.
type Metrics struct {
	registry *prometheus.Registry

	quizzesStarted *prometheus.CounterVec
	batches        *prometheus.CounterVec
	answers        *prometheus.CounterVec
	finalScores    prometheus.Histogram
	scoresSaved    prometheus.Counter
	sessions       prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		quizzesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trivia",
			Name:      "quizzes_started_total",
			Help:      "Quizzes started, by category and difficulty.",
		}, []string{"category", "difficulty"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trivia",
			Name:      "question_batches_total",
			Help:      "Question batch fetches, by outcome.",
		}, []string{"outcome"}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trivia",
			Name:      "answers_total",
			Help:      "Answered questions, by outcome.",
		}, []string{"outcome"}),
		finalScores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "trivia",
			Name:      "final_score",
			Help:      "Score at the end of a quiz.",
			Buckets:   prometheus.LinearBuckets(0, 1, 11),
		}),
		scoresSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trivia",
			Name:      "scores_saved_total",
			Help:      "Leaderboard entries saved.",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "trivia",
			Name:      "active_sessions",
			Help:      "Open websocket sessions.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.quizzesStarted,
		m.batches,
		m.answers,
		m.finalScores,
		m.scoresSaved,
		m.sessions,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) QuizStarted(category domain.Category, difficulty domain.Difficulty) {
	name := category.Name()
	if name == "" {
		name = "any"
	}
	level := string(difficulty)
	if level == "" {
		level = "any"
	}
	m.quizzesStarted.WithLabelValues(name, level).Inc()
}

func (m *Metrics) BatchFetched(outcome string) {
	m.batches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AnswerRecorded(outcome string) {
	m.answers.WithLabelValues(outcome).Inc()
}

func (m *Metrics) QuizFinished(score int) {
	m.finalScores.Observe(float64(score))
}

func (m *Metrics) ScoreSaved() {
	m.scoresSaved.Inc()
}

func (m *Metrics) SessionOpened() {
	m.sessions.Inc()
}

func (m *Metrics) SessionClosed() {
	m.sessions.Dec()
}
