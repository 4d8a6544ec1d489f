package app

import "trivia-quiz/internal/domain"

// Batch fetch outcomes reported to Observer.BatchFetched.
const (
	FetchOK        = "ok"
	FetchTransport = "transport_error"
	FetchRejected  = "bad_response"
	FetchEmpty     = "empty"
	FetchStale     = "discarded"
)

// Answer outcomes reported to Observer.AnswerRecorded.
const (
	AnswerCorrect   = "correct"
	AnswerIncorrect = "incorrect"
	AnswerTimeout   = "timeout"
)

// Observer receives engine events for metrics. Calls happen with the engine lock held
// and must not block.
type Observer interface {
	QuizStarted(category domain.Category, difficulty domain.Difficulty)
	BatchFetched(outcome string)
	AnswerRecorded(outcome string)
	QuizFinished(score int)
	ScoreSaved()
}

type nopObserver struct{}

func (nopObserver) QuizStarted(domain.Category, domain.Difficulty) {}
func (nopObserver) BatchFetched(string)                            {}
func (nopObserver) AnswerRecorded(string)                          {}
func (nopObserver) QuizFinished(int)                               {}
func (nopObserver) ScoreSaved()                                    {}
