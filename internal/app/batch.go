package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"trivia-quiz/internal/domain"
)

const translateConcurrency = 4

// User-facing fetch failures. The session only carries the message; the cause is logged.
const (
	msgNetwork        = "Could not reach the question server. Check your connection and retry."
	msgNoResults      = "Not enough questions for this category and difficulty."
	msgEmptyBatch     = "No questions were returned for this selection."
	msgInvalidRequest = "The question server rejected the request."
	msgTokenExpired   = "The question session expired."
	msgRateLimited    = "Too many requests. Wait a few seconds and retry."
)

func responseMessage(code int) string {
	switch code {
	case domain.ResponseNoResults:
		return msgNoResults
	case domain.ResponseInvalidParameter:
		return msgInvalidRequest
	case domain.ResponseTokenNotFound, domain.ResponseTokenEmpty:
		return msgTokenExpired
	case domain.ResponseRateLimit:
		return msgRateLimited
	default:
		return fmt.Sprintf("Invalid response from the question server (code %d).", code)
	}
}

// Retry re-issues the last failed batch request while Playing, or reloads the
// leaderboard while on the scoreboard.
func (e *Engine) Retry(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	switch e.s.State {
	case domain.StatePlaying:
		defer e.mu.Unlock()
		if e.lastRequest == nil || e.s.Loading || e.s.Error == "" {
			return domain.ErrNoPendingRequest
		}
		e.startFetchLocked(*e.lastRequest)
		return nil
	case domain.StateScoreboard:
		e.mu.Unlock()
		return e.refreshScores(ctx)
	default:
		e.mu.Unlock()
		return domain.ErrInvalidTransition
	}
}

// startFetchLocked clears the current batch and fetches a new one in the background.
// Results from earlier requests are discarded by generation.
func (e *Engine) startFetchLocked(req domain.BatchRequest) {
	e.cancelTimersLocked()
	e.generation++
	e.questionSeq++
	gen := e.generation
	e.lastRequest = &req

	e.s.Questions = nil
	e.s.Choices = nil
	e.s.CurrentIndex = 0
	e.s.Answered = false
	e.s.TimedOut = false
	e.s.SelectedAnswer = ""
	e.s.LastCorrect = false
	e.s.TimeRemaining = e.cfg.TimerStart
	e.s.Loading = true
	e.s.Error = ""
	e.publishLocked()

	e.wg.Add(1)
	go e.runFetch(gen, req)
}

func (e *Engine) runFetch(gen uint64, req domain.BatchRequest) {
	defer e.wg.Done()
	log := e.log.With("generation", gen, "category", int(req.Category), "difficulty", string(req.Difficulty))

	batch, err := e.cfg.Questions.FetchBatch(e.ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) && e.ctx.Err() != nil {
			return
		}
		log.Error("fetch question batch", "err", err)
		e.applyFailure(gen, msgNetwork, FetchTransport)
		return
	}
	if batch.ResponseCode != domain.ResponseSuccess {
		log.Warn("question server returned error code", "response_code", batch.ResponseCode)
		e.applyFailure(gen, responseMessage(batch.ResponseCode), FetchRejected)
		return
	}

	questions := sanitize(batch.Results, log)
	if len(questions) == 0 {
		log.Warn("question batch empty")
		e.applyFailure(gen, msgEmptyBatch, FetchEmpty)
		return
	}

	if !e.isCurrent(gen) {
		e.discard(log)
		return
	}
	questions = e.translateBatch(e.ctx, questions)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || gen != e.generation {
		e.cfg.Observer.BatchFetched(FetchStale)
		log.Debug("discarding stale question batch")
		return
	}
	e.s.Questions = questions
	e.s.CurrentIndex = 0
	e.s.Loading = false
	e.s.Error = ""
	e.beginQuestionLocked()
	e.cfg.Observer.BatchFetched(FetchOK)
	log.Info("question batch loaded", "questions", len(questions))
	e.publishLocked()
}

func (e *Engine) applyFailure(gen uint64, msg, outcome string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || gen != e.generation {
		e.cfg.Observer.BatchFetched(FetchStale)
		return
	}
	e.cfg.Observer.BatchFetched(outcome)
	e.s.Loading = false
	e.s.Error = msg
	e.publishLocked()
}

func (e *Engine) isCurrent(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.closed && gen == e.generation
}

func (e *Engine) discard(log *slog.Logger) {
	e.mu.Lock()
	e.cfg.Observer.BatchFetched(FetchStale)
	e.mu.Unlock()
	log.Debug("discarding stale question batch")
}

// translateBatch translates every question concurrently, preserving order.
func (e *Engine) translateBatch(ctx context.Context, questions []domain.Question) []domain.Question {
	out := make([]domain.Question, len(questions))
	var g errgroup.Group
	g.SetLimit(translateConcurrency)
	for i, q := range questions {
		g.Go(func() error {
			out[i] = e.cfg.Translator.Question(ctx, q)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// sanitize drops malformed questions and strips incorrect answers that duplicate the
// correct one, so a question never offers the right answer twice.
func sanitize(in []domain.Question, log *slog.Logger) []domain.Question {
	out := make([]domain.Question, 0, len(in))
	for _, q := range in {
		incorrect := make([]string, 0, len(q.IncorrectAnswers))
		for _, a := range q.IncorrectAnswers {
			if a != q.CorrectAnswer {
				incorrect = append(incorrect, a)
			}
		}
		q.IncorrectAnswers = incorrect
		if err := q.Validate(); err != nil {
			log.Warn("dropping malformed question", "err", err)
			continue
		}
		out = append(out, q)
	}
	return out
}
