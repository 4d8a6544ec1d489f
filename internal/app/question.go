package app

import (
	"time"

	"trivia-quiz/internal/domain"
)

// SelectAnswer records the player's answer to the current question and reports whether
// it was correct. Only the first answer per question counts.
func (e *Engine) SelectAnswer(answer string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false, ErrClosed
	}
	if e.s.State != domain.StatePlaying {
		return false, domain.ErrInvalidTransition
	}
	q, ok := e.s.CurrentQuestion()
	if !ok || e.s.Loading {
		return false, domain.ErrNoCurrentQuestion
	}
	if e.s.Answered {
		return false, domain.ErrAlreadyAnswered
	}

	correct := answer == q.CorrectAnswer
	if correct {
		e.s.Score++
		e.cfg.Observer.AnswerRecorded(AnswerCorrect)
	} else {
		e.cfg.Observer.AnswerRecorded(AnswerIncorrect)
	}
	e.s.Answered = true
	e.s.SelectedAnswer = answer
	e.s.LastCorrect = correct

	e.cancelTimersLocked()
	if e.cfg.AutoAdvance {
		e.scheduleAdvanceLocked(e.questionSeq, e.cfg.AnswerGrace)
	}
	e.publishLocked()
	return correct, nil
}

// NextQuestion moves to the following question, or to Finished after the last one.
// Advancing an unanswered question counts it as not answered. With no batch loaded
// the call is a no-op.
func (e *Engine) NextQuestion() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.s.State != domain.StatePlaying {
		return domain.ErrInvalidTransition
	}
	if len(e.s.Questions) == 0 {
		e.log.Debug("next question ignored, no batch loaded")
		return nil
	}
	e.nextQuestionLocked()
	return nil
}

func (e *Engine) nextQuestionLocked() {
	e.cancelTimersLocked()
	if e.s.CurrentIndex < len(e.s.Questions)-1 {
		e.s.CurrentIndex++
		e.beginQuestionLocked()
	} else {
		e.questionSeq++
		e.s.State = domain.StateFinished
		e.s.Choices = nil
		e.cfg.Observer.QuizFinished(e.s.Score)
		e.log.Info("quiz finished", "score", e.s.Score, "questions", len(e.s.Questions))
	}
	e.publishLocked()
}

// beginQuestionLocked resets the answer guard and countdown for CurrentIndex and
// schedules the first tick.
func (e *Engine) beginQuestionLocked() {
	e.cancelTimersLocked()
	e.questionSeq++
	seq := e.questionSeq

	q, _ := e.s.CurrentQuestion()
	e.s.Choices = q.Choices(e.cfg.Rand)
	e.s.Answered = false
	e.s.TimedOut = false
	e.s.SelectedAnswer = ""
	e.s.LastCorrect = false
	e.s.TimeRemaining = e.cfg.TimerStart
	e.tick = e.cfg.Clock.AfterFunc(e.cfg.TickInterval, func() { e.onTick(seq) })
}

func (e *Engine) onTick(seq uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || seq != e.questionSeq || e.s.State != domain.StatePlaying || e.s.Answered {
		return
	}

	if e.s.TimeRemaining > 0 {
		e.s.TimeRemaining--
	}
	if e.s.TimeRemaining == 0 {
		e.tick = nil
		e.s.Answered = true
		e.s.TimedOut = true
		e.s.LastCorrect = false
		e.cfg.Observer.AnswerRecorded(AnswerTimeout)
		e.scheduleAdvanceLocked(seq, e.cfg.ExpiryGrace)
	} else {
		e.tick = e.cfg.Clock.AfterFunc(e.cfg.TickInterval, func() { e.onTick(seq) })
	}
	e.publishLocked()
}

func (e *Engine) scheduleAdvanceLocked(seq uint64, after time.Duration) {
	e.advance = e.cfg.Clock.AfterFunc(after, func() { e.onAdvance(seq) })
}

func (e *Engine) onAdvance(seq uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || seq != e.questionSeq || e.s.State != domain.StatePlaying {
		return
	}
	e.advance = nil
	e.nextQuestionLocked()
}
