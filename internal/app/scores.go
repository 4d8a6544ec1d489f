package app

import (
	"context"
	"fmt"
	"strings"

	"trivia-quiz/internal/domain"
)

const (
	msgScoresUnavailable = "Could not load the scoreboard."
	msgSaveFailed        = "Could not save your score. Try again."
	msgClearFailed       = "Could not clear the scoreboard."
)

// ViewScoreboard moves from Home to the scoreboard and loads every saved entry.
func (e *Engine) ViewScoreboard(ctx context.Context) error {
	err := e.transition(func() error {
		if e.s.State != domain.StateHome {
			return domain.ErrInvalidTransition
		}
		e.s.State = domain.StateScoreboard
		e.s.Error = ""
		return nil
	})
	if err != nil {
		return err
	}
	return e.refreshScores(ctx)
}

// SaveScore stores the finished session's score under username and shows the
// scoreboard. A blank username is rejected without touching the session. When the
// store fails the session stays Finished with an error message.
func (e *Engine) SaveScore(ctx context.Context, username string) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.s.State != domain.StateFinished || e.s.Loading {
		e.mu.Unlock()
		return domain.ErrInvalidTransition
	}
	if strings.TrimSpace(username) == "" {
		e.mu.Unlock()
		return domain.ErrBlankUsername
	}

	entry := domain.NewScoreEntry(
		username,
		e.s.Score,
		e.cfg.Translator.CategoryName(e.s.Category),
		e.cfg.Translator.DifficultyLabel(e.s.Difficulty),
		e.cfg.Clock.Now(),
	)
	e.generation++
	gen := e.generation
	e.s.Loading = true
	e.s.Error = ""
	e.publishLocked()
	e.mu.Unlock()

	err := e.cfg.Scores.Append(ctx, entry)

	e.mu.Lock()
	if e.closed || gen != e.generation {
		e.mu.Unlock()
		if err != nil {
			return fmt.Errorf("save score: %w", err)
		}
		return nil
	}
	e.s.Loading = false
	if err != nil {
		e.log.Error("save score", "err", err, "username", entry.Username)
		e.s.Error = msgSaveFailed
		e.publishLocked()
		e.mu.Unlock()
		return fmt.Errorf("save score: %w", err)
	}
	e.cfg.Observer.ScoreSaved()
	e.log.Info("score saved", "username", entry.Username, "score", entry.Score)
	e.s = domain.Session{
		State:         domain.StateScoreboard,
		TimeRemaining: e.cfg.TimerStart,
		Version:       e.s.Version,
	}
	e.lastRequest = nil
	e.publishLocked()
	e.mu.Unlock()

	return e.refreshScores(ctx)
}

// ClearScores wipes the leaderboard. Only accepted on the scoreboard.
func (e *Engine) ClearScores(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.s.State != domain.StateScoreboard || e.s.Loading {
		e.mu.Unlock()
		return domain.ErrInvalidTransition
	}
	e.mu.Unlock()

	if err := e.cfg.Scores.Clear(ctx); err != nil {
		e.log.Error("clear scores", "err", err)
		e.mu.Lock()
		if e.s.State == domain.StateScoreboard {
			e.s.Error = msgClearFailed
			e.publishLocked()
		}
		e.mu.Unlock()
		return fmt.Errorf("clear scores: %w", err)
	}
	return e.refreshScores(ctx)
}

// refreshScores loads the full leaderboard into the session while on the scoreboard.
// A failure is surfaced as the session error and returned. Callers have already moved
// to the scoreboard; if another intent left it in between there is nothing to load.
func (e *Engine) refreshScores(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.s.State != domain.StateScoreboard {
		e.log.Debug("scoreboard left before scores loaded", "state", e.s.State.String())
		e.mu.Unlock()
		return nil
	}
	e.generation++
	gen := e.generation
	e.s.Loading = true
	e.s.Error = ""
	e.publishLocked()
	e.mu.Unlock()

	scores, err := e.cfg.Scores.ListAll(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || gen != e.generation {
		return nil
	}
	e.s.Loading = false
	if err != nil {
		e.log.Error("load scores", "err", err)
		e.s.Scores = nil
		e.s.Error = msgScoresUnavailable
		e.publishLocked()
		return fmt.Errorf("load scores: %w", err)
	}
	if scores == nil {
		scores = []domain.ScoreEntry{}
	}
	e.s.Scores = scores
	e.publishLocked()
	return nil
}
