package app

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"trivia-quiz/internal/clock"
	"trivia-quiz/internal/domain"
)

// ErrClosed is returned by intents issued after Close.
var ErrClosed = errors.New("quiz engine closed")

// QuestionSource fetches question batches (Open Trivia DB, static pool, etc).
type QuestionSource interface {
	FetchBatch(ctx context.Context, req domain.BatchRequest) (domain.Batch, error)
}

// ScoreStore persists leaderboard entries. ListAll and TopN return entries ordered by
// domain.Ranks; an empty store yields an empty slice and no error.
type ScoreStore interface {
	Append(ctx context.Context, entry domain.ScoreEntry) error
	ListAll(ctx context.Context) ([]domain.ScoreEntry, error)
	TopN(ctx context.Context, n int) ([]domain.ScoreEntry, error)
	Clear(ctx context.Context) error
}

// Translator localizes question text and labels. Implementations never fail: on any
// internal error they return their input unchanged.
type Translator interface {
	Text(ctx context.Context, text string) string
	Question(ctx context.Context, q domain.Question) domain.Question
	DifficultyLabel(d domain.Difficulty) string
	CategoryName(c domain.Category) string
}

// Config wires the engine to its collaborators. Zero durations and sizes fall back to
// the defaults below.
type Config struct {
	Questions  QuestionSource
	Scores     ScoreStore
	Translator Translator
	Clock      clock.Clock
	Logger     *slog.Logger
	Observer   Observer
	Rand       *rand.Rand

	BatchSize    int
	QuestionType domain.QuestionType
	TimerStart   int
	TickInterval time.Duration
	ExpiryGrace  time.Duration
	AnswerGrace  time.Duration
	// AutoAdvance schedules NextQuestion AnswerGrace after an answer. When false the
	// caller advances explicitly. Timer expiry always advances on its own.
	AutoAdvance bool
}

const (
	DefaultBatchSize    = 10
	DefaultTimerStart   = 15
	DefaultTickInterval = time.Second
	DefaultExpiryGrace  = time.Second
	DefaultAnswerGrace  = 1500 * time.Millisecond
)

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.TimerStart <= 0 {
		c.TimerStart = DefaultTimerStart
	}
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.ExpiryGrace <= 0 {
		c.ExpiryGrace = DefaultExpiryGrace
	}
	if c.AnswerGrace <= 0 {
		c.AnswerGrace = DefaultAnswerGrace
	}
	if c.Translator == nil {
		c.Translator = identityTranslator{}
	}
	if c.Clock == nil {
		c.Clock = clock.Real()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Observer == nil {
		c.Observer = nopObserver{}
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c
}

// Engine is the quiz session state machine. It owns exactly one session and serialises
// every mutation behind mu; collaborators are always called without mu held.
type Engine struct {
	cfg    Config
	log    *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu sync.Mutex
	s  domain.Session
	// generation correlates asynchronous results with the request that produced them.
	generation uint64
	// questionSeq identifies the lifetime of the displayed question; timer callbacks
	// carry it and become no-ops once it moves on.
	questionSeq uint64
	lastRequest *domain.BatchRequest
	tick        clock.Timer
	advance     clock.Timer
	closed      bool
	subscribers map[chan domain.Session]struct{}
}

// New builds an engine in the Home state.
func New(cfg Config) *Engine {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		cfg:         cfg,
		log:         cfg.Logger.With("component", "engine"),
		ctx:         ctx,
		cancel:      cancel,
		subscribers: make(map[chan domain.Session]struct{}),
	}
	e.s = e.homeSession()
	return e
}

func (e *Engine) homeSession() domain.Session {
	return domain.Session{
		State:         domain.StateHome,
		TimeRemaining: e.cfg.TimerStart,
		Version:       e.s.Version,
	}
}

// Snapshot returns the current session.
func (e *Engine) Snapshot() domain.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.s
}

// Subscribe returns a channel receiving every published snapshot, starting with the
// current one. The caller must invoke the returned cancel function to avoid leaks.
func (e *Engine) Subscribe() (<-chan domain.Session, func()) {
	ch := make(chan domain.Session, 8)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	e.subscribers[ch] = struct{}{}
	ch <- e.s
	e.mu.Unlock()

	cancel := func() {
		e.mu.Lock()
		if _, ok := e.subscribers[ch]; ok {
			delete(e.subscribers, ch)
			close(ch)
		}
		e.mu.Unlock()
	}
	return ch, cancel
}

// Close stops timers, aborts in-flight fetches and closes subscriber channels.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.cancelTimersLocked()
	for ch := range e.subscribers {
		delete(e.subscribers, ch)
		close(ch)
	}
	e.mu.Unlock()

	e.cancel()
	e.wg.Wait()
}

// Play moves from Home to category selection.
func (e *Engine) Play() error {
	return e.transition(func() error {
		if e.s.State != domain.StateHome {
			return domain.ErrInvalidTransition
		}
		e.s.State = domain.StateCategorySelection
		e.s.Error = ""
		return nil
	})
}

// SelectCategory records the category and moves on to difficulty selection.
func (e *Engine) SelectCategory(c domain.Category) error {
	if !c.Valid() {
		return domain.ErrUnknownCategory
	}
	return e.transition(func() error {
		if e.s.State != domain.StateCategorySelection {
			return domain.ErrInvalidTransition
		}
		e.s.Category = c
		e.s.State = domain.StateDifficultySelection
		return nil
	})
}

// SelectDifficulty records the difficulty, enters Playing and starts the batch fetch.
func (e *Engine) SelectDifficulty(d domain.Difficulty) error {
	if !d.Valid() {
		return domain.ErrUnknownDifficulty
	}
	return e.transition(func() error {
		if e.s.State != domain.StateDifficultySelection {
			return domain.ErrInvalidTransition
		}
		e.s.Difficulty = d
		e.s.State = domain.StatePlaying
		e.s.Score = 0
		e.s.CurrentIndex = 0
		e.cfg.Observer.QuizStarted(e.s.Category, d)
		e.startFetchLocked(domain.BatchRequest{
			Amount:     e.cfg.BatchSize,
			Category:   e.s.Category,
			Difficulty: d,
			Type:       e.cfg.QuestionType,
		})
		return nil
	})
}

// Back steps one screen back from the selection screens and the scoreboard.
func (e *Engine) Back() error {
	return e.transition(func() error {
		switch e.s.State {
		case domain.StateCategorySelection, domain.StateScoreboard:
			e.resetLocked()
		case domain.StateDifficultySelection:
			e.s.State = domain.StateCategorySelection
		default:
			return domain.ErrInvalidTransition
		}
		return nil
	})
}

// PlayAgain leaves the result screen for Home with a fresh session.
func (e *Engine) PlayAgain() error {
	return e.transition(func() error {
		if e.s.State != domain.StateFinished || e.s.Loading {
			return domain.ErrInvalidTransition
		}
		e.resetLocked()
		return nil
	})
}

// ResetToHome is accepted from every state. Pending timers are cancelled and any
// in-flight fetch result will be discarded.
func (e *Engine) ResetToHome() {
	_ = e.transition(func() error {
		e.resetLocked()
		return nil
	})
}

// transition runs fn under the lock and publishes when it succeeds.
func (e *Engine) transition(fn func() error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if err := fn(); err != nil {
		return err
	}
	e.publishLocked()
	return nil
}

func (e *Engine) resetLocked() {
	e.cancelTimersLocked()
	e.generation++
	e.questionSeq++
	e.lastRequest = nil
	e.s = e.homeSession()
}

func (e *Engine) cancelTimersLocked() {
	if e.tick != nil {
		e.tick.Stop()
		e.tick = nil
	}
	if e.advance != nil {
		e.advance.Stop()
		e.advance = nil
	}
}

func (e *Engine) publishLocked() {
	e.s.Version++
	snapshot := e.s
	for ch := range e.subscribers {
		select {
		case ch <- snapshot:
		default:
			// Slow subscriber: drop its oldest pending snapshot.
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}

type identityTranslator struct{}

func (identityTranslator) Text(_ context.Context, text string) string { return text }

func (identityTranslator) Question(_ context.Context, q domain.Question) domain.Question { return q }

func (identityTranslator) DifficultyLabel(d domain.Difficulty) string { return d.Name() }

func (identityTranslator) CategoryName(c domain.Category) string { return c.Name() }
