// Package translate localizes question text. Translation is best effort: the Adapter
// never fails and returns the English source text when no backend can serve it.
package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"trivia-quiz/internal/domain"
)

// Backend translates English text into lang.
type Backend interface {
	Translate(ctx context.Context, text, lang string) (string, error)
}

// Adapter implements app.Translator on top of an optional online backend and the
// bundled dictionary.
type Adapter struct {
	lang     string
	primary  Backend
	fallback Backend
	log      *slog.Logger
	offline  atomic.Bool
}

type Option func(*Adapter)

func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

// WithFallback replaces the bundled dictionary.
func WithFallback(b Backend) Option {
	return func(a *Adapter) { a.fallback = b }
}

// New builds an adapter translating into lang. A nil primary means dictionary only.
func New(lang string, primary Backend, opts ...Option) *Adapter {
	a := &Adapter{
		lang:     strings.ToLower(strings.TrimSpace(lang)),
		primary:  primary,
		fallback: NewDictionary(),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if primary == nil {
		a.offline.Store(true)
	}
	return a
}

// Prepare probes the online backend. On failure the adapter switches to offline mode
// and the probe error is returned for logging; the adapter stays usable either way.
func (a *Adapter) Prepare(ctx context.Context) error {
	if a.identity() || a.primary == nil {
		return nil
	}
	if _, err := a.primary.Translate(ctx, "Hello", a.lang); err != nil {
		a.offline.Store(true)
		a.log.Warn("online translation unavailable, using offline dictionary", "lang", a.lang, "err", err)
		return fmt.Errorf("prepare translator: %w", err)
	}
	a.offline.Store(false)
	return nil
}

// Offline reports whether only the bundled dictionary is used.
func (a *Adapter) Offline() bool {
	return a.offline.Load()
}

func (a *Adapter) Language() string {
	if a.identity() {
		return "en"
	}
	return a.lang
}

func (a *Adapter) identity() bool {
	return a.lang == "" || a.lang == "en"
}

func (a *Adapter) Text(ctx context.Context, text string) string {
	if a.identity() || strings.TrimSpace(text) == "" {
		return text
	}
	if !a.offline.Load() {
		translated, err := a.primary.Translate(ctx, text, a.lang)
		if err == nil && translated != "" {
			return translated
		}
		a.log.Debug("online translation failed", "err", err)
	}
	if translated, err := a.fallback.Translate(ctx, text, a.lang); err == nil {
		return translated
	}
	return text
}

// Question translates the prompt and every answer. If translation would make two
// answers identical the question is returned untranslated.
func (a *Adapter) Question(ctx context.Context, q domain.Question) domain.Question {
	if a.identity() {
		return q
	}
	out := q
	out.Text = a.Text(ctx, q.Text)
	out.CorrectAnswer = a.Text(ctx, q.CorrectAnswer)
	out.IncorrectAnswers = make([]string, len(q.IncorrectAnswers))
	for i, ans := range q.IncorrectAnswers {
		out.IncorrectAnswers[i] = a.Text(ctx, ans)
	}
	if out.Validate() != nil {
		return q
	}
	return out
}

func (a *Adapter) DifficultyLabel(d domain.Difficulty) string {
	return a.label(d.Name())
}

func (a *Adapter) CategoryName(c domain.Category) string {
	return a.label(c.Name())
}

func (a *Adapter) label(name string) string {
	if a.identity() || name == "" {
		return name
	}
	if translated, err := a.fallback.Translate(context.Background(), name, a.lang); err == nil {
		return translated
	}
	return name
}
