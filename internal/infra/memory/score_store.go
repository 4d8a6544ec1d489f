package memory

import (
	"context"
	"sort"
	"sync"

	"trivia-quiz/internal/domain"
)

// ScoreStore is an in-memory implementation of app.ScoreStore.
type ScoreStore struct {
	mu      sync.RWMutex
	entries []domain.ScoreEntry
}

func NewScoreStore(seed ...domain.ScoreEntry) *ScoreStore {
	s := &ScoreStore{}
	s.entries = append(s.entries, seed...)
	return s
}

func (s *ScoreStore) Append(_ context.Context, entry domain.ScoreEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *ScoreStore) ListAll(ctx context.Context) ([]domain.ScoreEntry, error) {
	return s.TopN(ctx, 0)
}

// TopN returns the n best entries; n <= 0 returns all of them.
func (s *ScoreStore) TopN(_ context.Context, n int) ([]domain.ScoreEntry, error) {
	s.mu.RLock()
	out := make([]domain.ScoreEntry, len(s.entries))
	copy(out, s.entries)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return domain.Ranks(out[i], out[j]) })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *ScoreStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}
