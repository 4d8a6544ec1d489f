package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"trivia-quiz/internal/domain"
)

func TestScoreStoreOrderingAndClear(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "scores.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.NotNil(t, all)
	require.Empty(t, all)

	base := time.Unix(1_700_000_000, 0)
	entries := []domain.ScoreEntry{
		domain.NewScoreEntry("Alice", 7, "History", "Easy", base),
		domain.NewScoreEntry("Bob", 9, "History", "Easy", base.Add(time.Second)),
		domain.NewScoreEntry("Carol", 7, "Film", "Hard", base.Add(2*time.Second)),
		domain.NewScoreEntry("Dan", 3, "Film", "Hard", base.Add(3*time.Second)),
	}
	for _, e := range entries {
		require.NoError(t, store.Append(ctx, e))
	}

	all, err = store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.Equal(t, "Bob", all[0].Username)
	require.Equal(t, "Alice", all[1].Username)
	require.Equal(t, "Carol", all[2].Username)
	require.Equal(t, entries[1].ID, all[0].ID)
	require.True(t, base.Add(time.Second).Equal(all[0].Timestamp))

	top, err := store.TopN(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	require.Equal(t, "Carol", top[2].Username)

	require.NoError(t, store.Clear(ctx))
	all, err = store.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestScoreStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "scores.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, domain.NewScoreEntry("Alice", 5, "Art", "Medium", time.Now())))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	all, err := reopened.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "Alice", all[0].Username)
}
