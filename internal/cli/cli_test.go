package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"trivia-quiz/internal/config"
	"trivia-quiz/internal/domain"
)

func TestCategoriesCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"categories"})

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), " 23  History")
	require.Contains(t, out.String(), "Hard (hard)")
}

func TestScoresCommandsAgainstSQLite(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	dbPath := filepath.Join(dir, "scores.db")
	yaml := "scores:\n  driver: sqlite\n  sqlite_path: " + dbPath + "\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o600))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	res := &resources{}
	store, err := openScoreStore(t.Context(), cfg, res, discardLogger())
	require.NoError(t, err)
	at := time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)
	require.NoError(t, store.Append(t.Context(), domain.NewScoreEntry("Alice", 8, "History", "Easy", at)))
	require.NoError(t, store.Append(t.Context(), domain.NewScoreEntry("Bob", 5, "Film", "Hard", at)))
	res.Close()

	run := func(args ...string) string {
		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs(append(args, "--config", cfgPath))
		require.NoError(t, cmd.Execute())
		return out.String()
	}

	listed := run("scores", "list", "--top", "1")
	require.Contains(t, listed, "Alice")
	require.NotContains(t, listed, "Bob")

	require.Equal(t, "scoreboard cleared\n", run("scores", "clear"))
	require.True(t, strings.Contains(run("scores", "list"), "no scores yet"))
}

func TestNewLoggerFormats(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Format = "text"
	logger, err := newLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)

	cfg.Log.Format = "xml"
	_, err = newLogger(cfg)
	require.Error(t, err)
}

func TestBuildQuestionSourceStatic(t *testing.T) {
	cfg := config.Default()
	cfg.Source.Kind = "static"
	src, err := buildQuestionSource(cfg, discardLogger())
	require.NoError(t, err)

	batch, err := src.FetchBatch(t.Context(), domain.BatchRequest{Amount: 5, Category: domain.CategoryHistory})
	require.NoError(t, err)
	require.Equal(t, domain.ResponseSuccess, batch.ResponseCode)
	require.NotEmpty(t, batch.Results)
}

func TestBuildTranslatorWithoutProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Translation.Language = "fr"
	tr, err := buildTranslator(t.Context(), cfg, &resources{}, discardLogger())
	require.NoError(t, err)
	require.True(t, tr.Offline())
	require.Equal(t, "Facile", tr.DifficultyLabel(domain.DifficultyEasy))

	cfg.Translation.Provider = "none"
	tr, err = buildTranslator(t.Context(), cfg, &resources{}, discardLogger())
	require.NoError(t, err)
	require.Equal(t, "en", tr.Language())
}
