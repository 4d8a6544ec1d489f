package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/clock"
	"trivia-quiz/internal/domain"
	"trivia-quiz/internal/infra/memory"
	"trivia-quiz/internal/infra/postgres"
	"trivia-quiz/internal/infra/postgres/migrations"
	infraredis "trivia-quiz/internal/infra/redis"
)

func TestQuizEndToEndWithPostgresScores(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()

	applied, err := migrations.Apply(ctx, pgURL)
	require.NoError(t, err)
	require.NotEmpty(t, applied)
	applied, err = migrations.Apply(ctx, pgURL)
	require.NoError(t, err)
	require.Empty(t, applied)

	pool, err := pgxpool.Connect(ctx, pgURL)
	require.NoError(t, err)
	defer pool.Close()
	store := postgres.NewScoreStore(pool)

	clk := clock.NewManual(time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC))
	engine := app.New(app.Config{
		Questions: memory.NewStaticQuestionSource(memory.SampleQuestions()),
		Scores:    store,
		Clock:     clk,
	})
	defer engine.Close()

	require.NoError(t, engine.Play())
	require.NoError(t, engine.SelectCategory(domain.CategoryHistory))
	require.NoError(t, engine.SelectDifficulty(domain.DifficultyEasy))
	require.Eventually(t, func() bool {
		s := engine.Snapshot()
		return !s.Loading && len(s.Questions) == 1
	}, 5*time.Second, 10*time.Millisecond)

	correct, err := engine.SelectAnswer("1945")
	require.NoError(t, err)
	require.True(t, correct)
	require.NoError(t, engine.NextQuestion())
	require.Equal(t, domain.StateFinished, engine.Snapshot().State)

	require.NoError(t, engine.SaveScore(ctx, "Alice"))
	s := engine.Snapshot()
	require.Equal(t, domain.StateScoreboard, s.State)
	require.Len(t, s.Scores, 1)
	require.Equal(t, "Alice", s.Scores[0].Username)
	require.Equal(t, 1, s.Scores[0].Score)
	require.Equal(t, "History", s.Scores[0].Category)
	require.Equal(t, "Easy", s.Scores[0].Difficulty)
	require.True(t, s.Scores[0].Timestamp.Equal(clk.Now()))

	require.NoError(t, engine.ClearScores(ctx))
	require.Empty(t, engine.Snapshot().Scores)
}

func TestScoreStoresRankConsistently(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	_, err := migrations.Apply(ctx, pgURL)
	require.NoError(t, err)
	pool, err := pgxpool.Connect(ctx, pgURL)
	require.NoError(t, err)
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	require.NoError(t, err)
	defer redisClient.Close()

	stores := map[string]app.ScoreStore{
		"postgres": postgres.NewScoreStore(pool),
		"redis":    infraredis.NewScoreStore(redisClient, "it:scores"),
	}

	base := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	entries := []domain.ScoreEntry{
		domain.NewScoreEntry("Carol", 7, "Film", "Hard", base.Add(2*time.Minute)),
		domain.NewScoreEntry("Alice", 7, "History", "Easy", base),
		domain.NewScoreEntry("Bob", 9, "History", "Easy", base.Add(time.Minute)),
		domain.NewScoreEntry("Dan", 2, "Music", "Medium", base.Add(3*time.Minute)),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			for _, e := range entries {
				require.NoError(t, store.Append(ctx, e))
			}

			all, err := store.ListAll(ctx)
			require.NoError(t, err)
			require.Equal(t, []string{"Bob", "Alice", "Carol", "Dan"}, usernames(all))

			top, err := store.TopN(ctx, 3)
			require.NoError(t, err)
			require.Equal(t, []string{"Bob", "Alice", "Carol"}, usernames(top))

			require.NoError(t, store.Clear(ctx))
			all, err = store.ListAll(ctx)
			require.NoError(t, err)
			require.Empty(t, all)
		})
	}
}

func usernames(entries []domain.ScoreEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Username
	}
	return out
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "trivia", "POSTGRES_PASSWORD": "triviapass", "POSTGRES_DB": "trivia"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://trivia:triviapass@%s:%s/trivia?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
