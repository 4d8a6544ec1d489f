package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-quiz/internal/domain"
)

// ScoreStore implements app.ScoreStore on the scores table created by the migrations
// package.
type ScoreStore struct {
	pool *pgxpool.Pool
}

func NewScoreStore(pool *pgxpool.Pool) *ScoreStore {
	return &ScoreStore{pool: pool}
}

func (s *ScoreStore) Append(ctx context.Context, entry domain.ScoreEntry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scores (id, username, score, category, difficulty, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.Username, entry.Score, entry.Category, entry.Difficulty, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

func (s *ScoreStore) ListAll(ctx context.Context) ([]domain.ScoreEntry, error) {
	return s.TopN(ctx, 0)
}

// TopN returns the n best entries; n <= 0 returns all of them.
func (s *ScoreStore) TopN(ctx context.Context, n int) ([]domain.ScoreEntry, error) {
	query := `SELECT id, username, score, category, difficulty, created_at
		FROM scores
		ORDER BY score DESC, created_at ASC, username ASC`
	args := []interface{}{}
	if n > 0 {
		query += ` LIMIT $1`
		args = append(args, n)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	entries := []domain.ScoreEntry{}
	for rows.Next() {
		var e domain.ScoreEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.Score, &e.Category, &e.Difficulty, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan score row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return entries, nil
}

func (s *ScoreStore) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM scores`); err != nil {
		return fmt.Errorf("clear scores: %w", err)
	}
	return nil
}
