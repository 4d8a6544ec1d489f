// Package sqlite keeps the leaderboard in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"trivia-quiz/internal/domain"
)

// ScoreStore implements app.ScoreStore using SQLite.
type ScoreStore struct {
	db *sql.DB
}

// Open creates the database file (and its directory) if needed and applies the schema.
func Open(dbPath string) (*ScoreStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &ScoreStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *ScoreStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS scores (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		score INTEGER NOT NULL,
		category TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_scores_rank ON scores(score DESC, created_at ASC);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *ScoreStore) Close() error {
	return s.db.Close()
}

func (s *ScoreStore) Append(ctx context.Context, entry domain.ScoreEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (id, username, score, category, difficulty, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Username, entry.Score, entry.Category, entry.Difficulty, entry.Timestamp.UnixNano(),
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
	query := `
		SELECT id, username, score, category, difficulty, created_at
		FROM scores
		ORDER BY score DESC, created_at ASC, username ASC`
	args := []any{}
	if n > 0 {
		query += ` LIMIT ?`
		args = append(args, n)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	entries := []domain.ScoreEntry{}
	for rows.Next() {
		var e domain.ScoreEntry
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.Username, &e.Score, &e.Category, &e.Difficulty, &createdAt); err != nil {
			return nil, fmt.Errorf("scan score row: %w", err)
		}
		e.Timestamp = time.Unix(0, createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return entries, nil
}

func (s *ScoreStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM scores`); err != nil {
		return fmt.Errorf("clear scores: %w", err)
	}
	return nil
}
