package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"trivia-quiz/internal/domain"
)

// ScoreStore keeps the leaderboard in Redis so several instances share it.
// Entries are stored as: HSET {prefix}:entries {id} {json}
// Ranking is kept as:    ZADD {prefix}:rank {score} {id}
type ScoreStore struct {
	client *redis.Client
	prefix string
}

func NewScoreStore(client *redis.Client, prefix string) *ScoreStore {
	if prefix == "" {
		prefix = "trivia:scores"
	}
	return &ScoreStore{client: client, prefix: prefix}
}

func (s *ScoreStore) Append(ctx context.Context, entry domain.ScoreEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode score: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.entriesKey(), entry.ID, payload)
	pipe.ZAdd(ctx, s.rankKey(), redis.Z{Score: float64(entry.Score), Member: entry.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append score: %w", err)
	}
	return nil
}

func (s *ScoreStore) ListAll(ctx context.Context) ([]domain.ScoreEntry, error) {
	return s.TopN(ctx, 0)
}

// TopN returns the n best entries; n <= 0 returns all of them. Only members scoring at
// least the n-th best score are read. Equal scores are ordered by timestamp, which the
// sorted set cannot express, so ties at the boundary are fetched and resolved here.
func (s *ScoreStore) TopN(ctx context.Context, n int) ([]domain.ScoreEntry, error) {
	ids, err := s.rankedIDs(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("read ranking: %w", err)
	}
	entries := make([]domain.ScoreEntry, 0, len(ids))
	if len(ids) == 0 {
		return entries, nil
	}

	raw, err := s.client.HMGet(ctx, s.entriesKey(), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("read scores: %w", err)
	}
	for i, v := range raw {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var e domain.ScoreEntry
		if err := json.Unmarshal([]byte(str), &e); err != nil {
			return nil, fmt.Errorf("decode score %s: %w", ids[i], err)
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool { return domain.Ranks(entries[i], entries[j]) })
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// rankedIDs returns the ids of the n best members plus any member tied with the n-th.
func (s *ScoreStore) rankedIDs(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return s.client.ZRevRange(ctx, s.rankKey(), 0, -1).Result()
	}
	head, err := s.client.ZRevRangeWithScores(ctx, s.rankKey(), 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(head) < n {
		ids := make([]string, len(head))
		for i, z := range head {
			ids[i] = z.Member.(string)
		}
		return ids, nil
	}
	boundary := head[len(head)-1].Score
	return s.client.ZRevRangeByScore(ctx, s.rankKey(), &redis.ZRangeBy{
		Min: strconv.FormatFloat(boundary, 'f', -1, 64),
		Max: "+inf",
	}).Result()
}

func (s *ScoreStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.rankKey(), s.entriesKey()).Err(); err != nil {
		return fmt.Errorf("clear scores: %w", err)
	}
	return nil
}

func (s *ScoreStore) rankKey() string {
	return s.prefix + ":rank"
}

func (s *ScoreStore) entriesKey() string {
	return s.prefix + ":entries"
}
