package redis

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// sharedCallTimeout bounds the backend call shared by concurrent misses for one key.
const sharedCallTimeout = 30 * time.Second

// TextTranslator is the backend a TranslationCache sits in front of.
type TextTranslator interface {
	Translate(ctx context.Context, text, lang string) (string, error)
}

// TranslationCache caches translations in Redis and falls back to the backend on a miss.
// Entries are stored as: SET {prefix}:{lang}:{sha1(text)} {translation} EX ttl
type TranslationCache struct {
	client  *redis.Client
	backend TextTranslator
	prefix  string
	ttl     time.Duration
	sf      singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewTranslationCache(client *redis.Client, backend TextTranslator, ttl time.Duration) *TranslationCache {
	return &TranslationCache{
		client:  client,
		backend: backend,
		prefix:  "trivia:tr",
		ttl:     ttl,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *TranslationCache) Translate(ctx context.Context, text, lang string) (string, error) {
	key := c.key(text, lang)

	if cached, err := c.client.Get(ctx, key).Result(); err == nil {
		return cached, nil
	}

	ch := c.sf.DoChan(key, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedCallTimeout)
		defer cancel()

		// Re-check cache in case another caller filled it.
		cached, err := c.client.Get(callCtx, key).Result()
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, redis.Nil) {
			// Redis unavailable: still translate, just skip caching.
			return c.backend.Translate(callCtx, text, lang)
		}

		translated, err := c.backend.Translate(callCtx, text, lang)
		if err != nil {
			return "", err
		}
		_ = c.client.Set(callCtx, key, translated, c.ttlWithJitter()).Err()
		return translated, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *TranslationCache) key(text, lang string) string {
	sum := sha1.Sum([]byte(text))
	return c.prefix + ":" + lang + ":" + hex.EncodeToString(sum[:])
}

func (c *TranslationCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
