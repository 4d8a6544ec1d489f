package translate

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// sharedCallTimeout bounds a backend call shared by concurrent misses. The call outlives
// any single caller's cancellation.
const sharedCallTimeout = 30 * time.Second

// Cache memoizes a Backend in process with a TTL. Concurrent misses for the same text
// share one backend call. Failures are not cached.
type Cache struct {
	backend Backend
	ttl     time.Duration
	clock   func() time.Time
	sf      singleflight.Group

	mu      sync.RWMutex
	rnd     *rand.Rand
	entries map[string]cachedText
}

type cachedText struct {
	text      string
	expiresAt time.Time
}

func NewCache(backend Backend, ttl time.Duration) *Cache {
	return &Cache{
		backend: backend,
		ttl:     ttl,
		clock:   time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		entries: make(map[string]cachedText),
	}
}

func (c *Cache) Translate(ctx context.Context, text, lang string) (string, error) {
	key := lang + "\x00" + text
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.entries[key]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.text, nil
	}
	c.mu.RUnlock()

	ch := c.sf.DoChan(key, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedCallTimeout)
		defer cancel()

		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.entries[key]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.text, nil
		}
		c.mu.RUnlock()

		translated, err := c.backend.Translate(callCtx, text, lang)
		if err != nil {
			return "", err
		}

		c.mu.Lock()
		c.entries[key] = cachedText{text: translated, expiresAt: now.Add(c.ttlWithJitterLocked())}
		c.mu.Unlock()
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

// ttlWithJitterLocked adds up to 10% jitter to spread expirations. Callers hold mu.
func (c *Cache) ttlWithJitterLocked() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
