package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// RateLimiter ограничивает число апдейтов от одного пользователя
// скользящим окном. Отметки времени живут в go-cache с TTL = окно,
// так что молчащие пользователи вычищаются сами.
type RateLimiter struct {
	mu     sync.Mutex
	hits   *cache.Cache
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		hits:   cache.New(window, 5*time.Minute),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow регистрирует запрос и сообщает, укладывается ли он в лимит.
func (rl *RateLimiter) Allow(userID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	key := strconv.FormatInt(userID, 10)
	now := rl.now()
	cutoff := now.Add(-rl.window)

	var recent []time.Time
	if x, ok := rl.hits.Get(key); ok {
		for _, t := range x.([]time.Time) {
			if t.After(cutoff) {
				recent = append(recent, t)
			}
		}
	}

	allowed := len(recent) < rl.limit
	if allowed {
		recent = append(recent, now)
	}
	rl.hits.Set(key, recent, cache.DefaultExpiration)
	return allowed
}

// Close сбрасывает накопленные отметки (на shutdown).
func (rl *RateLimiter) Close() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.hits.Flush()
}
