package service

import (
	"sync"
	"time"
)

// TokenBucket is an in-memory per-key rate limiter. The login endpoint keys
// it by username so credential guessing against one account is throttled
// regardless of client address. It is safe for concurrent use.
type TokenBucket struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     float64 // tokens added per second
	capacity float64 // maximum tokens
	idle     time.Duration
	now      func() time.Time
	stop     chan struct{}
	once     sync.Once
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewTokenBucket creates a limiter that allows bursts of up to capacity per
// key, refilling at rate tokens per second. A background goroutine drops
// buckets idle for ten minutes until Close is called.
func NewTokenBucket(rate, capacity float64) *TokenBucket {
	tb := &TokenBucket{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		capacity: capacity,
		idle:     10 * time.Minute,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go tb.sweepLoop(5 * time.Minute)
	return tb
}

// Allow reports whether key may proceed, consuming one token if so.
func (tb *TokenBucket) Allow(key string) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	b, ok := tb.buckets[key]
	if !ok {
		b = &bucket{tokens: tb.capacity, last: now}
		tb.buckets[key] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	b.tokens = min(b.tokens+elapsed*tb.rate, tb.capacity)
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// RetryAfter estimates how long key must wait for its next token.
func (tb *TokenBucket) RetryAfter(key string) time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	b, ok := tb.buckets[key]
	if !ok || b.tokens >= 1 || tb.rate <= 0 {
		return 0
	}
	return time.Duration((1 - b.tokens) / tb.rate * float64(time.Second))
}

// Close stops the background sweeper.
func (tb *TokenBucket) Close() {
	tb.once.Do(func() { close(tb.stop) })
}

func (tb *TokenBucket) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-tb.stop:
			return
		case <-ticker.C:
			tb.sweep()
		}
	}
}

// sweep removes buckets that have not been touched within the idle window.
func (tb *TokenBucket) sweep() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	cutoff := tb.now().Add(-tb.idle)
	for key, b := range tb.buckets {
		if b.last.Before(cutoff) {
			delete(tb.buckets, key)
		}
	}
}
