package ratelimiter

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type bucket struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
}

// MemoryStore keeps buckets in process memory. Run removes idle buckets.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	cleanupInterval time.Duration
	staleAfter      time.Duration
	logger          *slog.Logger
	now             func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often Run sweeps idle buckets.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if interval > 0 {
			ms.cleanupInterval = interval
		}
	}
}

// WithStaleAfter sets the idle time after which a bucket is dropped.
func WithStaleAfter(d time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if d > 0 {
			ms.staleAfter = d
		}
	}
}

func WithMemoryStoreLogger(logger *slog.Logger) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if logger != nil {
			ms.logger = logger
		}
	}
}

// WithMemoryStoreClock replaces time.Now.
func WithMemoryStoreClock(now func() time.Time) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if now != nil {
			ms.now = now
		}
	}
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		buckets:         make(map[string]*bucket),
		cleanupInterval: 5 * time.Minute,
		staleAfter:      time.Hour,
		logger:          slog.Default(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(ms)
	}
	return ms
}

// ConsumeTokens refills the bucket for the elapsed intervals, then takes
// tokens if enough are available. A short bucket is left untouched and the
// deficit is reported as a negative remaining count.
func (ms *MemoryStore) ConsumeTokens(_ context.Context, key string, tokens int, cfg Config) (int, time.Time, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	b, ok := ms.buckets[key]
	if !ok {
		b = &bucket{tokens: cfg.Capacity, lastRefill: now}
		ms.buckets[key] = b
	}
	b.lastAccess = now

	// Capped so a long idle period cannot overflow the multiplication.
	maxIntervals := int64(cfg.Capacity/cfg.RefillRate + 1)
	intervals := min(int64(now.Sub(b.lastRefill)/cfg.RefillInterval), maxIntervals)
	if intervals > 0 {
		b.tokens = min(b.tokens+int(intervals)*cfg.RefillRate, cfg.Capacity)
		b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * cfg.RefillInterval)
		if b.tokens == cfg.Capacity {
			b.lastRefill = now
		}
	}

	resetAt := b.lastRefill.Add(cfg.RefillInterval)
	if b.tokens < tokens {
		return b.tokens - tokens, resetAt, nil
	}
	b.tokens -= tokens
	return b.tokens, resetAt, nil
}

// Reset drops the bucket at key.
func (ms *MemoryStore) Reset(_ context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.buckets, key)
	return nil
}

// Len returns the number of tracked buckets.
func (ms *MemoryStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	return len(ms.buckets)
}

// Run sweeps idle buckets until ctx is done. It always returns nil so it can
// sit in an errgroup next to the HTTP server.
func (ms *MemoryStore) Run(ctx context.Context) error {
	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	ms.logger.DebugContext(ctx, "rate limit cleanup started",
		slog.Duration("cleanup_interval", ms.cleanupInterval))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if removed := ms.RemoveStale(); removed > 0 {
				ms.logger.DebugContext(ctx, "rate limit buckets removed", slog.Int("removed", removed))
			}
		}
	}
}

// RemoveStale drops buckets idle for longer than the stale threshold and
// returns how many were removed.
func (ms *MemoryStore) RemoveStale() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	removed := 0
	for key, b := range ms.buckets {
		if now.Sub(b.lastAccess) > ms.staleAfter {
			delete(ms.buckets, key)
			removed++
		}
	}
	return removed
}
