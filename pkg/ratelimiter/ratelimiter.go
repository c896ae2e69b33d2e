package ratelimiter

import (
	"context"
	"fmt"
	"time"
)

// Config describes a token bucket.
type Config struct {
	// Capacity is the burst size and the token count of a new bucket.
	Capacity int `env:"RATE_LIMIT_CAPACITY" envDefault:"5"`
	// RefillRate tokens are added every RefillInterval.
	RefillRate     int           `env:"RATE_LIMIT_REFILL_RATE" envDefault:"1"`
	RefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL" envDefault:"1m"`
}

// Validate reports whether the bucket parameters are usable.
func (c Config) Validate() error {
	switch {
	case c.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	case c.RefillRate <= 0:
		return fmt.Errorf("%w: refill rate must be positive, got %d", ErrInvalidConfig, c.RefillRate)
	case c.RefillInterval <= 0:
		return fmt.Errorf("%w: refill interval must be positive, got %s", ErrInvalidConfig, c.RefillInterval)
	}
	return nil
}

// Store persists bucket state per key.
type Store interface {
	// ConsumeTokens takes tokens from the bucket at key, creating it full
	// when missing. remaining goes negative when the bucket was short.
	ConsumeTokens(ctx context.Context, key string, tokens int, cfg Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// Result is the outcome of a single Allow call.
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
	now       time.Time
}

// Allowed reports whether the tokens were available.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter is how long a rejected caller should wait. Zero when allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(r.ResetAt.Sub(r.now), 0)
}

// Bucket applies one Config to every key of a Store.
type Bucket struct {
	store Store
	cfg   Config
	now   func() time.Time
}

var _ Limiter = (*Bucket)(nil)

// BucketOption configures a Bucket.
type BucketOption func(*Bucket)

// WithBucketClock sets the time source used for RetryAfter.
func WithBucketClock(now func() time.Time) BucketOption {
	return func(b *Bucket) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBucket validates cfg and returns a limiter backed by store.
func NewBucket(store Store, cfg Config, opts ...BucketOption) (*Bucket, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store is required", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Bucket{store: store, cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Allow consumes one token for key.
func (b *Bucket) Allow(ctx context.Context, key string) (*Result, error) {
	return b.AllowN(ctx, key, 1)
}

// AllowN consumes n tokens for key.
func (b *Bucket) AllowN(ctx context.Context, key string, n int) (*Result, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTokenCount, n)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContextCancelled, err)
	}

	remaining, resetAt, err := b.store.ConsumeTokens(ctx, key, n, b.cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return &Result{
		Limit:     b.cfg.Capacity,
		Remaining: remaining,
		ResetAt:   resetAt,
		now:       b.now(),
	}, nil
}

// Reset refills the bucket at key.
func (b *Bucket) Reset(ctx context.Context, key string) error {
	return b.store.Reset(ctx, key)
}
