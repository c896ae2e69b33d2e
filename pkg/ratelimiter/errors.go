package ratelimiter

import "errors"

var (
	ErrInvalidConfig     = errors.New("invalid rate limit configuration")
	ErrInvalidTokenCount = errors.New("invalid token count")
	ErrContextCancelled  = errors.New("context cancelled")
	ErrStoreUnavailable  = errors.New("rate limit store unavailable")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)
