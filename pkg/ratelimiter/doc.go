// Package ratelimiter implements token bucket rate limiting.
//
// A Bucket applies one Config (capacity, refill rate and interval) to any
// number of keys held in a Store. MemoryStore is the in-process Store; its
// Run method sweeps idle buckets and is meant to run for the lifetime of the
// server.
//
//	store := ratelimiter.NewMemoryStore()
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       5,
//		RefillRate:     1,
//		RefillInterval: time.Minute,
//	})
//	if err != nil {
//		return err
//	}
//	go store.Run(ctx)
//
//	res, err := limiter.Allow(ctx, clientIP)
//	if err == nil && !res.Allowed() {
//		// reject, advise res.RetryAfter()
//	}
package ratelimiter
