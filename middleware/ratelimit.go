package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/promomark/website/core/logger"
	"github.com/promomark/website/core/response"
	"github.com/promomark/website/pkg/clientip"
	"github.com/promomark/website/pkg/ratelimiter"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests.
	Skip func(r *http.Request) bool
	// Limiter decides per key. Required.
	Limiter ratelimiter.Limiter
	// KeyExtractor defaults to the client IP.
	KeyExtractor func(r *http.Request) string
	// ErrorHandler writes the rejection. Defaults to a 429 JSON error.
	ErrorHandler func(w http.ResponseWriter, r *http.Request, result *ratelimiter.Result)
	// SetHeaders adds X-RateLimit-* headers to every limited response.
	SetHeaders bool
	// Logger receives rejections and limiter failures. Defaults to slog.Default().
	Logger *slog.Logger
}

// RateLimit limits requests per client IP with limiter.
func RateLimit(limiter ratelimiter.Limiter) func(http.Handler) http.Handler {
	return RateLimitWithConfig(RateLimitConfig{Limiter: limiter, SetHeaders: true})
}

// RateLimitWithConfig panics without a Limiter. A limiter error lets the
// request through.
func RateLimitWithConfig(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Limiter == nil {
		panic("middleware: RateLimit requires a limiter")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.KeyExtractor == nil {
		cfg.KeyExtractor = func(r *http.Request) string {
			if ip, ok := GetClientIP(r.Context()); ok && ip != "" {
				return ip
			}
			return clientip.GetIP(r)
		}
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(w http.ResponseWriter, r *http.Request, result *ratelimiter.Result) {
			err := response.ErrTooManyRequests
			if retry := result.RetryAfter(); retry > 0 {
				err = err.WithDetails(map[string]any{
					"retry_after": fmt.Sprintf("%.0f", retry.Seconds()),
				})
			}
			response.JSONErrorHandler(w, r, err)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			key := cfg.KeyExtractor(r)
			result, err := cfg.Limiter.Allow(r.Context(), key)
			if err != nil {
				cfg.Logger.ErrorContext(r.Context(), "rate limiter unavailable",
					logger.Component("ratelimit"),
					logger.Error(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			if cfg.SetHeaders {
				setRateLimitHeaders(w.Header(), result)
			}

			if !result.Allowed() {
				cfg.Logger.InfoContext(r.Context(), "request rate limited",
					logger.Component("ratelimit"),
					logger.ClientIP(key),
					logger.Path(r.URL.Path),
					logger.Error(ratelimiter.ErrRateLimitExceeded),
				)
				cfg.ErrorHandler(w, r, result)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func setRateLimitHeaders(h http.Header, result *ratelimiter.Result) {
	h.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
	if retry := result.RetryAfter(); retry > 0 {
		h.Set("Retry-After", strconv.Itoa(int(retry.Seconds())))
	}
}
