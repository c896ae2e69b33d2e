package middleware

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/promomark/website/core/response"
)

const (
	KB int64 = 1024
	MB       = 1024 * KB
)

// BodyLimitConfig configures the request body size limit middleware.
type BodyLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests.
	Skip func(r *http.Request) bool
	// MaxSize is the default limit in bytes. Defaults to 4MB.
	MaxSize int64
	// ContentTypeLimit overrides MaxSize per media type.
	ContentTypeLimit map[string]int64
	// ErrorHandler writes the rejection when Content-Length already exceeds the limit.
	ErrorHandler func(w http.ResponseWriter, r *http.Request, contentLength, maxSize int64)
}

// BodyLimit rejects request bodies larger than maxSize bytes.
func BodyLimit(maxSize int64) func(http.Handler) http.Handler {
	return BodyLimitWithConfig(BodyLimitConfig{MaxSize: maxSize})
}

// BodyLimitWithConfig rejects requests whose declared Content-Length exceeds
// the limit and caps the body reader for chunked uploads. Handlers reading
// past the cap get an *http.MaxBytesError.
func BodyLimitWithConfig(cfg BodyLimitConfig) func(http.Handler) http.Handler {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 4 * MB
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(w http.ResponseWriter, r *http.Request, contentLength, maxSize int64) {
			message := fmt.Sprintf("Request body too large. Size: %s, Maximum allowed: %s",
				formatBytes(contentLength), formatBytes(maxSize))
			response.JSONErrorHandler(w, r, response.ErrRequestTooLarge.
				WithMessage(message).
				WithDetails(map[string]any{"limit": maxSize, "size": contentLength}))
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			maxSize := cfg.MaxSize
			if cfg.ContentTypeLimit != nil {
				if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil {
					if limit, ok := cfg.ContentTypeLimit[mediaType]; ok {
						maxSize = limit
					}
				}
			}

			if r.ContentLength > maxSize {
				cfg.ErrorHandler(w, r, r.ContentLength, maxSize)
				return
			}

			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxSize)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func formatBytes(bytes int64) string {
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}
