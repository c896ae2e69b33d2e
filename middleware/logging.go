package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/promomark/website/core/logger"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests.
	Skip func(r *http.Request) bool
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// LogLevel is used for successful responses. Defaults to Info.
	LogLevel slog.Level
	// LogRequest emits a line when the request starts.
	LogRequest bool
	// LogHeaders adds request headers, with SensitiveHeaders redacted.
	LogHeaders       bool
	SensitiveHeaders []string
	// SlowRequestThreshold raises fast-path responses to Warn. Defaults to 5s.
	SlowRequestThreshold time.Duration
	// Component is the value of the component attribute. Defaults to "http".
	Component string
}

// Logging logs one line per completed request.
func Logging(log *slog.Logger) func(http.Handler) http.Handler {
	return LoggingWithConfig(LoggingConfig{Logger: log})
}

func LoggingWithConfig(cfg LoggingConfig) func(http.Handler) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SensitiveHeaders == nil {
		cfg.SensitiveHeaders = []string{
			"Authorization",
			"Cookie",
			"X-Csrf-Token",
		}
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			requestID, _ := GetRequestID(r.Context())
			clientIP, _ := GetClientIP(r.Context())

			attrs := []slog.Attr{
				logger.Component(cfg.Component),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.RequestID(requestID),
				logger.ClientIP(clientIP),
			}
			if cfg.LogHeaders {
				attrs = append(attrs, slog.Any("request_headers", redactHeaders(r.Header, cfg.SensitiveHeaders)))
			}

			if cfg.LogRequest {
				cfg.Logger.LogAttrs(r.Context(), cfg.LogLevel, "HTTP request started",
					append(attrs, logger.Event("request"))...)
			}

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			attrs = append(attrs,
				logger.Event("response"),
				logger.StatusCode(wrapped.statusCode),
				logger.BytesOut(int64(wrapped.size)),
				logger.Duration(duration),
			)

			level := cfg.LogLevel
			switch {
			case wrapped.statusCode >= 500:
				level = slog.LevelError
			case wrapped.statusCode >= 400:
				level = slog.LevelWarn
			case duration > cfg.SlowRequestThreshold:
				level = slog.LevelWarn
				attrs = append(attrs, slog.Bool("slow_request", true))
			}

			cfg.Logger.LogAttrs(r.Context(), level, "HTTP request completed", attrs...)
		})
	}
}

func redactHeaders(h http.Header, sensitive []string) map[string]any {
	headers := make(map[string]any, len(h))
	for key, values := range h {
		switch {
		case slices.Contains(sensitive, key):
			headers[key] = "[REDACTED]"
		case len(values) == 1:
			headers[key] = values[0]
		default:
			headers[key] = values
		}
	}
	return headers
}

type responseWriter struct {
	http.ResponseWriter
	statusCode    int
	size          int
	headerWritten bool
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if rw.headerWritten {
		return
	}
	rw.statusCode = statusCode
	rw.headerWritten = true
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.headerWritten {
		rw.WriteHeader(http.StatusOK)
	}
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
