package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/promomark/website/core/handler"
	"github.com/promomark/website/core/logger"
	"github.com/promomark/website/core/response"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// Readiness returns "READY" when every check passes and 503 otherwise.
func Readiness(log *slog.Logger, checks ...Check) handler.Func {
	return func(r *http.Request) handler.Response {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed",
					logger.Component("health"),
					logger.Error(err),
				)
				return response.Error(response.ErrServiceUnavailable)
			}
		}
		return response.String("READY", http.StatusOK)
	}
}
