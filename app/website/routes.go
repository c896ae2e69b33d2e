package website

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/promomark/website/core/contact"
	"github.com/promomark/website/core/handler"
	"github.com/promomark/website/core/health"
	"github.com/promomark/website/core/metrics"
	"github.com/promomark/website/core/response"
	"github.com/promomark/website/middleware"
	"github.com/promomark/website/pkg/ratelimiter"
)

func (a *App) routes(contactHandler *contact.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.Recoverer,
		middleware.RequestID(),
		middleware.ClientIPWithConfig(middleware.ClientIPConfig{Resolver: a.clientIP.GetIP}),
		middleware.LoggingWithConfig(middleware.LoggingConfig{
			Logger: a.logger,
			Skip:   isOpsEndpoint,
		}),
		middleware.SecurityHeaders(a.config.IsDevelopment()),
	)

	r.Get("/healthz", handler.Handle(health.Liveness, nil))
	r.Get("/readyz", handler.Handle(health.Readiness(a.logger, a.siteLoaded), response.ErrorHandler))
	if a.config.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(a.registry))
	}

	r.Group(func(r chi.Router) {
		if a.limiter != nil {
			throttled := handler.Handle(contactHandler.Throttled, response.ErrorHandler)
			r.Use(middleware.RateLimitWithConfig(middleware.RateLimitConfig{
				Skip:       func(r *http.Request) bool { return r.Method != http.MethodPost },
				Limiter:    a.limiter,
				SetHeaders: true,
				Logger:     a.logger,
				ErrorHandler: func(w http.ResponseWriter, r *http.Request, _ *ratelimiter.Result) {
					throttled(w, r)
				},
			}))
		}
		r.Use(
			middleware.BodyLimit(a.config.MaxBodySize),
			middleware.AntiForgery(a.cookie, a.logger),
		)
		contactHandler.Routes(r)
	})

	return r
}

func (a *App) siteLoaded(context.Context) error {
	if a.site.Root() == nil {
		return errors.New("content tree has no root page")
	}
	return nil
}

func isOpsEndpoint(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/readyz", "/metrics":
		return true
	}
	return false
}
