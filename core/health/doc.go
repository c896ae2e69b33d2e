// Package health provides liveness and readiness handlers.
//
//	r.Get("/healthz", handler.Handle(health.Liveness, nil))
//	r.Get("/readyz", handler.Handle(health.Readiness(log, siteLoaded), response.ErrorHandler))
//
// Readiness checks have the func(context.Context) error shape.
package health
