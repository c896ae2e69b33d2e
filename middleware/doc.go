// Package middleware provides net/http middleware for the website router.
//
// Every middleware has the standard func(http.Handler) http.Handler shape
// so it plugs straight into chi. Most come in two forms: a short
// constructor with sensible defaults and a WithConfig variant taking a
// config struct with an optional Skip predicate.
//
//	r := chi.NewRouter()
//	r.Use(
//		middleware.RequestID(),
//		middleware.ClientIP(),
//		middleware.Logging(log),
//		middleware.SecurityHeaders(cfg.IsDevelopment()),
//		middleware.BodyLimit(256*middleware.KB),
//		middleware.AntiForgery(cookies, log),
//	)
//
// # Context values
//
// RequestID, ClientIP and AntiForgery store their values in the request
// context. Read them with GetRequestID, GetClientIP and
// GetAntiForgeryToken.
//
// # Anti-forgery
//
// AntiForgery keeps a random token in a signed cookie. Safe methods get the
// cookie issued on first visit; views embed the token from
// GetAntiForgeryToken in a hidden __RequestVerificationToken field. Unsafe
// methods must send the same value in that field or in the X-CSRF-Token
// header, otherwise the request ends with 400 and a JSON error body.
//
// # Rate limiting
//
// RateLimit asks a ratelimiter.Limiter once per request, keyed by the
// client IP, and answers rejected requests with 429. Limiter failures are
// logged and the request proceeds.
package middleware
