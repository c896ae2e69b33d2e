package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/promomark/website/core/cookie"
	"github.com/promomark/website/core/logger"
	"github.com/promomark/website/core/response"
)

const (
	// AntiForgeryFieldName is the form field carrying the token.
	AntiForgeryFieldName = "__RequestVerificationToken"
	// AntiForgeryHeaderName is accepted instead of the form field for scripted posts.
	AntiForgeryHeaderName = "X-CSRF-Token"

	antiForgeryCookieName = "__antiforgery"
	antiForgeryTokenBytes = 32
)

type antiForgeryContextKey struct{}

// SignedCookieStore reads and writes HMAC signed cookies. *cookie.Manager
// satisfies it.
type SignedCookieStore interface {
	SetSigned(w http.ResponseWriter, name, value string, opts ...cookie.Option) error
	GetSigned(r *http.Request, name string) (string, error)
}

// AntiForgeryConfig configures the anti-forgery middleware.
type AntiForgeryConfig struct {
	// Skip defines a function to skip middleware execution for specific requests.
	Skip func(r *http.Request) bool
	// Store holds the token cookie. Required.
	Store SignedCookieStore
	// CookieName defaults to "__antiforgery".
	CookieName string
	// Logger receives rejected requests. Defaults to slog.Default().
	Logger *slog.Logger
	// ErrorHandler writes the rejection. Defaults to a 400 JSON error.
	ErrorHandler func(w http.ResponseWriter, r *http.Request)
}

// AntiForgery binds a random token to the visitor through a signed cookie
// and requires unsafe requests to echo it back.
func AntiForgery(store SignedCookieStore, log *slog.Logger) func(http.Handler) http.Handler {
	return AntiForgeryWithConfig(AntiForgeryConfig{Store: store, Logger: log})
}

// AntiForgeryWithConfig is AntiForgery with a custom cookie name and error
// handler. It panics without a Store.
func AntiForgeryWithConfig(cfg AntiForgeryConfig) func(http.Handler) http.Handler {
	if cfg.Store == nil {
		panic("middleware: AntiForgery requires a cookie store")
	}
	if cfg.CookieName == "" {
		cfg.CookieName = antiForgeryCookieName
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(w http.ResponseWriter, r *http.Request) {
			response.JSONErrorHandler(w, r, response.ErrBadRequest.WithMessage("Invalid anti-forgery token."))
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			token, err := cfg.Store.GetSigned(r, cfg.CookieName)
			hasToken := err == nil && token != ""

			if !isSafeMethod(r.Method) {
				submitted := r.Header.Get(AntiForgeryHeaderName)
				if submitted == "" {
					submitted = r.PostFormValue(AntiForgeryFieldName)
				}
				if !hasToken || subtle.ConstantTimeCompare([]byte(token), []byte(submitted)) != 1 {
					requestID, _ := GetRequestID(r.Context())
					cfg.Logger.WarnContext(r.Context(), "anti-forgery token rejected",
						logger.Component("antiforgery"),
						logger.Method(r.Method),
						logger.Path(r.URL.Path),
						logger.RequestID(requestID),
						slog.Bool("cookie_present", hasToken),
					)
					cfg.ErrorHandler(w, r)
					return
				}
			}

			if !hasToken {
				token = newAntiForgeryToken()
				if err := cfg.Store.SetSigned(w, cfg.CookieName, token); err != nil {
					cfg.Logger.ErrorContext(r.Context(), "failed to set anti-forgery cookie",
						logger.Component("antiforgery"),
						logger.Error(err),
					)
				}
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), antiForgeryContextKey{}, token)))
		})
	}
}

// GetAntiForgeryToken returns the token views must embed in forms.
func GetAntiForgeryToken(ctx context.Context) string {
	token, _ := ctx.Value(antiForgeryContextKey{}).(string)
	return token
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

func newAntiForgeryToken() string {
	b := make([]byte, antiForgeryTokenBytes)
	// crypto/rand.Read never returns an error since Go 1.24.
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
