package middleware

import (
	"context"
	"net/http"

	"github.com/promomark/website/pkg/clientip"
)

type clientIPContextKey struct{}

// ClientIPConfig configures the client IP middleware.
type ClientIPConfig struct {
	// Skip defines a function to skip middleware execution for specific requests.
	Skip func(r *http.Request) bool
	// Resolver extracts the address. Defaults to clientip.GetIP, which
	// trusts no forwarding header. Behind a proxy pass the GetIP method of
	// a clientip.Resolver built with the proxy addresses.
	Resolver func(r *http.Request) string
}

// ClientIP stores the peer address from RemoteAddr in the request context.
func ClientIP() func(http.Handler) http.Handler {
	return ClientIPWithConfig(ClientIPConfig{})
}

// ClientIPWithConfig is ClientIP with a custom resolver and skip function.
func ClientIPWithConfig(cfg ClientIPConfig) func(http.Handler) http.Handler {
	if cfg.Resolver == nil {
		cfg.Resolver = clientip.GetIP
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}
			ip := cfg.Resolver(r)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientIPContextKey{}, ip)))
		})
	}
}

// GetClientIP returns the address stored by ClientIP.
func GetClientIP(ctx context.Context) (string, bool) {
	ip, ok := ctx.Value(clientIPContextKey{}).(string)
	return ip, ok
}
