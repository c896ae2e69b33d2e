package cookie

import "net/http"

// Options are the attributes written with a cookie. Manager defaults are
// HttpOnly, Lax and Path "/"; every cookie the site sets stays out of reach
// of page scripts, so HttpOnly has no option.
type Options struct {
	Path     string
	Domain   string
	MaxAge   int
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

// Option overrides one attribute for a Manager default or a single Set call.
type Option func(*Options)

func WithPath(path string) Option {
	return func(o *Options) { o.Path = path }
}

func WithDomain(domain string) Option {
	return func(o *Options) { o.Domain = domain }
}

// WithMaxAge sets the lifetime in seconds. Zero keeps a session cookie,
// negative deletes.
func WithMaxAge(seconds int) Option {
	return func(o *Options) { o.MaxAge = seconds }
}

// WithSecure restricts the cookie to HTTPS.
func WithSecure(secure bool) Option {
	return func(o *Options) { o.Secure = secure }
}

func WithSameSite(mode http.SameSite) Option {
	return func(o *Options) { o.SameSite = mode }
}

// with returns a copy of o with opts applied.
func (o Options) with(opts []Option) Options {
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
