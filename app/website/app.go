package website

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/promomark/website/core/contact"
	"github.com/promomark/website/core/content"
	"github.com/promomark/website/core/cookie"
	"github.com/promomark/website/core/email"
	"github.com/promomark/website/core/email/templates"
	"github.com/promomark/website/core/logger"
	"github.com/promomark/website/core/metrics"
	"github.com/promomark/website/core/recaptcha"
	"github.com/promomark/website/core/server"
	"github.com/promomark/website/pkg/clientip"
	"github.com/promomark/website/pkg/ratelimiter"
)

// App wires configuration, content, the contact flow and the HTTP server.
type App struct {
	config    Config
	logger    *slog.Logger
	site      content.Site
	transport email.Transport
	verifier  recaptcha.Verifier
	registry  *prometheus.Registry
	server    *server.Server
	cookie    *cookie.Manager
	templates *templates.Registry
	metrics   *metrics.Metrics
	limits    *ratelimiter.MemoryStore
	limiter   ratelimiter.Limiter
	clientIP  *clientip.Resolver
	handler   http.Handler
}

// AppOption overrides a collaborator NewApp would otherwise build from config.
type AppOption func(*App) error

// NewApp builds the application from cfg.
func NewApp(ctx context.Context, cfg Config, opts ...AppOption) (*App, error) {
	app := &App{config: cfg}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		app.logger = NewLogger(cfg)
	}

	if app.registry == nil {
		app.registry = prometheus.NewRegistry()
		app.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	app.metrics = metrics.New(app.registry)

	if app.site == nil {
		tree, err := content.LoadFile(cfg.ContentFile)
		if err != nil {
			return nil, fmt.Errorf("load content: %w", err)
		}
		app.site = tree
	}

	if app.cookie == nil {
		cm, err := cookie.NewFromConfig(cfg.Cookie, cookie.WithSecure(!cfg.IsDevelopment()))
		if err != nil {
			return nil, fmt.Errorf("cookie manager: %w", err)
		}
		app.cookie = cm
	}

	if app.transport == nil {
		t, err := NewTransport(ctx, cfg, app.logger)
		if err != nil {
			return nil, err
		}
		app.transport = t
	}

	recaptchaClient := recaptcha.New(cfg.Recaptcha,
		recaptcha.WithLogger(app.logger),
		recaptcha.WithMetrics(app.metrics),
	)
	if app.verifier == nil {
		app.verifier = recaptchaClient
	}

	app.templates = templates.NewRegistry(contact.Templates())

	dispatcherOpts := []email.DispatcherOption{
		email.WithFrom(cfg.Email.From),
		email.WithDispatcherLogger(app.logger),
		email.WithDispatcherMetrics(app.metrics),
	}
	if cfg.Email.PlainText {
		dispatcherOpts = append(dispatcherOpts, email.WithPlainTextAlternative())
	}
	dispatcher := email.NewDispatcher(app.templates, app.transport, dispatcherOpts...)

	service := contact.NewService(app.verifier, dispatcher,
		contact.WithLogger(app.logger),
		contact.WithMetrics(app.metrics),
	)
	contactHandler := contact.NewHandler(app.site, service, app.cookie,
		contact.WithSiteKey(recaptchaClient.SiteKey()),
		contact.WithHandlerLogger(app.logger),
	)

	if cfg.RateLimitEnabled {
		app.limits = ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreLogger(app.logger))
		bucket, err := ratelimiter.NewBucket(app.limits, cfg.RateLimit)
		if err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
		app.limiter = bucket
	}

	resolver, err := clientip.NewResolver(cfg.TrustedProxies...)
	if err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	app.clientIP = resolver

	if app.server == nil {
		s, err := server.NewFromConfig(cfg.Server, server.WithLogger(app.logger))
		if err != nil {
			return nil, err
		}
		app.server = s
	}

	app.handler = app.routes(contactHandler)

	app.logger.InfoContext(ctx, "application configured",
		logger.Component("app"),
		logger.Transport(cfg.Email.Transport),
		slog.Bool("recaptcha_configured", cfg.Recaptcha.SecretKey != ""),
		slog.Bool("metrics_enabled", cfg.MetricsEnabled),
		slog.Int("trusted_proxies", len(cfg.TrustedProxies)),
	)
	return app, nil
}

// NewLogger builds the process logger for cfg.
func NewLogger(cfg Config) *slog.Logger {
	if cfg.IsDevelopment() {
		return logger.New(logger.WithDevelopment(cfg.AppName))
	}
	return logger.New(
		logger.WithProduction(cfg.AppName),
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
	)
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Templates returns the email template registry.
func (a *App) Templates() *templates.Registry {
	return a.templates
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return a.server.Run(ctx, a.handler)
	})
	if a.limits != nil {
		eg.Go(func() error {
			return a.limits.Run(ctx)
		})
	}
	return eg.Wait()
}

// WithLogger replaces the logger built from LOG_LEVEL and APP_ENV.
func WithLogger(l *slog.Logger) AppOption {
	return func(app *App) error {
		if l == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = l
		return nil
	}
}

// WithSite replaces the content tree loaded from CONTENT_FILE.
func WithSite(site content.Site) AppOption {
	return func(app *App) error {
		if site == nil {
			return errors.New("site cannot be nil")
		}
		app.site = site
		return nil
	}
}

// WithTransport replaces the transport selected by EMAIL_TRANSPORT.
func WithTransport(t email.Transport) AppOption {
	return func(app *App) error {
		if t == nil {
			return errors.New("transport cannot be nil")
		}
		app.transport = t
		return nil
	}
}

// WithVerifier replaces the reCAPTCHA client.
func WithVerifier(v recaptcha.Verifier) AppOption {
	return func(app *App) error {
		if v == nil {
			return errors.New("verifier cannot be nil")
		}
		app.verifier = v
		return nil
	}
}

// WithRegistry registers metrics on reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) AppOption {
	return func(app *App) error {
		if reg == nil {
			return errors.New("registry cannot be nil")
		}
		app.registry = reg
		return nil
	}
}

// WithServer replaces the HTTP server built from the server config.
func WithServer(s *server.Server) AppOption {
	return func(app *App) error {
		if s == nil {
			return errors.New("server cannot be nil")
		}
		app.server = s
		return nil
	}
}

// WithCookieManager replaces the cookie manager built from the cookie
// config.
func WithCookieManager(cm *cookie.Manager) AppOption {
	return func(app *App) error {
		if cm == nil {
			return errors.New("cookie manager cannot be nil")
		}
		app.cookie = cm
		return nil
	}
}
