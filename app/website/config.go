package website

import (
	"github.com/promomark/website/core/config"
	"github.com/promomark/website/core/cookie"
	"github.com/promomark/website/core/email"
	"github.com/promomark/website/core/recaptcha"
	"github.com/promomark/website/core/server"
	"github.com/promomark/website/integration/email/postmark"
	"github.com/promomark/website/integration/email/ses"
	"github.com/promomark/website/integration/email/smtp"
	"github.com/promomark/website/pkg/ratelimiter"
)

// Config aggregates every setting the website reads from the environment.
type Config struct {
	Server    server.Config
	Cookie    cookie.Config
	Recaptcha recaptcha.Config
	Email     email.Config
	SMTP      smtp.Config
	Postmark  postmark.Config
	SES       ses.Config
	RateLimit ratelimiter.Config

	AppName        string `env:"APP_NAME" envDefault:"promomark-website"`
	Env            string `env:"APP_ENV" envDefault:"development"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	ContentFile    string `env:"CONTENT_FILE" envDefault:"./content.yaml"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	// RateLimitEnabled throttles contact form posts per client IP.
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	// TrustedProxies lists proxy IPs or CIDR prefixes whose forwarding
	// headers name the client. Empty means RemoteAddr is the client.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
	// MaxBodySize caps form posts in bytes.
	MaxBodySize int64 `env:"MAX_BODY_SIZE" envDefault:"262144"`
}

// LoadConfig reads Config from the environment and an optional .env file.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsDevelopment reports whether the app runs in the development environment.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}
