package recaptcha

import "time"

// DefaultVerifyURL is Google's siteverify endpoint.
const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// DefaultMinScore is the lowest v3 score accepted as human.
const DefaultMinScore = 0.5

// DefaultTimeout bounds a single siteverify round trip.
const DefaultTimeout = 10 * time.Second

// Config holds reCAPTCHA v3 settings.
type Config struct {
	SecretKey string  `env:"RECAPTCHA_SECRET_KEY"`
	SiteKey   string  `env:"RECAPTCHA_SITE_KEY"`
	VerifyURL string  `env:"RECAPTCHA_VERIFY_URL" envDefault:"https://www.google.com/recaptcha/api/siteverify"`
	MinScore  float64 `env:"RECAPTCHA_MIN_SCORE" envDefault:"0.5"`
	// RequireSecret makes Verify fail when no secret is set. By default a
	// missing secret bypasses verification, so local environments work
	// without Google credentials.
	RequireSecret bool          `env:"RECAPTCHA_REQUIRE_SECRET" envDefault:"false"`
	Timeout       time.Duration `env:"RECAPTCHA_TIMEOUT" envDefault:"10s"`
}

func (c Config) withDefaults() Config {
	if c.VerifyURL == "" {
		c.VerifyURL = DefaultVerifyURL
	}
	if c.MinScore <= 0 {
		c.MinScore = DefaultMinScore
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}
