package smtp

import (
	"fmt"
	"strings"
	"time"

	"github.com/promomark/website/core/email"
)

// Security selects how the SMTP session is encrypted.
type Security int

const (
	// SecurityNone sends in clear text; no STARTTLS is attempted.
	SecurityNone Security = iota
	// SecurityStartTLS connects in clear text and upgrades with STARTTLS.
	SecurityStartTLS
	// SecuritySSLOnConnect negotiates TLS before the SMTP greeting.
	SecuritySSLOnConnect
)

// ParseSecurity accepts None, StartTls and SslOnConnect in any case.
func ParseSecurity(s string) (Security, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SecurityNone, nil
	case "starttls":
		return SecurityStartTLS, nil
	case "sslonconnect":
		return SecuritySSLOnConnect, nil
	}
	return SecurityNone, fmt.Errorf("%w: unknown SMTP security %q (want None, StartTls or SslOnConnect)", email.ErrInvalidConfig, s)
}

// String implements fmt.Stringer.
func (s Security) String() string {
	switch s {
	case SecurityStartTLS:
		return "StartTls"
	case SecuritySSLOnConnect:
		return "SslOnConnect"
	default:
		return "None"
	}
}

// UnmarshalText lets the env parser decode Security values.
func (s *Security) UnmarshalText(text []byte) error {
	v, err := ParseSecurity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Config holds SMTP relay settings. Username and Password are optional: when
// Username is blank the session is not authenticated and the relay is
// expected to trust the host.
type Config struct {
	Host     string        `env:"SMTP_HOST"`
	Port     int           `env:"SMTP_PORT" envDefault:"25"`
	Username string        `env:"SMTP_USERNAME"`
	Password string        `env:"SMTP_PASSWORD"`
	Security Security      `env:"SMTP_SECURE_SOCKET_OPTIONS" envDefault:"None"`
	Timeout  time.Duration `env:"SMTP_TIMEOUT" envDefault:"30s"`
}
