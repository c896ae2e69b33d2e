package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/promomark/website/core/email"
	"github.com/promomark/website/core/logger"
)

const defaultTimeout = 30 * time.Second

// Client delivers messages over SMTP. It opens one session per message and
// is safe for concurrent use.
type Client struct {
	config    Config
	auth      smtp.Auth
	tlsConfig *tls.Config
	logger    *slog.Logger
}

var _ email.Transport = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithTLSConfig sets the TLS configuration used for StartTls and SslOnConnect.
// ServerName defaults to the configured host.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Client) {
		if cfg != nil {
			c.tlsConfig = cfg.Clone()
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an SMTP transport.
func New(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, fmt.Errorf("%w: Host is required", email.ErrInvalidConfig)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: Port must be between 1 and 65535", email.ErrInvalidConfig)
	}
	switch cfg.Security {
	case SecurityNone, SecurityStartTLS, SecuritySSLOnConnect:
	default:
		return nil, fmt.Errorf("%w: unknown SMTP security %d", email.ErrInvalidConfig, cfg.Security)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	c := &Client{
		config:    cfg,
		tlsConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tlsConfig.ServerName == "" {
		c.tlsConfig.ServerName = cfg.Host
	}
	if strings.TrimSpace(cfg.Username) != "" {
		c.auth = newPlainAuth(cfg.Username, cfg.Password, cfg.Host)
	}
	c.logger = c.logger.With(logger.Component("smtp"), logger.Transport("smtp"))
	return c, nil
}

// MustNew creates an SMTP transport that panics on invalid config.
func MustNew(cfg Config, opts ...Option) *Client {
	client, err := New(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

// Send delivers msg in a single SMTP session. Every failure is joined with
// email.ErrFailedToSendEmail.
func (c *Client) Send(ctx context.Context, msg *email.Message) error {
	if err := ctx.Err(); err != nil {
		return errors.Join(email.ErrFailedToSendEmail, err)
	}
	if msg == nil {
		return fmt.Errorf("%w: nil message", email.ErrInvalidParams)
	}

	start := time.Now()
	if err := c.send(ctx, msg); err != nil {
		return errors.Join(email.ErrFailedToSendEmail, err)
	}

	c.logger.DebugContext(ctx, "smtp session completed",
		slog.String("security", c.config.Security.String()),
		logger.Duration(time.Since(start)),
	)
	return nil
}

func (c *Client) send(ctx context.Context, msg *email.Message) error {
	serverAddr := net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	conn, err := c.dial(ctx, serverAddr)
	if err != nil {
		return err
	}
	// Unblock any pending read or write once ctx is done.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, c.config.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if c.config.Security == SecurityStartTLS {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			return errors.New("server does not support STARTTLS")
		}
		if err := client.StartTLS(c.tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	return c.performSMTPTransaction(client, msg)
}

func (c *Client) dial(ctx context.Context, serverAddr string) (net.Conn, error) {
	if c.config.Security == SecuritySSLOnConnect {
		d := &tls.Dialer{Config: c.tlsConfig}
		conn, err := d.DialContext(ctx, "tcp", serverAddr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SMTP server with TLS: %w", err)
		}
		return conn, nil
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", serverAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	return conn, nil
}

// performSMTPTransaction runs AUTH, MAIL, RCPT and DATA on an open session.
func (c *Client) performSMTPTransaction(client *smtp.Client, msg *email.Message) error {
	if c.auth != nil {
		if err := client.Auth(c.auth); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
	}

	if err := client.Mail(msg.Sender()); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	for _, rcpt := range msg.Recipients() {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err := msg.WriteTo(writer); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	// Some servers drop the connection right after DATA; the message is accepted by then.
	_ = client.Quit()
	return nil
}
