package website

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/promomark/website/core/email"
	"github.com/promomark/website/integration/email/postmark"
	"github.com/promomark/website/integration/email/ses"
	"github.com/promomark/website/integration/email/smtp"
)

// ErrUnknownTransport is returned for an EMAIL_TRANSPORT value with no implementation.
var ErrUnknownTransport = errors.New("unknown email transport")

// NewTransport builds the mail transport selected by cfg.Email.Transport.
func NewTransport(ctx context.Context, cfg Config, log *slog.Logger) (email.Transport, error) {
	var (
		transport email.Transport
		err       error
	)

	switch name := strings.ToLower(strings.TrimSpace(cfg.Email.Transport)); name {
	case email.TransportSMTP, "":
		var c *smtp.Client
		if c, err = smtp.New(cfg.SMTP, smtp.WithLogger(log)); err == nil {
			transport = c
		}
	case email.TransportPostmark:
		var c *postmark.Client
		if c, err = postmark.New(cfg.Postmark); err == nil {
			transport = c
		}
	case email.TransportSES:
		var c *ses.Client
		if c, err = ses.New(ctx, cfg.SES); err == nil {
			transport = c
		}
	case email.TransportDev:
		transport = email.NewDevTransport(cfg.Email.DevDir)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s transport: %w", cfg.Email.Transport, err)
	}
	return transport, nil
}
