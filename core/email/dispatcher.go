package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/promomark/website/core/logger"
	"github.com/promomark/website/core/metrics"
)

// Dispatcher renders a template and hands the resulting message to a Transport.
// It is safe for concurrent use; configuration is fixed at construction.
type Dispatcher struct {
	renderer  Renderer
	transport Transport
	from      string
	plainText bool
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

var _ Mailer = (*Dispatcher)(nil)

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithFrom sets the default sender address.
func WithFrom(from string) DispatcherOption {
	return func(d *Dispatcher) {
		d.from = strings.TrimSpace(from)
	}
}

// WithPlainTextAlternative adds a text/plain part derived from the HTML body.
func WithPlainTextAlternative() DispatcherOption {
	return func(d *Dispatcher) {
		d.plainText = true
	}
}

// WithDispatcherLogger sets the logger.
func WithDispatcherLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithDispatcherMetrics records dispatch durations on m.
func WithDispatcherMetrics(m *metrics.Metrics) DispatcherOption {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithClock overrides the clock used for the Date header.
func WithClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(renderer Renderer, transport Transport, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		renderer:  renderer,
		transport: transport,
		logger:    logger.Discard(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With(logger.Component("email"))
	return d
}

// Send renders params.Template and delivers the message in a single attempt.
//
// Render and transport failures are joined with ErrFailedToSendEmail. A
// missing sender yields ErrInvalidConfig before the transport is touched.
func (d *Dispatcher) Send(ctx context.Context, params SendParams) error {
	return d.metrics.TrackDispatch(func() error {
		return d.send(ctx, params)
	})
}

func (d *Dispatcher) send(ctx context.Context, params SendParams) error {
	log := d.logger.With(logger.Template(params.Template))

	html, err := d.renderer.Render(ctx, params.Template, params.Model)
	if err != nil {
		log.ErrorContext(ctx, "email template render failed", logger.Error(err))
		return errors.Join(ErrFailedToSendEmail, fmt.Errorf("render %q: %w", params.Template, err))
	}

	from := strings.TrimSpace(params.From)
	if from == "" {
		from = d.from
	}
	if from == "" {
		log.ErrorContext(ctx, "email sender address is not configured")
		return fmt.Errorf("%w: sender address is not configured", ErrInvalidConfig)
	}

	msg := d.buildMessage(from, html, params)
	if err := msg.Validate(); err != nil {
		log.ErrorContext(ctx, "email message is invalid", logger.Error(err))
		return err
	}

	if err := d.transport.Send(ctx, msg); err != nil {
		log.ErrorContext(ctx, "email transport failed", logger.Error(err))
		return errors.Join(ErrFailedToSendEmail, err)
	}

	log.InfoContext(ctx, "email sent",
		slog.String("message_id", msg.MessageID),
		logger.Count("recipients", len(msg.Recipients())),
		logger.Count("attachments", len(msg.Attachments)),
	)
	return nil
}

func (d *Dispatcher) buildMessage(from, html string, params SendParams) *Message {
	msg := &Message{
		From:      from,
		To:        strings.TrimSpace(params.To),
		Subject:   params.Subject,
		HTML:      html,
		Date:      d.now(),
		MessageID: NewMessageID(from),
	}

	if replyTo := strings.TrimSpace(params.ReplyTo); replyTo != "" {
		msg.ReplyTo = replyTo
	}
	for _, addr := range params.Bcc {
		if addr = strings.TrimSpace(addr); addr != "" {
			msg.Bcc = append(msg.Bcc, addr)
		}
	}
	if d.plainText {
		msg.Text = StripHTML(html)
	}

	if len(params.Attachments) > 0 {
		for _, name := range slices.Sorted(maps.Keys(params.Attachments)) {
			msg.Attachments = append(msg.Attachments, Attachment{
				Name:   name,
				Data:   params.Attachments[name],
				Inline: params.InlineAttachments,
			})
		}
	}

	return msg
}
