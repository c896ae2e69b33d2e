package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/promomark/website/core/content"
	"github.com/promomark/website/core/email"
	"github.com/promomark/website/core/logger"
	"github.com/promomark/website/core/metrics"
	"github.com/promomark/website/core/recaptcha"
)

const (
	// DefaultSubject is the subject of every contact form email.
	DefaultSubject = "[Promomark] New contact form message"
	// TemplateContactForm is the registry name of the email template.
	TemplateContactForm = "emails/contact_form"
)

var (
	// ErrMissingRecipient means no page in the ancestor chain has a contact address.
	ErrMissingRecipient = fmt.Errorf("%w: contact recipient is not configured", email.ErrInvalidConfig)
	// ErrSendFailed wraps any render or transport failure.
	ErrSendFailed = errors.New("failed to send contact message")
)

// Submission holds the raw form values.
type Submission struct {
	Name    string
	Email   string
	Message string
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (s Submission) Trimmed() Submission {
	return Submission{
		Name:    strings.TrimSpace(s.Name),
		Email:   strings.TrimSpace(s.Email),
		Message: strings.TrimSpace(s.Message),
	}
}

// Request is one contact form submission together with its request context.
type Request struct {
	Submission Submission
	// Token is the reCAPTCHA v3 response token.
	Token    string
	RemoteIP string
	// Page is the content page the form was posted from.
	Page *content.Page
}

// EmailModel is the data passed to the contact email template.
type EmailModel struct {
	Name        string
	Email       string
	Message     string
	PageName    string
	SubmittedAt time.Time
}

// Service runs a submission through verification, validation, recipient
// resolution and dispatch. It holds no per-submission state.
type Service struct {
	verifier recaptcha.Verifier
	mailer   email.Mailer
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger for submission outcomes. A nil logger is
// ignored.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records submission outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the source of SubmittedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a Service.
func NewService(verifier recaptcha.Verifier, mailer email.Mailer, opts ...Option) *Service {
	s := &Service{
		verifier: verifier,
		mailer:   mailer,
		logger:   logger.Discard(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit processes req. It returns nil on success, a *ValidationError when
// the visitor must correct the form, ErrMissingRecipient when the page has
// no contact address, or an error wrapping ErrSendFailed.
func (s *Service) Submit(ctx context.Context, req Request) error {
	log := s.logger.With(logger.Component("contact"))

	verified := s.verifier.Verify(ctx, req.Token, req.RemoteIP)

	sub := req.Submission.Trimmed()
	if verr := validate(sub, verified); verr != nil {
		s.metrics.Submission(metrics.OutcomeInvalid)
		log.InfoContext(ctx, "contact submission rejected",
			logger.Result(metrics.OutcomeInvalid),
			slog.Bool("verified", verified),
			slog.Any("fields", verr.FieldNames()),
		)
		return verr
	}

	to := content.ResolveContactRecipient(req.Page)
	if to == "" {
		s.metrics.Submission(metrics.OutcomeMissingRecipient)
		log.ErrorContext(ctx, "contact recipient is not configured",
			logger.Result(metrics.OutcomeMissingRecipient),
			slog.String("page", pagePath(req.Page)),
		)
		return ErrMissingRecipient
	}

	model := EmailModel{
		Name:        sub.Name,
		Email:       sub.Email,
		Message:     sub.Message,
		PageName:    pageName(req.Page),
		SubmittedAt: s.now(),
	}

	if err := s.mailer.Send(ctx, email.SendParams{
		To:       to,
		Subject:  DefaultSubject,
		Template: TemplateContactForm,
		Model:    model,
		ReplyTo:  sub.Email,
	}); err != nil {
		s.metrics.Submission(metrics.OutcomeSendFailed)
		log.ErrorContext(ctx, "failed to send contact message",
			logger.Result(metrics.OutcomeSendFailed),
			slog.String("page", pagePath(req.Page)),
			logger.Error(err),
		)
		return errors.Join(ErrSendFailed, err)
	}

	s.metrics.Submission(metrics.OutcomeSucceeded)
	log.InfoContext(ctx, "contact message sent",
		logger.Result(metrics.OutcomeSucceeded),
		slog.String("page", pagePath(req.Page)),
	)
	return nil
}

func pageName(p *content.Page) string {
	if p == nil {
		return ""
	}
	return p.Name
}

func pagePath(p *content.Page) string {
	if p == nil {
		return ""
	}
	return p.Path
}
