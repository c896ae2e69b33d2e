package contact_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promomark/website/core/contact"
	"github.com/promomark/website/core/content"
	"github.com/promomark/website/core/email"
	"github.com/promomark/website/core/email/templates"
	"github.com/promomark/website/core/metrics"
	"github.com/promomark/website/core/recaptcha"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

type verifierFunc func(ctx context.Context, token, remoteIP string) bool

func (f verifierFunc) Verify(ctx context.Context, token, remoteIP string) bool {
	return f(ctx, token, remoteIP)
}

func passing() recaptcha.Verifier {
	return verifierFunc(func(context.Context, string, string) bool { return true })
}

func failing() recaptcha.Verifier {
	return verifierFunc(func(context.Context, string, string) bool { return false })
}

type recordingMailer struct {
	mu    sync.Mutex
	calls []email.SendParams
	err   error
}

func (m *recordingMailer) Send(_ context.Context, params email.SendParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, params)
	return m.err
}

func newSite(t *testing.T) *content.Tree {
	t.Helper()
	tree, err := content.NewTree(&content.Page{
		ID:           "home",
		Name:         "Home",
		ContactEmail: "info@site.com",
		Children: []*content.Page{
			{ID: "contact", Name: "Contact", Slug: "contact", ContactForm: true},
			{
				ID:   "about",
				Name: "About",
				Slug: "about",
				Children: []*content.Page{
					{ID: "team", Name: "Team", Slug: "team", ContactEmail: "team@site.com", ContactForm: true},
				},
			},
		},
	})
	require.NoError(t, err)
	return tree
}

func newUnconfiguredSite(t *testing.T) *content.Tree {
	t.Helper()
	tree, err := content.NewTree(&content.Page{
		ID:       "home",
		Name:     "Home",
		Children: []*content.Page{{ID: "contact", Name: "Contact", Slug: "contact", ContactForm: true}},
	})
	require.NoError(t, err)
	return tree
}

func page(t *testing.T, site content.Site, path string) *content.Page {
	t.Helper()
	p, ok := site.Page(path)
	require.True(t, ok, "page %s", path)
	return p
}

func validSubmission() contact.Submission {
	return contact.Submission{Name: "Ana", Email: "ana@example.com", Message: "Hello"}
}

func TestService_Submit_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		submission contact.Submission
		verifier   recaptcha.Verifier
		fields     []string
		general    bool
	}{
		{
			name:       "blank name",
			submission: contact.Submission{Name: "   ", Email: "ana@example.com", Message: "Hello"},
			verifier:   passing(),
			fields:     []string{contact.FieldName},
		},
		{
			name:       "invalid email",
			submission: contact.Submission{Name: "Ana", Email: "not-an-email", Message: "Hello"},
			verifier:   passing(),
			fields:     []string{contact.FieldEmail},
		},
		{
			name:       "blank message",
			submission: contact.Submission{Name: "Ana", Email: "ana@example.com", Message: "\n\t"},
			verifier:   passing(),
			fields:     []string{contact.FieldMessage},
		},
		{
			name:       "everything missing",
			submission: contact.Submission{},
			verifier:   passing(),
			fields:     []string{contact.FieldEmail, contact.FieldMessage, contact.FieldName},
		},
		{
			name:       "verification failed only",
			submission: validSubmission(),
			verifier:   failing(),
			general:    true,
		},
		{
			name:       "verification failure accumulates with field errors",
			submission: contact.Submission{Name: "Ana"},
			verifier:   failing(),
			fields:     []string{contact.FieldEmail, contact.FieldMessage},
			general:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mailer := &recordingMailer{}
			svc := contact.NewService(tt.verifier, mailer)

			err := svc.Submit(context.Background(), contact.Request{
				Submission: tt.submission,
				Token:      "token",
				Page:       page(t, newSite(t), "/contact"),
			})

			var verr *contact.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.fields, nilIfEmpty(verr.FieldNames()))
			if tt.general {
				assert.Equal(t, []string{"reCAPTCHA verification failed. Please try again."}, verr.General)
			} else {
				assert.Empty(t, verr.General)
			}
			assert.Empty(t, mailer.calls, "no send may happen for invalid submissions")
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestService_Submit_VerifierArguments(t *testing.T) {
	t.Parallel()

	var gotToken, gotIP string
	svc := contact.NewService(verifierFunc(func(_ context.Context, token, ip string) bool {
		gotToken, gotIP = token, ip
		return true
	}), &recordingMailer{})

	err := svc.Submit(context.Background(), contact.Request{
		Submission: validSubmission(),
		Token:      "tok-123",
		RemoteIP:   "203.0.113.9",
		Page:       page(t, newSite(t), "/contact"),
	})
	require.NoError(t, err)
	assert.Equal(t, "tok-123", gotToken)
	assert.Equal(t, "203.0.113.9", gotIP)
}

func TestService_Submit_MissingRecipient(t *testing.T) {
	t.Parallel()

	mailer := &recordingMailer{}
	svc := contact.NewService(passing(), mailer)

	err := svc.Submit(context.Background(), contact.Request{
		Submission: validSubmission(),
		Page:       page(t, newUnconfiguredSite(t), "/contact"),
	})

	assert.ErrorIs(t, err, contact.ErrMissingRecipient)
	assert.ErrorIs(t, err, email.ErrInvalidConfig)
	assert.Empty(t, mailer.calls)

	err = svc.Submit(context.Background(), contact.Request{Submission: validSubmission()})
	assert.ErrorIs(t, err, contact.ErrMissingRecipient)
}

func TestService_Submit_Success(t *testing.T) {
	t.Parallel()

	mailer := &recordingMailer{}
	svc := contact.NewService(passing(), mailer, contact.WithClock(func() time.Time { return fixedNow }))

	err := svc.Submit(context.Background(), contact.Request{
		Submission: contact.Submission{Name: "  Ana ", Email: " ana@example.com\n", Message: "\tHello  "},
		Page:       page(t, newSite(t), "/contact"),
	})
	require.NoError(t, err)

	require.Len(t, mailer.calls, 1)
	params := mailer.calls[0]
	assert.Equal(t, "info@site.com", params.To)
	assert.Equal(t, contact.DefaultSubject, params.Subject)
	assert.Equal(t, "[Promomark] New contact form message", params.Subject)
	assert.Equal(t, contact.TemplateContactForm, params.Template)
	assert.Equal(t, "ana@example.com", params.ReplyTo)
	assert.Empty(t, params.From)
	assert.Empty(t, params.Attachments)
	assert.Equal(t, contact.EmailModel{
		Name:        "Ana",
		Email:       "ana@example.com",
		Message:     "Hello",
		PageName:    "Contact",
		SubmittedAt: fixedNow,
	}, params.Model)
}

func TestService_Submit_NearestRecipient(t *testing.T) {
	t.Parallel()

	mailer := &recordingMailer{}
	svc := contact.NewService(passing(), mailer)

	err := svc.Submit(context.Background(), contact.Request{
		Submission: validSubmission(),
		Page:       page(t, newSite(t), "/about/team"),
	})
	require.NoError(t, err)
	require.Len(t, mailer.calls, 1)
	assert.Equal(t, "team@site.com", mailer.calls[0].To)
}

func TestService_Submit_SendFailure(t *testing.T) {
	t.Parallel()

	cause := errors.New("smtp: 451 try later")
	mailer := &recordingMailer{err: cause}
	svc := contact.NewService(passing(), mailer)

	err := svc.Submit(context.Background(), contact.Request{
		Submission: validSubmission(),
		Page:       page(t, newSite(t), "/contact"),
	})
	assert.ErrorIs(t, err, contact.ErrSendFailed)
	assert.ErrorIs(t, err, cause)
	assert.Len(t, mailer.calls, 1)
}

func TestService_Submit_Metrics(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())
	svc := contact.NewService(passing(), &recordingMailer{}, contact.WithMetrics(m))
	site := newSite(t)

	require.NoError(t, svc.Submit(context.Background(), contact.Request{
		Submission: validSubmission(),
		Page:       page(t, site, "/contact"),
	}))
	require.Error(t, svc.Submit(context.Background(), contact.Request{Page: page(t, site, "/contact")}))

	assert.InDelta(t, 1, testutil.ToFloat64(m.Submissions.WithLabelValues(metrics.OutcomeSucceeded)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Submissions.WithLabelValues(metrics.OutcomeInvalid)), 0)
}

// The whole chain with real components: unconfigured reCAPTCHA, the template
// registry, the dispatcher and a recording transport.
func TestService_Submit_EndToEnd(t *testing.T) {
	t.Parallel()

	registry := templates.NewRegistry(contact.Templates())

	var sent []*email.Message
	var mu sync.Mutex
	transport := email.TransportFunc(func(_ context.Context, msg *email.Message) error {
		mu.Lock()
		defer mu.Unlock()
		sent = append(sent, msg)
		return nil
	})

	dispatcher := email.NewDispatcher(registry, transport,
		email.WithFrom("website@promomark.com"),
		email.WithClock(func() time.Time { return fixedNow }),
	)
	verifier := recaptcha.New(recaptcha.Config{})
	svc := contact.NewService(verifier, dispatcher, contact.WithClock(func() time.Time { return fixedNow }))

	err := svc.Submit(context.Background(), contact.Request{
		Submission: validSubmission(),
		Page:       page(t, newSite(t), "/contact"),
	})
	require.NoError(t, err)

	require.Len(t, sent, 1)
	msg := sent[0]
	assert.Equal(t, "info@site.com", msg.To)
	assert.Equal(t, "ana@example.com", msg.ReplyTo)
	assert.Equal(t, "website@promomark.com", msg.From)
	assert.Equal(t, contact.DefaultSubject, msg.Subject)

	want, err := registry.Render(context.Background(), contact.TemplateContactForm, contact.EmailModel{
		Name:        "Ana",
		Email:       "ana@example.com",
		Message:     "Hello",
		PageName:    "Contact",
		SubmittedAt: fixedNow,
	})
	require.NoError(t, err)
	assert.Equal(t, want, msg.HTML)
}

func TestService_Submit_EndToEndSendFailure(t *testing.T) {
	t.Parallel()

	dispatcher := email.NewDispatcher(
		templates.NewRegistry(contact.Templates()),
		email.TransportFunc(func(context.Context, *email.Message) error {
			return errors.New("connection refused")
		}),
		email.WithFrom("website@promomark.com"),
	)
	svc := contact.NewService(recaptcha.New(recaptcha.Config{}), dispatcher)

	err := svc.Submit(context.Background(), contact.Request{
		Submission: validSubmission(),
		Page:       page(t, newSite(t), "/contact"),
	})
	assert.ErrorIs(t, err, contact.ErrSendFailed)
	assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
}
