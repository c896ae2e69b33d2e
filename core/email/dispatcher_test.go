package email_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promomark/website/core/email"
	"github.com/promomark/website/core/metrics"
)

type fakeRenderer struct {
	mu    sync.Mutex
	calls []string
	html  string
	err   error
}

func (f *fakeRenderer) Render(_ context.Context, name string, _ any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.html, f.err
}

type fakeTransport struct {
	mu   sync.Mutex
	sent []*email.Message
	err  error
}

func (f *fakeTransport) Send(_ context.Context, msg *email.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

func baseParams() email.SendParams {
	return email.SendParams{
		To:       "info@site.com",
		Subject:  "New enquiry",
		Template: "emails/contact_form",
		Model:    struct{}{},
		ReplyTo:  "ana@example.com",
	}
}

func TestDispatcher_Send(t *testing.T) {
	t.Parallel()

	renderer := &fakeRenderer{html: "<p>rendered</p>"}
	transport := &fakeTransport{}
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	d := email.NewDispatcher(renderer, transport,
		email.WithFrom("web@site.com"),
		email.WithClock(func() time.Time { return now }),
	)

	require.NoError(t, d.Send(context.Background(), baseParams()))

	assert.Equal(t, []string{"emails/contact_form"}, renderer.calls)
	require.Len(t, transport.sent, 1)
	msg := transport.sent[0]
	assert.Equal(t, "web@site.com", msg.From)
	assert.Equal(t, "info@site.com", msg.To)
	assert.Equal(t, "ana@example.com", msg.ReplyTo)
	assert.Equal(t, "New enquiry", msg.Subject)
	assert.Equal(t, "<p>rendered</p>", msg.HTML)
	assert.Empty(t, msg.Text)
	assert.Empty(t, msg.Attachments)
	assert.Equal(t, now, msg.Date)
	assert.True(t, strings.HasSuffix(msg.MessageID, "@site.com>"))
}

func TestDispatcher_FromOverride(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{}
	d := email.NewDispatcher(&fakeRenderer{html: "<p>x</p>"}, transport, email.WithFrom("web@site.com"))

	params := baseParams()
	params.From = "sales@site.com"
	require.NoError(t, d.Send(context.Background(), params))
	assert.Equal(t, "sales@site.com", transport.sent[0].From)
}

func TestDispatcher_MissingSender(t *testing.T) {
	t.Parallel()

	renderer := &fakeRenderer{html: "<p>x</p>"}
	transport := &fakeTransport{}
	d := email.NewDispatcher(renderer, transport, email.WithFrom("   "))

	err := d.Send(context.Background(), baseParams())
	assert.ErrorIs(t, err, email.ErrInvalidConfig)
	assert.NotErrorIs(t, err, email.ErrFailedToSendEmail)
	assert.Empty(t, transport.sent)
}

func TestDispatcher_RenderFailure(t *testing.T) {
	t.Parallel()

	notFound := errors.New("template not found")
	transport := &fakeTransport{}
	d := email.NewDispatcher(&fakeRenderer{err: notFound}, transport, email.WithFrom("web@site.com"))

	err := d.Send(context.Background(), baseParams())
	assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
	assert.ErrorIs(t, err, notFound)
	assert.Empty(t, transport.sent)
}

func TestDispatcher_TransportFailure(t *testing.T) {
	t.Parallel()

	refused := errors.New("connection refused")
	transport := &fakeTransport{err: refused}
	m := metrics.New(prometheus.NewRegistry())
	d := email.NewDispatcher(&fakeRenderer{html: "<p>x</p>"}, transport,
		email.WithFrom("web@site.com"),
		email.WithDispatcherMetrics(m),
	)

	err := d.Send(context.Background(), baseParams())
	assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
	assert.ErrorIs(t, err, refused)
	assert.Len(t, transport.sent, 1)
	assert.Equal(t, 1, testutil.CollectAndCount(m.Dispatch))
}

func TestDispatcher_BlankRecipient(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{}
	d := email.NewDispatcher(&fakeRenderer{html: "<p>x</p>"}, transport, email.WithFrom("web@site.com"))

	params := baseParams()
	params.To = "  "
	assert.ErrorIs(t, d.Send(context.Background(), params), email.ErrInvalidParams)
	assert.Empty(t, transport.sent)
}

func TestDispatcher_ReplyToAndBcc(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{}
	d := email.NewDispatcher(&fakeRenderer{html: "<p>x</p>"}, transport, email.WithFrom("web@site.com"))

	params := baseParams()
	params.ReplyTo = "   "
	params.Bcc = []string{"", "archive@site.com", "  ", "audit@site.com"}
	require.NoError(t, d.Send(context.Background(), params))

	msg := transport.sent[0]
	assert.Empty(t, msg.ReplyTo)
	assert.Equal(t, []string{"archive@site.com", "audit@site.com"}, msg.Bcc)
	assert.Equal(t, []string{"info@site.com", "archive@site.com", "audit@site.com"}, msg.Recipients())
}

func TestDispatcher_Attachments(t *testing.T) {
	t.Parallel()

	attachments := map[string][]byte{
		"terms.pdf": []byte("pdf"),
		"logo.png":  []byte("png"),
	}

	tests := []struct {
		name   string
		inline bool
	}{
		{"files", false},
		{"inline", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			transport := &fakeTransport{}
			d := email.NewDispatcher(&fakeRenderer{html: "<p>x</p>"}, transport, email.WithFrom("web@site.com"))

			params := baseParams()
			params.Attachments = attachments
			params.InlineAttachments = tt.inline
			require.NoError(t, d.Send(context.Background(), params))

			got := transport.sent[0].Attachments
			require.Len(t, got, 2)
			assert.Equal(t, "logo.png", got[0].Name)
			assert.Equal(t, "terms.pdf", got[1].Name)
			for _, a := range got {
				assert.Equal(t, tt.inline, a.Inline)
				assert.Equal(t, attachments[a.Name], a.Data)
			}
		})
	}
}

func TestDispatcher_PlainTextAlternative(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{}
	d := email.NewDispatcher(&fakeRenderer{html: "<p>Hello &amp; welcome</p>"}, transport,
		email.WithFrom("web@site.com"),
		email.WithPlainTextAlternative(),
	)

	require.NoError(t, d.Send(context.Background(), baseParams()))
	assert.Equal(t, "Hello & welcome", transport.sent[0].Text)
}

func TestDevTransport(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "emails")
	tr := email.NewDevTransport(dir)

	msg := validMessage()
	msg.Attachments = []email.Attachment{{Name: "offer.pdf", Data: []byte("%PDF")}}
	require.NoError(t, tr.Send(context.Background(), msg))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	exts := map[string]bool{}
	for _, e := range entries {
		exts[filepath.Ext(e.Name())] = true
		assert.Contains(t, e.Name(), "new_enquiry")
	}
	assert.Equal(t, map[string]bool{".html": true, ".json": true, ".eml": true}, exts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tr.Send(ctx, msg), email.ErrFailedToSendEmail)
}
