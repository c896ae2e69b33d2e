package postmark_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promomark/website/core/email"
	"github.com/promomark/website/integration/email/postmark"
)

type capture struct {
	mu      sync.Mutex
	token   string
	payload map[string]any
}

func newAPI(t *testing.T, response string) (*capture, *httptest.Server) {
	t.Helper()
	c := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.token = r.Header.Get("X-Postmark-Server-Token")
		_ = json.NewDecoder(r.Body).Decode(&c.payload)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return c, srv
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := postmark.New(postmark.Config{})
	assert.ErrorIs(t, err, email.ErrInvalidConfig)

	client, err := postmark.New(postmark.Config{ServerToken: "token"})
	require.NoError(t, err)
	assert.NotNil(t, client)

	assert.Panics(t, func() { postmark.MustNew(postmark.Config{}) })
}

func TestSend_MapsMessage(t *testing.T) {
	t.Parallel()

	api, srv := newAPI(t, `{"ErrorCode":0,"Message":"OK","MessageID":"abc"}`)
	client := postmark.MustNew(postmark.Config{ServerToken: "server-token", MessageStream: "outbound"}, postmark.WithBaseURL(srv.URL))

	msg := &email.Message{
		From:    "web@site.com",
		To:      "info@site.com",
		ReplyTo: "ana@example.com",
		Bcc:     []string{"a@site.com", "b@site.com"},
		Subject: "New enquiry",
		HTML:    `<img src="cid:logo.png">`,
		Text:    "Hello",
		Attachments: []email.Attachment{
			{Name: "logo.png", Data: []byte("png"), Inline: true},
			{Name: "terms.pdf", Data: []byte("pdf")},
		},
	}
	require.NoError(t, client.Send(context.Background(), msg))

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, "server-token", api.token)
	assert.Equal(t, "web@site.com", api.payload["From"])
	assert.Equal(t, "info@site.com", api.payload["To"])
	assert.Equal(t, "ana@example.com", api.payload["ReplyTo"])
	assert.Equal(t, "a@site.com,b@site.com", api.payload["Bcc"])
	assert.Equal(t, "New enquiry", api.payload["Subject"])
	assert.Equal(t, `<img src="cid:logo.png">`, api.payload["HtmlBody"])
	assert.Equal(t, "Hello", api.payload["TextBody"])

	attachments, ok := api.payload["Attachments"].([]any)
	require.True(t, ok)
	require.Len(t, attachments, 2)
	inline := attachments[0].(map[string]any)
	assert.Equal(t, "logo.png", inline["Name"])
	assert.Equal(t, "cid:logo.png", inline["ContentID"])
	assert.Equal(t, "image/png", inline["ContentType"])
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("png")), inline["Content"])
	file := attachments[1].(map[string]any)
	assert.Equal(t, "application/pdf", file["ContentType"])
	assert.Empty(t, file["ContentID"])
}

func TestSend_APIError(t *testing.T) {
	t.Parallel()

	_, srv := newAPI(t, `{"ErrorCode":406,"Message":"Inactive recipient"}`)
	client := postmark.MustNew(postmark.Config{ServerToken: "t"}, postmark.WithBaseURL(srv.URL))

	err := client.Send(context.Background(), &email.Message{From: "web@site.com", To: "x@site.com", Subject: "s", HTML: "<p>x</p>"})
	assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
	assert.ErrorContains(t, err, "406")
}

func TestSend_NilMessage(t *testing.T) {
	t.Parallel()

	client := postmark.MustNew(postmark.Config{ServerToken: "t"})
	assert.ErrorIs(t, client.Send(context.Background(), nil), email.ErrInvalidParams)
}
