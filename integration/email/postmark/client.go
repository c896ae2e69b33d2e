package postmark

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/mrz1836/postmark"

	"github.com/promomark/website/core/email"
)

// Client delivers messages through Postmark's transactional API.
type Client struct {
	client *postmark.Client
	config Config
}

var _ email.Transport = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.client.BaseURL = url
		}
	}
}

// New creates a Postmark transport. Only the server token is needed to send.
func New(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.ServerToken) == "" {
		return nil, fmt.Errorf("%w: ServerToken is required", email.ErrInvalidConfig)
	}

	c := &Client{
		client: postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		config: cfg,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MustNew creates a Postmark transport that panics on invalid config.
func MustNew(cfg Config, opts ...Option) *Client {
	client, err := New(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

// Send delivers msg through the Postmark API in a single request.
func (c *Client) Send(ctx context.Context, msg *email.Message) error {
	if msg == nil {
		return fmt.Errorf("%w: nil message", email.ErrInvalidParams)
	}

	resp, err := c.client.SendEmail(ctx, c.toPostmark(msg))
	if err != nil {
		return errors.Join(email.ErrFailedToSendEmail, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(
			email.ErrFailedToSendEmail,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}
	return nil
}

func (c *Client) toPostmark(msg *email.Message) postmark.Email {
	pm := postmark.Email{
		From:          msg.From,
		To:            msg.To,
		Bcc:           strings.Join(msg.Bcc, ","),
		ReplyTo:       msg.ReplyTo,
		Subject:       msg.Subject,
		HTMLBody:      msg.HTML,
		TextBody:      msg.Text,
		MessageStream: c.config.MessageStream,
		TrackOpens:    c.config.TrackOpens,
	}
	if msg.MessageID != "" {
		pm.Headers = append(pm.Headers, postmark.Header{Name: "Message-ID", Value: msg.MessageID})
	}

	for _, a := range msg.Attachments {
		att := postmark.Attachment{
			Name:        a.Name,
			Content:     base64.StdEncoding.EncodeToString(a.Data),
			ContentType: attachmentContentType(a),
		}
		if a.Inline {
			att.ContentID = "cid:" + a.Name
		}
		pm.Attachments = append(pm.Attachments, att)
	}
	return pm
}

func attachmentContentType(a email.Attachment) string {
	if a.ContentType != "" {
		return a.ContentType
	}
	if ct := mime.TypeByExtension(filepath.Ext(a.Name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
