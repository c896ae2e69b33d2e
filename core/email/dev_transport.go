package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevTransport writes messages to a directory instead of delivering them.
// Each message produces <timestamp>_<subject>.html, .json metadata and the
// raw .eml as it would go over the wire.
type DevTransport struct {
	dir string
	now func() time.Time
}

var _ Transport = (*DevTransport)(nil)

// NewDevTransport creates a DevTransport. The directory is created on first send.
func NewDevTransport(dir string) *DevTransport {
	return &DevTransport{dir: dir, now: time.Now}
}

// devMetadata is the JSON sidecar written next to each message.
type devMetadata struct {
	Timestamp   string   `json:"timestamp"`
	MessageID   string   `json:"message_id"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	ReplyTo     string   `json:"reply_to,omitempty"`
	Bcc         []string `json:"bcc,omitempty"`
	Subject     string   `json:"subject"`
	Attachments []string `json:"attachments,omitempty"`
}

// Send writes msg to disk.
func (d *DevTransport) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSendEmail, err)
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", ErrFailedToSendEmail, err)
	}

	now := d.now()
	base := filepath.Join(d.dir, fmt.Sprintf("%s_%s", now.Format("2006_01_02_150405"), sanitizeFilename(msg.Subject)))

	if err := os.WriteFile(base+".html", []byte(msg.HTML), 0o644); err != nil {
		return fmt.Errorf("%w: failed to write HTML file: %v", ErrFailedToSendEmail, err)
	}

	meta := devMetadata{
		Timestamp: now.Format(time.RFC3339),
		MessageID: msg.MessageID,
		From:      msg.From,
		To:        msg.To,
		ReplyTo:   msg.ReplyTo,
		Bcc:       msg.Bcc,
		Subject:   msg.Subject,
	}
	for _, a := range msg.Attachments {
		meta.Attachments = append(meta.Attachments, a.Name)
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal metadata: %v", ErrFailedToSendEmail, err)
	}
	if err := os.WriteFile(base+".json", data, 0o644); err != nil {
		return fmt.Errorf("%w: failed to write JSON file: %v", ErrFailedToSendEmail, err)
	}

	var raw bytes.Buffer
	if _, err := msg.WriteTo(&raw); err != nil {
		return fmt.Errorf("%w: failed to build MIME message: %v", ErrFailedToSendEmail, err)
	}
	if err := os.WriteFile(base+".eml", raw.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: failed to write EML file: %v", ErrFailedToSendEmail, err)
	}

	return nil
}

var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeFilename converts a subject into a lower-case, filesystem-safe name.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = sanitizeRegex.ReplaceAllString(s, "")

	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
