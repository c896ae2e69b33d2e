package email

import (
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// Attachment is a named binary resource carried by a Message.
// Inline attachments are referenced from the HTML body as cid:<Name>.
type Attachment struct {
	Name        string
	Data        []byte
	Inline      bool
	ContentType string // derived from the name extension when empty
}

// Message is a fully resolved email ready for a Transport.
// Bcc addresses travel in the envelope only and are never written as a header.
type Message struct {
	From        string
	To          string
	ReplyTo     string
	Bcc         []string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
	MessageID   string
	Date        time.Time
}

// Validate checks the addresses carried by the message.
func (m *Message) Validate() error {
	if strings.TrimSpace(m.From) == "" {
		return fmt.Errorf("%w: sender address is required", ErrInvalidConfig)
	}
	if _, err := mail.ParseAddress(m.From); err != nil {
		return fmt.Errorf("%w: invalid sender address %q", ErrInvalidConfig, m.From)
	}
	if strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("%w: recipient address is required", ErrInvalidParams)
	}
	if _, err := mail.ParseAddress(m.To); err != nil {
		return fmt.Errorf("%w: invalid recipient address %q", ErrInvalidParams, m.To)
	}
	if m.ReplyTo != "" {
		if _, err := mail.ParseAddress(m.ReplyTo); err != nil {
			return fmt.Errorf("%w: invalid reply-to address %q", ErrInvalidParams, m.ReplyTo)
		}
	}
	for _, addr := range m.Bcc {
		if _, err := mail.ParseAddress(addr); err != nil {
			return fmt.Errorf("%w: invalid bcc address %q", ErrInvalidParams, addr)
		}
	}
	if strings.TrimSpace(m.Subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidParams)
	}
	if m.HTML == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidParams)
	}
	for _, a := range m.Attachments {
		if a.Name == "" {
			return fmt.Errorf("%w: attachment name is required", ErrInvalidParams)
		}
	}
	return nil
}

// Recipients returns the SMTP envelope recipients: To followed by every Bcc.
func (m *Message) Recipients() []string {
	rcpts := make([]string, 0, 1+len(m.Bcc))
	rcpts = append(rcpts, envelopeAddress(m.To))
	for _, addr := range m.Bcc {
		rcpts = append(rcpts, envelopeAddress(addr))
	}
	return rcpts
}

// Sender returns the bare envelope sender address.
func (m *Message) Sender() string {
	return envelopeAddress(m.From)
}

// Inline returns the attachments embedded by content id.
func (m *Message) Inline() []Attachment {
	return m.filterAttachments(true)
}

// Files returns the attachments presented as downloadable files.
func (m *Message) Files() []Attachment {
	return m.filterAttachments(false)
}

func (m *Message) filterAttachments(inline bool) []Attachment {
	var out []Attachment
	for _, a := range m.Attachments {
		if a.Inline == inline {
			out = append(out, a)
		}
	}
	return out
}

// WriteTo writes the message in RFC 5322 / MIME form.
//
// The body is text/html, or multipart/alternative when Text is set.
// Inline attachments wrap it in multipart/related with Content-ID <name>;
// file attachments wrap everything in multipart/mixed.
func (m *Message) WriteTo(w io.Writer) (int64, error) {
	return m.compose().WriteTo(w)
}

func (m *Message) compose() *gomail.Message {
	gm := gomail.NewMessage(gomail.SetCharset("UTF-8"))

	gm.SetHeader("From", m.From)
	gm.SetHeader("To", m.To)
	if m.ReplyTo != "" {
		gm.SetHeader("Reply-To", m.ReplyTo)
	}
	gm.SetHeader("Subject", m.Subject)

	date := m.Date
	if date.IsZero() {
		date = time.Now()
	}
	gm.SetDateHeader("Date", date)

	id := m.MessageID
	if id == "" {
		id = NewMessageID(m.From)
	}
	gm.SetHeader("Message-ID", id)

	if m.Text != "" {
		gm.SetBody("text/plain", m.Text)
		gm.AddAlternative("text/html", m.HTML)
	} else {
		gm.SetBody("text/html", m.HTML)
	}

	for _, a := range m.Attachments {
		settings := []gomail.FileSetting{gomail.SetCopyFunc(copyBytes(a.Data))}
		if a.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {a.ContentType + `; name="` + a.Name + `"`},
			}))
		}
		if a.Inline {
			gm.Embed(a.Name, settings...)
		} else {
			gm.Attach(a.Name, settings...)
		}
	}

	return gm
}

func copyBytes(data []byte) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}
}

// NewMessageID builds a Message-ID using the sender's domain.
func NewMessageID(from string) string {
	domain := "localhost"
	addr := envelopeAddress(from)
	if at := strings.LastIndex(addr, "@"); at >= 0 && at < len(addr)-1 {
		domain = addr[at+1:]
	}
	return "<" + uuid.NewString() + "@" + domain + ">"
}

// envelopeAddress strips the display name from a header address.
func envelopeAddress(s string) string {
	if addr, err := mail.ParseAddress(s); err == nil {
		return addr.Address
	}
	return strings.TrimSpace(s)
}
