package email

import "context"

// Renderer turns a named template and its model into an HTML string.
type Renderer interface {
	Render(ctx context.Context, name string, model any) (string, error)
}

// Transport delivers a fully built Message. Implementations make a single
// attempt and hold no per-message state.
type Transport interface {
	Send(ctx context.Context, msg *Message) error
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, msg *Message) error

// Send calls f.
func (f TransportFunc) Send(ctx context.Context, msg *Message) error {
	return f(ctx, msg)
}

// Mailer is the dispatcher contract consumed by the contact form.
type Mailer interface {
	Send(ctx context.Context, params SendParams) error
}

// SendParams describes one outgoing email before rendering.
type SendParams struct {
	To       string
	Subject  string
	Template string
	Model    any
	ReplyTo  string
	// Attachments maps a file name (or content id when InlineAttachments is
	// set) to its bytes.
	Attachments       map[string][]byte
	InlineAttachments bool
	// From overrides the configured sender when non-blank.
	From string
	Bcc  []string
}
