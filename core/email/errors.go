package email

import "errors"

// Sentinel errors, joined with the underlying cause via errors.Join or %w.
var (
	// ErrFailedToSendEmail marks render and transport failures.
	ErrFailedToSendEmail = errors.New("failed to send email")
	// ErrInvalidConfig marks operator configuration problems such as a missing sender.
	ErrInvalidConfig = errors.New("invalid email configuration")
	// ErrInvalidParams marks malformed message parameters such as a blank recipient.
	ErrInvalidParams = errors.New("invalid email parameters")
)
