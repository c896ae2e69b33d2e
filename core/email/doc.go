// Package email builds and dispatches the website's outgoing mail.
//
// A Dispatcher renders a named template through a Renderer, resolves the
// sender, assembles a Message and hands it to a Transport in a single
// attempt. Transports live in integration/email (SMTP, Postmark, SES);
// DevTransport writes messages to disk for local work.
//
//	d := email.NewDispatcher(registry, transport, email.WithFrom("web@promomark.hr"))
//	err := d.Send(ctx, email.SendParams{
//		To:       "info@promomark.hr",
//		Subject:  "New enquiry",
//		Template: "emails/contact_form",
//		Model:    model,
//		ReplyTo:  "ana@example.com",
//	})
//
// Failures are reported with the sentinels in errors.go: ErrInvalidConfig for
// a missing sender, ErrInvalidParams for malformed addresses and
// ErrFailedToSendEmail, joined with the cause, for render and transport errors.
//
// Message.WriteTo produces the MIME form using gomail: text/html (or
// multipart/alternative with a derived text part), multipart/related for
// inline attachments referenced as cid:<name> and multipart/mixed for file
// attachments. Bcc recipients are part of the envelope only.
package email
