// Package postmark delivers email.Message values through Postmark's
// transactional email API.
//
//	transport, err := postmark.New(postmark.Config{ServerToken: token})
//	dispatcher := email.NewDispatcher(registry, transport, email.WithFrom(from))
//
// Reply-To, Bcc, the plain-text alternative and attachments are mapped onto
// the API request. Inline attachments get a ContentID of cid:<name> so the
// HTML body can reference them. A non-zero Postmark ErrorCode is reported
// as email.ErrFailedToSendEmail.
package postmark
