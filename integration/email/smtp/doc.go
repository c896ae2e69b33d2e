// Package smtp delivers email.Message values over SMTP.
//
// Three security modes are supported, matching the SMTP_SECURE_SOCKET_OPTIONS
// setting: None (clear text, no STARTTLS), StartTls (upgrade after the
// greeting, refused when the server does not offer it) and SslOnConnect
// (implicit TLS, usually port 465).
//
//	client, err := smtp.New(smtp.Config{
//		Host:     "mail.promomark.hr",
//		Port:     587,
//		Username: "web",
//		Password: secret,
//		Security: smtp.SecurityStartTLS,
//	})
//
// Authentication uses AUTH PLAIN and only happens when Username is set.
// net/smtp refuses to send PLAIN credentials over an unencrypted connection
// to anything but localhost, so None with credentials only works against a
// local relay.
//
// Each Send opens a new session, issues RCPT for the To address and every
// Bcc, and writes the MIME message produced by email.Message.WriteTo. The
// session is bounded by Config.Timeout and the caller's context.
package smtp
