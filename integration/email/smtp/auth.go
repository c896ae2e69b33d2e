package smtp

import (
	"errors"
	"net/smtp"
)

// plainAuth is AUTH PLAIN (RFC 4616) without net/smtp's refusal to send
// credentials over a clear text session to a non-local host. Security None
// with a username means the relay accepts credentials in the clear.
type plainAuth struct {
	identity string
	username string
	password string
	host     string
}

var _ smtp.Auth = (*plainAuth)(nil)

func newPlainAuth(username, password, host string) *plainAuth {
	return &plainAuth{username: username, password: password, host: host}
}

func (a *plainAuth) Start(server *smtp.ServerInfo) (string, []byte, error) {
	if server.Name != a.host {
		return "", nil, errors.New("wrong host name")
	}
	resp := []byte(a.identity + "\x00" + a.username + "\x00" + a.password)
	return "PLAIN", resp, nil
}

func (a *plainAuth) Next(_ []byte, more bool) ([]byte, error) {
	if more {
		return nil, errors.New("unexpected server challenge")
	}
	return nil, nil
}
