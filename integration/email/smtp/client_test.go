package smtp_test

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promomark/website/core/email"
	"github.com/promomark/website/integration/email/smtp"
)

func testMessage() *email.Message {
	return &email.Message{
		From:      "Promomark <web@site.com>",
		To:        "info@site.com",
		ReplyTo:   "ana@example.com",
		Bcc:       []string{"archive@site.com"},
		Subject:   "New enquiry",
		HTML:      "<p>Hello</p>\n<p>.leading dot</p>",
		MessageID: "<id@site.com>",
		Date:      time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

// testCerts returns a server TLS config and a client config trusting it.
func testCerts(t *testing.T) (*tls.Config, *tls.Config) {
	t.Helper()
	srv := httptest.NewUnstartedServer(http.NotFoundHandler())
	srv.StartTLS()
	serverCfg := &tls.Config{Certificates: srv.TLS.Certificates}
	pool := x509.NewCertPool()
	pool.AddCert(srv.Certificate())
	srv.Close()
	return serverCfg, &tls.Config{RootCAs: pool}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	validConfig := smtp.Config{
		Host:     "smtp.example.com",
		Port:     25,
		Security: smtp.SecurityNone,
	}

	tests := []struct {
		name    string
		config  smtp.Config
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config without credentials",
			config: validConfig,
		},
		{
			name: "valid config with credentials",
			config: func() smtp.Config {
				cfg := validConfig
				cfg.Username = "web"
				cfg.Password = "secret"
				cfg.Security = smtp.SecurityStartTLS
				return cfg
			}(),
		},
		{
			name: "empty host",
			config: func() smtp.Config {
				cfg := validConfig
				cfg.Host = " "
				return cfg
			}(),
			wantErr: true,
			errMsg:  "Host is required",
		},
		{
			name: "invalid port - zero",
			config: func() smtp.Config {
				cfg := validConfig
				cfg.Port = 0
				return cfg
			}(),
			wantErr: true,
			errMsg:  "Port must be between 1 and 65535",
		},
		{
			name: "invalid port - too high",
			config: func() smtp.Config {
				cfg := validConfig
				cfg.Port = 70000
				return cfg
			}(),
			wantErr: true,
			errMsg:  "Port must be between 1 and 65535",
		},
		{
			name: "unknown security",
			config: func() smtp.Config {
				cfg := validConfig
				cfg.Security = smtp.Security(42)
				return cfg
			}(),
			wantErr: true,
			errMsg:  "unknown SMTP security",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client, err := smtp.New(tt.config)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, email.ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestMustNew_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { smtp.MustNew(smtp.Config{}) })
}

func TestParseSecurity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    smtp.Security
		wantErr bool
	}{
		{"None", smtp.SecurityNone, false},
		{"", smtp.SecurityNone, false},
		{"starttls", smtp.SecurityStartTLS, false},
		{"StartTls", smtp.SecurityStartTLS, false},
		{"SSLONCONNECT", smtp.SecuritySSLOnConnect, false},
		{"Auto", smtp.SecurityNone, true},
	}
	for _, tt := range tests {
		got, err := smtp.ParseSecurity(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, email.ErrInvalidConfig, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	assert.Equal(t, "None", smtp.SecurityNone.String())
	assert.Equal(t, "StartTls", smtp.SecurityStartTLS.String())
	assert.Equal(t, "SslOnConnect", smtp.SecuritySSLOnConnect.String())

	var s smtp.Security
	require.NoError(t, s.UnmarshalText([]byte("SslOnConnect")))
	assert.Equal(t, smtp.SecuritySSLOnConnect, s)
}

func TestSend_Plain(t *testing.T) {
	t.Parallel()

	srv := newFakeServer(t)
	host, port := srv.addr()
	client, err := smtp.New(smtp.Config{Host: host, Port: port})
	require.NoError(t, err)

	require.NoError(t, client.Send(context.Background(), testMessage()))

	commands, sessions := srv.snapshot()
	require.Len(t, sessions, 1)
	sess := sessions[0]
	assert.Equal(t, "web@site.com", sess.from)
	assert.Equal(t, []string{"info@site.com", "archive@site.com"}, sess.rcpts)
	assert.Empty(t, sess.auth, "no credentials configured, no AUTH expected")
	assert.False(t, sess.tls)
	for _, c := range commands {
		assert.NotContains(t, strings.ToUpper(c), "STARTTLS")
	}

	assert.Contains(t, sess.data, "Reply-To: ana@example.com")
	assert.Contains(t, sess.data, "Subject: New enquiry")
	assert.NotContains(t, sess.data, "Bcc:")
	assert.NotContains(t, sess.data, "archive@site.com")
}

func TestSend_Auth(t *testing.T) {
	t.Parallel()

	srv := newFakeServer(t)
	host, port := srv.addr()
	client, err := smtp.New(smtp.Config{Host: host, Port: port, Username: "web", Password: "secret"})
	require.NoError(t, err)

	require.NoError(t, client.Send(context.Background(), testMessage()))

	_, sessions := srv.snapshot()
	require.Len(t, sessions, 1)
	want := "PLAIN " + base64.StdEncoding.EncodeToString([]byte("\x00web\x00secret"))
	assert.Equal(t, want, sessions[0].auth)
}

func TestSend_AuthWithoutTLSToRemoteHost(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.2:0")
	if err != nil {
		t.Skipf("127.0.0.2 not bindable: %v", err)
	}
	_ = ln.Close()

	srv := newFakeServerOn(t, "127.0.0.2:0")
	host, port := srv.addr()
	require.Equal(t, "127.0.0.2", host)
	client, err := smtp.New(smtp.Config{
		Host:     host,
		Port:     port,
		Username: "web",
		Password: "secret",
		Security: smtp.SecurityNone,
	})
	require.NoError(t, err)

	require.NoError(t, client.Send(context.Background(), testMessage()))

	_, sessions := srv.snapshot()
	require.Len(t, sessions, 1)
	assert.False(t, sessions[0].tls)
	want := "PLAIN " + base64.StdEncoding.EncodeToString([]byte("\x00web\x00secret"))
	assert.Equal(t, want, sessions[0].auth)
	assert.Equal(t, []string{"info@site.com", "archive@site.com"}, sessions[0].rcpts)
}

func TestSend_StartTLS(t *testing.T) {
	t.Parallel()

	serverCfg, clientCfg := testCerts(t)
	srv := newFakeServer(t, func(s *fakeServer) {
		s.tlsConfig = serverCfg
		s.startTLS = true
	})
	host, port := srv.addr()
	client, err := smtp.New(smtp.Config{Host: host, Port: port, Security: smtp.SecurityStartTLS}, smtp.WithTLSConfig(clientCfg))
	require.NoError(t, err)

	require.NoError(t, client.Send(context.Background(), testMessage()))

	commands, sessions := srv.snapshot()
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].tls)
	assert.Contains(t, commands, "STARTTLS")
}

func TestSend_StartTLSUnsupported(t *testing.T) {
	t.Parallel()

	srv := newFakeServer(t)
	host, port := srv.addr()
	client, err := smtp.New(smtp.Config{Host: host, Port: port, Security: smtp.SecurityStartTLS})
	require.NoError(t, err)

	err = client.Send(context.Background(), testMessage())
	assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
	assert.ErrorContains(t, err, "STARTTLS")
}

func TestSend_SSLOnConnect(t *testing.T) {
	t.Parallel()

	serverCfg, clientCfg := testCerts(t)
	srv := newFakeServer(t, func(s *fakeServer) { s.tlsConfig = serverCfg })
	host, port := srv.addr()
	client, err := smtp.New(smtp.Config{Host: host, Port: port, Security: smtp.SecuritySSLOnConnect}, smtp.WithTLSConfig(clientCfg))
	require.NoError(t, err)

	require.NoError(t, client.Send(context.Background(), testMessage()))

	_, sessions := srv.snapshot()
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].tls)
}

func TestSend_RecipientRejected(t *testing.T) {
	t.Parallel()

	srv := newFakeServer(t, func(s *fakeServer) { s.failRcpt = "archive@site.com" })
	host, port := srv.addr()
	client, err := smtp.New(smtp.Config{Host: host, Port: port})
	require.NoError(t, err)

	err = client.Send(context.Background(), testMessage())
	assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
	assert.ErrorContains(t, err, "archive@site.com")

	_, sessions := srv.snapshot()
	assert.Empty(t, sessions)
}

func TestSend_ConnectionError(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	client, err := smtp.New(smtp.Config{Host: "127.0.0.1", Port: port, Timeout: time.Second})
	require.NoError(t, err)

	err = client.Send(context.Background(), testMessage())
	assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
	assert.ErrorContains(t, err, "failed to connect")
}

func TestSend_CancelledContext(t *testing.T) {
	t.Parallel()

	client, err := smtp.New(smtp.Config{Host: "127.0.0.1", Port: 25})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = client.Send(ctx, testMessage())
	assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
	assert.ErrorIs(t, err, context.Canceled)
}
