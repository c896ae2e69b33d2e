package clientip_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promomark/website/pkg/clientip"
)

func request(remoteAddr string, headers map[string]string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = remoteAddr
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return r
}

func TestGetIP_IgnoresForwardingHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{"remote addr", nil, "203.0.113.7:5123", "203.0.113.7"},
		{"forwarded for ignored", map[string]string{"X-Forwarded-For": "198.51.100.2"}, "203.0.113.7:1", "203.0.113.7"},
		{"cloudflare ignored", map[string]string{"CF-Connecting-IP": "198.51.100.1"}, "203.0.113.7:1", "203.0.113.7"},
		{"ipv6 remote", nil, "[2001:db8::1]:443", "2001:db8::1"},
		{"unparseable remote addr", nil, "pipe", "pipe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, clientip.GetIP(request(tt.remoteAddr, tt.headers)))
		})
	}
}

func TestResolver_TrustedProxy(t *testing.T) {
	t.Parallel()

	res, err := clientip.NewResolver("10.0.0.0/8", " 192.0.2.10 ", "")
	require.NoError(t, err)

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{"untrusted peer keeps remote addr", map[string]string{"X-Forwarded-For": "198.51.100.2"}, "203.0.113.7:1", "203.0.113.7"},
		{"cloudflare wins", map[string]string{"CF-Connecting-IP": "198.51.100.1", "X-Forwarded-For": "198.51.100.2"}, "10.0.0.1:1", "198.51.100.1"},
		{"single hop", map[string]string{"X-Forwarded-For": "198.51.100.9"}, "10.0.0.1:1", "198.51.100.9"},
		{"spoofed leftmost hop skipped", map[string]string{"X-Forwarded-For": "1.2.3.4, 198.51.100.9"}, "10.0.0.1:1", "198.51.100.9"},
		{"trusted hops skipped", map[string]string{"X-Forwarded-For": "198.51.100.9, 10.1.2.3, 192.0.2.10"}, "10.0.0.1:1", "198.51.100.9"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.3"}, "192.0.2.10:1", "198.51.100.3"},
		{"malformed hop falls back", map[string]string{"X-Forwarded-For": "garbage", "X-Real-IP": "198.51.100.4"}, "10.0.0.1:1", "198.51.100.4"},
		{"unspecified skipped", map[string]string{"CF-Connecting-IP": "0.0.0.0"}, "10.0.0.1:1", "10.0.0.1"},
		{"ipv6 hop", map[string]string{"X-Real-IP": "2001:db8::1"}, "10.0.0.1:1", "2001:db8::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, res.GetIP(request(tt.remoteAddr, tt.headers)))
		})
	}
}

func TestNewResolver_Invalid(t *testing.T) {
	t.Parallel()

	_, err := clientip.NewResolver("10.0.0.0/8", "not-an-ip")
	assert.ErrorIs(t, err, clientip.ErrInvalidProxy)
}

func TestNewResolver_Empty(t *testing.T) {
	t.Parallel()

	res, err := clientip.NewResolver()
	require.NoError(t, err)
	r := request("203.0.113.7:1", map[string]string{"X-Real-IP": "198.51.100.3"})
	assert.Equal(t, "203.0.113.7", res.GetIP(r))
}
