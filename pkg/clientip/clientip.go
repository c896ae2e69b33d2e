package clientip

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ErrInvalidProxy is returned for a trusted proxy entry that is neither an
// IP address nor a CIDR prefix.
var ErrInvalidProxy = errors.New("invalid trusted proxy")

// Headers set by a CDN with the address it saw, checked before X-Forwarded-For.
var connectingHeaders = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
}

// Resolver reads forwarding headers only from trusted peers.
type Resolver struct {
	trusted []netip.Prefix
}

// NewResolver trusts the given proxies, each an IP address or CIDR prefix.
// Without proxies every request resolves to its RemoteAddr.
func NewResolver(proxies ...string) (*Resolver, error) {
	r := &Resolver{}
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(p); err == nil {
			r.trusted = append(r.trusted, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidProxy, p)
		}
		addr = addr.Unmap()
		r.trusted = append(r.trusted, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return r, nil
}

// GetIP returns the originating client address. Forwarding headers are
// honored only when the direct peer is trusted; X-Forwarded-For is walked
// from the right and the first untrusted hop wins, so entries a client
// prepends itself are never picked.
func (res *Resolver) GetIP(r *http.Request) string {
	remote := RemoteIP(r)
	if !res.isTrusted(remote) {
		return remote
	}

	for _, h := range connectingHeaders {
		if ip := normalize(r.Header.Get(h)); ip != "" {
			return ip
		}
	}

	if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
		hops := strings.Split(strings.Join(xff, ","), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			ip := normalize(hops[i])
			if ip == "" {
				break
			}
			if !res.isTrusted(ip) {
				return ip
			}
		}
	}

	if ip := normalize(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return remote
}

func (res *Resolver) isTrusted(ip string) bool {
	if res == nil || len(res.trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range res.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// GetIP returns the peer address of r. It trusts no forwarding header; use
// a Resolver with the proxy addresses when running behind one.
func GetIP(r *http.Request) string {
	return RemoteIP(r)
}

// RemoteIP returns the normalized host part of r.RemoteAddr, or RemoteAddr
// unchanged when it does not parse.
func RemoteIP(r *http.Request) string {
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		host = h
	}
	if ip := normalize(host); ip != "" {
		return ip
	}
	return host
}

func normalize(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}
