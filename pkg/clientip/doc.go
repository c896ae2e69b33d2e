// Package clientip resolves the client IP address of an HTTP request.
//
// GetIP and RemoteIP return the direct peer from RemoteAddr. Behind a proxy
// or CDN, build a Resolver with the proxy addresses:
//
//	res, err := clientip.NewResolver("10.0.0.0/8", "192.0.2.10")
//	if err != nil {
//		return err
//	}
//	ip := res.GetIP(r)
//
// For a trusted peer the headers are checked in this order, first valid
// address wins:
//  1. CF-Connecting-IP (Cloudflare)
//  2. DO-Connecting-IP (DigitalOcean)
//  3. X-Forwarded-For, rightmost hop that is not a trusted proxy
//  4. X-Real-IP
//
// Requests from any other peer resolve to RemoteAddr, so a client cannot
// choose its own address by sending these headers. Addresses are normalized
// with net.IP.String; 0.0.0.0 and malformed values are skipped.
package clientip
