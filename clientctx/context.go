// Package clientctx derives the client identity of a request and carries it
// through the request context.
//
// The derivation trusts proxy headers as sent: any direct client can set
// Client-IP or X-Forwarded-For and choose its recorded identity. There is no
// trusted-proxy allowlist.
package clientctx

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// Unspecified is recorded when no client address can be determined.
const Unspecified = "0.0.0.0"

const (
	HeaderClientIP     = "Client-IP"
	HeaderForwardedFor = "X-Forwarded-For"
)

type contextKey string

const clientIPKey contextKey = "client_ip"

// Resolve returns the client identity, first match wins:
// Client-IP, the first X-Forwarded-For entry, the peer address, Unspecified.
func Resolve(header http.Header, remoteAddr string) string {
	for _, name := range []string{HeaderClientIP, HeaderForwardedFor} {
		if ip := firstEntry(header.Get(name)); ip != "" {
			return ip
		}
	}

	if ip := peerAddress(remoteAddr); ip != "" {
		return ip
	}

	return Unspecified
}

// FromRequest resolves the identity of r.
func FromRequest(r *http.Request) string {
	return Resolve(r.Header, r.RemoteAddr)
}

// firstEntry takes the first element of a comma separated list, trimmed
func firstEntry(v string) string {
	if idx := strings.Index(v, ","); idx != -1 {
		v = v[:idx]
	}
	return strings.TrimSpace(v)
}

// peerAddress strips the port from a host:port peer address
func peerAddress(remoteAddr string) string {
	remoteAddr = strings.TrimSpace(remoteAddr)
	if remoteAddr == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

// SetClientIP adds the client identity to ctx
func SetClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// GetClientIP retrieves the client identity from ctx, or Unspecified
func GetClientIP(ctx context.Context) string {
	ip, ok := ctx.Value(clientIPKey).(string)
	if !ok || ip == "" {
		return Unspecified
	}
	return ip
}
