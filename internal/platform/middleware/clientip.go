// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/taibuivan/pixelpulse/internal/platform/constants"
	"github.com/taibuivan/pixelpulse/internal/platform/ctxutil"
)

// # Client Address

// ProxyTrust lists the reverse proxies whose forwarding headers are believed.
//
// A nil or empty ProxyTrust trusts nobody: the client address is always the
// TCP peer, whatever X-Forwarded-For or X-Real-IP claim.
type ProxyTrust struct {
	prefixes []netip.Prefix
}

/*
NewProxyTrust parses trusted proxies given as CIDR ranges ("10.0.0.0/8") or
single addresses ("192.0.2.10").

Returns:
  - *ProxyTrust
  - error: the first entry that is neither
*/
func NewProxyTrust(entries []string) (*ProxyTrust, error) {
	trust := &ProxyTrust{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("middleware: invalid trusted proxy %q: %w", entry, err)
			}
			trust.prefixes = append(trust.prefixes, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("middleware: invalid trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		trust.prefixes = append(trust.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return trust, nil
}

func (trust *ProxyTrust) trusts(addr netip.Addr) bool {
	if trust == nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range trust.prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

/*
ClientIP resolves the address a request originates from.

Forwarding headers are read only when the TCP peer is a trusted proxy.
X-Forwarded-For is walked right to left and the first hop that is not itself
a trusted proxy wins, so a client cannot prepend its way to a fresh identity.
*/
func (trust *ProxyTrust) ClientIP(request *http.Request) string {
	peer := peerHost(request)

	peerAddr, err := netip.ParseAddr(peer)
	if err != nil || !trust.trusts(peerAddr) {
		return peer
	}

	if forwarded := request.Header.Values(constants.HeaderXForwardedFor); len(forwarded) > 0 {
		hops := strings.Split(strings.Join(forwarded, ","), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				return peer
			}
			if !trust.trusts(hop) {
				return hop.Unmap().String()
			}
		}
	}

	if realIP, err := netip.ParseAddr(strings.TrimSpace(request.Header.Get(constants.HeaderXRealIP))); err == nil {
		return realIP.Unmap().String()
	}

	return peer
}

// ClientIP resolves the client address once per request and stores it in the
// context for the rate limiters and the access log.
func ClientIP(trust *ProxyTrust) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := ctxutil.WithClientIP(request.Context(), trust.ClientIP(request))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RealIP returns the address resolved by [ClientIP], or the TCP peer when the
// middleware did not run. It never reads forwarding headers itself.
func RealIP(request *http.Request) string {
	if ip := ctxutil.GetClientIP(request.Context()); ip != "" {
		return ip
	}
	return peerHost(request)
}

func peerHost(request *http.Request) string {
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
