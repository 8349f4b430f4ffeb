package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// KeyExtractor is a function that extracts a unique key from the request
// for rate limiting purposes (e.g., IP address, email).
type KeyExtractor func(*http.Request) string

// IPKeyExtractor returns the address of the connected peer. Forwarding
// headers are ignored because any client can set them; use
// TrustedProxyKeyExtractor when the server sits behind a known proxy.
func IPKeyExtractor(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// TrustedProxyKeyExtractor honours X-Forwarded-For and X-Real-IP only when the
// connected peer is inside one of trusted. X-Forwarded-For is read right to
// left and the first hop that is not itself a trusted proxy wins, so entries a
// client prepends cannot change the key. Requests from any other peer are
// keyed by IPKeyExtractor.
func TrustedProxyKeyExtractor(trusted []netip.Prefix) KeyExtractor {
	isTrusted := func(addr netip.Addr) bool {
		for _, p := range trusted {
			if p.Contains(addr) {
				return true
			}
		}
		return false
	}

	return func(r *http.Request) string {
		peer, err := netip.ParseAddr(IPKeyExtractor(r))
		if err != nil || !isTrusted(peer.Unmap()) {
			return IPKeyExtractor(r)
		}

		client := peer.Unmap()
		if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
			hops := strings.Split(strings.Join(xff, ","), ",")
			for i := len(hops) - 1; i >= 0; i-- {
				addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
				if err != nil {
					break
				}
				client = addr.Unmap()
				if !isTrusted(client) {
					break
				}
			}
			return client.String()
		}

		if addr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
			return addr.Unmap().String()
		}
		return client.String()
	}
}

// ParseTrustedProxies parses CIDR prefixes or bare addresses. A bare address
// is treated as a single-host prefix.
func ParseTrustedProxies(values []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.Contains(v, "/") {
			p, err := netip.ParsePrefix(v)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", v, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", v, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// CompositeKeyExtractor combines multiple key extractors with a separator.
// Empty parts are skipped, so CompositeKeyExtractor(":", IPKeyExtractor,
// JSONFieldKeyExtractor("email")) yields "192.168.1.1:alice@x.io" or just
// "192.168.1.1".
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		var parts []string
		for _, extractor := range extractors {
			if key := extractor(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

// JSONFieldKeyExtractor extracts a top-level string field from a JSON body.
// The body is restored so the handler can still decode it. Values are
// lower-cased so "Alice@x" and "alice@x" share a key.
func JSONFieldKeyExtractor(field string) KeyExtractor {
	return func(r *http.Request) string {
		if r.Body == nil {
			return ""
		}
		raw, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(raw))
		if err != nil {
			return ""
		}

		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return ""
		}
		s, _ := fields[field].(string)
		return strings.ToLower(strings.TrimSpace(s))
	}
}
