package metadata

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/mssola/useragent"

	"votedesk/pkg/requestcontext"
)

// MaxForwardedLength bounds X-Forwarded-For and X-Real-IP values.
const MaxForwardedLength = 500

// Middleware records client IP and User-Agent in the request context.
// Forwarding headers are honored only from trusted proxies.
type Middleware struct {
	trusted []netip.Prefix
}

func NewMiddleware(trustedProxies ...netip.Prefix) *Middleware {
	return &Middleware{trusted: trustedProxies}
}

func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(), m.clientIP(r), r.Header.Get("User-Agent"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) clientIP(r *http.Request) string {
	remote := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}
	if remote == "" {
		return "unknown"
	}
	if !m.isTrusted(remote) {
		return remote
	}

	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" {
		forwarded = r.Header.Get("X-Real-IP")
	}
	if forwarded == "" || len(forwarded) > MaxForwardedLength {
		return remote
	}
	first, _, _ := strings.Cut(forwarded, ",")
	first = strings.TrimSpace(first)
	if _, err := netip.ParseAddr(first); err != nil {
		return remote
	}
	return first
}

func (m *Middleware) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, prefix := range m.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// Summarize reduces a User-Agent to "Browser on OS" for audit records.
func Summarize(ua string) string {
	ua = strings.TrimSpace(ua)
	if ua == "" {
		return "unknown"
	}
	parsed := useragent.New(ua)
	if parsed.Bot() {
		name, _ := parsed.Browser()
		return strings.TrimSpace("bot " + name)
	}
	browser, _ := parsed.Browser()
	osName := parsed.OS()
	switch {
	case browser != "" && osName != "":
		return browser + " on " + osName
	case browser != "":
		return browser
	default:
		return ua
	}
}
