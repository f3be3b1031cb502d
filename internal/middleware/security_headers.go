package middleware

import (
	"net/http"
)

// SecurityHeadersMiddleware sets response headers for a JSON API that is
// never framed or cached.
type SecurityHeadersMiddleware struct {
	hsts bool
}

func NewSecurityHeadersMiddleware(hsts bool) *SecurityHeadersMiddleware {
	return &SecurityHeadersMiddleware{hsts: hsts}
}

func (m *SecurityHeadersMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Cache-Control", "no-store")

		if m.hsts && r.TLS != nil {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}
