// Package security applies response security headers and resolves the real
// client IP behind trusted proxies.
package security

import (
	"fmt"
	"net/http"
)

// HeadersConfig holds security headers configuration.
type HeadersConfig struct {
	CSP string

	HSTSMaxAge            int
	HSTSIncludeSubdomains bool

	XFrameOptions       string
	XContentTypeOptions string
	ReferrerPolicy      string
	CacheControl        string
}

// DefaultHeadersConfig returns defaults for a JSON API: nothing is
// embeddable, nothing is cacheable.
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		CSP:                   "default-src 'none'; frame-ancestors 'none'",
		HSTSMaxAge:            31536000,
		HSTSIncludeSubdomains: true,
		XFrameOptions:         "DENY",
		XContentTypeOptions:   "nosniff",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		CacheControl:          "no-store",
	}
}

// HeadersMiddleware applies security headers to every response.
type HeadersMiddleware struct {
	config HeadersConfig
}

func NewHeadersMiddleware(config HeadersConfig) *HeadersMiddleware {
	return &HeadersMiddleware{config: config}
}

// Middleware returns the HTTP middleware function.
func (h *HeadersMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers := w.Header()
		if h.config.CSP != "" {
			headers.Set("Content-Security-Policy", h.config.CSP)
		}
		if h.config.HSTSMaxAge > 0 && r.TLS != nil {
			hsts := fmt.Sprintf("max-age=%d", h.config.HSTSMaxAge)
			if h.config.HSTSIncludeSubdomains {
				hsts += "; includeSubDomains"
			}
			headers.Set("Strict-Transport-Security", hsts)
		}
		if h.config.XFrameOptions != "" {
			headers.Set("X-Frame-Options", h.config.XFrameOptions)
		}
		if h.config.XContentTypeOptions != "" {
			headers.Set("X-Content-Type-Options", h.config.XContentTypeOptions)
		}
		if h.config.ReferrerPolicy != "" {
			headers.Set("Referrer-Policy", h.config.ReferrerPolicy)
		}
		if h.config.CacheControl != "" {
			headers.Set("Cache-Control", h.config.CacheControl)
		}
		next.ServeHTTP(w, r)
	})
}
