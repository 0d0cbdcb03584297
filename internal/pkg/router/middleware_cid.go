package router

import (
	"net/http"
	"strings"

	"github.com/shiftbuddy/shiftbuddy/internal/pkg/instrument"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/uid"
)

const (
	// HeaderCorrelationID tracks a request end-to-end across services.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is an accepted alternative some proxies send.
	HeaderRequestID = "X-Request-ID"
)

// normalizeCID sanitizes a caller-supplied correlation ID: no CR/LF,
// trimmed, capped at 128 characters.
func normalizeCID(v string) string {
	if strings.ContainsAny(v, "\r\n") {
		return ""
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	const maxLen = 128
	if len(v) > maxLen {
		v = v[:maxLen]
	}
	return v
}

// middlewareCorrelationID adopts the caller's correlation ID when one
// is usable, otherwise mints one, and echoes it in the response and
// the request context.
func middlewareCorrelationID(uid uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := normalizeCID(r.Header.Get(HeaderCorrelationID))
			if cid == "" {
				cid = normalizeCID(r.Header.Get(HeaderRequestID))
			}
			if cid == "" && uid != nil {
				cid = uid.Generate()
			}

			if cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(instrument.SetCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}
