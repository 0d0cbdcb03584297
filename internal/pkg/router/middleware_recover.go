package router

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/shiftbuddy/shiftbuddy/internal/pkg/stacktrace"
)

// middlewareRecoverer turns handler panics into a 500 response and a
// structured log entry. http.ErrAbortHandler is re-raised because the
// server uses it to abort the connection.
//
//nolint:errcheck,gosec,contextcheck // best-effort response write during panic
func middlewareRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				//nolint:err113,errorlint // sentinel comparison by identity
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				w.Header().Set("Content-Type", "application/json; charset=utf-8")

				if r.Header.Get("Connection") != "Upgrade" {
					w.WriteHeader(http.StatusInternalServerError)
				}

				logPanic(r, rvr)

				json.NewEncoder(w).Encode(map[string]string{
					"message": "Internal server error",
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// logPanic prefers the condensed in-repo frames; when the stack has
// none, it logs the raw trace instead.
func logPanic(r *http.Request, rvr any) {
	stack := debug.Stack()
	if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
		slog.ErrorContext(r.Context(), "panic on the server", "because", rvr, "stack", paths)
		return
	}
	slog.ErrorContext(r.Context(), "panic on the server trace debug", "because", rvr, "stack", string(stack))
}
