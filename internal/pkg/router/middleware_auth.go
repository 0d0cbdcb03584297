package router

import (
	"net/http"
	"strings"

	"github.com/shiftbuddy/shiftbuddy/internal/pkg/jwt"
)

// middlewareAuthentication verifies the bearer token on every route
// not listed in publicEndpoints and stores the resulting claims in
// the request context for handlers to read.
func middlewareAuthentication(verifier jwt.JWT, publicEndpoints map[string]map[string]struct{}) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicRoute(publicEndpoints, r.Method, matchedRoutePath(r)) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeJSON(w, map[string]string{"message": "Authentication required"}, http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				writeJSON(w, map[string]string{"message": "Invalid or expired token"}, http.StatusUnauthorized)
				return
			}

			ctx := jwt.SetAuth(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isPublicRoute(endpoints map[string]map[string]struct{}, method, path string) bool {
	paths, ok := endpoints[method]
	if !ok {
		return false
	}
	_, ok = paths[path]
	return ok
}

// bearerToken extracts the credential from an Authorization header,
// accepting any casing of the Bearer scheme.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
