package middleware

import (
	"net/http"
	"strings"
)

const methodOverrideHeader = "X-HTTP-Method-Override"

var overridable = map[string]bool{
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// MethodOverride rewrites POST requests carrying ?_method=PUT (or the
// X-HTTP-Method-Override header) so multipart forms can reach update routes.
// It must run before routing.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			override := r.URL.Query().Get("_method")
			if override == "" {
				override = r.Header.Get(methodOverrideHeader)
			}
			if m := strings.ToUpper(strings.TrimSpace(override)); overridable[m] {
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}
