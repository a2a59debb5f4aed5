package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
)

// AdminCode gates moderation routes behind the shared admin code sent
// in the X-Admin-Code header. An empty configured code disables the
// check, which keeps the legacy client (it only gates its admin panel
// client-side) working out of the box.
func AdminCode(code string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if code == "" {
				next.ServeHTTP(w, r)
				return
			}

			got := r.Header.Get("X-Admin-Code")
			if subtle.ConstantTimeCompare([]byte(got), []byte(code)) != 1 {
				logger.Warn("admin code rejected",
					slog.String("path", r.URL.Path),
					slog.String("remote", r.RemoteAddr),
				)
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid admin code"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
