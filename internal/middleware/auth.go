package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/santoshphuyala/multimanager/internal/auth"
	"github.com/santoshphuyala/multimanager/pkg/response"
)

// RequirePIN guards a route with the PIN gate. Requests pass freely while no
// PIN is configured; once one is set, a valid Bearer session token is
// required.
func RequirePIN(gate *auth.PINGate, sessions *auth.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			enabled, err := gate.Enabled(r.Context())
			if err != nil {
				slog.Error("Failed to check PIN state", "error", err)
				response.InternalError(w, "failed to check PIN state")
				return
			}
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				response.Unauthorized(w, auth.ErrMissingToken.Error())
				return
			}
			if err := sessions.Validate(token); err != nil {
				response.Unauthorized(w, auth.ErrInvalidToken.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
