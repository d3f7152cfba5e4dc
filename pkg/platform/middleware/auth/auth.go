package auth

import (
	"log/slog"
	"net/http"
	"strings"

	id "cadastre/pkg/domain"
	"cadastre/pkg/requestcontext"
)

// TokenValidator validates a bearer token and returns the claims carried by
// it. The registry never authenticates callers itself; the validator is the
// boundary where an already-issued credential becomes a Principal.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims are the token claims the registry cares about.
type Claims struct {
	Principal string
	JTI       string
}

// RequireAuth rejects requests without a valid bearer token and injects the
// authenticated principal into the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "invalid_token", "missing bearer token")
				return
			}

			claims, err := validator.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				logger.WarnContext(ctx, "token validation failed",
					"request_id", requestcontext.RequestID(ctx),
					"error", err.Error(),
				)
				writeJSONError(w, http.StatusUnauthorized, "invalid_token", "token validation failed")
				return
			}

			caller, err := id.ParsePrincipal(claims.Principal)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid_token", "token carries no principal")
				return
			}

			ctx = requestcontext.WithPrincipal(ctx, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + errCode + `","error_description":"` + errDesc + `"}`))
}
