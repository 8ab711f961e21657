package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"housepoints/internal/domain"
)

// PrincipalResolver maps a validated token subject to a stored principal.
// Implemented by service.PrincipalService.
type PrincipalResolver interface {
	Resolve(ctx context.Context, externalID string) (*domain.Principal, error)
}

// Auth validates the Bearer token and resolves its subject to a
// principal, which is stored in the request context. Requests without a
// valid token, or whose subject does not resolve to an active principal,
// get 401.
func Auth(validator JWTValidator, resolver PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				writeUnauthorized(w, "provide a Bearer token")
				return
			}

			claims, err := validator.Validate(r.Context(), strings.TrimPrefix(auth, "Bearer "))
			if err != nil || claims.Subject == "" {
				writeUnauthorized(w, "invalid token")
				return
			}

			principal, err := resolver.Resolve(r.Context(), claims.Subject)
			if err != nil {
				writeUnauthorized(w, "unknown or deactivated principal")
				return
			}

			ctx := domain.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    http.StatusUnauthorized,
		"message": "unauthorized: " + message,
	})
}
