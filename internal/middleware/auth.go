package middleware

import (
	"context"
	"net/http"
	"strings"

	"clinic-appointment-api/internal/clinic"
	"clinic-appointment-api/internal/model"
)

type ctxKey string

const identityKey ctxKey = "identity"

// RequireRole gates a route group behind the authorization choke point. The
// resolved identity lands in the request context; any failure is the one
// generic unauthorized answer.
func RequireRole(svc *clinic.Service, roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// token from Authorization: Bearer <jwt>
			raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if raw == "" {
				unauthorized(w)
				return
			}

			ident, err := svc.AuthorizeAny(r.Context(), raw, roles...)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Identity returns the actor placed in the context by RequireRole. Nil on
// routes that never went through the gate.
func Identity(ctx context.Context) *clinic.Identity {
	ident, _ := ctx.Value(identityKey).(*clinic.Identity)
	return ident
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"message":"Unauthorized"}`))
}
