package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/nexus/internal/model"
)

type contextKey string

const userContextKey = contextKey("user")

// SessionSource resolves the active session
type SessionSource interface {
	Current(ctx context.Context) (*model.User, error)
}

// CreatorGate resolves the active session only if it has creator access
type CreatorGate interface {
	Authorize(ctx context.Context) (*model.User, error)
}

// GetUser retrieves the session user from the request context
// Returns nil if nobody is logged in
func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// Session returns middleware that loads the active session if there is one
func Session(sessions SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// A storage failure renders as logged out
			user, _ := sessions.Current(r.Context())
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCreator returns middleware that only lets privileged sessions through.
// Everyone else is sent home with a notice.
func RequireCreator(gate CreatorGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := gate.Authorize(r.Context())
			if err != nil {
				SetFlash(w, "error", "Creator access required")
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
