package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/nexus/internal/api/apierr"
	"github.com/mcoot/nexus/internal/model"
)

type contextKey string

const userContextKey contextKey = "user"

// SessionSource resolves the active session
type SessionSource interface {
	Current(ctx context.Context) (*model.User, error)
}

// CreatorGate resolves the active session only if it has creator access
type CreatorGate interface {
	Authorize(ctx context.Context) (*model.User, error)
}

// RequireSession rejects requests while nobody is logged in
func RequireSession(sessions SessionSource) func(http.Handler) http.Handler {
	return require(sessions.Current)
}

// RequireCreator rejects requests unless the session email is privileged.
// The check runs on every request so a logout or account switch takes effect immediately.
func RequireCreator(gate CreatorGate) func(http.Handler) http.Handler {
	return require(gate.Authorize)
}

func require(resolve func(context.Context) (*model.User, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := resolve(r.Context())
			if err != nil {
				apierr.WriteError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser returns the session user from the request context
func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}
