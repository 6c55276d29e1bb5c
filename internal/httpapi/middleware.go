package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/danielnero-bot/potential-goggles/internal/domain"
)

type ctxKey string

const (
	ctxKeyUser    ctxKey = "user"
	ctxKeySession ctxKey = "session_id"
)

// TokenResolver looks a bearer token up in the backing store.
type TokenResolver interface {
	UserByToken(ctx context.Context, token string) (*domain.User, error)
}

// AuthMiddleware resolves the Authorization bearer token to a user and puts
// it on the request context. Requests without a valid token pass through
// unauthenticated; handlers that need a user reject them individually.
func AuthMiddleware(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token != "" {
				if user, err := resolver.UserByToken(r.Context(), token); err == nil {
					ctx := context.WithValue(r.Context(), ctxKeyUser, user)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// SessionMiddleware reads the client session id from X-Session-ID, minting
// one when absent, and echoes it back so the client can keep its cart.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get("X-Session-ID")
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		w.Header().Set("X-Session-ID", sessionID)

		ctx := context.WithValue(r.Context(), ctxKeySession, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *domain.User {
	if user, ok := ctx.Value(ctxKeyUser).(*domain.User); ok {
		return user
	}
	return nil
}

func sessionFromContext(ctx context.Context) string {
	if sessionID, ok := ctx.Value(ctxKeySession).(string); ok {
		return sessionID
	}
	return ""
}

// ContextUsers adapts the request context to the saga's user resolution port,
// so the saga re-validates authentication even though the handler already
// checked it.
type ContextUsers struct{}

func (ContextUsers) CurrentUser(ctx context.Context) (*domain.User, error) {
	return UserFromContext(ctx), nil
}
