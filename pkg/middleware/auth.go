package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/devburger/pkg/auth"
	"github.com/shashiranjanraj/devburger/pkg/logger"
	"github.com/shashiranjanraj/devburger/pkg/response"
)

const (
	msgMissingToken = "Token not provided"
	msgInvalidToken = "Token is invalid"
)

type identityKey struct{}

// TokenVerifier is the part of auth.TokenService the gate needs.
type TokenVerifier interface {
	Verify(token string) (*auth.Identity, error)
}

// Auth rejects requests without a valid bearer token and attaches the
// verified identity to the request context.
//
// The header is split on a single space and the second segment is the token;
// the scheme word is not checked.
func Auth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				response.Unauthorized(w, msgMissingToken)
				return
			}

			token := ""
			if parts := strings.Split(header, " "); len(parts) > 1 {
				token = parts[1]
			}

			identity, err := tokens.Verify(token)
			if err != nil {
				logger.WithCtx(r.Context()).Debug("token rejected", "error", err)
				response.Unauthorized(w, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// IdentityFromCtx returns the identity stored by Auth, or nil.
func IdentityFromCtx(ctx context.Context) *auth.Identity {
	id, _ := ctx.Value(identityKey{}).(*auth.Identity)
	return id
}

// UserIDFromCtx returns the authenticated user id, or "".
func UserIDFromCtx(ctx context.Context) string {
	if id := IdentityFromCtx(ctx); id != nil {
		return id.UserID
	}
	return ""
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}
