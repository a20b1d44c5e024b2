// Package middleware provides the HTTP middleware shared across routes.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pelicanmedia/pelican/internal/httpx"
	"github.com/pelicanmedia/pelican/pkg/auth"
	"github.com/pelicanmedia/pelican/pkg/errors"
	"github.com/pelicanmedia/pelican/pkg/models"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// Authenticator validates bearer tokens and stashes the claims in the
// request context.
type Authenticator struct {
	jwtManager *auth.JWTManager
}

// NewAuthenticator creates an Authenticator backed by the given JWT manager.
func NewAuthenticator(jwtManager *auth.JWTManager) *Authenticator {
	return &Authenticator{jwtManager: jwtManager}
}

// Require rejects requests without a valid bearer token.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.claimsFromRequest(r)
		if err != nil {
			httpx.Error(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// Optional attaches claims when a valid bearer token is present and lets the
// request through either way. An invalid token is treated as anonymous, so a
// stale header never breaks a public read.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.claimsFromRequest(r)
		if err == nil {
			r = r.WithContext(withClaims(r.Context(), claims))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose token does not carry the admin role.
// It must run after Require.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r.Context())
		if !ok {
			httpx.Error(w, errors.Unauthorized("authentication required"))
			return
		}
		if claims.Role != string(models.RoleAdmin) {
			httpx.Error(w, errors.Forbidden("admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) claimsFromRequest(r *http.Request) (*auth.Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, errors.Unauthorized("authentication required")
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, errors.Unauthorized("invalid authorization header")
	}

	claims, err := a.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return nil, errors.Unauthorized("invalid or expired token")
	}
	return claims, nil
}

func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFrom returns the validated claims attached to the context, if any.
func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// UserIDFrom returns the authenticated user's ID from the context.
func UserIDFrom(ctx context.Context) (uuid.UUID, bool) {
	claims, ok := ClaimsFrom(ctx)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
