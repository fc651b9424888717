package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sakif/job-board/internal/model"
)

// contextKey is an unexported type used for context keys in this package,
// so no other package can read or shadow the values stored here.
type contextKey string

const userKey contextKey = "user"

// Resolver turns a raw bearer token into the user it belongs to.
// service.AuthService implements it: validate the JWT, then look the
// subject email up in the user repository.
type Resolver interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It reads the token from "Authorization: Bearer <jwt>", resolves it to a
// user and stores the user in the request context. A missing header, a bad
// token or an unknown subject all end the chain with 401 and a
// WWW-Authenticate challenge.
//
// Role checks are NOT done here: every service operation names the role it
// requires, so the rule lives next to the logic it guards.
func RequireAuth(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				unauthorized(w, err.Error())
				return
			}

			user, err := resolver.Authenticate(r.Context(), token)
			if err != nil {
				unauthorized(w, "Could not validate credentials")
				return
			}

			ctx := WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithUser returns a copy of ctx carrying the authenticated user.
// Exported for handler tests that bypass the middleware.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext retrieves the authenticated user from the request context.
// Returns (nil, false) if the request did not pass through RequireAuth.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok && u != nil
}

// bearerToken extracts the token from the Authorization header.
// The scheme is matched case-insensitively, as RFC 6750 allows.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("authorization header required")
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errors.New("invalid authorization format")
	}
	return strings.TrimSpace(token), nil
}

// unauthorized writes a 401 in the same envelope shape the handlers use.
func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": "Could not validate credentials",
		"errors":  []string{detail},
	})
}
