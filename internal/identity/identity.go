// Package identity resolves an optional caller identity from a bearer token.
package identity

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// ErrInvalidToken is returned when a bearer token fails verification.
var ErrInvalidToken = errors.New("invalid identity token")

// Identity is a verified caller.
type Identity struct {
	CallerID    string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Provider verifies a raw token and returns the caller it names.
type Provider interface {
	Identify(ctx context.Context, rawToken string) (*Identity, error)
}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored by Middleware, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// Middleware verifies an "Authorization: Bearer" token and stores the
// resulting identity in the request context. Requests without a token or
// with a token that fails verification continue anonymously.
func Middleware(provider Provider, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("system", "identity")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok || provider == nil {
				next.ServeHTTP(w, r)
				return
			}

			id, err := provider.Identify(r.Context(), raw)
			if err != nil {
				logger.Debug("bearer token rejected", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), *id)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
