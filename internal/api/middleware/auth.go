// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/preplab/ielts-api/internal/api/shared"
	"github.com/preplab/ielts-api/internal/domain"
)

// ErrInvalidToken is returned when a bearer token fails verification.
var ErrInvalidToken = errors.New("invalid token")

// IdentityVerifier verifies identity-provider tokens. It is the only point
// where the application touches authentication: tokens are verified, never
// issued.
type IdentityVerifier interface {
	// Verify checks the token and returns the identity it carries.
	Verify(ctx context.Context, token string) (*domain.User, error)
}

// JWTVerifier verifies HS256 tokens signed with a shared secret, reading
// the uid, email and name claims the identity provider sets.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a JWTVerifier for the given shared secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify implements IdentityVerifier.
func (v *JWTVerifier) Verify(ctx context.Context, token string) (*domain.User, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	uid, _ := claims["uid"].(string)
	if uid == "" {
		return nil, fmt.Errorf("%w: missing uid claim", ErrInvalidToken)
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	return &domain.User{UID: uid, Email: email, DisplayName: name}, nil
}

// Auth returns middleware that verifies the Authorization bearer token and
// stores the authenticated UID in the request context. Requests without a
// valid token are rejected with 401.
func Auth(verifier IdentityVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Missing or malformed Authorization header")
				return
			}

			user, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.Debug("token verification failed",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()))
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := shared.WithUserUID(r.Context(), user.UID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TraceID returns middleware that attaches a trace ID to every request
// context for log and error correlation.
func TraceID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(shared.SetTraceID(r.Context())))
		})
	}
}
