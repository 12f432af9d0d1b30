// Package auth adapts the external identity provider for the admin back
// office. The provider issues HS256 JWTs (Supabase-style); this package
// only answers "is a user present" and "is the current actor an
// administrator"; account management lives with the provider.
package auth

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const userKey contextKey = "auth_user"

// User is the verified identity extracted from a bearer token
type User struct {
	ID      string
	Email   string
	IsAdmin bool
}

// accessClaims mirrors the provider's token payload. The admin role arrives
// either as a top-level role claim or inside app_metadata.
type accessClaims struct {
	jwt.RegisteredClaims
	Email       string `json:"email"`
	Role        string `json:"role"`
	AppMetadata struct {
		Role string `json:"role"`
	} `json:"app_metadata"`
}

// Verifier validates bearer tokens against the provider's shared secret
type Verifier struct {
	secret []byte
}

// NewVerifierFromEnv reads AUTH_JWT_SECRET and builds a verifier
func NewVerifierFromEnv() (*Verifier, error) {
	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET environment variable is not set")
	}
	return &Verifier{secret: []byte(secret)}, nil
}

// Verify parses and validates a raw token and returns the identity it
// carries
func (v *Verifier) Verify(raw string) (*User, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	role := claims.Role
	if claims.AppMetadata.Role != "" {
		role = claims.AppMetadata.Role
	}

	return &User{
		ID:      claims.Subject,
		Email:   claims.Email,
		IsAdmin: role == "admin",
	}, nil
}

// RequireAdmin wraps a handler so only authenticated administrators reach
// it. The verified user is placed on the request context.
func (v *Verifier) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "Missing bearer token", http.StatusUnauthorized)
			return
		}

		user, err := v.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			log.Printf("❌ Auth: token rejected: %v", err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		if !user.IsAdmin {
			log.Printf("❌ Auth: user %s is not an administrator", user.ID)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	}
}

// WithUser attaches a verified user to a context
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFrom returns the verified user on the context, if any
func UserFrom(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userKey).(*User)
	return user, ok
}
