// Package auth extracts and validates the caller's principal from a JWT
// bearer token. This service does not register users or manage
// credentials — those belong to the system that fronts this recognition
// core — and its only token issuance is IssueToken, a helper for local
// development and tests. It answers one question: which user_id made
// this request, for the A1 scoping invariant on history endpoints.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers malformed tokens, bad signatures, and
	// expired claims alike — the caller only needs to know the token
	// didn't authenticate, not which way it failed.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrMissingSubject is returned when a token verifies but carries
	// no usable principal.
	ErrMissingSubject = errors.New("token has no subject claim")
)

// Service validates bearer tokens issued by an external identity
// provider and extracts the subject (user id) claim.
type Service struct {
	secret []byte
}

// NewService constructs a Service with the shared JWT signing secret.
func NewService(secret []byte) *Service {
	return &Service{secret: secret}
}

// Claims is the minimal claim set this service understands.
type Claims struct {
	jwt.RegisteredClaims
}

// ValidateToken parses and verifies tokenString, returning the
// authenticated user id (the standard "sub" claim).
func (s *Service) ValidateToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", ErrMissingSubject
	}
	return claims.Subject, nil
}

// IssueToken mints a short-lived token for a user id. Exists mainly to
// support local development and tests where no external identity
// provider is wired up yet.
func (s *Service) IssueToken(userID string, ttl time.Duration) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
