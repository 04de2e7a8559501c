package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateToken_RoundTrip(t *testing.T) {
	svc := NewService([]byte("test-secret"))

	token, err := svc.IssueToken("user-123", time.Hour)
	require.NoError(t, err)

	userID, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestValidateToken_WrongSecretRejected(t *testing.T) {
	issuer := NewService([]byte("issuer-secret"))
	verifier := NewService([]byte("different-secret"))

	token, err := issuer.IssueToken("user-123", time.Hour)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_ExpiredRejected(t *testing.T) {
	svc := NewService([]byte("test-secret"))

	token, err := svc.IssueToken("user-123", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_MissingSubjectRejected(t *testing.T) {
	secret := []byte("test-secret")
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(secret)
	require.NoError(t, err)

	svc := NewService(secret)
	_, err = svc.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestValidateToken_GarbageRejected(t *testing.T) {
	svc := NewService([]byte("test-secret"))
	_, err := svc.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
