package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewTokenService("s3cret")

	token, err := svc.Issue("ops", time.Hour)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject())
	assert.True(t, claims.IsAdmin())
	assert.NotEmpty(t, claims.TokenID())
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	svc := NewTokenService("s3cret")

	other, err := NewTokenService("different").Issue("ops", time.Hour)
	require.NoError(t, err)
	_, err = svc.Verify(other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := svc.Issue("ops", -time.Minute)
	require.NoError(t, err)
	_, err = svc.Verify(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	viewer := jwt.NewWithClaims(jwt.SigningMethodHS256, adminTokenClaims{
		Role: "viewer",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := viewer.SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMissingSecret(t *testing.T) {
	svc := NewTokenService("")

	_, err := svc.Issue("ops", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
	_, err = svc.Verify("x")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestRequestContext(t *testing.T) {
	ctx := SetRequestID(context.Background(), "req-1")
	ctx = SetUserClaims(ctx, &AdminClaims{SubjectValue: "ops"})

	assert.Equal(t, "req-1", GetRequestID(ctx))
	require.NotNil(t, GetUserClaims(ctx))
	assert.Equal(t, "ops", GetUserClaims(ctx).Subject())
	assert.Nil(t, GetUserClaims(context.Background()))
}
