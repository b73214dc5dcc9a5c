package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerifyUserToken(t *testing.T) {
	a := NewJWTAuthenticator("storefront", "storefront")

	token, err := a.SignUserToken("64f000000000000000000001", "secret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := a.VerifyUserToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "64f000000000000000000001", claims.UserID)
	assert.Equal(t, "64f000000000000000000001", claims.Subject)
	assert.Equal(t, "storefront", claims.Issuer)
}

func TestVerifyUserTokenWrongSecret(t *testing.T) {
	a := NewJWTAuthenticator("storefront", "storefront")

	token, err := a.SignUserToken("64f000000000000000000001", "secret", time.Hour)
	require.NoError(t, err)

	_, err = a.VerifyUserToken(token, "other-secret")
	assert.Error(t, err)
}

func TestVerifyUserTokenExpired(t *testing.T) {
	a := NewJWTAuthenticator("storefront", "storefront")

	token, err := a.SignUserToken("64f000000000000000000001", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = a.VerifyUserToken(token, "secret")
	assert.Error(t, err)
}

func TestVerifyUserTokenWrongAudience(t *testing.T) {
	signer := NewJWTAuthenticator("other-service", "other-service")

	token, err := signer.SignUserToken("64f000000000000000000001", "secret", time.Hour)
	require.NoError(t, err)

	verifier := NewJWTAuthenticator("storefront", "storefront")
	_, err = verifier.VerifyUserToken(token, "secret")
	assert.Error(t, err)
}

func TestVerifyUserTokenGarbage(t *testing.T) {
	a := NewJWTAuthenticator("storefront", "storefront")

	_, err := a.VerifyUserToken("not-a-jwt", "secret")
	assert.Error(t, err)
}
