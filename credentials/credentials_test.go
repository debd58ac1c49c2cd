package credentials_test

import (
	"net/http"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-study-client/credentials"
	credentialfakerepo "github.com/jrsteele09/go-study-client/credentials/repofake"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	raw := signedToken(t, jwtlib.MapClaims{
		"user_id": "u-1",
		"email":   "a@b.com",
		"type":    "access",
		"exp":     exp.Unix(),
	})

	claims, err := credentials.ParseClaims(raw)
	require.NoError(t, err)
	require.Equal(t, "u-1", claims.UserID)
	require.Equal(t, "a@b.com", claims.Email)
	require.Equal(t, "access", claims.Type)
	require.True(t, exp.Equal(claims.ExpiresAt))
	require.False(t, claims.Expired(time.Now()))
	require.True(t, claims.Expired(exp.Add(time.Second)))

	t.Run("opaque tokens are rejected", func(t *testing.T) {
		_, err := credentials.ParseClaims("A1")
		require.Error(t, err)
		_, err = credentials.ParseClaims("")
		require.Error(t, err)
	})
}

func TestCredential_Token(t *testing.T) {
	t.Run("opaque token has no expiry", func(t *testing.T) {
		tok := credentials.Credential{AccessToken: "A1", RefreshToken: "R1"}.Token()
		require.True(t, tok.Expiry.IsZero())
		require.True(t, tok.Valid())

		req, err := http.NewRequest(http.MethodGet, "http://localhost", nil)
		require.NoError(t, err)
		tok.SetAuthHeader(req)
		require.Equal(t, "Bearer A1", req.Header.Get("Authorization"))
	})

	t.Run("expired JWT is not valid", func(t *testing.T) {
		raw := signedToken(t, jwtlib.MapClaims{"user_id": "u", "exp": time.Now().Add(-time.Minute).Unix()})
		tok := credentials.Credential{AccessToken: raw}.Token()
		require.False(t, tok.Expiry.IsZero())
		require.False(t, tok.Valid())
	})
}

func TestCredential_IsZero(t *testing.T) {
	require.True(t, credentials.Credential{}.IsZero())
	require.False(t, credentials.Credential{RefreshToken: "R1"}.IsZero())
}

func TestFakeCredentialRepo(t *testing.T) {
	repo := credentialfakerepo.NewFakeCredentialRepo()

	cred, err := repo.Get()
	require.NoError(t, err)
	require.True(t, cred.IsZero())

	require.NoError(t, repo.Set(credentials.Credential{AccessToken: "A1", RefreshToken: "R1"}))
	cred, err = repo.Get()
	require.NoError(t, err)
	require.Equal(t, "A1", cred.AccessToken)
	require.Len(t, repo.Writes(), 1)

	require.NoError(t, repo.Clear())
	require.NoError(t, repo.Clear())
	cred, err = repo.Get()
	require.NoError(t, err)
	require.True(t, cred.IsZero())
	require.Equal(t, 2, repo.Clears())
}
