package mockapi

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-study-client/internal/errors"
	"github.com/jrsteele09/go-study-client/users"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }

	_, err := newTokenIssuer("", time.Minute, time.Hour, clock)
	require.Error(t, err)

	ti, err := newTokenIssuer("secret", time.Minute, time.Hour, clock)
	require.NoError(t, err)
	account := &users.Account{ID: "u1", Email: "ada@example.com"}

	t.Run("access token claims", func(t *testing.T) {
		raw, err := ti.IssueAccessToken(account)
		require.NoError(t, err)

		claims, err := ti.Verify(raw, tokenTypeAccess)
		require.NoError(t, err)
		require.Equal(t, "u1", claims.UserID)
		require.Equal(t, "ada@example.com", claims.Email)
		require.NotEmpty(t, claims.ID)
		require.Equal(t, now.Add(time.Minute).Unix(), claims.ExpiresAt.Unix())

		_, err = ti.Verify(raw, tokenTypeRefresh)
		require.ErrorIs(t, err, errWrongTokenType)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := newTokenIssuer("other", time.Minute, time.Hour, clock)
		require.NoError(t, err)
		raw, err := other.IssueRefreshToken("u1")
		require.NoError(t, err)

		_, err = ti.Verify(raw, tokenTypeRefresh)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("unsigned token", func(t *testing.T) {
		raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, jwtlib.MapClaims{
			"user_id": "u1",
			"type":    tokenTypeAccess,
			"exp":     now.Add(time.Hour).Unix(),
		}).SignedString(jwtlib.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = ti.Verify(raw, tokenTypeAccess)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("expire all and cleanup", func(t *testing.T) {
		raw, err := ti.IssueAccessToken(account)
		require.NoError(t, err)
		require.GreaterOrEqual(t, ti.ExpireAll(), 1)

		_, err = ti.Verify(raw, tokenTypeAccess)
		require.ErrorIs(t, err, apperrors.ErrTokenExpired)

		// tokens issued afterwards are unaffected
		fresh, err := ti.IssueAccessToken(account)
		require.NoError(t, err)
		_, err = ti.Verify(fresh, tokenTypeAccess)
		require.NoError(t, err)

		now = now.Add(2 * time.Minute)
		ti.Cleanup()
		require.Empty(t, ti.issued)
		require.Empty(t, ti.expired)
	})
}

func TestOTPStore(t *testing.T) {
	now := time.Now()
	store := newOTPStore(func() time.Time { return now })

	code, err := store.Issue("Ada@Example.com ")
	require.NoError(t, err)
	require.NoError(t, users.ValidateOTPCode(code))

	last, ok := store.Last("ada@example.com")
	require.True(t, ok)
	require.Equal(t, code, last)

	// a second request replaces the pending code
	second, err := store.Issue("ada@example.com")
	require.NoError(t, err)
	if second != code {
		require.ErrorIs(t, store.Verify("ada@example.com", code), apperrors.ErrInvalidOTP)
	}
	require.NoError(t, store.Verify("ada@example.com", second))
	require.ErrorIs(t, store.Verify("ada@example.com", second), apperrors.ErrOTPNotFound)
}

func TestPDFRoundTrip(t *testing.T) {
	doc, err := renderQuizPDF(`Notes (draft) \ v2`, nil)
	require.NoError(t, err)

	text, err := extractPDFText(doc)
	require.NoError(t, err)
	require.Equal(t, `Notes (draft) \ v2`, text)

	_, err = extractPDFText([]byte("%PDF-1.4\n%%EOF\n"))
	require.Error(t, err)
}

func TestWrapText(t *testing.T) {
	lines := wrapText("   A. "+"word word word word word", 12)
	require.Equal(t, []string{"   A. word word", "word word", "word"}, lines)
	require.Equal(t, []string{""}, wrapText("", 10))
}
