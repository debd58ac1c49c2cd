package users_test

import (
	"encoding/json"
	"testing"
	"time"

	apperrors "github.com/jrsteele09/go-study-client/internal/errors"
	"github.com/jrsteele09/go-study-client/users"
	fakeuserrepo "github.com/jrsteele09/go-study-client/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	require.NoError(t, users.ValidateEmail("a@b.com"))

	err := users.ValidateEmail("  ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "email is required")

	for _, bad := range []string{"userexample.com", "Jane <jane@example.com>", "a@"} {
		err := users.ValidateEmail(bad)
		require.Error(t, err, bad)
		require.Contains(t, err.Error(), "invalid email format")
	}
}

func TestValidateOTPCode(t *testing.T) {
	require.NoError(t, users.ValidateOTPCode("123456"))

	for _, bad := range []string{"", "12345", "1234567", "12345a", "１２３４５６"} {
		require.Error(t, users.ValidateOTPCode(bad), bad)
	}
}

func TestValidateFullName(t *testing.T) {
	require.NoError(t, users.ValidateFullName("Ada Lovelace"))
	require.Error(t, users.ValidateFullName(" "))
}

func TestProfile_DecodesNaiveTimestamps(t *testing.T) {
	payload := `{"user_id":"u1","email":"a@b.com","full_name":"A B","verified":true,
		"created_at":"2025-01-02T03:04:05.678901","last_login":null,"favourite_colour":"blue"}`

	var p users.Profile
	require.NoError(t, json.Unmarshal([]byte(payload), &p))
	require.Equal(t, "u1", p.ID)
	require.True(t, p.Verified)
	require.Equal(t, 2025, p.CreatedAt.Year())
	require.True(t, p.LastLogin.IsZero())
}

func TestFakeUserRepo(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()

	account := &users.Account{Email: "Ada@Example.com", FullName: "Ada"}
	require.NoError(t, repo.Create(account))
	require.NotEmpty(t, account.ID, "an id is assigned")

	t.Run("duplicate email rejected case-insensitively", func(t *testing.T) {
		err := repo.Create(&users.Account{Email: "ada@example.com"})
		require.ErrorIs(t, err, apperrors.ErrUserExists)
	})

	t.Run("lookup by email and id", func(t *testing.T) {
		byEmail, err := repo.GetByEmail("ada@example.com")
		require.NoError(t, err)
		byID, err := repo.GetByID(account.ID)
		require.NoError(t, err)
		require.Equal(t, byEmail.ID, byID.ID)
	})

	t.Run("mark verified", func(t *testing.T) {
		at := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
		require.NoError(t, repo.MarkVerified("ada@example.com", at))

		got, err := repo.GetByID(account.ID)
		require.NoError(t, err)
		require.True(t, got.Verified)
		require.Equal(t, at, got.LastLogin)

		profile := got.Profile()
		require.True(t, profile.Verified)
		require.Equal(t, at, profile.LastLogin.Time)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.GetByEmail("nobody@example.com")
		require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		require.ErrorIs(t, repo.MarkVerified("nobody@example.com", time.Now()), apperrors.ErrUserNotFound)
	})
}
