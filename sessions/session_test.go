package sessions_test

import (
	"errors"
	"testing"

	"github.com/jrsteele09/go-study-client/credentials"
	credentialfakerepo "github.com/jrsteele09/go-study-client/credentials/repofake"
	"github.com/jrsteele09/go-study-client/sessions"
	"github.com/stretchr/testify/require"
)

type failingRepo struct {
	credentials.Credential
}

func (f *failingRepo) Get() (credentials.Credential, error) { return f.Credential, nil }
func (f *failingRepo) Set(credentials.Credential) error      { return errors.New("disk full") }
func (f *failingRepo) Clear() error                          { return errors.New("read-only") }

func TestNew(t *testing.T) {
	_, err := sessions.New(nil)
	require.Error(t, err)

	repo := credentialfakerepo.NewFakeCredentialRepoWith(credentials.Credential{AccessToken: "A0", RefreshToken: "R0"})
	s, err := sessions.New(repo)
	require.NoError(t, err)
	require.True(t, s.SignedIn())
	require.Equal(t, "A0", s.AccessToken())
}

func TestNewSignedOut(t *testing.T) {
	_, err := sessions.NewSignedOut(nil)
	require.Error(t, err)

	repo := credentialfakerepo.NewFakeCredentialRepoWith(credentials.Credential{AccessToken: "A0", RefreshToken: "R0"})
	s, err := sessions.NewSignedOut(repo)
	require.NoError(t, err)
	require.False(t, s.SignedIn(), "stored pair is not loaded")

	require.NoError(t, s.SetCredential(credentials.Credential{AccessToken: "A1", RefreshToken: "R1"}))
	stored, err := repo.Get()
	require.NoError(t, err)
	require.Equal(t, "A1", stored.AccessToken)
}

func TestSession_Lifecycle(t *testing.T) {
	repo := credentialfakerepo.NewFakeCredentialRepo()
	s, err := sessions.New(repo)
	require.NoError(t, err)
	require.False(t, s.SignedIn())

	require.NoError(t, s.SetCredential(credentials.Credential{AccessToken: "A1", RefreshToken: "R1"}))
	require.Len(t, repo.Writes(), 1, "pair is written once")

	require.NoError(t, s.SetAccessToken("A2"))
	require.Equal(t, credentials.Credential{AccessToken: "A2", RefreshToken: "R1"}, s.Credential())

	stored, err := repo.Get()
	require.NoError(t, err)
	require.Equal(t, s.Credential(), stored)

	require.NoError(t, s.Clear())
	require.False(t, s.SignedIn())
	stored, err = repo.Get()
	require.NoError(t, err)
	require.True(t, stored.IsZero())
}

func TestSession_StoreFailures(t *testing.T) {
	s, err := sessions.New(&failingRepo{credentials.Credential{AccessToken: "A1", RefreshToken: "R1"}})
	require.NoError(t, err)

	require.Error(t, s.SetCredential(credentials.Credential{AccessToken: "A9", RefreshToken: "R9"}))
	require.Equal(t, "A1", s.AccessToken(), "failed write leaves the pair unchanged")

	require.Error(t, s.SetAccessToken("A9"))
	require.Equal(t, "A1", s.AccessToken())

	require.Error(t, s.Clear())
	require.False(t, s.SignedIn(), "clear always drops the in-memory pair")
}
