package sessions

import (
	"errors"
	"sync"

	"github.com/jrsteele09/go-study-client/credentials"
	apperrors "github.com/jrsteele09/go-study-client/internal/errors"
)

// Session owns the signed-in user's credential pair. It is the only writer of
// the underlying store and is safe for concurrent use.
type Session struct {
	repo credentials.Repo
	cred credentials.Credential
	lock sync.RWMutex
}

// New loads any stored credential from repo
func New(repo credentials.Repo) (*Session, error) {
	if repo == nil {
		return nil, errors.New("[sessions.New] credential repo is required")
	}
	cred, err := repo.Get()
	if err != nil {
		return nil, apperrors.Wrapf(err, "[sessions.New] loading credential")
	}
	return &Session{repo: repo, cred: cred}, nil
}

// NewSignedOut starts a session without reading repo. Whatever repo holds is
// replaced by the next SetCredential or removed by Clear.
func NewSignedOut(repo credentials.Repo) (*Session, error) {
	if repo == nil {
		return nil, errors.New("[sessions.NewSignedOut] credential repo is required")
	}
	return &Session{repo: repo}, nil
}

// Credential returns a copy of the current pair, zero when signed out
func (s *Session) Credential() credentials.Credential {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.cred
}

// AccessToken returns the current access token, empty when none is held
func (s *Session) AccessToken() string {
	return s.Credential().AccessToken
}

// SetCredential replaces both tokens with a single store write
func (s *Session) SetCredential(cred credentials.Credential) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.repo.Set(cred); err != nil {
		return apperrors.Wrapf(err, "storing credential")
	}
	s.cred = cred
	return nil
}

// SetAccessToken replaces the access token and keeps the refresh token
func (s *Session) SetAccessToken(accessToken string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	next := s.cred
	next.AccessToken = accessToken
	if err := s.repo.Set(next); err != nil {
		return apperrors.Wrapf(err, "storing access token")
	}
	s.cred = next
	return nil
}

// Clear drops both tokens. The in-memory pair is always cleared; the returned
// error only reports a store failure.
func (s *Session) Clear() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.cred = credentials.Credential{}
	if err := s.repo.Clear(); err != nil {
		return apperrors.Wrapf(err, "clearing credential")
	}
	return nil
}

// SignedIn reports whether any token is held
func (s *Session) SignedIn() bool {
	return !s.Credential().IsZero()
}
