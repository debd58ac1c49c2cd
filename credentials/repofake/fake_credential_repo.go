package credentialfakerepo

import (
	"sync"

	"github.com/jrsteele09/go-study-client/credentials"
)

var _ credentials.Repo = (*FakeCredentialRepo)(nil)

// FakeCredentialRepo keeps the pair in memory and records every write
type FakeCredentialRepo struct {
	cred   credentials.Credential
	writes []credentials.Credential
	clears int
	lock   sync.RWMutex
}

func NewFakeCredentialRepo() *FakeCredentialRepo {
	return &FakeCredentialRepo{}
}

// NewFakeCredentialRepoWith returns a repo pre-loaded with cred. The seed is not counted as a write.
func NewFakeCredentialRepoWith(cred credentials.Credential) *FakeCredentialRepo {
	return &FakeCredentialRepo{cred: cred}
}

func (cr *FakeCredentialRepo) Get() (credentials.Credential, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()
	return cr.cred, nil
}

func (cr *FakeCredentialRepo) Set(cred credentials.Credential) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	cr.cred = cred
	cr.writes = append(cr.writes, cred)
	return nil
}

func (cr *FakeCredentialRepo) Clear() error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	cr.cred = credentials.Credential{}
	cr.clears++
	return nil
}

// Writes returns every pair passed to Set, oldest first
func (cr *FakeCredentialRepo) Writes() []credentials.Credential {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	writes := make([]credentials.Credential, len(cr.writes))
	copy(writes, cr.writes)
	return writes
}

func (cr *FakeCredentialRepo) Clears() int {
	cr.lock.RLock()
	defer cr.lock.RUnlock()
	return cr.clears
}
