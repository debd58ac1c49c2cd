package fakeuserrepo

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-study-client/internal/errors"
	"github.com/jrsteele09/go-study-client/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users    map[string]*users.Account
	emailIds map[string]string // email to user id
	lock     sync.RWMutex
}

func NewFakeUserRepo() users.Repo {
	return &FakeUserRepo{
		users:    make(map[string]*users.Account),
		emailIds: make(map[string]string),
	}
}

func (ur *FakeUserRepo) Create(account *users.Account) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	email := normaliseEmail(account.Email)
	if _, ok := ur.emailIds[email]; ok {
		return apperrors.ErrUserExists
	}

	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	stored := *account
	ur.users[stored.ID] = &stored
	ur.emailIds[email] = stored.ID
	return nil
}

func (ur *FakeUserRepo) GetByEmail(email string) (*users.Account, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[normaliseEmail(email)]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	account := *ur.users[id]
	return &account, nil
}

func (ur *FakeUserRepo) GetByID(id string) (*users.Account, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	stored, ok := ur.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	account := *stored
	return &account, nil
}

func (ur *FakeUserRepo) MarkVerified(email string, at time.Time) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	id, ok := ur.emailIds[normaliseEmail(email)]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	account := ur.users[id]
	account.Verified = true
	account.LastLogin = at
	account.UpdatedAt = at
	return nil
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
