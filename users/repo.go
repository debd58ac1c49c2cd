package users

import (
	"time"

	"github.com/jrsteele09/go-study-client/internal/utils"
)

// Account is the server-side user document kept by the mock backend
type Account struct {
	ID        string
	Email     string
	Phone     string
	FullName  string
	Verified  bool
	CreatedAt time.Time
	UpdatedAt time.Time
	LastLogin time.Time
}

// Profile converts the stored account into the payload served by the profile endpoint
func (a *Account) Profile() Profile {
	return Profile{
		ID:        a.ID,
		Email:     a.Email,
		Phone:     a.Phone,
		FullName:  a.FullName,
		Verified:  a.Verified,
		CreatedAt: utils.NewTimestamp(a.CreatedAt),
		UpdatedAt: utils.NewTimestamp(a.UpdatedAt),
		LastLogin: utils.NewTimestamp(a.LastLogin),
	}
}

// Summary returns the identity subset sent with issued tokens
func (a *Account) Summary() User {
	return User{ID: a.ID, Email: a.Email, FullName: a.FullName}
}

type Repo interface {
	// Create stores a new account; ErrUserExists if the email is taken
	Create(account *Account) error
	GetByEmail(email string) (*Account, error)
	GetByID(id string) (*Account, error)
	// MarkVerified flags the account as verified and records the login time
	MarkVerified(email string, at time.Time) error
}
