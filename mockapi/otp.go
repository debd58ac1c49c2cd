package mockapi

import (
	"crypto/rand"
	"math/big"
	"strings"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/go-study-client/internal/errors"
	"github.com/jrsteele09/go-study-client/users"
	"golang.org/x/crypto/bcrypt"
)

const (
	OTPExpiry      = 5 * time.Minute
	MaxOTPAttempts = 3
)

type otpRecord struct {
	hash      []byte
	expiresAt time.Time
	attempts  int
}

// otpStore keeps one pending code per email. Codes are stored bcrypt hashed;
// the plaintext of the latest code is kept separately for LastOTP.
type otpStore struct {
	now     func() time.Time
	records map[string]*otpRecord
	last    map[string]string
	lock    sync.Mutex
}

func newOTPStore(now func() time.Time) *otpStore {
	return &otpStore{
		now:     now,
		records: make(map[string]*otpRecord),
		last:    make(map[string]string),
	}
}

// Issue generates a new code for email, replacing any pending one
func (st *otpStore) Issue(email string) (string, error) {
	code, err := generateOTP(users.OTPLength)
	if err != nil {
		return "", apperrors.Wrapf(err, "generating OTP")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	if err != nil {
		return "", apperrors.Wrapf(err, "hashing OTP")
	}

	key := otpKey(email)
	st.lock.Lock()
	defer st.lock.Unlock()
	st.records[key] = &otpRecord{hash: hash, expiresAt: st.now().Add(OTPExpiry)}
	st.last[key] = code
	return code, nil
}

// Verify consumes the pending code for email. The record is removed on success,
// on expiry and once the attempt limit is reached.
func (st *otpStore) Verify(email, code string) error {
	key := otpKey(email)
	st.lock.Lock()
	defer st.lock.Unlock()

	record, ok := st.records[key]
	if !ok {
		return apperrors.ErrOTPNotFound
	}
	if st.now().After(record.expiresAt) {
		delete(st.records, key)
		return apperrors.ErrOTPExpired
	}
	if record.attempts >= MaxOTPAttempts {
		delete(st.records, key)
		return apperrors.ErrOTPTooManyAttempts
	}
	if bcrypt.CompareHashAndPassword(record.hash, []byte(code)) != nil {
		record.attempts++
		return apperrors.ErrInvalidOTP
	}

	delete(st.records, key)
	return nil
}

func (st *otpStore) Last(email string) (string, bool) {
	st.lock.Lock()
	defer st.lock.Unlock()
	code, ok := st.last[otpKey(email)]
	return code, ok
}

func otpKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generateOTP(length int) (string, error) {
	var sb strings.Builder
	ten := big.NewInt(10)
	for range length {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String(), nil
}
