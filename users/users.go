package users

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"github.com/jrsteele09/go-study-client/internal/utils"
)

// OTPLength is the number of digits in a one-time code
const OTPLength = 6

// User is the identity summary returned alongside tokens on OTP verification
type User struct {
	ID       string `json:"user_id,omitempty"`   // Backend user identifier
	Email    string `json:"email,omitempty"`     // Email address, also the login name
	FullName string `json:"full_name,omitempty"` // Display name
}

// Profile is the full user document returned by the profile endpoint. Raw keeps
// the payload exactly as received so fields the client does not model survive.
type Profile struct {
	ID        string          `json:"user_id,omitempty"`
	Email     string          `json:"email,omitempty"`
	Phone     string          `json:"phone,omitempty"`
	FullName  string          `json:"full_name,omitempty"`
	Verified  bool            `json:"verified"`
	CreatedAt utils.Timestamp `json:"created_at"`
	UpdatedAt utils.Timestamp `json:"updated_at"`
	LastLogin utils.Timestamp `json:"last_login"`

	Raw json.RawMessage `json:"-"`
}

// Registration acknowledges a newly created account
type Registration struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// OTPAck acknowledges that a one-time code was issued
type OTPAck struct {
	Message   string `json:"message"`
	ExpiresIn int    `json:"expires_in"` // Seconds until the code expires
}

// Verification is the result of exchanging an email and one-time code for tokens
type Verification struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
	User         User   `json:"user"`
}

// ValidateEmail checks the address is present and parseable
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateFullName checks a display name was supplied
func ValidateFullName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("full name is required")
	}
	return nil
}

// ValidateOTPCode checks the code is exactly OTPLength ASCII digits
func ValidateOTPCode(code string) error {
	if len(code) != OTPLength {
		return fmt.Errorf("code must be %d digits", OTPLength)
	}
	for _, r := range code {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return fmt.Errorf("code must be %d digits", OTPLength)
		}
	}
	return nil
}
