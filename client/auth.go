package client

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-study-client/credentials"
	"github.com/jrsteele09/go-study-client/users"
)

type registerRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	FullName string `json:"full_name"`
}

type sendOTPRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// Register creates an account. The user then signs in with RequestCode and VerifyCode.
func (c *Client) Register(ctx context.Context, email, fullName, phone string) (*users.Registration, error) {
	email = strings.TrimSpace(email)
	if err := users.ValidateEmail(email); err != nil {
		return nil, opError(ErrRegistration, invalid("email", err))
	}
	if err := users.ValidateFullName(fullName); err != nil {
		return nil, opError(ErrRegistration, invalid("full_name", err))
	}

	req, err := jsonRequest(http.MethodPost, registerPath, registerRequest{
		Email:    email,
		Phone:    strings.TrimSpace(phone),
		FullName: strings.TrimSpace(fullName),
	}, false)
	if err != nil {
		return nil, opError(ErrRegistration, err)
	}

	var out users.Registration
	if err := c.do(ctx, req, &out); err != nil {
		return nil, opError(ErrRegistration, err)
	}
	return &out, nil
}

// RequestCode asks the backend to email a one-time code to email
func (c *Client) RequestCode(ctx context.Context, email string) (*users.OTPAck, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, opError(ErrOtpSend, &ValidationError{Field: "email", Reason: "email is required"})
	}

	req, err := jsonRequest(http.MethodPost, sendOTPPath, sendOTPRequest{Email: email}, false)
	if err != nil {
		return nil, opError(ErrOtpSend, err)
	}

	var out users.OTPAck
	if err := c.do(ctx, req, &out); err != nil {
		return nil, opError(ErrOtpSend, err)
	}
	return &out, nil
}

// VerifyCode exchanges email and code for a token pair. On success both tokens
// are stored with one write; on failure nothing is stored.
func (c *Client) VerifyCode(ctx context.Context, email, code string) (*users.Verification, error) {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)
	if email == "" {
		return nil, opError(ErrInvalidOtp, &ValidationError{Field: "email", Reason: "email is required"})
	}
	if err := users.ValidateOTPCode(code); err != nil {
		return nil, opError(ErrInvalidOtp, invalid("otp", err))
	}

	req, err := jsonRequest(http.MethodPost, verifyOTPPath, verifyOTPRequest{Email: email, OTP: code}, false)
	if err != nil {
		return nil, opError(ErrInvalidOtp, err)
	}

	var out users.Verification
	if err := c.do(ctx, req, &out); err != nil {
		return nil, opError(ErrInvalidOtp, err)
	}
	if out.AccessToken == "" || out.RefreshToken == "" {
		return nil, opError(ErrInvalidOtp, errors.New("response is missing tokens"))
	}

	cred := credentials.Credential{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken}
	if err := c.session.SetCredential(cred); err != nil {
		return nil, opError(ErrInvalidOtp, err)
	}
	c.logger.Info().Str("email", out.User.Email).Msg("signed in")
	return &out, nil
}

// Logout signs the session out. It never fails: a store error is logged and
// the in-memory tokens are dropped regardless.
func (c *Client) Logout(_ context.Context) {
	if err := c.session.Clear(); err != nil {
		c.logger.Err(err).Msg("failed to clear stored credential")
		return
	}
	c.logger.Debug().Msg("signed out")
}
