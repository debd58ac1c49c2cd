package mockapi

import (
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-study-client/internal/errors"
	"github.com/jrsteele09/go-study-client/users"
)

type registerRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	FullName string `json:"full_name"`
}

type sendOTPRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "study assistant mock API"})
	}
}

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := users.ValidateEmail(req.Email); err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		now := s.now().UTC()
		account := &users.Account{
			Email:     strings.TrimSpace(req.Email),
			Phone:     req.Phone,
			FullName:  req.FullName,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repos.Users.Create(account); err != nil {
			if apperrors.Is(err, apperrors.ErrUserExists) {
				writeJSONError(w, http.StatusBadRequest, apperrors.ErrUserExists.Error())
				return
			}
			s.logger.Err(err).Str("email", account.Email).Msg("failed to create user")
			writeJSONError(w, http.StatusInternalServerError, "Registration failed")
			return
		}

		s.logger.Info().Str("email", account.Email).Str("user_id", account.ID).Msg("user registered")
		writeJSON(w, http.StatusOK, users.Registration{
			Message: "User registered. Please verify your email",
			UserID:  account.ID,
		})
	}
}

// SendOTPHandler issues a code whether or not the email is registered
func (s *Server) SendOTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendOTPRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := users.ValidateEmail(req.Email); err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		code, err := s.otps.Issue(req.Email)
		if err != nil {
			s.logger.Err(err).Msg("failed to issue OTP")
			writeJSONError(w, http.StatusInternalServerError, "Failed to send OTP")
			return
		}
		// no mail transport, the code goes to the log
		s.logger.Info().Str("email", req.Email).Str("otp", code).Msg("OTP issued")

		writeJSON(w, http.StatusOK, users.OTPAck{
			Message:   "OTP sent successfully to your email",
			ExpiresIn: int(OTPExpiry.Seconds()),
		})
	}
}

func (s *Server) VerifyOTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyOTPRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := s.otps.Verify(req.Email, req.OTP); err != nil {
			status := http.StatusBadRequest
			if apperrors.Is(err, apperrors.ErrOTPTooManyAttempts) {
				status = http.StatusTooManyRequests
			}
			writeJSONError(w, status, err.Error())
			return
		}

		account, err := s.repos.Users.GetByEmail(req.Email)
		if err != nil {
			writeJSONError(w, http.StatusNotFound, apperrors.ErrUserNotFound.Error())
			return
		}
		if err := s.repos.Users.MarkVerified(account.Email, s.now().UTC()); err != nil {
			s.logger.Err(err).Str("email", account.Email).Msg("failed to mark user verified")
		}

		accessToken, err := s.tokens.IssueAccessToken(account)
		if err != nil {
			s.logger.Err(err).Msg("failed to issue access token")
			writeJSONError(w, http.StatusInternalServerError, "Failed to issue token")
			return
		}
		refreshToken, err := s.tokens.IssueRefreshToken(account.ID)
		if err != nil {
			s.logger.Err(err).Msg("failed to issue refresh token")
			writeJSONError(w, http.StatusInternalServerError, "Failed to issue token")
			return
		}

		s.logger.Info().Str("email", account.Email).Msg("user signed in")
		writeJSON(w, http.StatusOK, users.Verification{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			TokenType:    "bearer",
			User:         account.Summary(),
		})
	}
}

// RefreshHandler reads the refresh token from the query string, falling back to a JSON body
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.refreshCalls.Add(1)

		rawToken := r.URL.Query().Get("refresh_token")
		if rawToken == "" && r.ContentLength != 0 {
			var req refreshRequest
			if !decodeJSON(w, r, &req) {
				return
			}
			rawToken = req.RefreshToken
		}
		if rawToken == "" {
			writeJSONError(w, http.StatusUnprocessableEntity, "refresh_token is required")
			return
		}

		if s.failRefresh.Load() {
			writeJSONError(w, http.StatusUnauthorized, "Refresh token expired")
			return
		}

		claims, err := s.tokens.Verify(rawToken, tokenTypeRefresh)
		switch {
		case apperrors.Is(err, apperrors.ErrTokenExpired):
			writeJSONError(w, http.StatusUnauthorized, "Refresh token expired")
			return
		case apperrors.Is(err, errWrongTokenType):
			writeJSONError(w, http.StatusForbidden, "Invalid token type")
			return
		case err != nil:
			writeJSONError(w, http.StatusForbidden, "Invalid token")
			return
		}

		account, err := s.repos.Users.GetByID(claims.UserID)
		if err != nil {
			writeJSONError(w, http.StatusNotFound, apperrors.ErrUserNotFound.Error())
			return
		}

		accessToken, err := s.tokens.IssueAccessToken(account)
		if err != nil {
			s.logger.Err(err).Msg("failed to issue access token")
			writeJSONError(w, http.StatusInternalServerError, "Failed to issue token")
			return
		}

		out := refreshResponse{AccessToken: accessToken, TokenType: "bearer"}
		if s.rotateRefresh {
			if out.RefreshToken, err = s.tokens.IssueRefreshToken(account.ID); err != nil {
				s.logger.Err(err).Msg("failed to issue refresh token")
				writeJSONError(w, http.StatusInternalServerError, "Failed to issue token")
				return
			}
		}

		s.logger.Debug().Str("user_id", account.ID).Bool("rotated", out.RefreshToken != "").Msg("access token refreshed")
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, err := s.repos.Users.GetByID(userIDFromContext(r.Context()))
		if err != nil {
			writeJSONError(w, http.StatusNotFound, apperrors.ErrUserNotFound.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]users.Profile{"profile": account.Profile()})
	}
}
