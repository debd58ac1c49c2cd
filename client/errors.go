package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Operation errors. Every error returned by a Client operation matches one of
// these with errors.Is and also wraps the underlying cause.
var (
	ErrValidation     = errors.New("invalid input")
	ErrSessionExpired = errors.New("session expired, please log in again")
	ErrAuthRequired   = errors.New("authentication required")
	ErrRegistration   = errors.New("registration failed")
	ErrOtpSend        = errors.New("failed to send OTP")
	ErrInvalidOtp     = errors.New("OTP verification failed")
	ErrSummarization  = errors.New("summarization failed")
	ErrQuizGeneration = errors.New("quiz generation failed")
	ErrPdfExport      = errors.New("PDF export failed")
	ErrHistory        = errors.New("history request failed")
)

// ValidationError reports input rejected before any request was sent
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Reason: err.Error()}
}

// HTTPError is a non-2xx response. Message is the backend's own explanation.
type HTTPError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

// NetworkError is a transport failure: no response was received
type NetworkError struct {
	Op  string // e.g. "POST /api/quiz"
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0 when there is none
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

func opError(sentinel, cause error) error {
	if cause == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}

const maxMessageLength = 200

// newHTTPError extracts a message from the common error body shapes:
// {"detail": "..."}, {"detail": [{"msg": "..."}]}, {"error_description": "..."},
// {"message": "..."} and {"error": "..."}.
func newHTTPError(status int, body []byte) *HTTPError {
	return &HTTPError{StatusCode: status, Message: errorMessage(status, body), Body: body}
}

func errorMessage(status int, body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"detail", "error_description", "message", "error"} {
			if msg := rawMessage(payload[key]); msg != "" {
				return msg
			}
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "<") {
		if len(text) > maxMessageLength {
			text = text[:maxMessageLength]
		}
		return text
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "unexpected response"
}

func rawMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	// request validation errors arrive as a list of {loc, msg}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
