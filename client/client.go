// Package client is a typed HTTP client for the study assistant API. It attaches
// the session's bearer token to protected calls and, when a call is rejected
// with 401, refreshes the access token once and retries that call once.
package client

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-study-client/internal/config"
	"github.com/jrsteele09/go-study-client/sessions"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	registerPath     = "/api/auth/register"
	sendOTPPath      = "/api/auth/send-otp"
	verifyOTPPath    = "/api/auth/verify-otp"
	refreshPath      = "/api/auth/refresh"
	profilePath      = "/api/user/profile"
	summarizePath    = "/api/summarize"
	summarizePDFPath = "/api/summarize-pdf"
	quizPath         = "/api/quiz"
	downloadQuizPath = "/api/download-quiz"
	summariesPath    = "/api/user/summaries"
	quizzesPath      = "/api/user/quizzes"
)

// Client is safe for concurrent use
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *sessions.Session
	logger     zerolog.Logger
	userAgent  string
	coalesce   bool
	refreshes  singleflight.Group
}

type Option func(*Client)

// WithLogger sets the logger; the default is the global zerolog logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRefreshCoalescing controls whether concurrent 401s share a single refresh
// call. It is on by default.
func WithRefreshCoalescing(enabled bool) Option {
	return func(c *Client) {
		c.coalesce = enabled
	}
}

// New returns a client for the API at baseURL that keeps its tokens in session
func New(baseURL string, session *sessions.Session, opts ...Option) (*Client, error) {
	if session == nil {
		return nil, errors.New("[client.New] session is required")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("[client.New] base URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New("[client.New] base URL must be absolute")
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		session:    session,
		logger:     log.Logger,
		coalesce:   true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewFromConfig builds a client from configuration. Options are applied after the configured values.
func NewFromConfig(cfg config.ClientConfig, session *sessions.Session, opts ...Option) (*Client, error) {
	configured := []Option{
		WithHTTPClient(&http.Client{Timeout: cfg.GetHTTPTimeout()}),
		WithUserAgent(cfg.GetUserAgent()),
		WithRefreshCoalescing(cfg.GetCoalesceRefresh()),
	}
	return New(cfg.GetBaseURL(), session, append(configured, opts...)...)
}

// Session returns the session holding this client's tokens
func (c *Client) Session() *sessions.Session {
	return c.session
}

func (c *Client) BaseURL() string {
	return c.baseURL
}
