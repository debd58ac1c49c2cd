// Package mockapi is an in-process implementation of the study assistant HTTP
// API. It issues real HS256 tokens and enforces the same status codes as the
// production backend so the client can be exercised end to end.
package mockapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/jrsteele09/go-study-client/internal/config"
	"github.com/jrsteele09/go-study-client/quiz"
	quizfakerepo "github.com/jrsteele09/go-study-client/quiz/repofake"
	"github.com/jrsteele09/go-study-client/summaries"
	summaryfakerepo "github.com/jrsteele09/go-study-client/summaries/repofake"
	"github.com/jrsteele09/go-study-client/users"
	fakeuserrepo "github.com/jrsteele09/go-study-client/users/repofake"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config is the subset of the application configuration the mock backend reads
type Config interface {
	config.EnvConfig
	config.MockAPIConfig
}

// Repos holds the stores backing the mock. Nil fields get in-memory fakes.
type Repos struct {
	Users     users.Repo
	Summaries summaries.Repo
	Quizzes   quiz.Repo
}

type Server struct {
	env    string
	router *mux.Router
	routes []string
	logger zerolog.Logger
	now    func() time.Time

	repos  Repos
	otps   *otpStore
	tokens *tokenIssuer

	rotateRefresh bool
	failRefresh   atomic.Bool
	refreshCalls  atomic.Int64
	rejectedCalls atomic.Int64
}

type Option func(*Server)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithRepos(repos Repos) Option {
	return func(s *Server) {
		s.repos = repos
	}
}

// WithRefreshRotation makes every refresh return a new refresh token and
// invalidate the one presented
func WithRefreshRotation() Option {
	return func(s *Server) {
		s.rotateRefresh = true
	}
}

// WithClock replaces time.Now for token and OTP expiry
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

func New(cfg Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("[mockapi.New] config is required")
	}

	s := &Server{
		env:    cfg.GetEnv(),
		router: mux.NewRouter(),
		logger: log.Logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.repos.Users == nil {
		s.repos.Users = fakeuserrepo.NewFakeUserRepo()
	}
	if s.repos.Summaries == nil {
		s.repos.Summaries = summaryfakerepo.NewFakeSummaryRepo()
	}
	if s.repos.Quizzes == nil {
		s.repos.Quizzes = quizfakerepo.NewFakeQuizRepo()
	}

	tokens, err := newTokenIssuer(cfg.GetMockJWTSecret(), cfg.GetMockAccessTokenTTL(), cfg.GetMockRefreshTokenTTL(), s.clock)
	if err != nil {
		return nil, fmt.Errorf("[mockapi.New] failed to create token issuer: %w", err)
	}
	tokens.rotate = s.rotateRefresh
	s.tokens = tokens
	s.otps = newOTPStore(s.clock)

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// RegisterRouteFunc registers handler for a "METHOD /path" pattern
func (s *Server) RegisterRouteFunc(pattern string, handler http.HandlerFunc) {
	s.routes = append(s.routes, pattern)
	method, path, ok := strings.Cut(pattern, " ")
	if !ok {
		s.router.HandleFunc(pattern, handler)
		return
	}
	s.router.HandleFunc(path, handler).Methods(method, http.MethodOptions)
}

func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		method, path, ok := strings.Cut(route, " ")
		if !ok {
			method, path = "", route
		}
		s.logger.Debug().Msg(routeLine(method, path))
	}
}

func (s *Server) clock() time.Time {
	return s.now()
}

// LastOTP returns the most recent code issued to email, for tests and local use
func (s *Server) LastOTP(email string) (string, bool) {
	return s.otps.Last(email)
}

// ExpireAccessTokens makes every access token issued so far fail with 401.
// Refresh tokens are unaffected.
func (s *Server) ExpireAccessTokens() int {
	s.tokens.Cleanup()
	n := s.tokens.ExpireAll()
	s.logger.Info().Int("tokens", n).Msg("access tokens expired")
	return n
}

// FailRefresh makes the refresh endpoint reject every request while fail is true
func (s *Server) FailRefresh(fail bool) {
	s.failRefresh.Store(fail)
}

// RefreshCalls reports how many refresh requests have been received
func (s *Server) RefreshCalls() int64 {
	return s.refreshCalls.Load()
}

// RejectedCalls reports how many requests the bearer check turned away with 401
func (s *Server) RejectedCalls() int64 {
	return s.rejectedCalls.Load()
}
