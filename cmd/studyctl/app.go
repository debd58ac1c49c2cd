package main

import (
	"io"

	"github.com/jrsteele09/go-study-client/client"
	"github.com/jrsteele09/go-study-client/credentials/filerepo"
	"github.com/jrsteele09/go-study-client/history"
	"github.com/jrsteele09/go-study-client/internal/config"
	apperrors "github.com/jrsteele09/go-study-client/internal/errors"
	"github.com/jrsteele09/go-study-client/internal/logging"
	"github.com/jrsteele09/go-study-client/sessions"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// app holds everything a command needs. The history database is opened lazily
// since most commands never touch it.
type app struct {
	cfg    config.Config
	logger zerolog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	credentialsPath string
	client          *client.Client
	history         *history.Manager
}

func newApp(cfg config.Config, stdin io.Reader, stdout, stderr io.Writer) (*app, error) {
	logger := logging.Install(cfg, stderr)

	repo, err := filerepo.New(cfg.GetCredentialsFile(), filerepo.WithSecret(cfg.GetCredentialsKey()))
	if err != nil {
		return nil, err
	}
	session, err := sessions.New(repo)
	if apperrors.Is(err, apperrors.ErrCredentialCorrupt) {
		// unreadable file, login overwrites it and logout removes it
		logger.Warn().Err(err).Str("path", repo.Path()).Msg("ignoring stored credential")
		session, err = sessions.NewSignedOut(repo)
	}
	if err != nil {
		return nil, err
	}
	c, err := client.NewFromConfig(cfg, session,
		client.WithLogger(logger),
		client.WithUserAgent(userAgent(cfg.GetUserAgent())))
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:             cfg,
		logger:          logger,
		stdin:           stdin,
		stdout:          stdout,
		stderr:          stderr,
		credentialsPath: repo.Path(),
		client:          c,
	}, nil
}

// userAgent is the configured value, or studyctl/<version> when none is set
func userAgent(configured string) string {
	return lo.CoalesceOrEmpty(configured, "studyctl/"+BUILD_VERSION)
}

func (a *app) History() (*history.Manager, error) {
	if a.history != nil {
		return a.history, nil
	}
	m, err := history.NewManager(a.cfg.GetHistoryDB())
	if err != nil {
		return nil, err
	}
	a.history = m
	return m, nil
}

// userEmail is the signed in user's address from the access token, empty when unknown
func (a *app) userEmail() string {
	claims, err := a.client.Session().Credential().Claims()
	if err != nil {
		return ""
	}
	return claims.Email
}

func (a *app) Close() {
	if a.history == nil {
		return
	}
	if err := a.history.Close(); err != nil {
		a.logger.Err(err).Msg("failed to close history database")
	}
}
