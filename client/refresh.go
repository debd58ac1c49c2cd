package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-study-client/credentials"
	apperrors "github.com/jrsteele09/go-study-client/internal/errors"
)

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
}

// recover obtains a fresh access token after sentToken was rejected. It
// returns ErrSessionExpired, with both tokens cleared, when no refresh is possible.
func (c *Client) recover(ctx context.Context, sentToken string) error {
	cred := c.session.Credential()

	if c.coalesce && cred.AccessToken != "" && cred.AccessToken != sentToken {
		// refreshed by a concurrent call while this request was in flight
		return nil
	}
	if cred.RefreshToken == "" {
		c.expire("no refresh token")
		return ErrSessionExpired
	}

	if !c.coalesce {
		return c.refresh(ctx, cred.RefreshToken)
	}

	// the shared refresh is detached from any one caller's cancellation
	results := c.refreshes.DoChan(cred.RefreshToken, func() (any, error) {
		if current := c.session.AccessToken(); current != "" && current != sentToken {
			return nil, nil
		}
		return nil, c.refresh(context.WithoutCancel(ctx), cred.RefreshToken)
	})
	select {
	case res := <-results:
		return res.Err
	case <-ctx.Done():
		return &NetworkError{Op: http.MethodPost + " " + refreshPath, Err: ctx.Err()}
	}
}

// refresh exchanges refreshToken for a new access token and stores it
func (c *Client) refresh(ctx context.Context, refreshToken string) error {
	req, err := jsonRequest(http.MethodPost, refreshPath, refreshRequest{RefreshToken: refreshToken}, false)
	if err != nil {
		return err
	}
	req.query = url.Values{"refresh_token": {refreshToken}}

	var out refreshResponse
	err = c.do(ctx, req, &out)
	switch {
	case err != nil && ctx.Err() != nil:
		// cancelled by the caller, the stored tokens may still be good
		return err
	case err != nil:
		c.logger.Debug().Err(err).Msg("token refresh failed")
		c.expire(fmt.Sprintf("refresh rejected: %v", err))
		return ErrSessionExpired
	case out.AccessToken == "":
		c.expire("refresh response carried no access token")
		return ErrSessionExpired
	}

	if out.RefreshToken != "" {
		err = c.session.SetCredential(credentials.Credential{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken})
	} else {
		err = c.session.SetAccessToken(out.AccessToken)
	}
	if err != nil {
		c.logger.Err(err).Msg("failed to store refreshed token")
		return apperrors.Wrapf(err, "storing refreshed token")
	}

	c.logger.Info().Msg("access token refreshed")
	return nil
}

// expire clears both tokens. Store failures are logged; the session is signed
// out in memory regardless.
func (c *Client) expire(reason string) {
	c.logger.Warn().Str("reason", reason).Msg("session expired")
	if err := c.session.Clear(); err != nil {
		c.logger.Err(err).Msg("failed to clear stored credential")
	}
}
