package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jrsteele09/go-study-client/users"
)

type profileResponse struct {
	Profile json.RawMessage `json:"profile"`
}

// GetProfile returns the signed-in user's profile. Profile.Raw holds the
// document exactly as the backend sent it.
func (c *Client) GetProfile(ctx context.Context) (*users.Profile, error) {
	req := request{method: http.MethodGet, path: profilePath, authenticated: true}

	var out profileResponse
	if err := c.do(ctx, req, &out); err != nil {
		return nil, opError(ErrAuthRequired, err)
	}
	if len(out.Profile) == 0 || string(out.Profile) == "null" {
		return nil, opError(ErrAuthRequired, errors.New("response has no profile"))
	}

	var profile users.Profile
	if err := json.Unmarshal(out.Profile, &profile); err != nil {
		return nil, opError(ErrAuthRequired, err)
	}
	profile.Raw = out.Profile
	return &profile, nil
}
