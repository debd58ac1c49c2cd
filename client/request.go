package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-study-client/internal/errors"
)

const maxErrorBody = 64 << 10

// request describes an API call. It is immutable once built so that a retry
// sends exactly the same method, path, query and body.
type request struct {
	method        string
	path          string
	query         url.Values
	contentType   string
	body          []byte
	authenticated bool
}

func (r request) op() string {
	return r.method + " " + r.path
}

func jsonRequest(method, path string, payload any, authenticated bool) (request, error) {
	req := request{method: method, path: path, authenticated: authenticated}
	if payload == nil {
		return req, nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return request{}, apperrors.Wrapf(err, "encoding %s body", path)
	}
	req.body = body
	req.contentType = "application/json"
	return req, nil
}

// do executes req, returning an *HTTPError for non-2xx responses and decoding
// the JSON body into out when out is non-nil.
func (c *Client) do(ctx context.Context, req request, out any) error {
	resp, err := c.execute(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrapf(err, "decoding %s response", req.path)
	}
	return nil
}

// execute sends req and, for authenticated requests rejected with 401, recovers
// the session once and sends req once more. The second response is returned as
// is whatever its status.
func (c *Client) execute(ctx context.Context, req request) (*http.Response, error) {
	resp, sentToken, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	if !req.authenticated || resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	drain(resp)

	if err := c.recover(ctx, sentToken); err != nil {
		return nil, err
	}

	resp, _, err = c.send(ctx, req)
	return resp, err
}

// send performs a single HTTP exchange. The access token is read from the
// session at call time and returned so recovery can tell whether it changed.
func (c *Client) send(ctx context.Context, req request) (*http.Response, string, error) {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, "", &NetworkError{Op: req.op(), Err: err}
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	var accessToken string
	if req.authenticated {
		cred := c.session.Credential()
		if cred.AccessToken != "" {
			accessToken = cred.AccessToken
			cred.Token().SetAuthHeader(httpReq)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug().Err(err).
			Str("method", req.method).
			Str("path", req.path).
			Str("request_id", requestID).
			Dur("duration", time.Since(start)).
			Msg("request failed")
		return nil, accessToken, &NetworkError{Op: req.op(), Err: err}
	}

	c.logger.Debug().
		Str("method", req.method).
		Str("path", req.path).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("duration", time.Since(start)).
		Msg("request")
	return resp, accessToken, nil
}

// checkStatus consumes the body of a non-2xx response and converts it to an *HTTPError
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return newHTTPError(resp.StatusCode, body)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
}
