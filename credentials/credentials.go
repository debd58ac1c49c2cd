package credentials

import (
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Credential is the access/refresh token pair held for the signed-in user.
// Both values are opaque to the client apart from best-effort claim inspection.
type Credential struct {
	AccessToken  string `yaml:"access_token" json:"access_token"`
	RefreshToken string `yaml:"refresh_token" json:"refresh_token"`
}

// IsZero reports whether neither token is held
func (c Credential) IsZero() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// Token converts the credential to an oauth2 bearer token. Expiry is filled from
// the access token's exp claim when the token is a readable JWT.
func (c Credential) Token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    "Bearer",
	}
	if claims, err := ParseClaims(c.AccessToken); err == nil {
		tok.Expiry = claims.ExpiresAt
	}
	return tok
}

// Claims parses the access token's claims
func (c Credential) Claims() (*Claims, error) {
	return ParseClaims(c.AccessToken)
}

// Claims are the fields the API places in its tokens
type Claims struct {
	UserID    string    // user_id claim
	Email     string    // email claim (access tokens only)
	Type      string    // "access" or "refresh"
	IssuedAt  time.Time // zero when absent
	ExpiresAt time.Time // zero when absent
}

// Expired reports whether the claims carry an expiry that has passed
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseClaims reads a JWT's claims without verifying its signature. The client
// never holds the signing key; the claims are informational only.
func ParseClaims(rawToken string) (*Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, errors.New("token is empty")
	}

	token, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, err
	}

	mapClaims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("error extracting claims")
	}

	claims := &Claims{}
	claims.UserID, _ = mapClaims["user_id"].(string)
	if claims.UserID == "" {
		claims.UserID, _ = mapClaims["sub"].(string)
	}
	claims.Email, _ = mapClaims["email"].(string)
	claims.Type, _ = mapClaims["type"].(string)

	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	return claims, nil
}
