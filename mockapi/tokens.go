package mockapi

import (
	"errors"
	"fmt"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-study-client/internal/errors"
	"github.com/jrsteele09/go-study-client/users"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var errWrongTokenType = errors.New("Invalid token type")

// tokenClaims are the verified contents of an issued token
type tokenClaims struct {
	UserID    string
	Email     string
	Type      string
	ID        string
	ExpiresAt time.Time
}

// tokenIssuer signs and verifies HS256 tokens carrying user_id, email and type claims
type tokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time

	issued  map[string]time.Time // access token jti to expiry
	expired map[string]time.Time // access tokens force-expired before their exp

	// with rotation only the latest refresh token per user is accepted
	rotate        bool
	activeRefresh map[string]string // user id to refresh token jti

	mu sync.RWMutex
}

func newTokenIssuer(secret string, accessTTL, refreshTTL time.Duration, now func() time.Time) (*tokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("[newTokenIssuer] secret is required")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("[newTokenIssuer] token lifetimes must be positive")
	}
	return &tokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        now,
		issued:        make(map[string]time.Time),
		expired:       make(map[string]time.Time),
		activeRefresh: make(map[string]string),
	}, nil
}

func (ti *tokenIssuer) IssueAccessToken(account *users.Account) (string, error) {
	exp := ti.now().Add(ti.accessTTL)
	jti := uuid.New().String()
	token, err := ti.sign(jwtlib.MapClaims{
		"user_id": account.ID,
		"email":   account.Email,
		"type":    tokenTypeAccess,
		"iat":     ti.now().Unix(),
		"exp":     exp.Unix(),
		"jti":     jti,
	})
	if err != nil {
		return "", err
	}

	ti.mu.Lock()
	ti.issued[jti] = exp
	ti.mu.Unlock()
	return token, nil
}

// IssueRefreshToken signs a refresh token for userID. It becomes the user's
// only valid refresh token when rotation is on.
func (ti *tokenIssuer) IssueRefreshToken(userID string) (string, error) {
	jti := uuid.New().String()
	token, err := ti.sign(jwtlib.MapClaims{
		"user_id": userID,
		"type":    tokenTypeRefresh,
		"iat":     ti.now().Unix(),
		"exp":     ti.now().Add(ti.refreshTTL).Unix(),
		"jti":     jti,
	})
	if err != nil {
		return "", err
	}

	ti.mu.Lock()
	ti.activeRefresh[userID] = jti
	ti.mu.Unlock()
	return token, nil
}

// Verify checks the signature, expiry and type of rawToken. It returns
// apperrors.ErrTokenExpired for expired tokens, errWrongTokenType for a valid
// token of the other type and apperrors.ErrInvalidToken otherwise.
func (ti *tokenIssuer) Verify(rawToken, wantType string) (*tokenClaims, error) {
	token, err := jwtlib.ParseWithClaims(rawToken, jwtlib.MapClaims{}, ti.verificationKey,
		jwtlib.WithTimeFunc(ti.now),
		jwtlib.WithExpirationRequired(),
	)
	if errors.Is(err, jwtlib.ErrTokenExpired) {
		return nil, apperrors.ErrTokenExpired
	}
	if err != nil || !token.Valid {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "%v", err)
	}

	mapClaims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, apperrors.ErrInvalidToken
	}
	claims := &tokenClaims{}
	claims.UserID, _ = mapClaims["user_id"].(string)
	claims.Email, _ = mapClaims["email"].(string)
	claims.Type, _ = mapClaims["type"].(string)
	claims.ID, _ = mapClaims["jti"].(string)
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	if claims.UserID == "" {
		return nil, apperrors.ErrInvalidToken
	}
	if claims.Type != wantType {
		return nil, errWrongTokenType
	}
	if claims.Type == tokenTypeAccess && ti.isExpired(claims.ID) {
		return nil, apperrors.ErrTokenExpired
	}
	if claims.Type == tokenTypeRefresh && ti.superseded(claims) {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "refresh token was rotated")
	}
	return claims, nil
}

// ExpireAll marks every access token issued so far as expired
func (ti *tokenIssuer) ExpireAll() int {
	ti.mu.Lock()
	defer ti.mu.Unlock()

	now := ti.now()
	n := 0
	for jti, exp := range ti.issued {
		if now.Before(exp) {
			ti.expired[jti] = exp
			n++
		}
		delete(ti.issued, jti)
	}
	return n
}

func (ti *tokenIssuer) isExpired(jti string) bool {
	ti.mu.RLock()
	defer ti.mu.RUnlock()
	_, ok := ti.expired[jti]
	return ok
}

func (ti *tokenIssuer) superseded(claims *tokenClaims) bool {
	if !ti.rotate {
		return false
	}
	ti.mu.RLock()
	defer ti.mu.RUnlock()
	return ti.activeRefresh[claims.UserID] != claims.ID
}

// Cleanup drops bookkeeping for tokens past their natural expiry
func (ti *tokenIssuer) Cleanup() {
	ti.mu.Lock()
	defer ti.mu.Unlock()

	now := ti.now()
	for _, m := range []map[string]time.Time{ti.issued, ti.expired} {
		for jti, exp := range m {
			if now.After(exp) {
				delete(m, jti)
			}
		}
	}
}

func (ti *tokenIssuer) sign(claims jwtlib.MapClaims) (string, error) {
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token with HMAC: %w", err)
	}
	return signed, nil
}

func (ti *tokenIssuer) verificationKey(token *jwtlib.Token) (any, error) {
	if _, ok := token.Method.(*jwtlib.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return ti.secret, nil
}
