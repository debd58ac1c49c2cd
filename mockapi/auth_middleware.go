package mockapi

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-study-client/internal/errors"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUserID stores the authenticated user ID
	ContextKeyUserID ContextKey = "user_id"
	// ContextKeyClaims stores the verified access token claims
	ContextKeyClaims ContextKey = "claims"
)

// RequireAuth validates the Bearer access token. A missing header is 403 as
// with FastAPI's HTTPBearer, an expired token 401, anything else invalid 403.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next(w, r)
				return
			}

			scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				writeJSONError(w, http.StatusForbidden, "Not authenticated")
				return
			}

			claims, err := s.tokens.Verify(strings.TrimSpace(token), tokenTypeAccess)
			switch {
			case apperrors.Is(err, apperrors.ErrTokenExpired):
				s.rejectedCalls.Add(1)
				writeJSONError(w, http.StatusUnauthorized, "Token expired")
				return
			case apperrors.Is(err, errWrongTokenType):
				writeJSONError(w, http.StatusForbidden, "Invalid token type")
				return
			case err != nil:
				writeJSONError(w, http.StatusForbidden, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, ContextKeyClaims, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

func userIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(ContextKeyUserID).(string)
	return userID
}
