package middleware

import (
	"context"
	"net/http"
	"strings"

	"lifeboard/internal/i18n"
)

// TokenVerifier validates a bearer token and returns the user id it carries.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type userKey string

const (
	userIDKey userKey = "user_id"
)

// AuthJWT rejects requests without a valid bearer token. A missing header is
// 401 Unauthorized; a present but unusable token is 400 InvalidCredential.
func AuthJWT(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
			if authHeader == "" {
				WriteError(w, r, http.StatusUnauthorized, "unauthorized", i18n.MissingToken)
				return
			}
			scheme, token, ok := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				WriteError(w, r, http.StatusBadRequest, "invalid_credential", i18n.InvalidToken)
				return
			}
			userID, err := verifier.Verify(token)
			if err != nil {
				WriteError(w, r, http.StatusBadRequest, "invalid_credential", i18n.InvalidToken)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
		})
	}
}

func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	if strings.TrimSpace(userID) == "" {
		return ctx
	}
	return context.WithValue(ctx, userIDKey, userID)
}
