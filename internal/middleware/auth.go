package middleware

import (
	"clusterpay_backend/pkg/resp"
	"clusterpay_backend/pkg/token"
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type ctxKey struct{}

const bearerPrefix = "Bearer "

// Auth checks the bearer access token and puts the player id into the request context.
func Auth(secretKey []byte, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				resp.WriteError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := token.VerifyToken(strings.TrimPrefix(header, bearerPrefix), secretKey)
			if err != nil {
				logger.Debug("token rejected", zap.Error(err))
				resp.WriteError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			userID, err := token.UserID(claims)
			if err != nil {
				logger.Debug("token rejected", zap.Error(err))
				resp.WriteError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

func UserIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(ctxKey{}).(int)
	return id, ok
}
