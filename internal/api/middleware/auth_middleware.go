package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/errors"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/utils/response"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey uuid.UUID

var AdminContextKey = contextKey(uuid.New())

type AuthMiddleware struct {
	jwtKey []byte
}

func NewAuthMiddleware(jwtKey []byte) *AuthMiddleware {

	return &AuthMiddleware{jwtKey: jwtKey}

}

// Authenticate guards the order administration routes. The bearer token must
// be HMAC signed with the configured key and carry the admin role.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")

		if authHeader == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, errors.UnauthorizedError("Authorization header is required"))
			return
		}

		// Token is of format : "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")

		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			logger.Warn("Invalid authorization header format")
			response.Error(w, errors.UnauthorizedError("Invalid authorization format"))
			return
		}

		claims := &models.AdminClaims{}

		token, err := jwt.ParseWithClaims(tokenParts[1], claims, func(t *jwt.Token) (any, error) {
			return m.jwtKey, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil {
			logger.Warn("JWT parsing failed", slog.String("error", err.Error()))
			response.Error(w, errors.UnauthorizedError("Invalid or expired token"))
			return
		}

		if !token.Valid {
			logger.Warn("Invalid token")
			response.Error(w, errors.UnauthorizedError("Invalid token"))
			return
		}

		if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
			logger.Warn("Expired token", slog.String("email", claims.Email))
			response.Error(w, errors.UnauthorizedError("Token expired"))
			return
		}

		if claims.Role != models.RoleAdmin {
			logger.Warn("Non-admin token on admin route", slog.String("email", claims.Email), slog.String("role", claims.Role))
			response.Error(w, errors.ForbiddenError("Admin access required"))
			return
		}

		ctx := context.WithValue(r.Context(), AdminContextKey, claims)

		requestScopedLogger := logger.With(slog.String("admin", claims.Email))
		ctx = WithLogger(ctx, requestScopedLogger)

		requestScopedLogger.Info("Admin authenticated")

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func AdminFromContext(ctx context.Context) (*models.AdminClaims, bool) {
	claims, ok := ctx.Value(AdminContextKey).(*models.AdminClaims)
	return claims, ok
}
