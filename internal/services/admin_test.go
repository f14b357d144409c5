package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/config"
	appErrors "github.com/aaravmahajanofficial/artisan-storefront/internal/errors"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/artisan-storefront/internal/services"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail    = "owner@example.com"
	adminPassword = "handloom-2026"
	adminJWTKey   = "test-admin-key"
)

func setupAdminService(t *testing.T) (service.AdminService, *mocks.MockRateLimitRepository) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	limiter := mocks.NewMockRateLimitRepository(t)
	cfg := config.Security{
		JWTKey:            adminJWTKey,
		AdminEmail:        adminEmail,
		AdminPasswordHash: string(hash),
		TokenTTL:          7 * 24 * time.Hour,
	}

	return service.NewAdminService(cfg, limiter), limiter
}

func TestAdminService_Login(t *testing.T) {
	t.Run("Success - Token Carries The Admin Role", func(t *testing.T) {
		// Arrange
		svc, limiter := setupAdminService(t)
		limiter.On("CheckRateLimit", mock.Anything, "admin_login", adminEmail).Return(true, 4, 0, nil).Once()

		// Act
		resp, err := svc.Login(t.Context(), &models.AdminLoginRequest{Email: " Owner@Example.com ", Password: adminPassword})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), resp.ExpiresIn)

		claims := &models.AdminClaims{}
		token, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (any, error) {
			return []byte(adminJWTKey), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		require.NoError(t, err)
		assert.True(t, token.Valid)
		assert.Equal(t, models.RoleAdmin, claims.Role)
		assert.Equal(t, adminEmail, claims.Email)
		assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
	})

	tests := []struct {
		name  string
		email string
		pass  string
	}{
		{"Failure - Wrong Password", adminEmail, "not-it"},
		{"Failure - Unknown Email", "someone@example.com", adminPassword},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, limiter := setupAdminService(t)
			limiter.On("CheckRateLimit", mock.Anything, "admin_login", tc.email).Return(true, 3, 0, nil).Once()

			resp, err := svc.Login(t.Context(), &models.AdminLoginRequest{Email: tc.email, Password: tc.pass})

			assert.Nil(t, resp)
			assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeUnauthorized))
		})
	}

	t.Run("Failure - Rate Limited Before The Hash Is Checked", func(t *testing.T) {
		svc, limiter := setupAdminService(t)
		limiter.On("CheckRateLimit", mock.Anything, "admin_login", adminEmail).Return(false, 0, 12, nil).Once()

		resp, err := svc.Login(t.Context(), &models.AdminLoginRequest{Email: adminEmail, Password: adminPassword})

		assert.Nil(t, resp)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeTooManyRequests))
	})

	t.Run("Failure - Limiter Unavailable", func(t *testing.T) {
		svc, limiter := setupAdminService(t)
		limiter.On("CheckRateLimit", mock.Anything, "admin_login", adminEmail).Return(false, 0, 0, errors.New("redis down")).Once()

		_, err := svc.Login(t.Context(), &models.AdminLoginRequest{Email: adminEmail, Password: adminPassword})

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeThirdPartyError))
	})

	t.Run("Failure - No Admin Account Configured", func(t *testing.T) {
		limiter := mocks.NewMockRateLimitRepository(t)
		svc := service.NewAdminService(config.Security{JWTKey: adminJWTKey}, limiter)

		_, err := svc.Login(t.Context(), &models.AdminLoginRequest{Email: adminEmail, Password: ""})

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeUnauthorized))
		limiter.AssertNotCalled(t, "CheckRateLimit", mock.Anything, mock.Anything, mock.Anything)
	})
}
