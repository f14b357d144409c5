package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/config"
	appErrors "github.com/aaravmahajanofficial/artisan-storefront/internal/errors"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	repository "github.com/aaravmahajanofficial/artisan-storefront/internal/repositories"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const adminLoginRateScope = "admin_login"

type AdminService interface {
	// Login checks the single configured admin account and issues an HS256
	// token carrying the admin role.
	Login(ctx context.Context, req *models.AdminLoginRequest) (*models.AdminLoginResponse, error)
}

type adminService struct {
	email        string
	passwordHash []byte
	jwtKey       []byte
	ttl          time.Duration
	rateLimit    repository.RateLimitRepository
	now          func() time.Time
}

func NewAdminService(cfg config.Security, rateLimit repository.RateLimitRepository) AdminService {
	return &adminService{
		email:        strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
		passwordHash: []byte(cfg.AdminPasswordHash),
		jwtKey:       []byte(cfg.JWTKey),
		ttl:          cfg.TokenTTL,
		rateLimit:    rateLimit,
		now:          time.Now,
	}
}

func (s *adminService) Login(ctx context.Context, req *models.AdminLoginRequest) (*models.AdminLoginResponse, error) {
	logger := middleware.LoggerFromContext(ctx)

	if s.email == "" || len(s.passwordHash) == 0 {
		logger.Warn("Admin login attempted but no admin account is configured")
		return nil, appErrors.UnauthorizedError("Invalid email or password")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	allowed, _, retryAfter, err := s.rateLimit.CheckRateLimit(ctx, adminLoginRateScope, email)
	if err != nil {
		return nil, appErrors.ThirdPartyError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		return nil, appErrors.TooManyRequestsError("Too many login attempts. Please try again later.").
			WithDetail(fmt.Sprintf("retry after %d seconds", retryAfter))
	}

	// the hash is compared even for a wrong email so both paths cost the same
	emailMatches := subtle.ConstantTimeCompare([]byte(email), []byte(s.email)) == 1
	passwordErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password))

	if !emailMatches || passwordErr != nil {
		logger.Warn("Admin login rejected", slog.String("email", email))
		return nil, appErrors.UnauthorizedError("Invalid email or password")
	}

	now := s.now()
	claims := &models.AdminClaims{
		Email: s.email,
		Role:  models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
	if err != nil {
		return nil, appErrors.InternalError("Failed to generate authentication token").WithError(err)
	}

	logger.Info("Admin logged in", slog.String("email", s.email))

	return &models.AdminLoginResponse{
		Token:     token,
		ExpiresIn: int(s.ttl.Seconds()),
	}, nil
}
