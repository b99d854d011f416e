package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pawhaven/adoption-service/internal/auth"
	"github.com/pawhaven/adoption-service/internal/config"
	"github.com/pawhaven/adoption-service/internal/domain"
	"github.com/pawhaven/adoption-service/internal/repository"
	apperrors "github.com/pawhaven/adoption-service/pkg/util"
)

// MinPasswordLength is the signup password floor.
const MinPasswordLength = 6

// AuthService coordinates signup and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
		bcryptCost: cfg.BcryptCost,
	}
}

// SignupInput describes a registration request. Avatar, when present, is an
// already-staged blob-store reference.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     domain.UserRole
	Address  domain.Address
	Avatar   *string
}

// Signup registers a new account and issues a session token.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, string, time.Time, error) {
	email := NormalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", time.Time{}, apperrors.NewValidationError("valid email is required", nil)
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("name is required", nil)
	}
	if len(input.Password) < MinPasswordLength {
		return nil, "", time.Time{}, apperrors.NewValidationError("password must be at least 6 characters", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewEmailInUse()
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	role := input.Role
	if role != domain.RoleShelter {
		role = domain.RoleUser
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Phone:        strings.TrimSpace(input.Phone),
		Address:      input.Address,
		Avatar:       input.Avatar,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Login authenticates by email and password. Unknown email, wrong password
// and deactivated accounts all yield the same generic error so responses
// cannot be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}
	if !user.IsActive {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// NormalizeEmail lowercases and trims an email for case-insensitive lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
