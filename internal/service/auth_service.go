package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/store-admin/internal/auth"
	"github.com/spec-kit/store-admin/internal/config"
	"github.com/spec-kit/store-admin/internal/domain"
	"github.com/spec-kit/store-admin/internal/repository"
	apperrors "github.com/spec-kit/store-admin/pkg/util"
)

// RegisterInput is the admin sign-up payload.
type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
}

// AuthService coordinates admin registration, sign-in and token rotation.
type AuthService struct {
	admins     repository.AdminRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, admins repository.AdminRepository, logger *zap.Logger) *AuthService {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTTL(), cfg.RefreshTTL())
	return NewAuthServiceWithTokens(tokens, admins, cfg.BcryptCost, logger)
}

// NewAuthServiceWithTokens is used when the token manager is shared or faked.
func NewAuthServiceWithTokens(tokens *auth.TokenManager, admins repository.AdminRepository, bcryptCost int, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{admins: admins, tokenMgr: tokens, bcryptCost: bcryptCost, logger: logger}
}

// Register creates a new admin account and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.Admin, auth.TokenPair, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return nil, auth.TokenPair{}, apperrors.NewValidationError("all fields are required", nil)
	}
	if len(in.Password) < auth.MinPasswordLength {
		return nil, auth.TokenPair{}, apperrors.NewValidationError("password must be at least 6 characters", nil)
	}
	if in.Password != in.ConfirmPassword {
		return nil, auth.TokenPair{}, apperrors.NewValidationError("passwords do not match", nil)
	}

	if _, err := s.admins.GetByEmail(ctx, email); err == nil {
		return nil, auth.TokenPair{}, apperrors.NewConflict("an account with this email already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, auth.TokenPair{}, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, auth.TokenPair{}, apperrors.NewInternalError(err)
	}

	admin := &domain.Admin{Email: email, PasswordHash: hash}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, auth.TokenPair{}, apperrors.NewConflict("an account with this email already exists", nil)
		}
		return nil, auth.TokenPair{}, apperrors.NewInternalError(err)
	}

	pair, err := s.tokenMgr.IssuePair(admin.ID, admin.TokenVersion)
	if err != nil {
		return nil, auth.TokenPair{}, apperrors.NewInternalError(err)
	}
	s.logger.Info("admin registered", zap.String("admin_id", admin.ID))
	return admin, pair, nil
}

// Login authenticates an admin by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Admin, auth.TokenPair, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, auth.TokenPair{}, apperrors.NewValidationError("email and password are required", nil)
	}

	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.TokenPair{}, apperrors.NewUnauthorized(auth.ErrInvalidCredentials.Error())
		}
		return nil, auth.TokenPair{}, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, auth.TokenPair{}, apperrors.NewUnauthorized(auth.ErrInvalidCredentials.Error())
	}

	pair, err := s.tokenMgr.IssuePair(admin.ID, admin.TokenVersion)
	if err != nil {
		return nil, auth.TokenPair{}, apperrors.NewInternalError(err)
	}
	return admin, pair, nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.Admin, auth.TokenPair, error) {
	claims, err := s.tokenMgr.VerifyKind(refreshToken, auth.TokenKindRefresh)
	if err != nil {
		return nil, auth.TokenPair{}, apperrors.NewUnauthorized("invalid refresh token")
	}

	admin, err := s.admins.GetByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.TokenPair{}, apperrors.NewUnauthorized("invalid refresh token")
		}
		return nil, auth.TokenPair{}, apperrors.NewInternalError(err)
	}
	if admin.TokenVersion != claims.TokenVersion {
		return nil, auth.TokenPair{}, apperrors.NewUnauthorized("invalid refresh token")
	}

	pair, err := s.tokenMgr.IssuePair(admin.ID, admin.TokenVersion)
	if err != nil {
		return nil, auth.TokenPair{}, apperrors.NewInternalError(err)
	}
	return admin, pair, nil
}

// ChangePassword verifies the current password, stores the new one and bumps the
// token version so every other session stops verifying. The caller gets a new pair.
func (s *AuthService) ChangePassword(ctx context.Context, adminID, currentPassword, newPassword string) (auth.TokenPair, error) {
	if len(newPassword) < auth.MinPasswordLength {
		return auth.TokenPair{}, apperrors.NewValidationError("password must be at least 6 characters", nil)
	}

	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return auth.TokenPair{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(admin.PasswordHash, currentPassword); err != nil {
		return auth.TokenPair{}, apperrors.NewUnauthorized(auth.ErrInvalidCredentials.Error())
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return auth.TokenPair{}, apperrors.NewInternalError(err)
	}
	version, err := s.admins.UpdatePassword(ctx, adminID, hash)
	if err != nil {
		return auth.TokenPair{}, apperrors.MapError(err)
	}

	pair, err := s.tokenMgr.IssuePair(adminID, version)
	if err != nil {
		return auth.TokenPair{}, apperrors.NewInternalError(err)
	}
	s.logger.Info("admin password changed", zap.String("admin_id", adminID), zap.Int("token_version", version))
	return pair, nil
}

// RevokeSessions invalidates every token issued to the admin.
func (s *AuthService) RevokeSessions(ctx context.Context, adminID string) error {
	version, err := s.admins.IncrementTokenVersion(ctx, adminID)
	if err != nil {
		return apperrors.MapError(err)
	}
	s.logger.Info("admin sessions revoked", zap.String("admin_id", adminID), zap.Int("token_version", version))
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
