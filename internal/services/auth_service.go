package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"smartspend/internal/dto"
	"smartspend/internal/models"
	"smartspend/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserAlreadyExists  = errors.New("username already exists")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

type AuthService struct {
	userRepo             repositories.UserRepositoryInterface
	auditRepo            repositories.AuditLogRepositoryInterface
	blacklistedTokenRepo repositories.BlacklistedTokenRepositoryInterface
	passwordService      PasswordServiceInterface
	tokenService         TokenServiceInterface
	metrics              MetricsRecorderInterface
	logger               *slog.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	auditRepo repositories.AuditLogRepositoryInterface,
	blacklistedTokenRepo repositories.BlacklistedTokenRepositoryInterface,
	passwordService PasswordServiceInterface,
	tokenService TokenServiceInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:             userRepo,
		auditRepo:            auditRepo,
		blacklistedTokenRepo: blacklistedTokenRepo,
		passwordService:      passwordService,
		tokenService:         tokenService,
		metrics:              metrics,
		logger:               logger,
	}
}

// Register creates a user. Email is optional; the username must be unused.
func (s *AuthService) Register(req *dto.RegisterRequest, ipAddress, userAgent string) (*models.User, error) {
	username := strings.TrimSpace(req.Username)

	if req.Password != req.ConfirmPassword {
		s.rejectAttempt(models.AuditActionRegister, username, "password_mismatch", ipAddress, userAgent)
		return nil, ErrPasswordMismatch
	}

	if err := s.passwordService.ValidatePassword(req.Password); err != nil {
		s.rejectAttempt(models.AuditActionRegister, username, "weak_password", ipAddress, userAgent)
		return nil, err
	}

	existingUser, err := s.userRepo.GetByUsername(username)
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	if existingUser != nil {
		s.rejectAttempt(models.AuditActionRegister, username, "username_taken", ipAddress, userAgent)
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := s.passwordService.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hashedPassword,
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		user.Email = &email
	}

	if err := s.userRepo.Create(user); err != nil {
		// lost a race against a concurrent registration of the same name
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			s.rejectAttempt(models.AuditActionRegister, username, "username_taken", ipAddress, userAgent)
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncrementCounter("user_registrations", nil)
	s.audit(&user.ID, models.AuditActionRegister, ipAddress, userAgent, nil)

	return user, nil
}

// Login authenticates a user and returns a session token
func (s *AuthService) Login(req *dto.LoginRequest, ipAddress, userAgent string) (*dto.TokenResponse, error) {
	username := strings.TrimSpace(req.Username)

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.rejectAttempt(models.AuditActionFailedLogin, username, "user_not_found", ipAddress, userAgent)
			s.recordLogin("failure")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.passwordService.ComparePassword(req.Password, user.PasswordHash) {
		s.rejectAttempt(models.AuditActionFailedLogin, username, "invalid_password", ipAddress, userAgent)
		s.recordLogin("failure")
		return nil, ErrInvalidCredentials
	}

	accessToken, expiresAt, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.recordLogin("success")
	s.audit(&user.ID, models.AuditActionLogin, ipAddress, userAgent, nil)

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   TokenTypeBearer,
		ExpiresAt:   expiresAt,
		Username:    user.Username,
	}, nil
}

// Logout revokes the session token. It never fails for a bad token.
func (s *AuthService) Logout(accessToken, ipAddress, userAgent string) error {
	claims, err := s.tokenService.ValidateAccessToken(accessToken)
	if err != nil {
		// expired or tampered tokens are still blacklisted so they cannot be replayed
		jti, _ := s.tokenService.GetJTI(accessToken)
		if jti != "" {
			if err := s.blacklistToken(jti, uuid.Nil, time.Now().Add(24*time.Hour)); err != nil {
				s.logger.Error("failed to blacklist expired token",
					"error", err,
					"jti", jti)
			}
		}
		return nil
	}

	userID, _ := uuid.Parse(claims.UserID)

	expiry, _ := s.tokenService.GetTokenExpiry(accessToken)
	if err := s.blacklistToken(claims.ID, userID, expiry); err != nil {
		s.logger.Error("failed to blacklist token",
			"error", err,
			"jti", claims.ID,
			"user_id", userID)
	}

	s.audit(&userID, models.AuditActionLogout, ipAddress, userAgent, nil)

	return nil
}

// Authenticate validates a session token and rejects blacklisted ones
func (s *AuthService) Authenticate(accessToken string) (*models.CustomClaims, error) {
	claims, err := s.tokenService.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}

	if _, err := s.blacklistedTokenRepo.GetByJTI(claims.ID); err == nil {
		return nil, ErrTokenRevoked
	} else if !errors.Is(err, repositories.ErrTokenNotFound) {
		return nil, fmt.Errorf("failed to check token blacklist: %w", err)
	}

	return claims, nil
}

func (s *AuthService) blacklistToken(jti string, userID uuid.UUID, expiresAt time.Time) error {
	return s.blacklistedTokenRepo.Create(&models.BlacklistedToken{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: expiresAt,
	})
}

func (s *AuthService) recordLogin(result string) {
	s.metrics.IncrementCounter("auth_attempts", map[string]string{"result": result})
}

// rejectAttempt records a refused register or login. No user id is attached
// because the attempt never resolved to an account.
func (s *AuthService) rejectAttempt(action, username, reason, ipAddress, userAgent string) {
	s.audit(nil, action, ipAddress, userAgent, models.JSONBMap{
		"username": username,
		"reason":   reason,
	})
}

// audit writes an entry on the user resource. Failures are logged and never block authentication.
func (s *AuthService) audit(userID *uuid.UUID, action, ipAddress, userAgent string, metadata models.JSONBMap) {
	entry := &models.AuditLog{
		UserID:    userID,
		Action:    action,
		Resource:  models.AuditResourceUser,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Metadata:  metadata,
	}
	if userID != nil {
		entry.ResourceID = userID.String()
	}

	if err := s.auditRepo.Create(entry); err != nil {
		s.logger.Error("failed to create audit log", "action", action, "resource_id", entry.ResourceID, "error", err)
	}
}
