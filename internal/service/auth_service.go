package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"contacts_api/internal/logger"
	"contacts_api/internal/model"
	"contacts_api/internal/repository"
	"contacts_api/internal/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	MsgEmailConfirmed         = "Email confirmed"
	MsgEmailAlreadyConfirmed  = "Your email is already confirmed"
	MsgCheckEmail             = "Check your email for confirmation."
	MsgPasswordResetSent      = "Password reset link has been sent to your email."
	MsgPasswordResetCompleted = "Password has been reset successfully."
)

// Mailer queues outbound email. Calls return immediately and delivery failures never reach the caller.
type Mailer interface {
	SendConfirmation(to, username, token string)
	SendPasswordReset(to, username, token string)
}

// AuthConfig tunes the auth flow
type AuthConfig struct {
	ResetTokenTTL     time.Duration
	InitialAdminEmail string
}

// AuthService provides authentication related services
type AuthService interface {
	Signup(ctx context.Context, req model.SignupRequest) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*model.TokenPair, error)
	Logout(ctx context.Context, user *model.User) error
	ConfirmEmail(ctx context.Context, token string) (string, error)
	RequestEmail(ctx context.Context, email string) (string, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
}

type authService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.ResetTokenRepository
	jwtUtil   *utils.JWTUtil
	mailer    Mailer
	cfg       AuthConfig
	now       func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.ResetTokenRepository,
	jwtUtil *utils.JWTUtil,
	mailer Mailer,
	cfg AuthConfig,
) AuthService {
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = time.Hour
	}
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwtUtil:   jwtUtil,
		mailer:    mailer,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Signup creates an unconfirmed account and queues the confirmation email
func (s *authService) Signup(ctx context.Context, req model.SignupRequest) (*model.User, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrAccountExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := model.RoleUser
	if s.cfg.InitialAdminEmail != "" && strings.EqualFold(req.Email, s.cfg.InitialAdminEmail) {
		role = model.RoleAdmin
		logger.Info("registering initial admin", zap.String("email", req.Email))
	}

	avatar := utils.GravatarURL(req.Email)
	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Avatar:       &avatar,
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	s.sendConfirmation(user)
	return user, nil
}

// Login checks credentials and rotates the stored refresh token
func (s *authService) Login(ctx context.Context, email, password string) (*model.TokenPair, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidEmail
	}
	if !user.Confirmed {
		return nil, ErrEmailNotConfirmed
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidPassword
	}

	return s.issueTokens(ctx, user)
}

// RefreshToken exchanges the stored refresh token for a new pair.
// Presenting any other refresh token for the user revokes the stored one.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	email, err := s.jwtUtil.DecodeRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidRefreshToken
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		if err := s.userRepo.UpdateToken(ctx, user.ID, nil); err != nil {
			return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
		}
		logger.Warn("refresh token mismatch, stored token revoked", zap.Int64("user_id", user.ID))
		return nil, ErrInvalidRefreshToken
	}

	return s.issueTokens(ctx, user)
}

// Logout clears the stored refresh token
func (s *authService) Logout(ctx context.Context, user *model.User) error {
	if err := s.userRepo.UpdateToken(ctx, user.ID, nil); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

// ConfirmEmail flips the confirmed flag. Confirming twice is a no-op with a distinct message.
func (s *authService) ConfirmEmail(ctx context.Context, token string) (string, error) {
	email, err := s.jwtUtil.GetEmailFromToken(token)
	if err != nil {
		return "", ErrInvalidEmailToken
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return "", ErrVerification
	}
	if user.Confirmed {
		return MsgEmailAlreadyConfirmed, nil
	}

	if err := s.userRepo.Confirm(ctx, email); err != nil {
		return "", fmt.Errorf("failed to confirm email: %w", err)
	}
	return MsgEmailConfirmed, nil
}

// RequestEmail re-sends the confirmation email to unconfirmed accounts.
// Unknown addresses get the same answer as unconfirmed ones.
func (s *authService) RequestEmail(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return MsgCheckEmail, nil
	}
	if user.Confirmed {
		return MsgEmailAlreadyConfirmed, nil
	}

	s.sendConfirmation(user)
	return MsgCheckEmail, nil
}

// RequestPasswordReset stores a fresh opaque reset token and mails it
func (s *authService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return "", ErrEmailNotFound
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	resetToken := &model.PasswordResetToken{
		Email:      user.Email,
		Token:      token,
		Expiration: s.now().Add(s.cfg.ResetTokenTTL),
	}
	if err := s.tokenRepo.Create(ctx, resetToken); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	s.mailer.SendPasswordReset(user.Email, user.Username, token)
	return MsgPasswordResetSent, nil
}

// ResetPassword consumes a reset token and sets the new password
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	resetToken, err := s.tokenRepo.FindByToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("failed to find reset token: %w", err)
	}
	if resetToken == nil || resetToken.Expired(s.now()) {
		return "", ErrInvalidOrExpiredToken
	}

	user, err := s.userRepo.FindByEmail(ctx, resetToken.Email)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.tokenRepo.CompletePasswordReset(ctx, resetToken.ID, user.Email, hashedPassword); err != nil {
		if errors.Is(err, repository.ErrTokenConsumed) {
			return "", ErrInvalidOrExpiredToken
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to reset password: %w", err)
	}
	return MsgPasswordResetCompleted, nil
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (*model.TokenPair, error) {
	accessToken, err := s.jwtUtil.CreateAccessToken(user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}
	refreshToken, err := s.jwtUtil.CreateRefreshToken(user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh token: %w", err)
	}

	if err := s.userRepo.UpdateToken(ctx, user.ID, &refreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    model.TokenTypeBearer,
	}, nil
}

func (s *authService) sendConfirmation(user *model.User) {
	token, err := s.jwtUtil.CreateEmailToken(user.Email)
	if err != nil {
		logger.Error("failed to create email token", zap.String("email", user.Email), zap.Error(err))
		return
	}
	s.mailer.SendConfirmation(user.Email, user.Username, token)
}
