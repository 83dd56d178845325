package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/yushan-next/user-service/internal/config"
	"github.com/yushan-next/user-service/internal/constants"
	"github.com/yushan-next/user-service/internal/event"
	"github.com/yushan-next/user-service/internal/logger"
	"github.com/yushan-next/user-service/internal/models"
	"github.com/yushan-next/user-service/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthService 注册登录与令牌刷新
type AuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	tokens   *TokenService
	mail     *MailService
	producer event.Producer
}

// NewAuthService 创建认证服务
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, tokens *TokenService, mail *MailService, producer event.Producer) *AuthService {
	return &AuthService{
		cfg:      cfg,
		userRepo: userRepo,
		tokens:   tokens,
		mail:     mail,
		producer: producer,
	}
}

// RegisterInput 注册参数
type RegisterInput struct {
	Email    string
	Username string
	Password string
	Code     string
	Gender   int
}

// AuthResult 认证结果
type AuthResult struct {
	User   *models.User
	Tokens *TokenPair
}

// Register 注册新用户并签发令牌
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	normalized, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	exist, err := s.userRepo.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailExists
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		username = resolveUsernameFromEmail(normalized)
	}
	if taken, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if taken != nil {
		return nil, ErrUsernameExists
	}

	// 邮件通道启用后注册必须先通过邮箱验证码
	emailVerified := false
	if s.cfg.Email.Enabled || strings.TrimSpace(input.Code) != "" {
		if err := s.mail.VerifyCode(ctx, normalized, constants.VerifyPurposeRegister, input.Code); err != nil {
			return nil, err
		}
		emailVerified = true
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	gender := input.Gender
	if gender != constants.GenderMale && gender != constants.GenderFemale {
		gender = constants.GenderUnknown
	}

	now := time.Now()
	user := &models.User{
		UUID:          uuid.NewString(),
		Email:         normalized,
		EmailVerified: emailVerified,
		Username:      username,
		HashPassword:  hash,
		AvatarURL:     models.DefaultAvatar(gender),
		Gender:        gender,
		Status:        constants.UserStatusNormal,
		CreateTime:    now,
		UpdateTime:    now,
		LastLogin:     &now,
		LastActive:    &now,
	}
	library := &models.Library{UUID: uuid.NewString()}

	if err := s.userRepo.CreateWithLibrary(ctx, user, library); err != nil {
		// 并发注册时查重可能漏判，唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	pair, err := s.tokens.Mint(user)
	if err != nil {
		return nil, err
	}

	s.producer.PublishUserEvent(ctx, constants.EventUserRegistered, event.UserRegistered{
		UserID:   user.UUID,
		Email:    user.Email,
		Username: user.Username,
	})
	logger.Infow("user_registered", "user_id", user.UUID, "email", user.Email)

	return &AuthResult{User: user, Tokens: pair}, nil
}

// Login 校验凭据并签发令牌
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !VerifyPassword(user.HashPassword, password) {
		return nil, ErrInvalidCredentials
	}
	if user.IsSuspended() {
		return nil, ErrUserSuspended
	}
	if user.IsBanned() {
		return nil, ErrUserBanned
	}

	pair, err := s.tokens.Mint(user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLogin = &now
	user.LastActive = &now
	if err := s.userRepo.UpdateFields(ctx, user.UUID, map[string]interface{}{
		"last_login":  now,
		"last_active": now,
	}); err != nil {
		logger.Warnw("update_last_login_failed", "user_id", user.UUID, "error", err)
	}

	s.producer.PublishUserEvent(ctx, constants.EventUserLoggedIn, event.UserLoggedIn{
		UserID: user.UUID,
		Email:  user.Email,
	})

	return &AuthResult{User: user, Tokens: pair}, nil
}

// RefreshToken 校验刷新令牌并轮换整对令牌
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, claims.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserMismatch
	}
	if user.UUID != claims.UserID {
		return nil, ErrUserMismatch
	}
	if user.IsSuspended() {
		return nil, ErrUserSuspended
	}
	if user.IsBanned() {
		return nil, ErrUserBanned
	}

	pair, err := s.tokens.Mint(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: pair}, nil
}

// Logout 无状态登出，令牌到期自然失效
func (s *AuthService) Logout(ctx context.Context, userID string) {
	logger.Infow("user_logged_out", "user_id", userID)
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrEmailRequired
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

func resolveUsernameFromEmail(email string) string {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) == 2 && strings.TrimSpace(parts[0]) != "" {
		return strings.TrimSpace(parts[0])
	}
	return email
}
