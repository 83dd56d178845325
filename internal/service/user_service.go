package service

import (
	"context"
	"strings"
	"time"

	"github.com/yushan-next/user-service/internal/constants"
	"github.com/yushan-next/user-service/internal/models"
	"github.com/yushan-next/user-service/internal/repository"
)

// UserService 用户资料服务
type UserService struct {
	userRepo repository.UserRepository
	mail     *MailService
}

// NewUserService 创建用户资料服务
func NewUserService(userRepo repository.UserRepository, mail *MailService) *UserService {
	return &UserService{userRepo: userRepo, mail: mail}
}

// GetByUUID 查询用户，不存在时返回 ErrNotFound
func (s *UserService) GetByUUID(ctx context.Context, uuid string) (*models.User, error) {
	user, err := s.userRepo.GetByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// PublicProfile 对外公开的用户资料
type PublicProfile struct {
	UUID          string `json:"uuid"`
	Username      string `json:"username"`
	AvatarURL     string `json:"avatarUrl"`
	ProfileDetail string `json:"profileDetail"`
	Gender        int    `json:"gender"`
	IsAuthor      bool   `json:"isAuthor"`
	Level         int    `json:"level"`
	ReadBookNum   int    `json:"readBookNum"`
}

// GetPublicProfile 查询公开资料
func (s *UserService) GetPublicProfile(ctx context.Context, uuid string) (*PublicProfile, error) {
	user, err := s.GetByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}
	return &PublicProfile{
		UUID:          user.UUID,
		Username:      user.Username,
		AvatarURL:     user.AvatarURL,
		ProfileDetail: user.ProfileDetail,
		Gender:        user.Gender,
		IsAuthor:      user.IsAuthor,
		Level:         user.Level,
		ReadBookNum:   user.ReadBookNum,
	}, nil
}

// ProfileUpdate 资料更新参数，nil 字段表示不修改
type ProfileUpdate struct {
	Username      *string
	ProfileDetail *string
	AvatarURL     *string
	Birthday      *time.Time
	Gender        *int
}

// UpdateProfile 更新用户资料
func (s *UserService) UpdateProfile(ctx context.Context, uuid string, update ProfileUpdate) (*models.User, error) {
	user, err := s.GetByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}

	if update.Username != nil {
		trimmed := strings.TrimSpace(*update.Username)
		if trimmed != "" && trimmed != user.Username {
			taken, err := s.userRepo.GetByUsername(ctx, trimmed)
			if err != nil {
				return nil, err
			}
			if taken != nil && taken.UUID != user.UUID {
				return nil, ErrUsernameExists
			}
			user.Username = trimmed
		}
	}
	if update.ProfileDetail != nil {
		user.ProfileDetail = strings.TrimSpace(*update.ProfileDetail)
	}
	if update.AvatarURL != nil {
		trimmed := strings.TrimSpace(*update.AvatarURL)
		if trimmed != "" {
			user.AvatarURL = trimmed
		}
	}
	if update.Birthday != nil {
		user.Birthday = update.Birthday
	}
	if update.Gender != nil {
		switch *update.Gender {
		case constants.GenderUnknown, constants.GenderMale, constants.GenderFemale:
			user.Gender = *update.Gender
		default:
			return nil, ErrInvalidStatus
		}
	}

	user.UpdateTime = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SendEmailChangeCode 向新邮箱发送换绑验证码
func (s *UserService) SendEmailChangeCode(ctx context.Context, uuid, newEmail string) error {
	user, err := s.GetByUUID(ctx, uuid)
	if err != nil {
		return err
	}
	normalized, err := normalizeEmail(newEmail)
	if err != nil {
		return err
	}
	if strings.EqualFold(normalized, user.Email) {
		return ErrInvalidEmail
	}
	exist, err := s.userRepo.GetByEmail(ctx, normalized)
	if err != nil {
		return err
	}
	if exist != nil {
		return ErrEmailExists
	}
	return s.mail.SendVerifyCode(ctx, normalized, constants.VerifyPurposeChangeEmail)
}

// ChangeEmail 校验验证码后换绑邮箱
func (s *UserService) ChangeEmail(ctx context.Context, uuid, newEmail, code string) (*models.User, error) {
	user, err := s.GetByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}
	normalized, err := normalizeEmail(newEmail)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(normalized, user.Email) {
		return nil, ErrInvalidEmail
	}
	exist, err := s.userRepo.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailExists
	}
	if err := s.mail.VerifyCode(ctx, normalized, constants.VerifyPurposeChangeEmail, code); err != nil {
		return nil, err
	}

	user.Email = normalized
	user.EmailVerified = true
	user.UpdateTime = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateLastActive 更新用户活跃时间
func (s *UserService) UpdateLastActive(ctx context.Context, uuid string, at time.Time) error {
	return s.userRepo.UpdateFields(ctx, uuid, map[string]interface{}{"last_active": at})
}
