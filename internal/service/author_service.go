package service

import (
	"context"
	"strings"
	"time"

	"github.com/yushan-next/user-service/internal/constants"
	"github.com/yushan-next/user-service/internal/logger"
	"github.com/yushan-next/user-service/internal/models"
	"github.com/yushan-next/user-service/internal/repository"
)

// AuthorService 作者身份升级
type AuthorService struct {
	userRepo repository.UserRepository
	mail     *MailService
}

// NewAuthorService 创建作者服务
func NewAuthorService(userRepo repository.UserRepository, mail *MailService) *AuthorService {
	return &AuthorService{userRepo: userRepo, mail: mail}
}

// SendUpgradeCode 发送作者升级验证码
func (s *AuthorService) SendUpgradeCode(ctx context.Context, uuid string) error {
	user, err := s.userRepo.GetByUUID(ctx, uuid)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if user.IsAuthor {
		return ErrAlreadyAuthor
	}
	if strings.TrimSpace(user.Email) == "" {
		return ErrEmailRequired
	}
	return s.mail.SendVerifyCode(ctx, user.Email, constants.VerifyPurposeAuthor)
}

// UpgradeToAuthor 校验验证码后升级为作者
func (s *AuthorService) UpgradeToAuthor(ctx context.Context, uuid, code string) (*models.User, error) {
	user, err := s.userRepo.GetByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if user.IsAuthor {
		return nil, ErrAlreadyAuthor
	}
	if strings.TrimSpace(user.Email) == "" {
		return nil, ErrEmailRequired
	}
	if err := s.mail.VerifyCode(ctx, user.Email, constants.VerifyPurposeAuthor, code); err != nil {
		return nil, err
	}

	user.IsAuthor = true
	user.UpdateTime = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	logger.Infow("user_upgraded_to_author", "user_id", user.UUID)
	return user, nil
}
