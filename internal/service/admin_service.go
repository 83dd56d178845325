package service

import (
	"context"
	"time"

	"github.com/yushan-next/user-service/internal/constants"
	"github.com/yushan-next/user-service/internal/logger"
	"github.com/yushan-next/user-service/internal/models"
	"github.com/yushan-next/user-service/internal/repository"
)

// AdminService 管理员操作
type AdminService struct {
	userRepo repository.UserRepository
}

// NewAdminService 创建管理服务
func NewAdminService(userRepo repository.UserRepository) *AdminService {
	return &AdminService{userRepo: userRepo}
}

// PromoteToAdmin 将用户提升为管理员
func (s *AdminService) PromoteToAdmin(ctx context.Context, operatorUUID, targetUUID string) (*models.User, error) {
	user, err := s.userRepo.GetByUUID(ctx, targetUUID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if user.IsAdmin {
		return nil, ErrAlreadyAdmin
	}

	user.IsAdmin = true
	user.UpdateTime = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	logger.Infow("user_promoted_to_admin",
		"operator", operatorUUID,
		"user_id", user.UUID,
	)
	return user, nil
}

// ListUsers 按条件分页查询用户
func (s *AdminService) ListUsers(ctx context.Context, filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(ctx, filter)
}

// UpdateStatus 修改用户状态
func (s *AdminService) UpdateStatus(ctx context.Context, operatorUUID, targetUUID string, status int) (*models.User, error) {
	switch status {
	case constants.UserStatusNormal, constants.UserStatusSuspended, constants.UserStatusBanned:
	default:
		return nil, ErrInvalidStatus
	}

	user, err := s.userRepo.GetByUUID(ctx, targetUUID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	user.Status = status
	user.UpdateTime = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	logger.Infow("user_status_updated",
		"operator", operatorUUID,
		"user_id", user.UUID,
		"status", status,
	)
	return user, nil
}
