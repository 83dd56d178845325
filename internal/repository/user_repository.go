package repository

import (
	"context"
	"errors"

	"github.com/yushan-next/user-service/internal/models"

	"gorm.io/gorm"
)

// UserListFilter 用户列表查询条件
type UserListFilter struct {
	Status    *int
	IsAdmin   *bool
	IsAuthor  *bool
	Keyword   string
	SortBy    string
	SortOrder string
	Pagination
}

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	CreateWithLibrary(ctx context.Context, user *models.User, library *models.Library) error
	GetByUUID(ctx context.Context, uuid string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateFields(ctx context.Context, uuid string, fields map[string]interface{}) error
	List(ctx context.Context, filter UserListFilter) ([]models.User, int64, error)
}

// GormUserRepository 基于 GORM 的用户仓储
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create 创建用户
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// CreateWithLibrary 同一事务内创建用户与书架
func (r *GormUserRepository) CreateWithLibrary(ctx context.Context, user *models.User, library *models.Library) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		library.UserID = user.UUID
		return tx.Create(library).Error
	})
}

// GetByUUID 按 UUID 查询用户
func (r *GormUserRepository) GetByUUID(ctx context.Context, uuid string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail 按 Email 查询用户
func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername 按用户名查询用户
func (r *GormUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update 保存整条用户记录
func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// UpdateFields 更新指定字段
func (r *GormUserRepository) UpdateFields(ctx context.Context, uuid string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("uuid = ?", uuid).
		Updates(fields).Error
}

var userSortColumns = map[string]string{
	"createTime": "create_time",
	"updateTime": "update_time",
	"lastLogin":  "last_login",
	"lastActive": "last_active",
	"username":   "username",
	"level":      "level",
	"exp":        "exp",
}

// List 按条件分页查询用户
func (r *GormUserRepository) List(ctx context.Context, filter UserListFilter) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.IsAdmin != nil {
		query = query.Where("is_admin = ?", *filter.IsAdmin)
	}
	if filter.IsAuthor != nil {
		query = query.Where("is_author = ?", *filter.IsAuthor)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("email LIKE ? OR username LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := userSortColumns[filter.SortBy]
	if !ok {
		column = "create_time"
	}
	order := "DESC"
	if filter.SortOrder == "asc" {
		order = "ASC"
	}

	var users []models.User
	err := applyPagination(query, filter.Pagination).
		Order(column + " " + order).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
