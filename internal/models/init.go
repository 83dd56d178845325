package models

import (
	"fmt"
	"os"
	"time"

	"github.com/yushan-next/user-service/internal/constants"
	"github.com/yushan-next/user-service/internal/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// InitDefaultAdmin 首次启动时创建默认管理员账户
func InitDefaultAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&User{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		return fmt.Errorf("count admin users failed: %w", err)
	}
	if count > 0 {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@yushan.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = uuid.NewString()
		logger.Warnw("default_admin_password_generated",
			"email", email,
			"password", password,
			"hint", "set ADMIN_PASSWORD to override",
		)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password failed: %w", err)
	}

	now := time.Now()
	admin := &User{
		UUID:          uuid.NewString(),
		Email:         email,
		Username:      "admin",
		HashPassword:  string(hash),
		EmailVerified: true,
		AvatarURL:     constants.AvatarUnknown,
		Status:        constants.UserStatusNormal,
		IsAdmin:       true,
		CreateTime:    now,
		UpdateTime:    now,
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(admin).Error; err != nil {
			return err
		}
		library := &Library{
			UUID:   uuid.NewString(),
			UserID: admin.UUID,
		}
		return tx.Create(library).Error
	})
}
