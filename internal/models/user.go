package models

import (
	"time"

	"github.com/yushan-next/user-service/internal/constants"
)

// User 用户账户
type User struct {
	UUID          string     `gorm:"primaryKey;size:36" json:"uuid"`
	Email         string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username      string     `gorm:"size:64;not null" json:"username"`
	HashPassword  string     `gorm:"size:255;not null" json:"-"`
	EmailVerified bool       `gorm:"default:false" json:"emailVerified"`
	AvatarURL     string     `gorm:"size:512" json:"avatarUrl"`
	ProfileDetail string     `gorm:"type:text" json:"profileDetail"`
	Birthday      *time.Time `json:"birthday"`
	Gender        int        `gorm:"default:0" json:"gender"`
	Status        int        `gorm:"default:0;index" json:"status"`
	IsAuthor      bool       `gorm:"default:false;index" json:"isAuthor"`
	IsAdmin       bool       `gorm:"default:false;index" json:"isAdmin"`
	Level         int        `gorm:"default:0" json:"level"`
	Exp           float64    `gorm:"default:0" json:"exp"`
	Yuan          float64    `gorm:"default:0" json:"yuan"`
	ReadTime      float64    `gorm:"default:0" json:"readTime"`
	ReadBookNum   int        `gorm:"default:0" json:"readBookNum"`
	CreateTime    time.Time  `gorm:"autoCreateTime" json:"createTime"`
	UpdateTime    time.Time  `gorm:"autoUpdateTime" json:"updateTime"`
	LastLogin     *time.Time `json:"lastLogin"`
	LastActive    *time.Time `json:"lastActive"`
}

// TableName 表名
func (User) TableName() string {
	return "users"
}

// IsNormal 账户是否可用
func (u *User) IsNormal() bool {
	return u.Status == constants.UserStatusNormal
}

// IsSuspended 账户是否被暂停
func (u *User) IsSuspended() bool {
	return u.Status == constants.UserStatusSuspended
}

// IsBanned 账户是否被封禁
func (u *User) IsBanned() bool {
	return u.Status == constants.UserStatusBanned
}

// Roles 账户角色列表
func (u *User) Roles() []string {
	roles := []string{constants.RoleUser}
	if u.IsAuthor {
		roles = append(roles, constants.RoleAuthor)
	}
	if u.IsAdmin {
		roles = append(roles, constants.RoleAdmin)
	}
	return roles
}

// DefaultAvatar 按性别返回默认头像
func DefaultAvatar(gender int) string {
	switch gender {
	case constants.GenderMale:
		return constants.AvatarMale
	case constants.GenderFemale:
		return constants.AvatarFemale
	default:
		return constants.AvatarUnknown
	}
}
