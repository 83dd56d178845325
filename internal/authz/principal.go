package authz

import "github.com/yushan-next/user-service/internal/constants"

// Principal 请求主体，由访问令牌声明构造
type Principal struct {
	UserID        string
	Email         string
	Authenticated bool
	Author        bool
	Admin         bool
}

// Anonymous 未登录主体
func Anonymous() Principal {
	return Principal{}
}

// NewPrincipal 由令牌声明构造主体
func NewPrincipal(userID, email string, isAuthor, isAdmin bool) Principal {
	return Principal{
		UserID:        userID,
		Email:         email,
		Authenticated: userID != "",
		Author:        isAuthor,
		Admin:         isAdmin,
	}
}

// Roles 主体持有的角色
func (p Principal) Roles() []string {
	if !p.Authenticated {
		return nil
	}
	roles := []string{constants.RoleUser}
	if p.Author {
		roles = append(roles, constants.RoleAuthor)
	}
	if p.Admin {
		roles = append(roles, constants.RoleAdmin)
	}
	return roles
}
