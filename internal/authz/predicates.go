package authz

import "github.com/yushan-next/user-service/internal/constants"

// IsAuthenticated 是否已登录
func IsAuthenticated(p Principal) bool {
	return p.Authenticated && p.UserID != ""
}

// HasRole 是否持有指定角色
func HasRole(p Principal, role string) bool {
	for _, r := range p.Roles() {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole 是否持有任一指定角色
func HasAnyRole(p Principal, roles ...string) bool {
	for _, role := range roles {
		if HasRole(p, role) {
			return true
		}
	}
	return false
}

// IsAdmin 是否为管理员
func IsAdmin(p Principal) bool {
	return IsAuthenticated(p) && p.Admin
}

// IsAuthor 是否为作者
func IsAuthor(p Principal) bool {
	return IsAuthenticated(p) && p.Author
}

// IsOwner 是否为资源属主
func IsOwner(p Principal, ownerID string) bool {
	return IsAuthenticated(p) && ownerID != "" && p.UserID == ownerID
}

// IsAuthorOrAdmin 是否为作者或管理员
func IsAuthorOrAdmin(p Principal) bool {
	return IsAuthor(p) || IsAdmin(p)
}

// CanAccess 属主、作者或管理员可访问
func CanAccess(p Principal, ownerID string) bool {
	return IsOwner(p, ownerID) || IsAuthor(p) || IsAdmin(p)
}

// RoleExists 角色名是否合法
func RoleExists(role string) bool {
	switch role {
	case constants.RoleUser, constants.RoleAuthor, constants.RoleAdmin:
		return true
	default:
		return false
	}
}
