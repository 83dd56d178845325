package shared

import (
	"github.com/yushan-next/user-service/internal/authz"
	"github.com/yushan-next/user-service/internal/constants"
	"github.com/yushan-next/user-service/internal/http/response"

	"github.com/gin-gonic/gin"
)

// PrincipalKey 请求主体在上下文中的键
const PrincipalKey = constants.ContextPrincipalKey

// GetPrincipal 从上下文读取请求主体，缺失时返回匿名主体。
func GetPrincipal(c *gin.Context) authz.Principal {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return authz.Anonymous()
	}
	principal, ok := value.(authz.Principal)
	if !ok {
		return authz.Anonymous()
	}
	return principal
}

// RequirePrincipal 读取已认证主体，未登录时统一返回 401。
func RequirePrincipal(c *gin.Context) (authz.Principal, bool) {
	principal := GetPrincipal(c)
	if !authz.IsAuthenticated(principal) {
		RespondError(c, response.CodeUnauthorized, "authentication required", nil)
		return authz.Anonymous(), false
	}
	return principal, true
}
