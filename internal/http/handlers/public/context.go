package public

import (
	"github.com/yushan-next/user-service/internal/authz"
	handlershared "github.com/yushan-next/user-service/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func getPrincipal(c *gin.Context) authz.Principal {
	return handlershared.GetPrincipal(c)
}

func requirePrincipal(c *gin.Context) (authz.Principal, bool) {
	return handlershared.RequirePrincipal(c)
}
