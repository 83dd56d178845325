package public

import (
	"github.com/yushan-next/user-service/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AuthorUpgradeRequest 作者升级请求
type AuthorUpgradeRequest struct {
	Code string `json:"code" binding:"required"`
}

// SendAuthorUpgradeCode 发送作者升级验证码
func (h *Handler) SendAuthorUpgradeCode(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if err := h.AuthorService.SendUpgradeCode(c.Request.Context(), principal.UserID); err != nil {
		respondWithMappedError(c, err, authorErrorRules, response.CodeInternal, "send verification code failed")
		return
	}
	response.Success(c, gin.H{"sent": true})
}

// UpgradeToAuthor 校验验证码后升级为作者
func (h *Handler) UpgradeToAuthor(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req AuthorUpgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	user, err := h.AuthorService.UpgradeToAuthor(c.Request.Context(), principal.UserID, req.Code)
	if err != nil {
		respondWithMappedError(c, err, authorErrorRules, response.CodeInternal, "author upgrade failed")
		return
	}
	response.Success(c, user)
}
