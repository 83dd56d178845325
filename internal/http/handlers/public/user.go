package public

import (
	"time"

	"github.com/yushan-next/user-service/internal/authz"
	"github.com/yushan-next/user-service/internal/http/response"
	"github.com/yushan-next/user-service/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateProfileRequest 资料更新请求，缺省字段不修改
type UpdateProfileRequest struct {
	Username      *string `json:"username"`
	ProfileDetail *string `json:"profileDetail"`
	AvatarURL     *string `json:"avatarUrl"`
	Birthday      *string `json:"birthday"` // YYYY-MM-DD
	Gender        *int    `json:"gender"`
}

// ChangeEmailRequest 邮箱换绑请求
type ChangeEmailRequest struct {
	NewEmail string `json:"newEmail" binding:"required"`
	Code     string `json:"code" binding:"required"`
}

// SendEmailChangeRequest 发送换绑验证码请求
type SendEmailChangeRequest struct {
	NewEmail string `json:"newEmail" binding:"required"`
}

// Me 当前用户信息
func (h *Handler) Me(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	user, err := h.UserService.GetByUUID(c.Request.Context(), principal.UserID)
	if err != nil {
		respondWithMappedError(c, err, profileErrorRules, response.CodeInternal, "query user failed")
		return
	}
	response.Success(c, user)
}

// GetProfile 公开资料查询
func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.UserService.GetPublicProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithMappedError(c, err, profileErrorRules, response.CodeInternal, "query user failed")
		return
	}
	response.Success(c, profile)
}

// UpdateProfile 更新资料，属主、作者或管理员可操作
func (h *Handler) UpdateProfile(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	targetID := c.Param("id")
	if !authz.CanAccess(principal, targetID) {
		respondError(c, response.CodeForbidden, "permission denied", nil)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	update := service.ProfileUpdate{
		Username:      req.Username,
		ProfileDetail: req.ProfileDetail,
		AvatarURL:     req.AvatarURL,
		Gender:        req.Gender,
	}
	if req.Birthday != nil {
		parsed, err := time.Parse("2006-01-02", *req.Birthday)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid birthday format", nil)
			return
		}
		update.Birthday = &parsed
	}

	user, err := h.UserService.UpdateProfile(c.Request.Context(), targetID, update)
	if err != nil {
		respondWithMappedError(c, err, profileErrorRules, response.CodeInternal, "update profile failed")
		return
	}
	response.Success(c, user)
}

// SendEmailChangeVerification 发送邮箱换绑验证码
func (h *Handler) SendEmailChangeVerification(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req SendEmailChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	if err := h.UserService.SendEmailChangeCode(c.Request.Context(), principal.UserID, req.NewEmail); err != nil {
		respondWithMappedError(c, err, verifyCodeErrorRules, response.CodeInternal, "send verification code failed")
		return
	}
	response.Success(c, gin.H{"sent": true})
}

// ChangeEmail 校验验证码后换绑邮箱
func (h *Handler) ChangeEmail(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req ChangeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	user, err := h.UserService.ChangeEmail(c.Request.Context(), principal.UserID, req.NewEmail, req.Code)
	if err != nil {
		respondWithMappedError(c, err, profileErrorRules, response.CodeInternal, "change email failed")
		return
	}
	response.Success(c, user)
}
