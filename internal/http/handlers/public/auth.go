package public

import (
	"github.com/yushan-next/user-service/internal/constants"
	"github.com/yushan-next/user-service/internal/http/response"
	"github.com/yushan-next/user-service/internal/models"
	"github.com/yushan-next/user-service/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required"`
	Code     string `json:"code"`
	Gender   int    `json:"gender"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest 刷新令牌请求
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// SendEmailRequest 发送验证码请求
type SendEmailRequest struct {
	Email string `json:"email" binding:"required"`
}

// AuthPayload 认证成功响应
type AuthPayload struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	TokenType    string       `json:"tokenType"`
	ExpiresIn    int64        `json:"expiresIn"`
	User         *models.User `json:"user"`
}

func newAuthPayload(result *service.AuthResult) AuthPayload {
	return AuthPayload{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		TokenType:    constants.TokenTypeBearer,
		ExpiresIn:    result.Tokens.ExpiresIn,
		User:         result.User,
	}
}

// Register 用户注册
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	result, err := h.AuthService.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Code:     req.Code,
		Gender:   req.Gender,
	})
	if err != nil {
		respondWithMappedError(c, err, authCommonErrorRules, response.CodeInternal, "registration failed")
		return
	}
	response.Success(c, newAuthPayload(result))
}

// Login 用户登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	result, err := h.AuthService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithMappedError(c, err, authCommonErrorRules, response.CodeInternal, "login failed")
		return
	}
	response.Success(c, newAuthPayload(result))
}

// Refresh 轮换令牌对
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	result, err := h.AuthService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondWithMappedError(c, err, refreshErrorRules, response.CodeInternal, "token refresh failed")
		return
	}
	response.Success(c, newAuthPayload(result))
}

// Logout 登出，令牌无状态到期失效
func (h *Handler) Logout(c *gin.Context) {
	principal := getPrincipal(c)
	h.AuthService.Logout(c.Request.Context(), principal.UserID)
	response.SuccessWithMsg(c, "logged out", nil)
}

// SendRegisterEmail 发送注册验证码
func (h *Handler) SendRegisterEmail(c *gin.Context) {
	var req SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	if err := h.MailService.SendVerifyCode(c.Request.Context(), req.Email, constants.VerifyPurposeRegister); err != nil {
		respondWithMappedError(c, err, verifyCodeErrorRules, response.CodeInternal, "send verification code failed")
		return
	}
	response.Success(c, gin.H{"sent": true})
}
