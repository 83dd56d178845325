package admin

import (
	"errors"
	"strconv"

	handlershared "github.com/yushan-next/user-service/internal/http/handlers/shared"
	"github.com/yushan-next/user-service/internal/http/response"
	"github.com/yushan-next/user-service/internal/repository"
	"github.com/yushan-next/user-service/internal/service"

	"github.com/gin-gonic/gin"
)

// PromoteRequest 提升管理员请求
type PromoteRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// UpdateStatusRequest 修改用户状态请求
type UpdateStatusRequest struct {
	Status *int `json:"status" binding:"required"`
}

func respondAdminError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		handlershared.RespondError(c, response.CodeNotFound, "user not found", nil)
	case errors.Is(err, service.ErrAlreadyAdmin):
		handlershared.RespondError(c, response.CodeConflict, "user is already an admin", nil)
	case errors.Is(err, service.ErrInvalidStatus):
		handlershared.RespondError(c, response.CodeBadRequest, "invalid user status", nil)
	default:
		handlershared.RespondError(c, response.CodeInternal, fallbackMsg, err)
	}
}

// PromoteToAdmin 将用户提升为管理员
func (h *Handler) PromoteToAdmin(c *gin.Context) {
	principal, ok := handlershared.RequirePrincipal(c)
	if !ok {
		return
	}
	var req PromoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	user, err := h.AdminService.PromoteToAdmin(c.Request.Context(), principal.UserID, req.UserID)
	if err != nil {
		respondAdminError(c, err, "promote failed")
		return
	}
	response.Success(c, user)
}

// ListUsers 按条件分页查询用户
func (h *Handler) ListUsers(c *gin.Context) {
	page, size := handlershared.ParsePagination(c)
	filter := repository.UserListFilter{
		Keyword:    c.Query("keyword"),
		SortBy:     c.DefaultQuery("sortBy", "createTime"),
		SortOrder:  c.DefaultQuery("sortOrder", "desc"),
		Pagination: repository.Pagination{Page: page, Size: size},
	}
	if raw := c.Query("status"); raw != "" {
		status, err := strconv.Atoi(raw)
		if err != nil {
			handlershared.RespondError(c, response.CodeBadRequest, "invalid status filter", nil)
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("isAdmin"); raw != "" {
		isAdmin, err := strconv.ParseBool(raw)
		if err != nil {
			handlershared.RespondError(c, response.CodeBadRequest, "invalid isAdmin filter", nil)
			return
		}
		filter.IsAdmin = &isAdmin
	}
	if raw := c.Query("isAuthor"); raw != "" {
		isAuthor, err := strconv.ParseBool(raw)
		if err != nil {
			handlershared.RespondError(c, response.CodeBadRequest, "invalid isAuthor filter", nil)
			return
		}
		filter.IsAuthor = &isAuthor
	}

	users, total, err := h.AdminService.ListUsers(c.Request.Context(), filter)
	if err != nil {
		respondAdminError(c, err, "list users failed")
		return
	}
	response.SuccessWithPage(c, users, response.NewPagination(page, size, total))
}

// UpdateUserStatus 修改用户状态
func (h *Handler) UpdateUserStatus(c *gin.Context) {
	principal, ok := handlershared.RequirePrincipal(c)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == nil {
		handlershared.RespondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	user, err := h.AdminService.UpdateStatus(c.Request.Context(), principal.UserID, c.Param("uuid"), *req.Status)
	if err != nil {
		respondAdminError(c, err, "update status failed")
		return
	}
	response.Success(c, user)
}
