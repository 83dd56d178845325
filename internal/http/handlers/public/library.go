package public

import (
	"strconv"

	handlershared "github.com/yushan-next/user-service/internal/http/handlers/shared"
	"github.com/yushan-next/user-service/internal/http/response"
	"github.com/yushan-next/user-service/internal/repository"

	"github.com/gin-gonic/gin"
)

// AddNovelRequest 添加小说请求
type AddNovelRequest struct {
	NovelID  int64 `json:"novelId" binding:"required"`
	Progress int   `json:"progress"`
}

// BatchRemoveRequest 批量移除请求
type BatchRemoveRequest struct {
	NovelIDs []int64 `json:"novelIds" binding:"required"`
}

// UpdateProgressRequest 更新进度请求
type UpdateProgressRequest struct {
	Progress int `json:"progress"`
}

func parseNovelID(c *gin.Context) (int64, bool) {
	novelID, err := strconv.ParseInt(c.Param("novelId"), 10, 64)
	if err != nil || novelID <= 0 {
		respondError(c, response.CodeBadRequest, "invalid novel id", nil)
		return 0, false
	}
	return novelID, true
}

// GetLibrary 查询书架
func (h *Handler) GetLibrary(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	library, err := h.LibraryService.GetLibrary(c.Request.Context(), principal.UserID)
	if err != nil {
		respondWithMappedError(c, err, libraryErrorRules, response.CodeInternal, "query library failed")
		return
	}
	response.Success(c, library)
}

// ListLibraryNovels 分页列出书架内容
func (h *Handler) ListLibraryNovels(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	page, size := handlershared.ParsePagination(c)
	result, err := h.LibraryService.ListNovels(c.Request.Context(), principal.UserID, repository.Pagination{
		Page: page,
		Size: size,
	})
	if err != nil {
		respondWithMappedError(c, err, libraryErrorRules, response.CodeInternal, "query library failed")
		return
	}
	response.SuccessWithPage(c, result.Entries, response.NewPagination(result.Page, result.Size, result.Total))
}

// AddNovel 将小说加入书架
func (h *Handler) AddNovel(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req AddNovelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	entry, err := h.LibraryService.AddNovel(c.Request.Context(), principal.UserID, req.NovelID, req.Progress)
	if err != nil {
		respondWithMappedError(c, err, libraryErrorRules, response.CodeInternal, "add novel failed")
		return
	}
	response.Success(c, entry)
}

// RemoveNovel 从书架移除小说
func (h *Handler) RemoveNovel(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	novelID, ok := parseNovelID(c)
	if !ok {
		return
	}

	if err := h.LibraryService.RemoveNovel(c.Request.Context(), principal.UserID, novelID); err != nil {
		respondWithMappedError(c, err, libraryErrorRules, response.CodeInternal, "remove novel failed")
		return
	}
	response.SuccessWithMsg(c, "removed", nil)
}

// BatchRemoveNovels 批量移除小说
func (h *Handler) BatchRemoveNovels(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req BatchRemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	removed, err := h.LibraryService.RemoveNovels(c.Request.Context(), principal.UserID, req.NovelIDs)
	if err != nil {
		respondWithMappedError(c, err, libraryErrorRules, response.CodeInternal, "remove novels failed")
		return
	}
	response.Success(c, gin.H{"removed": removed})
}

// CheckNovel 判断小说是否在书架中
func (h *Handler) CheckNovel(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	novelID, ok := parseNovelID(c)
	if !ok {
		return
	}

	contains, err := h.LibraryService.Contains(c.Request.Context(), principal.UserID, novelID)
	if err != nil {
		respondWithMappedError(c, err, libraryErrorRules, response.CodeInternal, "query library failed")
		return
	}
	response.Success(c, gin.H{"inLibrary": contains})
}

// GetNovelEntry 查询书架中的单条记录
func (h *Handler) GetNovelEntry(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	novelID, ok := parseNovelID(c)
	if !ok {
		return
	}

	entry, err := h.LibraryService.GetEntry(c.Request.Context(), principal.UserID, novelID)
	if err != nil {
		respondWithMappedError(c, err, libraryErrorRules, response.CodeInternal, "query library failed")
		return
	}
	response.Success(c, entry)
}

// UpdateProgress 更新阅读进度
func (h *Handler) UpdateProgress(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	novelID, ok := parseNovelID(c)
	if !ok {
		return
	}
	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	if err := h.LibraryService.UpdateProgress(c.Request.Context(), principal.UserID, novelID, req.Progress); err != nil {
		respondWithMappedError(c, err, libraryErrorRules, response.CodeInternal, "update progress failed")
		return
	}
	response.SuccessWithMsg(c, "updated", nil)
}
