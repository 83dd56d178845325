package shared

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParsePagination 从查询参数解析分页。
func ParsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	return NormalizePagination(page, size)
}

// NormalizePagination 归一化分页参数。
func NormalizePagination(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	return page, size
}
