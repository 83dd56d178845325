package repository

import "gorm.io/gorm"

// Pagination 分页参数
type Pagination struct {
	Page int
	Size int
}

// Normalize 归一化分页参数
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 {
		p.Size = 10
	}
	if p.Size > 100 {
		p.Size = 100
	}
	return p
}

// Offset 计算 SQL 偏移量
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Size
}

func applyPagination(query *gorm.DB, p Pagination) *gorm.DB {
	p = p.Normalize()
	return query.Offset(p.Offset()).Limit(p.Size)
}
