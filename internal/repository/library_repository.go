package repository

import (
	"context"
	"errors"

	"github.com/yushan-next/user-service/internal/models"

	"gorm.io/gorm"
)

// LibraryRepository 书架数据访问接口
type LibraryRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Library, error)
	Create(ctx context.Context, library *models.Library) error
	AddNovel(ctx context.Context, entry *models.NovelLibrary) error
	RemoveNovel(ctx context.Context, libraryID uint, novelID int64) (int64, error)
	RemoveNovels(ctx context.Context, libraryID uint, novelIDs []int64) (int64, error)
	GetNovel(ctx context.Context, libraryID uint, novelID int64) (*models.NovelLibrary, error)
	ListNovels(ctx context.Context, libraryID uint, p Pagination) ([]models.NovelLibrary, int64, error)
	UpdateProgress(ctx context.Context, libraryID uint, novelID int64, progress int) (int64, error)
}

// GormLibraryRepository 基于 GORM 的书架仓储
type GormLibraryRepository struct {
	db *gorm.DB
}

// NewLibraryRepository 创建书架仓储
func NewLibraryRepository(db *gorm.DB) *GormLibraryRepository {
	return &GormLibraryRepository{db: db}
}

// GetByUserID 查询用户书架
func (r *GormLibraryRepository) GetByUserID(ctx context.Context, userID string) (*models.Library, error) {
	var library models.Library
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&library).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &library, nil
}

// Create 创建书架
func (r *GormLibraryRepository) Create(ctx context.Context, library *models.Library) error {
	return r.db.WithContext(ctx).Create(library).Error
}

// AddNovel 向书架添加小说
func (r *GormLibraryRepository) AddNovel(ctx context.Context, entry *models.NovelLibrary) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// RemoveNovel 从书架移除小说
func (r *GormLibraryRepository) RemoveNovel(ctx context.Context, libraryID uint, novelID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("library_id = ? AND novel_id = ?", libraryID, novelID).
		Delete(&models.NovelLibrary{})
	return result.RowsAffected, result.Error
}

// RemoveNovels 批量移除小说
func (r *GormLibraryRepository) RemoveNovels(ctx context.Context, libraryID uint, novelIDs []int64) (int64, error) {
	if len(novelIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("library_id = ? AND novel_id IN ?", libraryID, novelIDs).
		Delete(&models.NovelLibrary{})
	return result.RowsAffected, result.Error
}

// GetNovel 查询书架中的单条小说记录
func (r *GormLibraryRepository) GetNovel(ctx context.Context, libraryID uint, novelID int64) (*models.NovelLibrary, error) {
	var entry models.NovelLibrary
	err := r.db.WithContext(ctx).
		Where("library_id = ? AND novel_id = ?", libraryID, novelID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListNovels 分页查询书架内容
func (r *GormLibraryRepository) ListNovels(ctx context.Context, libraryID uint, p Pagination) ([]models.NovelLibrary, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.NovelLibrary{}).
		Where("library_id = ?", libraryID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.NovelLibrary
	err := applyPagination(query, p).
		Order("update_time DESC").
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// UpdateProgress 更新阅读进度
func (r *GormLibraryRepository) UpdateProgress(ctx context.Context, libraryID uint, novelID int64, progress int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.NovelLibrary{}).
		Where("library_id = ? AND novel_id = ?", libraryID, novelID).
		Update("progress", progress)
	return result.RowsAffected, result.Error
}
