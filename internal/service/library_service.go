package service

import (
	"context"

	"github.com/yushan-next/user-service/internal/client"
	"github.com/yushan-next/user-service/internal/models"
	"github.com/yushan-next/user-service/internal/repository"

	"github.com/google/uuid"
)

// ContentLookup 内容服务查询接口
type ContentLookup interface {
	GetNovel(ctx context.Context, novelID int64) *client.NovelInfo
	GetNovels(ctx context.Context, novelIDs []int64) []client.NovelInfo
}

// LibraryService 阅读书架服务
type LibraryService struct {
	libraryRepo repository.LibraryRepository
	content     ContentLookup
}

// NewLibraryService 创建书架服务
func NewLibraryService(libraryRepo repository.LibraryRepository, content ContentLookup) *LibraryService {
	return &LibraryService{libraryRepo: libraryRepo, content: content}
}

// LibraryEntry 书架条目，附带内容服务的小说信息
type LibraryEntry struct {
	NovelID  int64             `json:"novelId"`
	Progress int               `json:"progress"`
	Novel    *client.NovelInfo `json:"novel,omitempty"`
}

// LibraryPage 书架分页结果
type LibraryPage struct {
	Entries []LibraryEntry `json:"entries"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	Size    int            `json:"size"`
}

// GetLibrary 获取用户书架，不存在时自动补建
func (s *LibraryService) GetLibrary(ctx context.Context, userID string) (*models.Library, error) {
	library, err := s.libraryRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if library == nil {
		library = &models.Library{
			UUID:   uuid.NewString(),
			UserID: userID,
		}
		if err := s.libraryRepo.Create(ctx, library); err != nil {
			return nil, err
		}
	}
	return library, nil
}

// AddNovel 将小说加入书架
func (s *LibraryService) AddNovel(ctx context.Context, userID string, novelID int64, progress int) (*models.NovelLibrary, error) {
	if progress < 0 {
		return nil, ErrInvalidProgress
	}
	library, err := s.GetLibrary(ctx, userID)
	if err != nil {
		return nil, err
	}
	exist, err := s.libraryRepo.GetNovel(ctx, library.ID, novelID)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrNovelAlreadyInLibrary
	}

	entry := &models.NovelLibrary{
		LibraryID: library.ID,
		NovelID:   novelID,
		Progress:  progress,
	}
	if err := s.libraryRepo.AddNovel(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// RemoveNovel 从书架移除小说
func (s *LibraryService) RemoveNovel(ctx context.Context, userID string, novelID int64) error {
	library, err := s.GetLibrary(ctx, userID)
	if err != nil {
		return err
	}
	affected, err := s.libraryRepo.RemoveNovel(ctx, library.ID, novelID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNovelNotInLibrary
	}
	return nil
}

// RemoveNovels 批量移除小说，返回实际移除数量
func (s *LibraryService) RemoveNovels(ctx context.Context, userID string, novelIDs []int64) (int64, error) {
	library, err := s.GetLibrary(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.libraryRepo.RemoveNovels(ctx, library.ID, novelIDs)
}

// Contains 判断小说是否在书架中
func (s *LibraryService) Contains(ctx context.Context, userID string, novelID int64) (bool, error) {
	library, err := s.GetLibrary(ctx, userID)
	if err != nil {
		return false, err
	}
	entry, err := s.libraryRepo.GetNovel(ctx, library.ID, novelID)
	if err != nil {
		return false, err
	}
	return entry != nil, nil
}

// GetEntry 查询书架中的单条记录
func (s *LibraryService) GetEntry(ctx context.Context, userID string, novelID int64) (*LibraryEntry, error) {
	library, err := s.GetLibrary(ctx, userID)
	if err != nil {
		return nil, err
	}
	entry, err := s.libraryRepo.GetNovel(ctx, library.ID, novelID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNovelNotInLibrary
	}
	result := &LibraryEntry{NovelID: entry.NovelID, Progress: entry.Progress}
	if s.content != nil {
		result.Novel = s.content.GetNovel(ctx, entry.NovelID)
	}
	return result, nil
}

// ListNovels 分页列出书架内容，批量补充小说信息
func (s *LibraryService) ListNovels(ctx context.Context, userID string, p repository.Pagination) (*LibraryPage, error) {
	library, err := s.GetLibrary(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries, total, err := s.libraryRepo.ListNovels(ctx, library.ID, p)
	if err != nil {
		return nil, err
	}

	page := &LibraryPage{
		Entries: make([]LibraryEntry, 0, len(entries)),
		Total:   total,
		Page:    p.Normalize().Page,
		Size:    p.Normalize().Size,
	}
	if len(entries) == 0 {
		return page, nil
	}

	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.NovelID)
	}
	infoByID := make(map[int64]*client.NovelInfo, len(ids))
	if s.content != nil {
		novels := s.content.GetNovels(ctx, ids)
		for i := range novels {
			infoByID[novels[i].ID] = &novels[i]
		}
	}
	for _, entry := range entries {
		page.Entries = append(page.Entries, LibraryEntry{
			NovelID:  entry.NovelID,
			Progress: entry.Progress,
			Novel:    infoByID[entry.NovelID],
		})
	}
	return page, nil
}

// UpdateProgress 更新阅读进度
func (s *LibraryService) UpdateProgress(ctx context.Context, userID string, novelID int64, progress int) error {
	if progress < 0 {
		return ErrInvalidProgress
	}
	library, err := s.GetLibrary(ctx, userID)
	if err != nil {
		return err
	}
	affected, err := s.libraryRepo.UpdateProgress(ctx, library.ID, novelID, progress)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNovelNotInLibrary
	}
	return nil
}
