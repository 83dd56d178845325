package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/yushan-next/user-service/internal/client"
	"github.com/yushan-next/user-service/internal/models"
	"github.com/yushan-next/user-service/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeContentLookup struct {
	novels map[int64]client.NovelInfo
}

func (f *fakeContentLookup) GetNovel(ctx context.Context, novelID int64) *client.NovelInfo {
	if info, ok := f.novels[novelID]; ok {
		return &info
	}
	return nil
}

func (f *fakeContentLookup) GetNovels(ctx context.Context, novelIDs []int64) []client.NovelInfo {
	result := make([]client.NovelInfo, 0, len(novelIDs))
	for _, id := range novelIDs {
		if info, ok := f.novels[id]; ok {
			result = append(result, info)
		}
	}
	return result
}

func setupLibraryServiceTest(t *testing.T) (*LibraryService, *fakeContentLookup) {
	t.Helper()
	dsn := fmt.Sprintf("file:library_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Library{}, &models.NovelLibrary{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	content := &fakeContentLookup{novels: map[int64]client.NovelInfo{}}
	return NewLibraryService(repository.NewLibraryRepository(db), content), content
}

func TestLibraryServiceAutoCreates(t *testing.T) {
	svc, _ := setupLibraryServiceTest(t)
	ctx := context.Background()
	userID := uuid.NewString()

	library, err := svc.GetLibrary(ctx, userID)
	if err != nil {
		t.Fatalf("get library failed: %v", err)
	}
	if library.UserID != userID || library.UUID == "" {
		t.Fatalf("unexpected library: %+v", library)
	}

	again, err := svc.GetLibrary(ctx, userID)
	if err != nil {
		t.Fatalf("get library again failed: %v", err)
	}
	if again.ID != library.ID {
		t.Fatalf("expected same library, got %d and %d", library.ID, again.ID)
	}
}

func TestLibraryServiceAddAndRemove(t *testing.T) {
	svc, _ := setupLibraryServiceTest(t)
	ctx := context.Background()
	userID := uuid.NewString()

	entry, err := svc.AddNovel(ctx, userID, 101, 0)
	if err != nil {
		t.Fatalf("add novel failed: %v", err)
	}
	if entry.NovelID != 101 || entry.Progress != 0 {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	if _, err := svc.AddNovel(ctx, userID, 101, 0); !errors.Is(err, ErrNovelAlreadyInLibrary) {
		t.Fatalf("expected ErrNovelAlreadyInLibrary, got %v", err)
	}
	if _, err := svc.AddNovel(ctx, userID, 102, -1); !errors.Is(err, ErrInvalidProgress) {
		t.Fatalf("expected ErrInvalidProgress, got %v", err)
	}

	in, err := svc.Contains(ctx, userID, 101)
	if err != nil || !in {
		t.Fatalf("expected novel in library, got in=%v err=%v", in, err)
	}
	in, err = svc.Contains(ctx, userID, 999)
	if err != nil || in {
		t.Fatalf("expected novel absent, got in=%v err=%v", in, err)
	}

	if err := svc.RemoveNovel(ctx, userID, 101); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := svc.RemoveNovel(ctx, userID, 101); !errors.Is(err, ErrNovelNotInLibrary) {
		t.Fatalf("expected ErrNovelNotInLibrary, got %v", err)
	}
}

func TestLibraryServiceBatchRemove(t *testing.T) {
	svc, _ := setupLibraryServiceTest(t)
	ctx := context.Background()
	userID := uuid.NewString()

	for _, id := range []int64{1, 2, 3} {
		if _, err := svc.AddNovel(ctx, userID, id, 0); err != nil {
			t.Fatalf("add novel %d failed: %v", id, err)
		}
	}

	removed, err := svc.RemoveNovels(ctx, userID, []int64{1, 3, 42})
	if err != nil {
		t.Fatalf("batch remove failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}

	in, err := svc.Contains(ctx, userID, 2)
	if err != nil || !in {
		t.Fatalf("expected novel 2 to survive, got in=%v err=%v", in, err)
	}
}

func TestLibraryServiceGetEntryEnrichment(t *testing.T) {
	svc, content := setupLibraryServiceTest(t)
	ctx := context.Background()
	userID := uuid.NewString()
	content.novels[7] = client.NovelInfo{ID: 7, Title: "山河录", Status: "ongoing"}

	if _, err := svc.AddNovel(ctx, userID, 7, 12); err != nil {
		t.Fatalf("add novel failed: %v", err)
	}

	entry, err := svc.GetEntry(ctx, userID, 7)
	if err != nil {
		t.Fatalf("get entry failed: %v", err)
	}
	if entry.Progress != 12 {
		t.Fatalf("unexpected progress: %d", entry.Progress)
	}
	if entry.Novel == nil || entry.Novel.Title != "山河录" {
		t.Fatalf("expected enriched novel info, got %+v", entry.Novel)
	}

	if _, err := svc.GetEntry(ctx, userID, 8); !errors.Is(err, ErrNovelNotInLibrary) {
		t.Fatalf("expected ErrNovelNotInLibrary, got %v", err)
	}
}

func TestLibraryServiceListNovels(t *testing.T) {
	svc, content := setupLibraryServiceTest(t)
	ctx := context.Background()
	userID := uuid.NewString()
	content.novels[1] = client.NovelInfo{ID: 1, Title: "first"}
	content.novels[2] = client.NovelInfo{ID: 2, Title: "second"}

	for _, id := range []int64{1, 2, 3} {
		if _, err := svc.AddNovel(ctx, userID, id, 0); err != nil {
			t.Fatalf("add novel %d failed: %v", id, err)
		}
	}

	page, err := svc.ListNovels(ctx, userID, repository.Pagination{Page: 1, Size: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Total != 3 || len(page.Entries) != 3 {
		t.Fatalf("expected 3 entries, got total=%d len=%d", page.Total, len(page.Entries))
	}

	byID := make(map[int64]LibraryEntry, len(page.Entries))
	for _, entry := range page.Entries {
		byID[entry.NovelID] = entry
	}
	if byID[1].Novel == nil || byID[1].Novel.Title != "first" {
		t.Fatalf("expected novel 1 enriched, got %+v", byID[1].Novel)
	}
	if byID[3].Novel != nil {
		t.Fatalf("expected novel 3 without content info, got %+v", byID[3].Novel)
	}

	paged, err := svc.ListNovels(ctx, userID, repository.Pagination{Page: 2, Size: 2})
	if err != nil {
		t.Fatalf("paged list failed: %v", err)
	}
	if paged.Total != 3 || len(paged.Entries) != 1 {
		t.Fatalf("expected second page with 1 entry, got total=%d len=%d", paged.Total, len(paged.Entries))
	}
	if paged.Page != 2 || paged.Size != 2 {
		t.Fatalf("unexpected page metadata: page=%d size=%d", paged.Page, paged.Size)
	}
}

func TestLibraryServiceUpdateProgress(t *testing.T) {
	svc, _ := setupLibraryServiceTest(t)
	ctx := context.Background()
	userID := uuid.NewString()

	if _, err := svc.AddNovel(ctx, userID, 5, 0); err != nil {
		t.Fatalf("add novel failed: %v", err)
	}
	if err := svc.UpdateProgress(ctx, userID, 5, 30); err != nil {
		t.Fatalf("update progress failed: %v", err)
	}
	entry, err := svc.GetEntry(ctx, userID, 5)
	if err != nil {
		t.Fatalf("get entry failed: %v", err)
	}
	if entry.Progress != 30 {
		t.Fatalf("expected progress 30, got %d", entry.Progress)
	}

	if err := svc.UpdateProgress(ctx, userID, 5, -1); !errors.Is(err, ErrInvalidProgress) {
		t.Fatalf("expected ErrInvalidProgress, got %v", err)
	}
	if err := svc.UpdateProgress(ctx, userID, 99, 10); !errors.Is(err, ErrNovelNotInLibrary) {
		t.Fatalf("expected ErrNovelNotInLibrary, got %v", err)
	}
}
