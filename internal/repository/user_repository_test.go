package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/yushan-next/user-service/internal/constants"
	"github.com/yushan-next/user-service/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupUserRepositoryTest(t *testing.T) (*GormUserRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:user_repository_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Library{}); err != nil {
		t.Fatalf("migrate user/library failed: %v", err)
	}
	return NewUserRepository(db), db
}

func createRepoTestUser(t *testing.T, repo *GormUserRepository, email, username string) *models.User {
	t.Helper()
	user := &models.User{
		UUID:         uuid.NewString(),
		Email:        email,
		Username:     username,
		HashPassword: "hash",
		Status:       constants.UserStatusNormal,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func TestUserRepositoryLookups(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)
	ctx := context.Background()
	user := createRepoTestUser(t, repo, "reader@example.com", "reader")

	byUUID, err := repo.GetByUUID(ctx, user.UUID)
	if err != nil || byUUID == nil || byUUID.Email != user.Email {
		t.Fatalf("lookup by uuid failed: user=%v err=%v", byUUID, err)
	}
	byEmail, err := repo.GetByEmail(ctx, "reader@example.com")
	if err != nil || byEmail == nil || byEmail.UUID != user.UUID {
		t.Fatalf("lookup by email failed: user=%v err=%v", byEmail, err)
	}
	byUsername, err := repo.GetByUsername(ctx, "reader")
	if err != nil || byUsername == nil || byUsername.UUID != user.UUID {
		t.Fatalf("lookup by username failed: user=%v err=%v", byUsername, err)
	}

	missing, err := repo.GetByUUID(ctx, uuid.NewString())
	if err != nil || missing != nil {
		t.Fatalf("missing user should be nil without error, got user=%v err=%v", missing, err)
	}
}

func TestUserRepositoryCreateWithLibrary(t *testing.T) {
	repo, db := setupUserRepositoryTest(t)
	ctx := context.Background()

	user := &models.User{
		UUID:         uuid.NewString(),
		Email:        "reader@example.com",
		Username:     "reader",
		HashPassword: "hash",
	}
	library := &models.Library{UUID: uuid.NewString()}
	if err := repo.CreateWithLibrary(ctx, user, library); err != nil {
		t.Fatalf("create with library failed: %v", err)
	}
	if library.UserID != user.UUID {
		t.Fatalf("library must bind to user, got %q", library.UserID)
	}

	// 重复邮箱回滚整个事务
	dup := &models.User{
		UUID:         uuid.NewString(),
		Email:        "reader@example.com",
		Username:     "other",
		HashPassword: "hash",
	}
	if err := repo.CreateWithLibrary(ctx, dup, &models.Library{UUID: uuid.NewString()}); err == nil {
		t.Fatalf("duplicate email should fail")
	}
	var libraryCount int64
	if err := db.Model(&models.Library{}).Count(&libraryCount).Error; err != nil {
		t.Fatalf("count libraries failed: %v", err)
	}
	if libraryCount != 1 {
		t.Fatalf("rolled-back transaction must not leave a library, got %d", libraryCount)
	}
}

func TestUserRepositoryUpdateFields(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)
	ctx := context.Background()
	user := createRepoTestUser(t, repo, "reader@example.com", "reader")

	at := time.Now().Truncate(time.Second)
	err := repo.UpdateFields(ctx, user.UUID, map[string]interface{}{
		"last_login": at,
		"level":      3,
	})
	if err != nil {
		t.Fatalf("update fields failed: %v", err)
	}

	reloaded, err := repo.GetByUUID(ctx, user.UUID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload failed: user=%v err=%v", reloaded, err)
	}
	if reloaded.Level != 3 {
		t.Fatalf("level want 3 got %d", reloaded.Level)
	}
	if reloaded.LastLogin == nil || !reloaded.LastLogin.Equal(at) {
		t.Fatalf("unexpected last login: %v", reloaded.LastLogin)
	}
}

func TestUserRepositoryList(t *testing.T) {
	repo, db := setupUserRepositoryTest(t)
	ctx := context.Background()

	seed := []struct {
		email    string
		username string
		status   int
		isAdmin  bool
		isAuthor bool
	}{
		{"alpha@example.com", "alpha", constants.UserStatusNormal, true, false},
		{"bravo@example.com", "bravo", constants.UserStatusNormal, false, true},
		{"charlie@example.com", "charlie", constants.UserStatusBanned, false, false},
		{"delta@example.com", "searchable-delta", constants.UserStatusNormal, false, false},
	}
	for _, s := range seed {
		user := &models.User{
			UUID:         uuid.NewString(),
			Email:        s.email,
			Username:     s.username,
			HashPassword: "hash",
			Status:       s.status,
			IsAdmin:      s.isAdmin,
			IsAuthor:     s.isAuthor,
		}
		if err := db.Create(user).Error; err != nil {
			t.Fatalf("seed user failed: %v", err)
		}
	}

	users, total, err := repo.List(ctx, UserListFilter{Pagination: Pagination{Page: 1, Size: 10}})
	if err != nil || total != 4 || len(users) != 4 {
		t.Fatalf("unfiltered list mismatch: total=%d len=%d err=%v", total, len(users), err)
	}

	banned := constants.UserStatusBanned
	users, total, err = repo.List(ctx, UserListFilter{Status: &banned, Pagination: Pagination{Page: 1, Size: 10}})
	if err != nil || total != 1 || users[0].Email != "charlie@example.com" {
		t.Fatalf("status filter mismatch: total=%d err=%v", total, err)
	}

	isAdmin := true
	users, total, err = repo.List(ctx, UserListFilter{IsAdmin: &isAdmin, Pagination: Pagination{Page: 1, Size: 10}})
	if err != nil || total != 1 || users[0].Email != "alpha@example.com" {
		t.Fatalf("admin filter mismatch: total=%d err=%v", total, err)
	}

	users, total, err = repo.List(ctx, UserListFilter{Keyword: "searchable", Pagination: Pagination{Page: 1, Size: 10}})
	if err != nil || total != 1 || users[0].Username != "searchable-delta" {
		t.Fatalf("keyword filter mismatch: total=%d err=%v", total, err)
	}

	users, total, err = repo.List(ctx, UserListFilter{
		SortBy:     "username",
		SortOrder:  "asc",
		Pagination: Pagination{Page: 2, Size: 3},
	})
	if err != nil || total != 4 || len(users) != 1 {
		t.Fatalf("paged list mismatch: total=%d len=%d err=%v", total, len(users), err)
	}
	if users[0].Username != "searchable-delta" {
		t.Fatalf("sort order mismatch: got %s", users[0].Username)
	}

	users, _, err = repo.List(ctx, UserListFilter{
		SortBy:     "definitely-not-a-column",
		Pagination: Pagination{Page: 1, Size: 10},
	})
	if err != nil {
		t.Fatalf("unknown sort column must fall back, got %v", err)
	}
	if len(users) != 4 {
		t.Fatalf("fallback sort should still return rows, got %d", len(users))
	}
}
