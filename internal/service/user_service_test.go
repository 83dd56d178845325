package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/yushan-next/user-service/internal/config"
	"github.com/yushan-next/user-service/internal/constants"
	"github.com/yushan-next/user-service/internal/models"
	"github.com/yushan-next/user-service/internal/queue"
	"github.com/yushan-next/user-service/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupUserServiceTest(t *testing.T) (*UserService, *MailService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:user_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	mail := NewMailService(&config.EmailConfig{Enabled: false}, queueClient)
	return NewUserService(repository.NewUserRepository(db), mail), mail, db
}

func seedProfileTestUser(t *testing.T, db *gorm.DB, email, username string) *models.User {
	t.Helper()
	user := &models.User{
		UUID:         uuid.NewString(),
		Email:        email,
		Username:     username,
		HashPassword: "hash",
		Status:       constants.UserStatusNormal,
		Gender:       constants.GenderUnknown,
		AvatarURL:    constants.AvatarUnknown,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func TestUserServiceGetPublicProfile(t *testing.T) {
	svc, _, db := setupUserServiceTest(t)
	ctx := context.Background()
	user := seedProfileTestUser(t, db, "reader@example.com", "reader")

	profile, err := svc.GetPublicProfile(ctx, user.UUID)
	if err != nil {
		t.Fatalf("get public profile failed: %v", err)
	}
	if profile.UUID != user.UUID || profile.Username != "reader" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	if _, err := svc.GetPublicProfile(ctx, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserServiceUpdateProfile(t *testing.T) {
	svc, _, db := setupUserServiceTest(t)
	ctx := context.Background()
	user := seedProfileTestUser(t, db, "reader@example.com", "reader")
	seedProfileTestUser(t, db, "other@example.com", "taken")

	newName := "bookworm"
	detail := "  night owl  "
	birthday := time.Date(1999, 4, 2, 0, 0, 0, 0, time.UTC)
	gender := constants.GenderMale
	updated, err := svc.UpdateProfile(ctx, user.UUID, ProfileUpdate{
		Username:      &newName,
		ProfileDetail: &detail,
		Birthday:      &birthday,
		Gender:        &gender,
	})
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.Username != "bookworm" {
		t.Fatalf("expected renamed user, got %q", updated.Username)
	}
	if updated.ProfileDetail != "night owl" {
		t.Fatalf("expected trimmed detail, got %q", updated.ProfileDetail)
	}
	if updated.Birthday == nil || !updated.Birthday.Equal(birthday) {
		t.Fatalf("unexpected birthday: %v", updated.Birthday)
	}
	if updated.Gender != constants.GenderMale {
		t.Fatalf("unexpected gender: %d", updated.Gender)
	}

	taken := "taken"
	if _, err := svc.UpdateProfile(ctx, user.UUID, ProfileUpdate{Username: &taken}); !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}

	badGender := 9
	if _, err := svc.UpdateProfile(ctx, user.UUID, ProfileUpdate{Gender: &badGender}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	// 同名更新不触发占用检查
	same := "bookworm"
	if _, err := svc.UpdateProfile(ctx, user.UUID, ProfileUpdate{Username: &same}); err != nil {
		t.Fatalf("same-name update failed: %v", err)
	}
}

func TestUserServiceChangeEmail(t *testing.T) {
	svc, mail, db := setupUserServiceTest(t)
	ctx := context.Background()
	user := seedProfileTestUser(t, db, "reader@example.com", "reader")
	seedProfileTestUser(t, db, "occupied@example.com", "occupied")

	if err := svc.SendEmailChangeCode(ctx, user.UUID, "Reader@Example.com"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail for same address, got %v", err)
	}
	if err := svc.SendEmailChangeCode(ctx, user.UUID, "occupied@example.com"); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	if err := svc.SendEmailChangeCode(ctx, user.UUID, "fresh@example.com"); err != nil {
		t.Fatalf("send change code failed: %v", err)
	}
	code := storedVerifyCode(t, mail, "fresh@example.com", constants.VerifyPurposeChangeEmail)

	if _, err := svc.ChangeEmail(ctx, user.UUID, "fresh@example.com", "bogus"); !errors.Is(err, ErrVerifyCodeInvalid) {
		t.Fatalf("expected ErrVerifyCodeInvalid, got %v", err)
	}

	changed, err := svc.ChangeEmail(ctx, user.UUID, "fresh@example.com", code)
	if err != nil {
		t.Fatalf("change email failed: %v", err)
	}
	if changed.Email != "fresh@example.com" || !changed.EmailVerified {
		t.Fatalf("unexpected user after change: email=%q verified=%v", changed.Email, changed.EmailVerified)
	}
}

func TestUserServiceUpdateLastActive(t *testing.T) {
	svc, _, db := setupUserServiceTest(t)
	ctx := context.Background()
	user := seedProfileTestUser(t, db, "reader@example.com", "reader")

	at := time.Now().Add(-time.Minute).Truncate(time.Second)
	if err := svc.UpdateLastActive(ctx, user.UUID, at); err != nil {
		t.Fatalf("update last active failed: %v", err)
	}

	reloaded, err := svc.GetByUUID(ctx, user.UUID)
	if err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if reloaded.LastActive == nil || !reloaded.LastActive.Equal(at) {
		t.Fatalf("unexpected last active: %v", reloaded.LastActive)
	}
}
