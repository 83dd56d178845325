package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yushan-next/user-service/internal/config"
	"github.com/yushan-next/user-service/internal/models"

	"github.com/google/uuid"
)

func newTestTokenService() *TokenService {
	return NewTokenService(&config.JWTConfig{
		Secret:               "unit-test-secret-key-0123456789abcdef",
		Issuer:               "yushan-test",
		AccessExpireMinutes:  15,
		RefreshExpireMinutes: 7 * 24 * 60,
	})
}

func newTokenTestUser() *models.User {
	return &models.User{
		UUID:     uuid.NewString(),
		Email:    "reader@example.com",
		Username: "reader",
		IsAuthor: true,
		IsAdmin:  false,
	}
}

func TestTokenServiceMintAndParse(t *testing.T) {
	tokens := newTestTokenService()
	user := newTokenTestUser()

	pair, err := tokens.Mint(user)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected non-empty token pair")
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatalf("access and refresh tokens must differ")
	}
	if pair.ExpiresIn != 15*60 {
		t.Fatalf("expected expiresIn 900, got %d", pair.ExpiresIn)
	}

	claims, err := tokens.ParseAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse access failed: %v", err)
	}
	if claims.UserID != user.UUID {
		t.Fatalf("userId mismatch: %s != %s", claims.UserID, user.UUID)
	}
	if claims.Email != user.Email || claims.Subject != user.Email {
		t.Fatalf("email claims mismatch")
	}
	if !claims.IsAuthor || claims.IsAdmin {
		t.Fatalf("role claims mismatch: author=%v admin=%v", claims.IsAuthor, claims.IsAdmin)
	}
	if claims.ID == "" {
		t.Fatalf("expected jti to be set")
	}

	refreshClaims, err := tokens.ParseRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("parse refresh failed: %v", err)
	}
	if refreshClaims.ID == claims.ID {
		t.Fatalf("access and refresh must carry distinct jti")
	}
}

func TestTokenServiceRejectsWrongType(t *testing.T) {
	tokens := newTestTokenService()
	pair, err := tokens.Mint(newTokenTestUser())
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if _, err := tokens.ParseAccess(pair.RefreshToken); !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("expected ErrWrongTokenType, got %v", err)
	}
	if _, err := tokens.ParseRefresh(pair.AccessToken); !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("expected ErrWrongTokenType, got %v", err)
	}
}

func TestTokenServiceRejectsTamperedToken(t *testing.T) {
	tokens := newTestTokenService()
	pair, err := tokens.Mint(newTokenTestUser())
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	parts := strings.Split(pair.AccessToken, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape")
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := tokens.Parse(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}

	other := NewTokenService(&config.JWTConfig{Secret: "another-secret-key-0123456789abcdef"})
	if _, err := other.Parse(pair.AccessToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for wrong secret, got %v", err)
	}
}

func TestTokenServiceRejectsExpiredToken(t *testing.T) {
	tokens := newTestTokenService()
	tokens.accessTTL = -time.Minute

	pair, err := tokens.Mint(newTokenTestUser())
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if _, err := tokens.Parse(pair.AccessToken); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}
