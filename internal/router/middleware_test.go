package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/yushan-next/user-service/internal/authz"
	"github.com/yushan-next/user-service/internal/config"
	"github.com/yushan-next/user-service/internal/constants"
	"github.com/yushan-next/user-service/internal/models"
	"github.com/yushan-next/user-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newMiddlewareTestTokens() *service.TokenService {
	return service.NewTokenService(&config.JWTConfig{
		Secret:               "unit-test-secret-key-0123456789abcdef",
		Issuer:               "yushan-test",
		AccessExpireMinutes:  15,
		RefreshExpireMinutes: 7 * 24 * 60,
	})
}

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	if w2.Header().Get(requestIDHeader) == "" {
		t.Fatalf("generated request id should not be empty")
	}
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := newMiddlewareTestTokens()

	r := gin.New()
	r.Use(AuthMiddleware(tokens))
	r.GET("/me", func(c *gin.Context) {
		value, _ := c.Get(constants.ContextPrincipalKey)
		principal := value.(authz.Principal)
		c.JSON(http.StatusOK, gin.H{"user_id": principal.UserID, "admin": principal.Admin})
	})

	user := &models.User{UUID: uuid.NewString(), Email: "reader@example.com", IsAdmin: true}
	pair, err := tokens.Mint(user)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	var resp struct {
		UserID string `json:"user_id"`
		Admin  bool   `json:"admin"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.UserID != user.UUID || !resp.Admin {
		t.Fatalf("unexpected principal: %+v", resp)
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w2, req2)
	if w2.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status want 401 got %d", w2.Code)
	}

	w3 := httptest.NewRecorder()
	req3 := httptest.NewRequest(http.MethodGet, "/me", nil)
	req3.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w3, req3)
	if w3.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token status want 401 got %d", w3.Code)
	}

	w4 := httptest.NewRecorder()
	req4 := httptest.NewRequest(http.MethodGet, "/me", nil)
	req4.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	r.ServeHTTP(w4, req4)
	if w4.Code != http.StatusUnauthorized {
		t.Fatalf("refresh token on access route status want 401 got %d", w4.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := newMiddlewareTestTokens()

	r := gin.New()
	r.Use(AuthMiddleware(tokens))
	r.GET("/admin/ping", RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	adminPair, err := tokens.Mint(&models.User{UUID: uuid.NewString(), Email: "boss@example.com", IsAdmin: true})
	if err != nil {
		t.Fatalf("mint admin failed: %v", err)
	}
	readerPair, err := tokens.Mint(&models.User{UUID: uuid.NewString(), Email: "reader@example.com"})
	if err != nil {
		t.Fatalf("mint reader failed: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+adminPair.AccessToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("admin status want 200 got %d", w.Code)
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req2.Header.Set("Authorization", "Bearer "+readerPair.AccessToken)
	r.ServeHTTP(w2, req2)
	if w2.Code != http.StatusForbidden {
		t.Fatalf("reader status want 403 got %d", w2.Code)
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := newMiddlewareTestTokens()

	r := gin.New()
	r.Use(OptionalAuthMiddleware(tokens))
	r.GET("/ping", func(c *gin.Context) {
		_, exists := c.Get(constants.ContextPrincipalKey)
		c.JSON(http.StatusOK, gin.H{"identified": exists})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	var resp struct {
		Identified bool `json:"identified"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.Identified {
		t.Fatalf("invalid token must stay anonymous")
	}
}

// capturingProducer 记录活跃事件发布次数
type capturingProducer struct {
	mu       sync.Mutex
	activity []string
}

func (p *capturingProducer) PublishUserEvent(ctx context.Context, eventType string, payload interface{}) {
}

func (p *capturingProducer) PublishActivity(ctx context.Context, userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.activity = append(p.activity, userID)
}

func (p *capturingProducer) Close() error { return nil }

func (p *capturingProducer) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.activity...)
}

func TestActivityMiddlewareThrottle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := newMiddlewareTestTokens()
	producer := &capturingProducer{}

	r := gin.New()
	r.Use(OptionalAuthMiddleware(tokens), ActivityMiddleware(config.ActivityConfig{UpdateIntervalMinutes: 5}, producer))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	first := &models.User{UUID: uuid.NewString(), Email: "reader@example.com"}
	firstPair, err := tokens.Mint(first)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	send := func(token string) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status want 200 got %d", w.Code)
		}
	}

	// 同一用户在间隔窗口内只上报一次
	send(firstPair.AccessToken)
	send(firstPair.AccessToken)
	send(firstPair.AccessToken)
	if got := producer.published(); len(got) != 1 || got[0] != first.UUID {
		t.Fatalf("expected single activity publish for user, got %v", got)
	}

	// 不同用户独立计窗
	second := &models.User{UUID: uuid.NewString(), Email: "writer@example.com"}
	secondPair, err := tokens.Mint(second)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	send(secondPair.AccessToken)
	if got := producer.published(); len(got) != 2 {
		t.Fatalf("expected second user to publish, got %v", got)
	}

	// 匿名请求不上报
	send("")
	if got := producer.published(); len(got) != 2 {
		t.Fatalf("anonymous request must not publish, got %v", got)
	}
}
