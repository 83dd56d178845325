package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/yushan-next/user-service/internal/config"
)

func newContentTestClient(baseURL string) *ContentClient {
	return NewContentClient(&config.ContentConfig{
		BaseURL:               baseURL,
		TimeoutMS:             1000,
		BreakerMinReqs:        3,
		BreakerRatio:          0.6,
		BreakerTimeoutSeconds: 30,
	})
}

func TestContentClientFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/novels/7":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": NovelInfo{ID: 7, Title: "山河录", AuthorName: "青崖"},
			})
		case "/api/v1/novels/batch":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []NovelInfo{{ID: 1, Title: "一"}, {ID: 2, Title: "二"}},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newContentTestClient(server.URL)
	ctx := context.Background()

	novel := client.GetNovel(ctx, 7)
	if novel == nil {
		t.Fatalf("expected novel, got nil")
	}
	if novel.Title != "山河录" || novel.AuthorName != "青崖" {
		t.Fatalf("unexpected novel payload: %+v", novel)
	}

	novels := client.GetNovels(ctx, []int64{1, 2})
	if len(novels) != 2 {
		t.Fatalf("expected 2 novels, got %d", len(novels))
	}

	if got := client.GetNovels(ctx, nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice for empty input, got %v", got)
	}
}

func TestContentClientBreakerFallback(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newContentTestClient(server.URL)
	ctx := context.Background()

	// 连续失败触发熔断，期间始终返回空结果而非错误
	for i := 0; i < 3; i++ {
		if novel := client.GetNovel(ctx, 1); novel != nil {
			t.Fatalf("expected nil novel on failure, got %+v", novel)
		}
	}

	before := atomic.LoadInt64(&hits)
	if before != 3 {
		t.Fatalf("expected 3 upstream hits before trip, got %d", before)
	}

	// 熔断打开后不再访问上游
	if novel := client.GetNovel(ctx, 1); novel != nil {
		t.Fatalf("expected nil novel while breaker open, got %+v", novel)
	}
	novels := client.GetNovels(ctx, []int64{1, 2, 3})
	if novels == nil {
		t.Fatalf("expected non-nil empty slice while breaker open")
	}
	if len(novels) != 0 {
		t.Fatalf("expected empty result while breaker open, got %d", len(novels))
	}
	if after := atomic.LoadInt64(&hits); after != before {
		t.Fatalf("expected no upstream hits while breaker open, got %d extra", after-before)
	}
}
