package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yushan-next/user-service/internal/config"
	"github.com/yushan-next/user-service/internal/logger"

	"github.com/sony/gobreaker"
)

// NovelInfo 内容服务返回的小说信息
type NovelInfo struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	AuthorID   string `json:"authorId"`
	AuthorName string `json:"authorName"`
	CoverURL   string `json:"coverUrl"`
	Synopsis   string `json:"synopsis"`
	Status     string `json:"status"`
	ChapterCnt int    `json:"chapterCnt"`
}

// ContentClient 内容服务客户端，查询失败时熔断并返回空结果
type ContentClient struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewContentClient 创建内容服务客户端
func NewContentClient(cfg *config.ContentConfig) *ContentClient {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	minRequests := uint32(cfg.BreakerMinReqs)
	if minRequests == 0 {
		minRequests = 3
	}
	ratio := cfg.BreakerRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 0.6
	}
	openTimeout := time.Duration(cfg.BreakerTimeoutSeconds) * time.Second
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "content-service",
		Timeout: openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= minRequests && failureRatio >= ratio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warnw("content_breaker_state_changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &ContentClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		breaker: breaker,
	}
}

// GetNovel 查询单本小说，熔断或失败时返回 nil
func (c *ContentClient) GetNovel(ctx context.Context, novelID int64) *NovelInfo {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetchNovel(ctx, novelID)
	})
	if err != nil {
		logger.Warnw("content_get_novel_failed", "novel_id", novelID, "error", err)
		return nil
	}
	return result.(*NovelInfo)
}

// GetNovels 批量查询小说，熔断或失败时返回空列表
func (c *ContentClient) GetNovels(ctx context.Context, novelIDs []int64) []NovelInfo {
	if len(novelIDs) == 0 {
		return []NovelInfo{}
	}
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetchNovels(ctx, novelIDs)
	})
	if err != nil {
		logger.Warnw("content_get_novels_failed", "count", len(novelIDs), "error", err)
		return []NovelInfo{}
	}
	return result.([]NovelInfo)
}

func (c *ContentClient) fetchNovel(ctx context.Context, novelID int64) (*NovelInfo, error) {
	endpoint := fmt.Sprintf("%s/api/v1/novels/%d", c.baseURL, novelID)
	var wrapper struct {
		Data NovelInfo `json:"data"`
	}
	if err := c.getJSON(ctx, endpoint, &wrapper); err != nil {
		return nil, err
	}
	return &wrapper.Data, nil
}

func (c *ContentClient) fetchNovels(ctx context.Context, novelIDs []int64) ([]NovelInfo, error) {
	ids := make([]string, 0, len(novelIDs))
	for _, id := range novelIDs {
		ids = append(ids, strconv.FormatInt(id, 10))
	}
	endpoint := fmt.Sprintf("%s/api/v1/novels/batch?ids=%s",
		c.baseURL, url.QueryEscape(strings.Join(ids, ",")))
	var wrapper struct {
		Data []NovelInfo `json:"data"`
	}
	if err := c.getJSON(ctx, endpoint, &wrapper); err != nil {
		return nil, err
	}
	if wrapper.Data == nil {
		wrapper.Data = []NovelInfo{}
	}
	return wrapper.Data, nil
}

func (c *ContentClient) getJSON(ctx context.Context, endpoint string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("content service status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
