package service

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"fmt"
	"math/big"
	"net/smtp"
	"strings"
	"sync"
	"time"

	"github.com/yushan-next/user-service/internal/cache"
	"github.com/yushan-next/user-service/internal/config"
	"github.com/yushan-next/user-service/internal/logger"
	"github.com/yushan-next/user-service/internal/queue"
)

const (
	verifyCodeLength   = 6
	verifyCodeTTL      = 5 * time.Minute
	verifyCodeInterval = 60 * time.Second
)

// codeStore 验证码存取接口
type codeStore interface {
	Set(ctx context.Context, key, code string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Del(ctx context.Context, key string) error
	ThrottleOK(ctx context.Context, key string, interval time.Duration) (bool, error)
}

// redisCodeStore 基于 Redis 的验证码存储
type redisCodeStore struct{}

func (redisCodeStore) Set(ctx context.Context, key, code string, ttl time.Duration) error {
	return cache.SetString(ctx, key, code, ttl)
}

func (redisCodeStore) Get(ctx context.Context, key string) (string, bool, error) {
	return cache.GetString(ctx, key)
}

func (redisCodeStore) Del(ctx context.Context, key string) error {
	return cache.Del(ctx, key)
}

func (redisCodeStore) ThrottleOK(ctx context.Context, key string, interval time.Duration) (bool, error) {
	return cache.SetNX(ctx, key, "1", interval)
}

// memoryCodeStore Redis 未启用时的进程内存储
type memoryCodeStore struct {
	mu      sync.Mutex
	entries map[string]memoryCodeEntry
}

type memoryCodeEntry struct {
	value     string
	expiresAt time.Time
}

func newMemoryCodeStore() *memoryCodeStore {
	return &memoryCodeStore{entries: make(map[string]memoryCodeEntry)}
}

func (s *memoryCodeStore) Set(ctx context.Context, key, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryCodeEntry{value: code, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *memoryCodeStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		return "", false, nil
	}
	return entry.value, true, nil
}

func (s *memoryCodeStore) Del(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *memoryCodeStore) ThrottleOK(ctx context.Context, key string, interval time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if ok && time.Now().Before(entry.expiresAt) {
		return false, nil
	}
	s.entries[key] = memoryCodeEntry{value: "1", expiresAt: time.Now().Add(interval)}
	return true, nil
}

// MailService 邮箱验证码服务
type MailService struct {
	cfg   *config.EmailConfig
	queue *queue.Client
	store codeStore
}

// NewMailService 创建邮箱验证码服务
func NewMailService(cfg *config.EmailConfig, queueClient *queue.Client) *MailService {
	var store codeStore
	if cache.Enabled() {
		store = redisCodeStore{}
	} else {
		store = newMemoryCodeStore()
	}
	return &MailService{cfg: cfg, queue: queueClient, store: store}
}

// SendVerifyCode 生成验证码并投递邮件任务
func (s *MailService) SendVerifyCode(ctx context.Context, email, purpose string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	ok, err := s.store.ThrottleOK(ctx, throttleKey(normalized, purpose), verifyCodeInterval)
	if err != nil {
		return err
	}
	if !ok {
		return ErrVerifyCodeTooFrequent
	}

	code, err := randomNumericCode(verifyCodeLength)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, codeKey(normalized, purpose), code, verifyCodeTTL); err != nil {
		return err
	}

	payload := queue.VerifyCodeEmailPayload{
		Email:   normalized,
		Code:    code,
		Purpose: purpose,
	}
	if s.queue.Enabled() {
		return s.queue.EnqueueVerifyCodeEmail(payload)
	}
	return s.Deliver(payload)
}

// VerifyCode 校验验证码，成功后立即作废
func (s *MailService) VerifyCode(ctx context.Context, email, purpose, code string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	stored, found, err := s.store.Get(ctx, codeKey(normalized, purpose))
	if err != nil {
		return err
	}
	if !found || strings.TrimSpace(code) == "" || stored != strings.TrimSpace(code) {
		return ErrVerifyCodeInvalid
	}
	return s.store.Del(ctx, codeKey(normalized, purpose))
}

// Deliver 通过 SMTP 发送验证码邮件
func (s *MailService) Deliver(payload queue.VerifyCodeEmailPayload) error {
	if s.cfg == nil || !s.cfg.Enabled || s.cfg.Host == "" {
		logger.Infow("verify_code_email_skipped",
			"email", payload.Email,
			"purpose", payload.Purpose,
			"reason", "email_disabled",
		)
		return nil
	}

	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}
	subject := "Your Yushan verification code"
	body := fmt.Sprintf(
		"Your verification code is %s. It expires in %d minutes.",
		payload.Code, int(verifyCodeTTL/time.Minute),
	)
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", s.cfg.FromName, from),
		fmt.Sprintf("To: %s", payload.Email),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if s.cfg.UseTLS && s.cfg.Port == 465 {
		return s.sendOverTLS(addr, auth, from, payload.Email, []byte(msg))
	}
	return smtp.SendMail(addr, auth, from, []string{payload.Email}, []byte(msg))
}

func (s *MailService) sendOverTLS(addr string, auth smtp.Auth, from, to string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.Host})
	if err != nil {
		return err
	}
	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return err
	}
	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write(msg); err != nil {
		writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func codeKey(email, purpose string) string {
	return fmt.Sprintf("verify_code:%s:%s", purpose, email)
}

func throttleKey(email, purpose string) string {
	return fmt.Sprintf("verify_code_throttle:%s:%s", purpose, email)
}

func randomNumericCode(length int) (string, error) {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String(), nil
}
