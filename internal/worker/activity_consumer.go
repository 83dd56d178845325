package worker

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yushan-next/user-service/internal/config"
	"github.com/yushan-next/user-service/internal/constants"
	"github.com/yushan-next/user-service/internal/logger"
	"github.com/yushan-next/user-service/internal/provider"

	"github.com/segmentio/kafka-go"
)

// ActivityService 消费用户活跃事件并刷新活跃时间
type ActivityService struct {
	name      string
	reader    *kafka.Reader
	container *provider.Container
}

// NewActivityService 创建活跃事件消费服务
func NewActivityService(cfg *config.KafkaConfig, c *provider.Container) (*ActivityService, error) {
	if cfg == nil || !cfg.Enabled || len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka disabled")
	}
	if c == nil {
		return nil, errors.New("container is nil")
	}
	topic := cfg.ActivityTopic
	if topic == "" {
		topic = constants.TopicUserActivity
	}
	group := cfg.ConsumerGroup
	if group == "" {
		group = "user-service"
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          topic,
		GroupID:        group,
		MinBytes:       1,
		MaxBytes:       1 << 20,
		CommitInterval: time.Second,
	})
	return &ActivityService{
		name:      "activity-consumer",
		reader:    reader,
		container: c,
	}, nil
}

// Name 服务名称
func (s *ActivityService) Name() string {
	if s == nil || s.name == "" {
		return "activity-consumer"
	}
	return s.name
}

// Start 启动消费循环
func (s *ActivityService) Start(ctx context.Context) error {
	if s == nil || s.reader == nil {
		return errors.New("activity consumer not initialized")
	}
	for {
		msg, err := s.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		s.handleMessage(ctx, msg)
	}
}

func (s *ActivityService) handleMessage(ctx context.Context, msg kafka.Message) {
	userID := strings.TrimSpace(string(msg.Value))
	if userID == "" {
		userID = strings.TrimSpace(string(msg.Key))
	}
	if userID == "" {
		logger.Debugw("activity_message_skip_empty", "offset", msg.Offset)
		return
	}
	if err := s.container.UserService.UpdateLastActive(ctx, userID, time.Now()); err != nil {
		logger.Warnw("activity_update_failed", "user_id", userID, "error", err)
	}
}

// Stop 关闭消费者
func (s *ActivityService) Stop(ctx context.Context) error {
	if s == nil || s.reader == nil {
		return nil
	}
	_ = ctx
	return s.reader.Close()
}
