package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/yushan-next/user-service/internal/config"
	"github.com/yushan-next/user-service/internal/constants"
	"github.com/yushan-next/user-service/internal/logger"

	"github.com/segmentio/kafka-go"
)

// Producer 领域事件发布接口
type Producer interface {
	PublishUserEvent(ctx context.Context, eventType string, payload interface{})
	PublishActivity(ctx context.Context, userID string)
	Close() error
}

// KafkaProducer 基于 kafka-go 的事件发布器
type KafkaProducer struct {
	userWriter     *kafka.Writer
	activityWriter *kafka.Writer
}

// NewKafkaProducer 创建事件发布器
func NewKafkaProducer(cfg *config.KafkaConfig) *KafkaProducer {
	userTopic := cfg.UserTopic
	if userTopic == "" {
		userTopic = constants.TopicUserEvents
	}
	activityTopic := cfg.ActivityTopic
	if activityTopic == "" {
		activityTopic = constants.TopicUserActivity
	}

	return &KafkaProducer{
		userWriter: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        userTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        true,
			BatchTimeout: 50 * time.Millisecond,
		},
		activityWriter: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        activityTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        true,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

// PublishUserEvent 发布领域事件，失败只记日志不影响主流程
func (p *KafkaProducer) PublishUserEvent(ctx context.Context, eventType string, payload interface{}) {
	body, err := json.Marshal(Envelope{
		EventType: eventType,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		logger.Errorw("user_event_marshal_failed", "event_type", eventType, "error", err)
		return
	}
	if err := p.userWriter.WriteMessages(ctx, kafka.Message{Value: body}); err != nil {
		logger.Warnw("user_event_publish_failed", "event_type", eventType, "error", err)
	}
}

// PublishActivity 发布活跃事件，按用户分区
func (p *KafkaProducer) PublishActivity(ctx context.Context, userID string) {
	msg := kafka.Message{
		Key:   []byte(userID),
		Value: []byte(userID),
	}
	if err := p.activityWriter.WriteMessages(ctx, msg); err != nil {
		logger.Warnw("activity_publish_failed", "user_id", userID, "error", err)
	}
}

// Close 关闭底层连接
func (p *KafkaProducer) Close() error {
	if err := p.userWriter.Close(); err != nil {
		return err
	}
	return p.activityWriter.Close()
}

// NopProducer 事件总线禁用时的空实现
type NopProducer struct{}

// PublishUserEvent 空实现
func (NopProducer) PublishUserEvent(ctx context.Context, eventType string, payload interface{}) {}

// PublishActivity 空实现
func (NopProducer) PublishActivity(ctx context.Context, userID string) {}

// Close 空实现
func (NopProducer) Close() error { return nil }

// NewProducer 按配置创建事件发布器
func NewProducer(cfg *config.KafkaConfig) Producer {
	if cfg == nil || !cfg.Enabled || len(cfg.Brokers) == 0 {
		return NopProducer{}
	}
	return NewKafkaProducer(cfg)
}
