package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/yushan-next/user-service/internal/logger"
	"github.com/yushan-next/user-service/internal/provider"
	"github.com/yushan-next/user-service/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskVerifyCodeEmail, c.handleVerifyCodeEmail)
}

func (c *Consumer) handleVerifyCodeEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_verify_code_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.VerifyCodeEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_verify_code_email_unmarshal_failed", "error", err)
		return err
	}
	if strings.TrimSpace(payload.Email) == "" || strings.TrimSpace(payload.Code) == "" {
		logger.Debugw("worker_verify_code_email_skip_invalid_payload", "email", payload.Email)
		return nil
	}
	if err := c.MailService.Deliver(payload); err != nil {
		logger.Warnw("worker_verify_code_email_send_failed",
			"email", payload.Email,
			"purpose", payload.Purpose,
			"error", err,
		)
		return err
	}
	logger.Infow("worker_verify_code_email_sent", "email", payload.Email, "purpose", payload.Purpose)
	return nil
}
