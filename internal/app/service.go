package app

import (
	"context"
	"errors"
	"os/signal"
	"time"

	"github.com/yushan-next/user-service/internal/logger"

	"go.uber.org/zap"
)

// Service 可托管的后台服务
type Service interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Runner 统一托管 HTTP 与消费服务的生命周期
type Runner struct {
	services []Service
}

// NewRunner 创建服务运行器
func NewRunner(services ...Service) *Runner {
	return &Runner{services: services}
}

// RunWithSignals 监听系统信号并运行全部服务
func (r *Runner) RunWithSignals(opts Options) error {
	if r == nil {
		return errors.New("runner is nil")
	}
	opts = normalizeOptions(opts)
	ctx := context.Background()
	if len(opts.Signals) > 0 {
		var cancel context.CancelFunc
		ctx, cancel = signal.NotifyContext(ctx, opts.Signals...)
		defer cancel()
	}
	return r.Run(ctx, opts.ShutdownTimeout, opts.Logger)
}

// Run 并发启动全部服务，任一服务退出或 ctx 取消时整体停机
func (r *Runner) Run(ctx context.Context, stopTimeout time.Duration, log *zap.SugaredLogger) error {
	if r == nil || len(r.services) == 0 {
		return errors.New("no services to run")
	}
	if log == nil {
		log = logger.S()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	exit := make(chan error, len(r.services))
	for _, svc := range r.services {
		go launch(ctx, svc, log, exit)
	}

	var runErr error
	select {
	case <-ctx.Done():
		runErr = ctx.Err()
	case err := <-exit:
		runErr = err
	}
	cancel()

	r.shutdown(stopTimeout, log)
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func launch(ctx context.Context, svc Service, log *zap.SugaredLogger, exit chan<- error) {
	if svc == nil {
		exit <- errors.New("service is nil")
		return
	}
	log.Infow("service_start", "service", svc.Name())
	exit <- svc.Start(ctx)
	log.Infow("service_exit", "service", svc.Name())
}

func (r *Runner) shutdown(timeout time.Duration, log *zap.SugaredLogger) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	for _, svc := range r.services {
		if svc == nil {
			continue
		}
		if err := svc.Stop(stopCtx); err != nil {
			log.Errorw("service_stop_failed", "service", svc.Name(), "error", err)
		}
	}
}
