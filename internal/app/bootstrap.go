package app

import (
	"errors"

	"github.com/yushan-next/user-service/internal/config"
	"github.com/yushan-next/user-service/internal/logger"
	"github.com/yushan-next/user-service/internal/provider"
	"github.com/yushan-next/user-service/internal/router"
	"github.com/yushan-next/user-service/internal/worker"

	"gorm.io/gorm"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, db *gorm.DB, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container, err := provider.NewContainer(cfg, db)
	if err != nil {
		return nil, err
	}

	var services []Service

	// HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		services = append(services, NewHTTPService(addr, engine))
	}

	// Worker 服务
	if mode == ModeAll || mode == ModeWorker {
		if cfg.Queue.Enabled {
			consumer := worker.NewConsumer(container)
			workerService, err := worker.NewService(&cfg.Queue, consumer)
			if err != nil {
				return nil, err
			}
			services = append(services, workerService)
		}
		if cfg.Kafka.Enabled {
			activityService, err := worker.NewActivityService(&cfg.Kafka, container)
			if err != nil {
				return nil, err
			}
			services = append(services, activityService)
		}
		if !cfg.Queue.Enabled && !cfg.Kafka.Enabled && mode == ModeWorker {
			return nil, errors.New("worker mode requires queue or kafka enabled")
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	logger.Debugw("runner_built", "mode", mode, "services", len(services))
	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(db *gorm.DB, opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, db, opts.Mode)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return runner.RunWithSignals(opts)
}
