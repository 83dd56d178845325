package provider

import (
	"github.com/yushan-next/user-service/internal/client"
	"github.com/yushan-next/user-service/internal/config"
	"github.com/yushan-next/user-service/internal/event"
	"github.com/yushan-next/user-service/internal/queue"
	"github.com/yushan-next/user-service/internal/repository"
	"github.com/yushan-next/user-service/internal/service"

	"gorm.io/gorm"
)

// Container 依赖容器
type Container struct {
	Cfg *config.Config
	DB  *gorm.DB

	UserRepo    repository.UserRepository
	LibraryRepo repository.LibraryRepository

	Producer      event.Producer
	QueueClient   *queue.Client
	ContentClient *client.ContentClient

	TokenService   *service.TokenService
	AuthService    *service.AuthService
	MailService    *service.MailService
	UserService    *service.UserService
	AuthorService  *service.AuthorService
	AdminService   *service.AdminService
	LibraryService *service.LibraryService
}

// NewContainer 创建依赖容器
func NewContainer(cfg *config.Config, db *gorm.DB) (*Container, error) {
	c := &Container{Cfg: cfg, DB: db}
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	c.initRepositories()
	c.initServices()
	return c, nil
}

func (c *Container) initInfrastructure() error {
	queueClient, err := queue.NewClient(&c.Cfg.Queue)
	if err != nil {
		return err
	}
	c.QueueClient = queueClient
	c.Producer = event.NewProducer(&c.Cfg.Kafka)
	c.ContentClient = client.NewContentClient(&c.Cfg.Content)
	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repository.NewUserRepository(c.DB)
	c.LibraryRepo = repository.NewLibraryRepository(c.DB)
}

func (c *Container) initServices() {
	c.TokenService = service.NewTokenService(&c.Cfg.JWT)
	c.MailService = service.NewMailService(&c.Cfg.Email, c.QueueClient)
	c.AuthService = service.NewAuthService(c.Cfg, c.UserRepo, c.TokenService, c.MailService, c.Producer)
	c.UserService = service.NewUserService(c.UserRepo, c.MailService)
	c.AuthorService = service.NewAuthorService(c.UserRepo, c.MailService)
	c.AdminService = service.NewAdminService(c.UserRepo)
	c.LibraryService = service.NewLibraryService(c.LibraryRepo, c.ContentClient)
}

// Close 释放容器持有的资源
func (c *Container) Close() error {
	if c.QueueClient != nil {
		_ = c.QueueClient.Close()
	}
	if c.Producer != nil {
		return c.Producer.Close()
	}
	return nil
}
