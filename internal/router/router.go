package router

import (
	"time"

	"github.com/yushan-next/user-service/internal/config"
	adminhandlers "github.com/yushan-next/user-service/internal/http/handlers/admin"
	publichandlers "github.com/yushan-next/user-service/internal/http/handlers/public"
	"github.com/yushan-next/user-service/internal/logger"
	"github.com/yushan-next/user-service/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.Z()
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	// 认证接口
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", publicHandler.Register)
		auth.POST("/login", LoginRateLimitMiddleware(cfg.Security.LoginRateLimit), publicHandler.Login)
		auth.POST("/refresh", publicHandler.Refresh)
		auth.POST("/send-email", publicHandler.SendRegisterEmail)
		auth.POST("/logout", OptionalAuthMiddleware(c.TokenService), publicHandler.Logout)
	}

	apiV1 := r.Group("/api/v1")
	{
		// 公开资料
		apiV1.GET("/users/:id/profile", publicHandler.GetProfile)

		// 登录态接口
		authed := apiV1.Group("")
		authed.Use(AuthMiddleware(c.TokenService))
		authed.Use(ActivityMiddleware(cfg.Activity, c.Producer))
		{
			users := authed.Group("/users")
			{
				users.GET("/me", publicHandler.Me)
				users.PUT("/:id", publicHandler.UpdateProfile)
				users.POST("/send-email-change-verification", publicHandler.SendEmailChangeVerification)
				users.PUT("/change-email", publicHandler.ChangeEmail)
			}

			author := authed.Group("/author")
			{
				author.POST("/send-upgrade-verification", publicHandler.SendAuthorUpgradeCode)
				author.POST("/upgrade", publicHandler.UpgradeToAuthor)
			}

			library := authed.Group("/library")
			{
				library.GET("", publicHandler.GetLibrary)
				library.GET("/novels", publicHandler.ListLibraryNovels)
				library.POST("/novels", publicHandler.AddNovel)
				library.GET("/novels/:novelId", publicHandler.GetNovelEntry)
				library.GET("/novels/:novelId/check", publicHandler.CheckNovel)
				library.PUT("/novels/:novelId/progress", publicHandler.UpdateProgress)
				library.DELETE("/novels/:novelId", publicHandler.RemoveNovel)
				library.POST("/novels/batch-remove", publicHandler.BatchRemoveNovels)
			}

			admin := authed.Group("/admin")
			admin.Use(RequireAdmin())
			{
				admin.POST("/promote-to-admin", adminHandler.PromoteToAdmin)
				admin.GET("/users", adminHandler.ListUsers)
				admin.PUT("/users/:uuid/status", adminHandler.UpdateUserStatus)
			}
		}
	}

	return r
}
