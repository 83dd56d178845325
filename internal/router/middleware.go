package router

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yushan-next/user-service/internal/authz"
	"github.com/yushan-next/user-service/internal/cache"
	"github.com/yushan-next/user-service/internal/config"
	"github.com/yushan-next/user-service/internal/constants"
	"github.com/yushan-next/user-service/internal/event"
	"github.com/yushan-next/user-service/internal/http/response"
	"github.com/yushan-next/user-service/internal/logger"
	"github.com/yushan-next/user-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

func extractBearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != constants.TokenTypeBearer {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware 访问令牌鉴权中间件，解析成功后注入请求主体
func AuthMiddleware(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractBearerToken(c)
		if !ok {
			response.Unauthorized(c, "missing or malformed authorization header")
			c.Abort()
			return
		}

		claims, err := tokens.ParseAccess(tokenString)
		if err != nil {
			switch err {
			case service.ErrTokenExpired:
				response.Unauthorized(c, "token expired")
			case service.ErrWrongTokenType:
				response.Unauthorized(c, "wrong token type")
			default:
				response.Unauthorized(c, "invalid token")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextPrincipalKey, authz.NewPrincipal(claims.UserID, claims.Email, claims.IsAuthor, claims.IsAdmin))
		c.Next()
	}
}

// OptionalAuthMiddleware 可选鉴权，令牌缺失或无效时以匿名身份继续
func OptionalAuthMiddleware(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := extractBearerToken(c); ok {
			if claims, err := tokens.ParseAccess(tokenString); err == nil {
				c.Set(constants.ContextPrincipalKey, authz.NewPrincipal(claims.UserID, claims.Email, claims.IsAuthor, claims.IsAdmin))
			}
		}
		c.Next()
	}
}

// RequireAdmin 管理员守卫
func RequireAdmin() gin.HandlerFunc {
	return requirePredicate(authz.IsAdmin, "admin access required")
}

// RequireAuthor 作者守卫
func RequireAuthor() gin.HandlerFunc {
	return requirePredicate(authz.IsAuthor, "author access required")
}

// RequireRoles 任一角色守卫
func RequireRoles(roles ...string) gin.HandlerFunc {
	return requirePredicate(func(p authz.Principal) bool {
		return authz.HasAnyRole(p, roles...)
	}, "insufficient role")
}

func requirePredicate(allow func(authz.Principal) bool, deniedMsg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(constants.ContextPrincipalKey)
		principal, ok := value.(authz.Principal)
		if !exists || !ok || !authz.IsAuthenticated(principal) {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		if !allow(principal) {
			response.Forbidden(c, deniedMsg)
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginRateLimitMiddleware 登录接口按客户端 IP 限流
func LoginRateLimitMiddleware(cfg config.LoginRateLimitConfig) gin.HandlerFunc {
	window := time.Duration(cfg.WindowSeconds) * time.Second
	if window <= 0 {
		window = 5 * time.Minute
	}
	maxAttempts := int64(cfg.MaxAttempts)
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return func(c *gin.Context) {
		if !cache.Enabled() {
			c.Next()
			return
		}
		key := fmt.Sprintf("login_attempts:%s", c.ClientIP())
		count, err := cache.Incr(c.Request.Context(), key, window)
		if err != nil {
			logger.Warnw("login_rate_limit_check_failed", "error", err)
			c.Next()
			return
		}
		if count > maxAttempts {
			response.Error(c, response.CodeTooManyRequests, "too many login attempts, try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ActivityMiddleware 已登录请求按间隔上报用户活跃事件
func ActivityMiddleware(cfg config.ActivityConfig, producer event.Producer) gin.HandlerFunc {
	interval := time.Duration(cfg.UpdateIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	// Redis 未启用时退化为进程内节流
	var mu sync.Mutex
	lastSeen := make(map[string]time.Time)
	throttleLocal := func(userID string, now time.Time) bool {
		mu.Lock()
		defer mu.Unlock()
		if at, ok := lastSeen[userID]; ok && now.Sub(at) < interval {
			return false
		}
		lastSeen[userID] = now
		return true
	}

	return func(c *gin.Context) {
		c.Next()

		value, exists := c.Get(constants.ContextPrincipalKey)
		if !exists {
			return
		}
		principal, ok := value.(authz.Principal)
		if !ok || !authz.IsAuthenticated(principal) {
			return
		}

		var fresh bool
		if cache.Enabled() {
			key := fmt.Sprintf("user_activity:%s", principal.UserID)
			got, err := cache.SetNX(c.Request.Context(), key, "1", interval)
			if err != nil {
				logger.Warnw("activity_throttle_check_failed", "user_id", principal.UserID, "error", err)
				return
			}
			fresh = got
		} else {
			fresh = throttleLocal(principal.UserID, time.Now())
		}
		if fresh {
			producer.PublishActivity(c.Request.Context(), principal.UserID)
		}
	}
}
