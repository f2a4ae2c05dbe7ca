package routers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/InviteShare/config"
	"github.com/Gopher0727/InviteShare/internal/handlers"
	"github.com/Gopher0727/InviteShare/internal/middlewares"
	logger "github.com/Gopher0727/InviteShare/middleware/log"
	pkgmiddlewares "github.com/Gopher0727/InviteShare/pkg/middlewares"
	"github.com/Gopher0727/InviteShare/pkg/ws"
	"github.com/Gopher0727/InviteShare/utils/ratelimit"
)

// SetupRoutes 设置所有路由
func SetupRoutes(r *gin.Engine, cfg *config.Config, log *logger.Logger,
	categoryHandler *handlers.CategoryHandler,
	inviteCodeHandler *handlers.InviteCodeHandler,
	usageHandler *handlers.UsageHandler,
	extractHandler *handlers.ExtractHandler,
	authHandler *handlers.AuthHandler,
	hub *ws.Hub,
	limiter ratelimit.Limiter, // 可为 nil（Redis 不可用时不限流）
) {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.Use(middlewares.TraceMiddleware(log))
	r.Use(pkgmiddlewares.RateLimitMiddleware(limiter,
		cfg.RateLimit.Limit, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second))

	// 变更通知订阅（页面侧 invalidate + refetch）
	r.GET("/ws", ws.ServeWS(hub))

	// 分类
	r.GET("/categories", categoryHandler.List)
	r.POST("/categories", categoryHandler.Create)
	r.DELETE("/categories/:id", middlewares.AuthMiddleware(), categoryHandler.Delete)

	// 邀请码
	r.GET("/invite-codes", inviteCodeHandler.List)
	r.POST("/invite-codes", inviteCodeHandler.Create)
	r.DELETE("/invite-codes/:id", middlewares.AuthMiddleware(), inviteCodeHandler.Delete)
	r.POST("/invite-codes/:id/use", inviteCodeHandler.Use)

	// 当前 IP 已领取的分类
	r.GET("/ip-usage", usageHandler.List)

	// AI 文本提取（上游慢，经协程池排队）
	r.POST("/extract-codes", middlewares.AsyncMiddleware(), extractHandler.Extract)

	// 管理后台登录
	r.POST("/admin/login", authHandler.Login)
}
