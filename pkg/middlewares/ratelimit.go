package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/InviteShare/internal/utils"
	"github.com/Gopher0727/InviteShare/utils/ratelimit"
)

// RateLimitMiddleware 按客户端 IP 限流
// limiter 为 nil（Redis 不可用）时直接放行
func RateLimitMiddleware(limiter ratelimit.Limiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := "ip:" + utils.ClientIP(c.Request)
		allowed, err := limiter.Allow(c.Request.Context(), key, limit, window)
		if err == nil && !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "请求过于频繁，请稍后再试",
			})
			return
		}

		c.Next()
	}
}

// MaxConcurrencyMiddleware 最大并发控制中间件
// 限制同时处理的请求数量，防止 Goroutine 数量无限增长导致 OOM
func MaxConcurrencyMiddleware(maxConcurrent int) gin.HandlerFunc {
	// 使用带缓冲的 channel 作为信号量
	sem := make(chan struct{}, maxConcurrent)

	return func(c *gin.Context) {
		select {
		case sem <- struct{}{}:
			defer func() { <-sem }()
			c.Next()
		default:
			// 并发已满，直接拒绝
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "服务器繁忙，请稍后再试",
			})
		}
	}
}
