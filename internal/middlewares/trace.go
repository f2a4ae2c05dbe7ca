package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Gopher0727/InviteShare/internal/utils"
	logger "github.com/Gopher0727/InviteShare/middleware/log"
)

// TraceMiddleware 为每个请求生成 trace_id 注入 context，并记录访问日志
func TraceMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Trace-ID")
		ctx := logger.WithTraceID(c.Request.Context(), traceID)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		log.InfoContext(ctx, "request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", utils.ClientIP(c.Request)),
		)
	}
}
