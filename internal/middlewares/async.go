package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/InviteShare/internal/utils"
)

// AsyncMiddleware 异步处理中间件
// 将请求的处理逻辑提交到 Worker Pool 中执行，而不是在 Gin 分配的 Goroutine 中直接执行。
// 用在 AI 提取这类上游耗时长的路由上，严格控制并发处理数量，防止系统过载。
// Worker Pool 有缓冲队列，请求不会被立即拒绝，而是排队等待处理。
func AsyncMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 如果没有初始化 Worker Pool，直接降级为同步执行
		if utils.GlobalWorkerPool == nil {
			c.Next()
			return
		}

		// 无缓冲通道，确保同步等待 Worker 处理完成
		done := make(chan struct{})

		// 闭包捕获 gin.Context。gin.Context 不是线程安全的，
		// 但主 Goroutine 阻塞在 <-done 上，同一时间只有 Worker 在操作 c，所以安全
		task := func() {
			defer close(done)
			c.Next()
		}

		// 队列满时 Submit 会阻塞直到有空位，实现"不拒绝但变慢"
		utils.GlobalWorkerPool.Submit(task)

		// 等待任务完成，对 HTTP 客户端仍然是同步的 Request-Response
		<-done
	}
}
