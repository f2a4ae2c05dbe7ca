package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jwtutils "github.com/Gopher0727/InviteShare/pkg/utils"
)

// AuthMiddleware 管理后台 JWT 认证中间件
// 只保护删除分类/邀请码这类管理操作
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string

		// 从请求头解析 Bearer token
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}

		if token == "" {
			c.JSON(
				http.StatusUnauthorized,
				gin.H{"error": "未提供认证 Token"},
			)
			c.Abort()
			return
		}

		claims, err := jwtutils.ParseAdminToken(token)
		if err != nil {
			c.JSON(
				http.StatusUnauthorized,
				gin.H{"error": "Token 无效或已过期"},
			)
			c.Abort()
			return
		}

		c.Set("admin", claims.Subject)
		c.Next()
	}
}
