package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/InviteShare/internal/services"
	"github.com/Gopher0727/InviteShare/internal/utils"
)

type UsageHandler struct {
	ClaimService *services.ClaimService
}

func NewUsageHandler(claimService *services.ClaimService) *UsageHandler {
	return &UsageHandler{
		ClaimService: claimService,
	}
}

// List GET /ip-usage
// 返回请求方 IP 已领取过的分类 ID 列表，前端据此置灰对应分类。
// 这只是展示用的预检查，权威校验在领取事务里。
func (h *UsageHandler) List(c *gin.Context) {
	clientIP := utils.ClientIP(c.Request)

	ids, err := h.ClaimService.UsedCategories(c.Request.Context(), clientIP)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询失败"})
		return
	}

	resp := gin.H{"usedCategories": ids}
	if gin.Mode() == gin.DebugMode {
		// 调试模式下返回解析出的 IP，方便排查代理头配置
		resp["clientIP"] = clientIP
	}

	c.JSON(http.StatusOK, resp)
}
