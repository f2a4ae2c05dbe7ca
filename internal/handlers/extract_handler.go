package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/InviteShare/internal/services"
)

type ExtractHandler struct {
	ExtractService *services.ExtractService
}

func NewExtractHandler(extractService *services.ExtractService) *ExtractHandler {
	return &ExtractHandler{
		ExtractService: extractService,
	}
}

// Extract POST /extract-codes
// 把粘贴的自由文本交给大模型，提取换行分隔的候选邀请码
func (h *ExtractHandler) Extract(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请提供要提取邀请码的文本"})
		return
	}

	result, err := h.ExtractService.Extract(c.Request.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTextEmpty):
			c.JSON(http.StatusBadRequest, gin.H{"error": "请提供要提取邀请码的文本"})
		case errors.Is(err, services.ErrAIKeyMissing):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "AI服务未配置，请联系管理员"})
		case errors.Is(err, services.ErrAIBadResponse):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "AI模型响应格式异常"})
		case errors.Is(err, services.ErrAIUpstream):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "AI模型调用失败"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器错误"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
