package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/InviteShare/internal/services"
	"github.com/Gopher0727/InviteShare/internal/utils"
)

type InviteCodeHandler struct {
	InviteCodeService *services.InviteCodeService
	ClaimService      *services.ClaimService
}

func NewInviteCodeHandler(inviteCodeService *services.InviteCodeService, claimService *services.ClaimService) *InviteCodeHandler {
	return &InviteCodeHandler{
		InviteCodeService: inviteCodeService,
		ClaimService:      claimService,
	}
}

// List GET /invite-codes
func (h *InviteCodeHandler) List(c *gin.Context) {
	codes, err := h.InviteCodeService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取邀请码失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"inviteCodes": codes})
}

// Create POST /invite-codes 批量分享
func (h *InviteCodeHandler) Create(c *gin.Context) {
	var req struct {
		CategoryID uint     `json:"categoryId"`
		Codes      []string `json:"codes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数无效"})
		return
	}

	codes, err := h.InviteCodeService.CreateBatch(c.Request.Context(), req.CategoryID, req.Codes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidBatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": "参数无效"})
		case errors.Is(err, services.ErrCategoryNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "分类不存在"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "创建邀请码失败"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"inviteCodes": codes})
}

// Delete DELETE /invite-codes/:id
func (h *InviteCodeHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "邀请码ID无效"})
		return
	}

	if err := h.InviteCodeService.Delete(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrCodeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "邀请码不存在"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "删除邀请码失败"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "邀请码删除成功"})
}

// Use POST /invite-codes/:id/use 领取邀请码
// 客户端标识从代理转发头解析，见 utils.ClientIP
func (h *InviteCodeHandler) Use(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "邀请码ID无效"})
		return
	}

	clientIP := utils.ClientIP(c.Request)

	code, err := h.ClaimService.Claim(c.Request.Context(), uint(id), clientIP)
	if err != nil {
		var quotaErr *services.QuotaError
		switch {
		case errors.Is(err, services.ErrCodeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "邀请码不存在"})
		case errors.Is(err, services.ErrCodeUsed):
			c.JSON(http.StatusBadRequest, gin.H{"error": "邀请码已被使用"})
		case errors.As(err, &quotaErr):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("您已领取过「%s」分类的邀请码，每个分类限领一次", quotaErr.Category),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "标记邀请码失败"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"inviteCode": code})
}
