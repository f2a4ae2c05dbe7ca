package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/InviteShare/internal/services"
)

type AuthHandler struct {
	AuthService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		AuthService: authService,
	}
}

// Login POST /admin/login
// 密码在服务端与 bcrypt 哈希比对，通过后签发会话 token
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数格式错误"})
		return
	}

	token, err := h.AuthService.Login(req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPasswordIncorrect):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "密码错误"})
		case errors.Is(err, services.ErrAdminNotConfigured):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "管理后台未配置，请联系管理员"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "登录失败"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
