package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/InviteShare/internal/services"
)

type CategoryHandler struct {
	CategoryService *services.CategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		CategoryService: categoryService,
	}
}

// List GET /categories
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.CategoryService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取分类失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Create POST /categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数格式错误"})
		return
	}

	category, err := h.CategoryService.Create(c.Request.Context(), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNameEmpty):
			c.JSON(http.StatusBadRequest, gin.H{"error": "分类名称不能为空"})
		case errors.Is(err, services.ErrCategoryExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": "分类已存在"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "创建分类失败"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// Delete DELETE /categories/:id
// 级联删除该分类下的所有邀请码
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "分类ID无效"})
		return
	}

	if err := h.CategoryService.Delete(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "找不到要删除的分类"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "删除分类失败"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "分类删除成功"})
}
