package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Gopher0727/InviteShare/internal/models"
)

var (
	ErrCategoryNameEmpty = errors.New("category name is empty")
	ErrCategoryExists    = errors.New("category already exists")
	ErrCategoryNotFound  = errors.New("category not found")
)

// CategoryStore 分类的存储操作
type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	DeleteWithCodes(ctx context.Context, id uint) error
}

type CategoryService struct {
	categories CategoryStore
	hub        Broadcaster // 可为 nil
}

func NewCategoryService(categories CategoryStore, hub Broadcaster) *CategoryService {
	return &CategoryService{
		categories: categories,
		hub:        hub,
	}
}

// List 返回全部分类，最新创建的在前
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// Create 创建分类：名称去掉首尾空白后不能为空，且不能与现有分类重名（大小写敏感的精确匹配）
func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryNameEmpty
	}

	if _, err := s.categories.GetByName(ctx, name); err == nil {
		return nil, ErrCategoryExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := &models.Category{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		// 并发创建同名分类时由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}

	s.notify("insert")
	return category, nil
}

// Delete 删除分类并级联删除其下所有邀请码
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if err := s.categories.DeleteWithCodes(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	s.notify("delete")
	return nil
}

func (s *CategoryService) notify(action string) {
	if s.hub != nil {
		s.hub.Broadcast("categories", action)
	}
}
