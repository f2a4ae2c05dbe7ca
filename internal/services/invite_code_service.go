package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Gopher0727/InviteShare/internal/models"
)

// ErrInvalidBatch 批量分享的参数不完整（缺少分类或邀请码列表为空）
var ErrInvalidBatch = errors.New("invalid code batch")

// InviteCodeStore 邀请码的存储操作（领取之外的部分）
type InviteCodeStore interface {
	List(ctx context.Context) ([]models.InviteCode, error)
	CreateBatch(ctx context.Context, codes []models.InviteCode) error
	Delete(ctx context.Context, id uint) error
}

// CategoryGetter 批量分享前校验分类是否存在
type CategoryGetter interface {
	GetByID(ctx context.Context, id uint) (*models.Category, error)
}

type InviteCodeService struct {
	codes      InviteCodeStore
	categories CategoryGetter
	hub        Broadcaster // 可为 nil
}

func NewInviteCodeService(codes InviteCodeStore, categories CategoryGetter, hub Broadcaster) *InviteCodeService {
	return &InviteCodeService{
		codes:      codes,
		categories: categories,
		hub:        hub,
	}
}

// List 返回全部邀请码并内嵌分类，最新创建的在前
func (s *InviteCodeService) List(ctx context.Context) ([]models.InviteCode, error) {
	return s.codes.List(ctx)
}

// CreateBatch 批量分享邀请码：分类必须存在，列表不能为空。
// 码文本只做去首尾空白，不去重——相同文本的码可以重复分享。
func (s *InviteCodeService) CreateBatch(ctx context.Context, categoryID uint, rawCodes []string) ([]models.InviteCode, error) {
	if categoryID == 0 || len(rawCodes) == 0 {
		return nil, ErrInvalidBatch
	}

	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	codes := make([]models.InviteCode, 0, len(rawCodes))
	for _, raw := range rawCodes {
		codes = append(codes, models.InviteCode{
			CategoryID: categoryID,
			Code:       strings.TrimSpace(raw),
			IsUsed:     false,
		})
	}

	if err := s.codes.CreateBatch(ctx, codes); err != nil {
		return nil, err
	}

	s.notify("insert")
	return codes, nil
}

// Delete 删除单个邀请码
func (s *InviteCodeService) Delete(ctx context.Context, id uint) error {
	if err := s.codes.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCodeNotFound
		}
		return err
	}

	s.notify("delete")
	return nil
}

func (s *InviteCodeService) notify(action string) {
	if s.hub != nil {
		s.hub.Broadcast("invite_codes", action)
	}
}
