package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Gopher0727/InviteShare/internal/models"
)

var (
	// ErrCodeTaken 条件更新没有命中任何行：邀请码在读取和更新之间被别人领走了
	ErrCodeTaken = errors.New("invite code already claimed")
	// ErrQuotaTaken 台账唯一索引冲突：同一个 IP 在该分类下已有领取记录
	ErrQuotaTaken = errors.New("client already claimed in this category")
)

type InviteCodeRepository struct {
	db *gorm.DB
}

func NewInviteCodeRepository(db *gorm.DB) *InviteCodeRepository {
	return &InviteCodeRepository{db: db}
}

// List 返回全部邀请码并内嵌分类，最新创建的在前
func (r *InviteCodeRepository) List(ctx context.Context) ([]models.InviteCode, error) {
	var codes []models.InviteCode
	err := r.db.WithContext(ctx).Preload("Category").Order("created_at DESC").Find(&codes).Error
	return codes, err
}

// GetByID 根据 ID 获取邀请码，内嵌分类（配额提示需要分类名）
func (r *InviteCodeRepository) GetByID(ctx context.Context, id uint) (*models.InviteCode, error) {
	var code models.InviteCode
	if err := r.db.WithContext(ctx).Preload("Category").First(&code, id).Error; err != nil {
		return nil, err
	}
	return &code, nil
}

// CreateBatch 批量写入邀请码，调用方保证 category 已存在
func (r *InviteCodeRepository) CreateBatch(ctx context.Context, codes []models.InviteCode) error {
	return r.db.WithContext(ctx).Create(&codes).Error
}

// Delete 按 ID 删除邀请码，不存在时返回 gorm.ErrRecordNotFound
func (r *InviteCodeRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.InviteCode{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Claim 在一个事务里完成领取的两步写入：
//  1. 条件更新 is_used=false -> true（RowsAffected=0 说明并发时被抢先，领取失败）
//  2. 插入台账记录（唯一索引冲突说明该 IP 在此分类已领过，领取失败）
//
// 两步要么同时提交要么同时回滚，不存在标记已用但没有台账的中间态。
func (r *InviteCodeRepository) Claim(ctx context.Context, codeID, categoryID uint, clientIP string, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.InviteCode{}).
			Where("id = ? AND is_used = ?", codeID, false).
			Updates(map[string]any{"is_used": true, "used_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCodeTaken
		}

		usage := models.IPCategoryUsage{
			IPAddress:    clientIP,
			CategoryID:   categoryID,
			InviteCodeID: codeID,
			CreatedAt:    now,
		}
		if err := tx.Create(&usage).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrQuotaTaken
			}
			return err
		}
		return nil
	})
}
