package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/Gopher0727/InviteShare/internal/models"
)

type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Exists 判断该 IP 在指定分类下是否已有领取记录
func (r *UsageRepository) Exists(ctx context.Context, clientIP string, categoryID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.IPCategoryUsage{}).
		Where("ip_address = ? AND category_id = ?", clientIP, categoryID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListCategoryIDs 返回该 IP 已领取过的分类 ID 列表，
// 前端用它把已领完的分类置灰（非权威预检查，权威校验在领取事务里）
func (r *UsageRepository) ListCategoryIDs(ctx context.Context, clientIP string) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.IPCategoryUsage{}).
		Where("ip_address = ?", clientIP).
		Pluck("category_id", &ids).Error
	return ids, err
}
