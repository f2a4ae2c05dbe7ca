package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/Gopher0727/InviteShare/internal/models"
)

type ClaimEventRepository struct {
	db *gorm.DB
}

func NewClaimEventRepository(db *gorm.DB) *ClaimEventRepository {
	return &ClaimEventRepository{db: db}
}

// Create 落库一条领取审计记录
func (r *ClaimEventRepository) Create(ctx context.Context, event *models.ClaimEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}
