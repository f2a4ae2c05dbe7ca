package models

import "time"

// InviteCode 邀请码模型
// IsUsed 只会从 false 单向变为 true，领取成功时同步写入 UsedAt
type InviteCode struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CategoryID uint       `gorm:"not null;index" json:"category_id"`
	Code       string     `gorm:"not null" json:"code"`
	IsUsed     bool       `gorm:"not null;default:false" json:"is_used"`
	CreatedAt  time.Time  `json:"created_at"`
	UsedAt     *time.Time `json:"used_at"`

	// 列表接口返回内嵌分类，JSON 字段名沿用前端既有的 categories
	Category *Category `gorm:"foreignKey:CategoryID" json:"categories,omitempty"`
}

func (InviteCode) TableName() string {
	return "invite_codes"
}
