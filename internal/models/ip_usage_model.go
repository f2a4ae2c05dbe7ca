package models

import "time"

// IPCategoryUsage 领取台账：记录某个 IP 在某个分类下领取过哪个邀请码
// (ip_address, category_id) 上的联合唯一索引在存储层兜底
// "每个 IP 每个分类只能领一次" 的配额约束
type IPCategoryUsage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	IPAddress    string    `gorm:"size:45;not null;uniqueIndex:idx_ip_category,priority:1" json:"ip_address"`
	CategoryID   uint      `gorm:"not null;uniqueIndex:idx_ip_category,priority:2" json:"category_id"`
	InviteCodeID uint      `gorm:"not null" json:"invite_code_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (IPCategoryUsage) TableName() string {
	return "ip_category_usage"
}
