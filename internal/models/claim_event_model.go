package models

import "time"

// ClaimEvent 领取事件审计记录，由 Kafka 消费者异步落库
// 与台账不同，审计流是尽力而为的，不参与领取事务
type ClaimEvent struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	InviteCodeID uint      `gorm:"not null" json:"invite_code_id"`
	CategoryID   uint      `gorm:"not null;index" json:"category_id"`
	IPAddress    string    `gorm:"size:45;not null" json:"ip_address"`
	ClaimedAt    time.Time `json:"claimed_at"`
}

func (ClaimEvent) TableName() string {
	return "claim_events"
}
