package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Gopher0727/InviteShare/internal/models"
	"github.com/Gopher0727/InviteShare/internal/repositories"
	logger "github.com/Gopher0727/InviteShare/middleware/log"
)

var (
	ErrCodeNotFound = errors.New("invite code not found")
	ErrCodeUsed     = errors.New("invite code already used")
)

// QuotaError 同一 IP 在同一分类下重复领取，携带分类名用于用户提示
type QuotaError struct {
	Category string
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("quota exceeded for category %q", e.Category)
}

// ClaimCodeStore 领取流程需要的邀请码存储操作
type ClaimCodeStore interface {
	GetByID(ctx context.Context, id uint) (*models.InviteCode, error)
	Claim(ctx context.Context, codeID, categoryID uint, clientIP string, now time.Time) error
}

// UsageStore 领取台账的查询操作
type UsageStore interface {
	Exists(ctx context.Context, clientIP string, categoryID uint) (bool, error)
	ListCategoryIDs(ctx context.Context, clientIP string) ([]uint, error)
}

// Broadcaster 变更通知（WebSocket Hub）
type Broadcaster interface {
	Broadcast(table, action string)
}

// ClaimEventPublisher 领取事件的异步审计流（Kafka）
type ClaimEventPublisher interface {
	SendMessage(key string, message any) error
}

// ClaimMessage 领取事件的 Kafka 消息体
type ClaimMessage struct {
	InviteCodeID uint      `json:"invite_code_id"`
	CategoryID   uint      `json:"category_id"`
	IPAddress    string    `json:"ip_address"`
	ClaimedAt    time.Time `json:"claimed_at"`
}

// ClaimService 邀请码领取规则：
// 校验邀请码存在且未用、该 IP 在此分类下没领过，
// 然后在一个事务里完成 "标记已用 + 写台账"
type ClaimService struct {
	codes    ClaimCodeStore
	usage    UsageStore
	producer ClaimEventPublisher // 可为 nil（Kafka 不可用时降级）
	hub      Broadcaster         // 可为 nil
	logger   *logger.Logger
}

func NewClaimService(codes ClaimCodeStore, usage UsageStore, producer ClaimEventPublisher, hub Broadcaster, log *logger.Logger) *ClaimService {
	return &ClaimService{
		codes:    codes,
		usage:    usage,
		producer: producer,
		hub:      hub,
		logger:   log,
	}
}

// Claim 领取一枚邀请码，按顺序校验三个前置条件：
//  1. 邀请码存在，否则 ErrCodeNotFound
//  2. 邀请码未被使用，否则 ErrCodeUsed
//  3. 该 IP 在此分类下没有台账记录，否则 QuotaError
//
// 预检查通过后由存储层的条件更新事务做权威裁决，
// 并发领取同一枚码只会有一个调用者成功。
func (s *ClaimService) Claim(ctx context.Context, codeID uint, clientIP string) (*models.InviteCode, error) {
	code, err := s.codes.GetByID(ctx, codeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}

	if code.IsUsed {
		return nil, ErrCodeUsed
	}

	used, err := s.usage.Exists(ctx, clientIP, code.CategoryID)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, &QuotaError{Category: s.categoryName(code)}
	}

	now := time.Now()
	if err := s.codes.Claim(ctx, code.ID, code.CategoryID, clientIP, now); err != nil {
		switch {
		case errors.Is(err, repositories.ErrCodeTaken):
			// 预检查之后被别的请求抢先领走
			return nil, ErrCodeUsed
		case errors.Is(err, repositories.ErrQuotaTaken):
			// 同一 IP 的并发领取撞上了台账唯一索引
			return nil, &QuotaError{Category: s.categoryName(code)}
		default:
			return nil, err
		}
	}

	code.IsUsed = true
	code.UsedAt = &now

	s.publishClaimed(ctx, code, clientIP, now)
	return code, nil
}

// UsedCategories 返回该 IP 已领取过的分类 ID 列表
func (s *ClaimService) UsedCategories(ctx context.Context, clientIP string) ([]uint, error) {
	ids, err := s.usage.ListCategoryIDs(ctx, clientIP)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids, nil
}

// publishClaimed 领取成功后的通知：优先走 Kafka 审计流，
// 由消费者落库审计记录并广播变更；Kafka 不可用或发送失败时
// 跳过审计、直接广播，领取结果不受影响
func (s *ClaimService) publishClaimed(ctx context.Context, code *models.InviteCode, clientIP string, now time.Time) {
	if s.producer != nil {
		msg := &ClaimMessage{
			InviteCodeID: code.ID,
			CategoryID:   code.CategoryID,
			IPAddress:    clientIP,
			ClaimedAt:    now,
		}
		if err := s.producer.SendMessage(clientIP, msg); err == nil {
			return
		} else if s.logger != nil {
			s.logger.ErrorContext(ctx, "发布领取事件失败，跳过审计流",
				zap.Uint("invite_code_id", code.ID), zap.Error(err))
		}
	}

	if s.hub != nil {
		s.hub.Broadcast("invite_codes", "update")
	}
}

func (s *ClaimService) categoryName(code *models.InviteCode) string {
	if code.Category != nil {
		return code.Category.Name
	}
	return ""
}
