package consumer

import (
	"context"
	"encoding/json"
	"log"

	"github.com/IBM/sarama"

	"github.com/Gopher0727/InviteShare/internal/models"
	"github.com/Gopher0727/InviteShare/internal/services"
)

// ClaimEventStore 审计记录的落库操作
type ClaimEventStore interface {
	Create(ctx context.Context, event *models.ClaimEvent) error
}

// Broadcaster 变更通知（WebSocket Hub）
type Broadcaster interface {
	Broadcast(table, action string)
}

// ClaimEventConsumer 消费领取事件：落库审计记录并广播变更通知
// 审计流是尽力而为的，落库失败只记日志，不影响已提交的领取
type ClaimEventConsumer struct {
	events ClaimEventStore
	hub    Broadcaster
}

func NewClaimEventConsumer(events ClaimEventStore, hub Broadcaster) *ClaimEventConsumer {
	return &ClaimEventConsumer{
		events: events,
		hub:    hub,
	}
}

// Setup is run at the beginning of a new session, before ConsumeClaim
func (consumer *ClaimEventConsumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited
func (consumer *ClaimEventConsumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim must start a consumer loop of ConsumerGroupClaim's Messages().
func (consumer *ClaimEventConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var event services.ClaimMessage
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.Printf("反序列化领取事件失败: %v", err)
			session.MarkMessage(message, "")
			continue
		}

		record := &models.ClaimEvent{
			InviteCodeID: event.InviteCodeID,
			CategoryID:   event.CategoryID,
			IPAddress:    event.IPAddress,
			ClaimedAt:    event.ClaimedAt,
		}
		if err := consumer.events.Create(context.Background(), record); err != nil {
			// 标记已消费避免死循环，审计缺一条可以接受
			log.Printf("落库领取审计记录失败: %v", err)
			session.MarkMessage(message, "")
			continue
		}

		// 通知页面刷新邀请码列表
		if consumer.hub != nil {
			consumer.hub.Broadcast("invite_codes", "update")
		}

		session.MarkMessage(message, "")
	}
	return nil
}

// StartConsumer 启动消费者组，在后台循环消费领取事件
func StartConsumer(brokers []string, groupID string, topic string, consumer *ClaimEventConsumer) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	config.Consumer.Offsets.Initial = sarama.OffsetNewest

	client, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		log.Fatalf("创建消费者组客户端失败: %v", err)
	}

	ctx := context.Background()
	go func() {
		for {
			if err := client.Consume(ctx, []string{topic}, consumer); err != nil {
				log.Printf("消费者错误: %v", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
}
