package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	redis "github.com/redis/go-redis/v9"
)

const redisChannelName = "inviteshare:changes"

// BroadcastMessage 变更通知，告诉前端哪张表发生了什么操作，
// 前端收到后重新拉取对应列表即可（invalidate + refetch）
type BroadcastMessage struct {
	Table  string `json:"table"`
	Action string `json:"action"`
}

// Hub 维护活跃的页面连接并向它们推送变更通知
type Hub struct {
	// 注册的客户端
	clients map[*Client]bool

	// 互斥锁，保护 clients 的并发读写
	mu sync.RWMutex

	// 注册请求通道
	register chan *Client

	// 注销请求通道
	unregister chan *Client

	// 广播通道 (内部使用)
	broadcast chan *BroadcastMessage

	// Redis 客户端，用于跨实例广播；为 nil 时退化为单实例本地广播
	redis *redis.Client
}

func NewHub(redisClient *redis.Client) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *BroadcastMessage),
		redis:      redisClient,
	}
}

func (h *Hub) Run() {
	// 启动 Redis 订阅协程
	if h.redis != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			// 收集发送缓冲已满的客户端，避免在 RLock 中修改 map
			var closedClients []*Client
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					closedClients = append(closedClients, client)
				}
			}
			h.mu.RUnlock()

			if len(closedClients) > 0 {
				h.mu.Lock()
				for _, client := range closedClients {
					// Double check，防止已经处理过
					if _, ok := h.clients[client]; ok {
						close(client.send)
						delete(h.clients, client)
					}
				}
				h.mu.Unlock()
			}
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.redis.Subscribe(ctx, redisChannelName)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for msg := range ch {
		var broadcastMsg BroadcastMessage
		if err := json.Unmarshal([]byte(msg.Payload), &broadcastMsg); err == nil {
			// 从 Redis 收到的消息直接送入本地广播通道分发，
			// 不能再 Publish 回去，否则会死循环
			h.broadcast <- &broadcastMsg
		}
	}
}

// Broadcast 发布一条变更通知
// 配置了 Redis 时经由 Pub/Sub 广播给所有实例（包括自己），
// 否则只通知本实例的连接
func (h *Hub) Broadcast(table, action string) {
	msg := &BroadcastMessage{Table: table, Action: action}

	if h.redis != nil {
		payload, err := json.Marshal(msg)
		if err != nil {
			log.Printf("序列化广播消息失败: %v", err)
			return
		}
		if err := h.redis.Publish(context.Background(), redisChannelName, payload).Err(); err != nil {
			log.Printf("发布广播消息到 Redis 失败: %v", err)
			// Redis 出问题时至少通知本实例
			h.broadcast <- msg
		}
		return
	}

	h.broadcast <- msg
}

// ClientCount 当前连接数，仅用于测试与观测
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
