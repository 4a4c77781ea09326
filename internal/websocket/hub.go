package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hub WebSocket连接管理中心。单机模拟器只有一个玩家，
// 所有推送都是全连接广播。
type Hub struct {
	clients   map[string]*Client
	clientsMu sync.RWMutex

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	logger *zap.Logger
}

// Message WebSocket消息
type Message struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// 消息类型
const (
	MessageTypeConnected = "connected"
	MessageTypePing      = "ping"
	MessageTypePong      = "pong"

	MessageTypeGameResult    = "game_result"
	MessageTypeBalanceUpdate = "balance_update"
)

// NewHub 创建Hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run 运行Hub
func (h *Hub) Run() {
	go h.runHeartbeat()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// registerClient 注册客户端
func (h *Hub) registerClient(client *Client) {
	h.clientsMu.Lock()
	h.clients[client.ID] = client
	h.clientsMu.Unlock()

	h.logger.Info("WebSocket客户端连接", zap.String("client_id", client.ID))

	msg := &Message{
		Type:      MessageTypeConnected,
		Timestamp: time.Now().Unix(),
		Data:      json.RawMessage(`{"message":"连接成功"}`),
	}
	h.sendToClient(client, msg)
}

// unregisterClient 注销客户端
func (h *Hub) unregisterClient(client *Client) {
	h.clientsMu.Lock()
	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(client.Send)
	}
	h.clientsMu.Unlock()

	h.logger.Info("WebSocket客户端断开", zap.String("client_id", client.ID))
}

// broadcastMessage 广播消息
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("序列化消息失败", zap.Error(err))
		return
	}

	h.clientsMu.RLock()
	for _, client := range h.clients {
		select {
		case client.Send <- data:
		default:
			// 发送缓冲区满，丢弃这条消息
			h.logger.Warn("客户端发送缓冲区满",
				zap.String("client_id", client.ID))
		}
	}
	h.clientsMu.RUnlock()
}

func (h *Hub) sendToClient(client *Client, message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}
	select {
	case client.Send <- data:
	default:
	}
}

// Broadcast 广播消息
func (h *Hub) Broadcast(message *Message) {
	if h == nil {
		return
	}
	h.broadcast <- message
}

// BroadcastBalance 推送余额变动
func (h *Hub) BroadcastBalance(balance, currency string) {
	if h == nil {
		return
	}
	data, _ := json.Marshal(map[string]string{
		"balance":  balance,
		"currency": currency,
	})
	h.Broadcast(&Message{
		Type:      MessageTypeBalanceUpdate,
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
}

// BroadcastGameResult 推送游戏结算结果
func (h *Hub) BroadcastGameResult(gameName string, payload interface{}) {
	if h == nil {
		return
	}
	data, err := json.Marshal(map[string]interface{}{
		"game_name": gameName,
		"result":    payload,
	})
	if err != nil {
		h.logger.Error("序列化游戏结果失败", zap.Error(err))
		return
	}
	h.Broadcast(&Message{
		Type:      MessageTypeGameResult,
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
}

// GetOnlineCount 获取在线连接数
func (h *Hub) GetOnlineCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// runHeartbeat 运行心跳检测
func (h *Hub) runHeartbeat() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		<-ticker.C
		h.broadcast <- &Message{
			Type:      MessageTypePing,
			Timestamp: time.Now().Unix(),
		}
	}
}

// Register 注册客户端
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister 注销客户端
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}
