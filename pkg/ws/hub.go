package ws

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// MessageType WebSocket 消息类型
const (
	MsgTypeInit          = "init"           // 初始化数据（默认视口+可见车辆）
	MsgTypeLocate        = "locate"         // 请求客户端定位
	MsgTypeRegion        = "region"         // 视口解析结果
	MsgTypeNavigate      = "navigate"       // 跳转到租车页
	MsgTypeNotFound      = "not_found"      // 车辆不存在
	MsgTypeCatalogUpdate = "catalog_update" // 目录更新
	MsgTypeError         = "error"          // 错误消息

	MsgTypeLocationFix    = "location_fix"    // 客户端：定位结果
	MsgTypeLocationDenied = "location_denied" // 客户端：拒绝授权
	MsgTypeSelect         = "select"          // 客户端：选中车辆
)

// ErrClientClosed 客户端已断开
var ErrClientClosed = errors.New("websocket client closed")

// Message WebSocket 消息结构
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Inbound 客户端发来的消息，data 延迟解析
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type campusMessage struct {
	campus string
	data   []byte
}

// Client WebSocket 客户端
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	campus    string
	onMessage func(Inbound)

	mu     sync.Mutex
	send   chan []byte
	closed bool
	done   chan struct{}
}

// Hub WebSocket 连接管理中心
type Hub struct {
	logger     *zap.Logger
	clients    map[*Client]bool
	broadcast  chan campusMessage
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub 创建 Hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan campusMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run 运行 Hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("WebSocket client connected", zap.String("campus", client.campus), zap.Int("total_clients", total))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("WebSocket client disconnected", zap.Int("total_clients", total))

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if client.campus != message.campus {
					continue
				}
				if !client.enqueue(message.data) {
					// 慢消费者，关闭连接
					client.closeSend()
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToCampus 广播给订阅某校区的客户端
func (h *Hub) BroadcastToCampus(campus, msgType string, data interface{}) {
	jsonData, err := json.Marshal(Message{Type: msgType, Data: data})
	if err != nil {
		h.logger.Error("Failed to marshal broadcast message", zap.Error(err))
		return
	}

	h.broadcast <- campusMessage{campus: campus, data: jsonData}
}

// ClientCount 获取客户端数量
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// NewClient 创建客户端，onMessage 在读协程中被调用
func NewClient(hub *Hub, conn *websocket.Conn, campus string, onMessage func(Inbound)) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		campus:    campus,
		onMessage: onMessage,
		send:      make(chan []byte, 256),
		done:      make(chan struct{}),
	}
}

// Campus 客户端所在校区
func (c *Client) Campus() string {
	return c.campus
}

// Done 读协程退出（连接断开）后关闭
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Register 注册客户端
func (c *Client) Register() {
	c.hub.register <- c
}

// Unregister 注销客户端
func (c *Client) Unregister() {
	c.hub.unregister <- c
}

// Send 发送结构化消息，不阻塞
func (c *Client) Send(msgType string, data interface{}) error {
	jsonData, err := json.Marshal(Message{Type: msgType, Data: data})
	if err != nil {
		return err
	}
	if !c.enqueue(jsonData) {
		return ErrClientClosed
	}
	return nil
}

func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump 读取客户端消息并分发
func (c *Client) ReadPump() {
	defer func() {
		close(c.done)
		c.Unregister()
		c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var in Inbound
		if err := json.Unmarshal(data, &in); err != nil {
			_ = c.Send(MsgTypeError, "invalid message")
			continue
		}
		if c.onMessage != nil {
			c.onMessage(in)
		}
	}
}

// WritePump 发送消息
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
}
