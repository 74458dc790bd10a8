package stream

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"voltrix/internal/consts"
	"voltrix/pkg/kafka"
	"voltrix/pkg/logger"
	"voltrix/utils/uuid"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// StreamGateway 实时行情网关。消费kafka的ticker/candle/trade三个主题，
// 打上类型标签后全量推给所有websocket客户端。
// 网关无订阅状态，断线重连只是简单替换同client_id的旧连接。
type StreamGateway struct {
	consumer kafka.ConsumerService
	mu       sync.Mutex // 保护 clients map 写入

	// COW：读多写少，广播端无锁读取
	clients atomic.Value // map[string]*streamClient

	upgrader websocket.Upgrader
	cancel   context.CancelFunc // 停掉三个pump
}

// streamEnvelope 推送消息外壳
type streamEnvelope struct {
	Type string          `json:"type"` // ticker/candle/trade
	Data json.RawMessage `json:"data"`
}

type streamClient struct {
	clientID  string
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func NewStreamGateway(consumer kafka.ConsumerService) *StreamGateway {
	g := &StreamGateway{
		consumer: consumer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	g.clients.Store(make(map[string]*streamClient))

	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel
	go g.pump(ctx, consts.KafkaTopicTicker, "ticker", "voltrix_stream_ticker_group")
	go g.pump(ctx, consts.KafkaTopicCandle, "candle", "voltrix_stream_candle_group")
	go g.pump(ctx, consts.KafkaTopicTrade, "trade", "voltrix_stream_trade_group")

	return g
}

// pump 把一个kafka主题的消息持续转成带类型的推送。
// ctx取消后消费通道关闭，pump随之退出
func (g *StreamGateway) pump(ctx context.Context, topic, kind, group string) {
	ch, err := g.consumer.Consume(ctx, topic, group)
	if err != nil {
		logger.Error("stream gateway consumer start failed",
			logger.Pair("topic", topic),
			logger.Pair("err", err.Error()))
		return
	}
	for msg := range ch {
		payload, err := json.Marshal(streamEnvelope{Type: kind, Data: msg.Value})
		if err != nil {
			continue
		}
		g.broadcast(payload)
	}
}

func (g *StreamGateway) broadcast(data []byte) {
	currentClients, ok := g.clients.Load().(map[string]*streamClient)
	if !ok {
		return
	}
	for _, client := range currentClients {
		client.safeSend(data)
	}
}

// ServeWS 处理连接建立和断开
func (g *StreamGateway) ServeWS(c *gin.Context) {
	clientID := c.Query("client_id")
	if clientID == "" {
		clientID = uuid.GenUUID()
	}

	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", logger.Pair("err", err.Error()))
		return
	}

	client := &streamClient{
		clientID: clientID,
		conn:     conn,
		send:     make(chan []byte, 1000),
	}

	// 同client_id重连：替换旧连接并关掉它
	var old *streamClient
	g.mu.Lock()
	{
		oldClients := g.clients.Load().(map[string]*streamClient)
		newClients := make(map[string]*streamClient, len(oldClients)+1)
		for k, v := range oldClients {
			newClients[k] = v
		}
		old = oldClients[clientID]
		newClients[clientID] = client
		g.clients.Store(newClients)
	}
	g.mu.Unlock()
	if old != nil {
		go old.close()
	}

	defer func() {
		g.mu.Lock()
		{
			oldClients := g.clients.Load().(map[string]*streamClient)
			// 已被更新的连接覆盖时不动map
			if current, exists := oldClients[clientID]; exists && current == client {
				newClients := make(map[string]*streamClient, len(oldClients))
				for k, v := range oldClients {
					if k != clientID {
						newClients[k] = v
					}
				}
				g.clients.Store(newClients)
			}
		}
		g.mu.Unlock()
		client.close()
	}()

	go client.writePump()
	client.readPump() // 阻塞直到客户端断开
}

// Close 停掉kafka消费并断开所有客户端
func (g *StreamGateway) Close() {
	if g.cancel != nil {
		g.cancel()
	}
	g.mu.Lock()
	oldClients := g.clients.Load().(map[string]*streamClient)
	g.clients.Store(make(map[string]*streamClient))
	g.mu.Unlock()
	for _, client := range oldClients {
		client.close()
	}
}

func (c *streamClient) close() {
	c.closeOnce.Do(func() {
		if c.conn != nil {
			_ = c.conn.Close()
		}
		defer func() {
			if r := recover(); r != nil {
				logger.Warn("close send channel panic", logger.Pair("recover", r))
			}
		}()
		close(c.send)
	})
}

func (c *streamClient) writePump() {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// readPump 只为感知断线，客户端消息全部忽略
func (c *streamClient) readPump() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// safeSend 发送通道已关闭时吞掉panic；队列满直接丢弃，慢客户端不拖垮广播
func (c *streamClient) safeSend(data []byte) (sent bool) {
	defer func() {
		if r := recover(); r != nil {
			sent = false
		}
	}()
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}
