package market

import (
	"sync"

	"voltrix/internal/model"
	"voltrix/pkg/logger"
)

// Hub 进程内tick分发。每个订阅者独立持有一条带缓冲的通道，
// 每个tick投递给所有订阅者（扇出，不是抢占式消费）。
// 单个订阅者内部保持发布顺序；订阅者之间不保证相对顺序。
// 通道满时丢弃并告警，慢消费者不能拖住行情源。
type Hub struct {
	mu     sync.RWMutex
	subs   []*subscriber
	buf    int
	closed bool
}

type subscriber struct {
	name string
	ch   chan model.Tick
}

func NewHub(buf int) *Hub {
	if buf <= 0 {
		buf = 1024
	}
	return &Hub{buf: buf}
}

// Subscribe 注册一个命名订阅者并返回其通道
func (h *Hub) Subscribe(name string) <-chan model.Tick {
	h.mu.Lock()
	defer h.mu.Unlock()
	sub := &subscriber{name: name, ch: make(chan model.Tick, h.buf)}
	h.subs = append(h.subs, sub)
	return sub.ch
}

// Publish 把tick投递给所有订阅者
func (h *Hub) Publish(t model.Tick) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	for _, sub := range h.subs {
		select {
		case sub.ch <- t:
		default:
			logger.Warn("tick dropped, subscriber queue full",
				logger.Pair("subscriber", sub.name),
				logger.Pair("symbol", t.Symbol))
		}
	}
}

// Close 关闭所有订阅通道，订阅者从range退出
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, sub := range h.subs {
		close(sub.ch)
	}
	h.subs = nil
}
