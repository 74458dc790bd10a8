package market

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"voltrix/internal/model"
	"voltrix/pkg/logger"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/spf13/cast"
)

// binanceTradeMsg 组合流消息结构
// {"stream":"btcusdt@trade","data":{"s":"BTCUSDT","p":"50000.12","q":"0.5","T":1690000000000}}
type binanceTradeMsg struct {
	Stream string `json:"stream"`
	Data   struct {
		Symbol string `json:"s"`
		Price  string `json:"p"`
		Qty    string `json:"q"`
		Ts     int64  `json:"T"`
	} `json:"data"`
}

// BinanceFeed 币安逐笔成交行情源。
// 启动后维持一条组合流连接，断开后自动重连，
// 收到的每笔成交规范化为内部tick后交给Dispatcher分发。
type BinanceFeed struct {
	sync.RWMutex
	conn *websocket.Conn

	baseURL    string
	symbols    []string
	dispatcher *Dispatcher

	closeCh chan struct{}
	closed  bool
}

func NewBinanceFeed(baseURL string, symbols []string, dispatcher *Dispatcher) *BinanceFeed {
	return &BinanceFeed{
		baseURL:    baseURL,
		symbols:    symbols,
		dispatcher: dispatcher,
		closeCh:    make(chan struct{}),
	}
}

// streamURL 拼接组合流地址：?streams=btcusdt@trade/ethusdt@trade
func (f *BinanceFeed) streamURL() string {
	streams := make([]string, 0, len(f.symbols))
	for _, s := range f.symbols {
		streams = append(streams, strings.ToLower(s)+"@trade")
	}
	return fmt.Sprintf("%s?streams=%s", f.baseURL, strings.Join(streams, "/"))
}

// Start 启动连接/重连主循环
func (f *BinanceFeed) Start() {
	go f.run()
}

func (f *BinanceFeed) run() {
	logger.Info("binance feed connection manager started",
		logger.Pair("symbols", strings.Join(f.symbols, ",")))

	for {
		select {
		case <-f.closeCh:
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.Dial(f.streamURL(), nil)
		if err != nil {
			logger.Warn("binance feed connect failed, retrying in 2s",
				logger.Pair("err", err.Error()))
			time.Sleep(2 * time.Second)
			continue
		}

		f.Lock()
		f.conn = conn
		f.Unlock()

		logger.Info("binance feed connected")

		f.runListen(conn) // 阻塞直到连接断开

		f.Lock()
		f.conn = nil
		f.Unlock()

		select {
		case <-f.closeCh:
			return
		default:
		}

		logger.Warn("binance feed lost connection, reconnecting in 2s")
		time.Sleep(2 * time.Second)
	}
}

func (f *BinanceFeed) runListen(conn *websocket.Conn) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			logger.Warn("binance feed read failed", logger.Pair("err", err.Error()))
			return // 退出，触发 run() 重连
		}
		f.handleMessage(message)
	}
}

func (f *BinanceFeed) handleMessage(raw []byte) {
	var msg binanceTradeMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	if msg.Data.Symbol == "" || msg.Data.Price == "" {
		return
	}

	price := cast.ToFloat64(msg.Data.Price)
	if price <= 0 {
		return
	}

	tick := model.Tick{
		Symbol:     strings.ToUpper(msg.Data.Symbol),
		PriceCents: int64(math.Round(price * 100)),
		Size:       cast.ToFloat64(msg.Data.Qty),
		Ts:         msg.Data.Ts,
	}
	if tick.Ts == 0 {
		tick.Ts = time.Now().UnixMilli()
	}

	f.dispatcher.Dispatch(context.Background(), tick)
}

func (f *BinanceFeed) Close() {
	f.Lock()
	defer f.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	close(f.closeCh)
	if f.conn != nil {
		_ = f.conn.Close()
	}
}
