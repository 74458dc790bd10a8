package model

// 行情相关的传输结构

// Tick 一笔标准化后的成交行情。symbol大写，价格为分，ts为毫秒时间戳。
// 不落库，只在内存/redis/kafka中流转。
type Tick struct {
	Symbol     string  `json:"symbol"`
	PriceCents int64   `json:"price_cents"`
	Size       float64 `json:"size"`
	Ts         int64   `json:"ts"`

	// 对外广播时附加的手续费信息（有配置才有）
	FeeType           string  `json:"fee_type,omitempty"`
	FeeValue          float64 `json:"fee_value,omitempty"`
	PriceWithFeeCents int64   `json:"price_with_fee_cents,omitempty"`
}

// Candle 一根K线。T为bucket起点（秒）。CloseTs记录形成收盘价的那笔成交
// 的事件时间，保证乱序tick下收盘价取事件时间最新的一笔。
type Candle struct {
	Symbol     string  `json:"symbol"`
	Resolution string  `json:"resolution"`
	T          int64   `json:"t"`
	O          int64   `json:"o"`
	H          int64   `json:"h"`
	L          int64   `json:"l"`
	C          int64   `json:"c"`
	V          float64 `json:"v"`
	CloseTs    int64   `json:"close_ts,omitempty"`
}

// 支持的K线周期（TradingView风格的键 → 秒数）
var Resolutions = map[string]int64{
	"1":  60,
	"5":  300,
	"15": 900,
	"60": 3600,
	"D":  86400,
}

const (
	HistoryStatusOk     = "ok"
	HistoryStatusNoData = "no_data"
)

// CandleHistory TradingView数组式历史数据。窗口内没有K线时S为no_data，
// 这是一种正常结果而不是错误。
type CandleHistory struct {
	S string    `json:"s"`
	T []int64   `json:"t,omitempty"`
	O []int64   `json:"o,omitempty"`
	H []int64   `json:"h,omitempty"`
	L []int64   `json:"l,omitempty"`
	C []int64   `json:"c,omitempty"`
	V []float64 `json:"v,omitempty"`
}

// HistoryReq K线历史查询参数
type HistoryReq struct {
	Symbol     string `form:"symbol" binding:"required"`
	Resolution string `form:"resolution" binding:"required"`
	From       int64  `form:"from" binding:"required"`
	To         int64  `form:"to" binding:"required"`
}
