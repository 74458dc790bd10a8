package consts

import "time"

const (
	// RequestId 请求id名称
	RequestId   = "request_id"
	UserID      = "user_id"
	JWTTokenCtx = "token_ctx"

	// 最新成交价缓存 tick_latest:<SYMBOL>
	TickLatestPrefix = "tick_latest:"
	// 最新K线哈希 candles_latest:<symbol>:<resolution>，field为bucket起点
	CandleLatestPrefix = "candles_latest:"
	// 行情tick的redis发布频道
	MarketPricesChannel = "market:prices"

	// 默认redis过期时间
	RedisExrDefault = time.Hour * 24 * 5
)

const (
	LanguageId    = "T-Language-Id"
	PlatformType  = "T-Platform-Type"
	ClientId      = "T-App-Id"
	ClientVersion = "T-App-Version"
	DeviceId      = "T-D-Id"

	DateLayout   = "2006-01-02"
	TimeLayout   = "2006-01-02 15:04:05"
	TimeLayoutMs = "2006-01-02 15:04:05.000"
)

// kafka主题，按数据类型分流，币种作为key保证同一symbol分区有序
const (
	KafkaTopicTicker = "marketdata_ticker"
	KafkaTopicCandle = "marketdata_candle"
	KafkaTopicTrade  = "marketdata_trade"
)

// 账务流水类型
type LedgerKind string

const (
	LedgerKindPositionOpen  LedgerKind = "position_open"
	LedgerKindPositionClose LedgerKind = "position_close"
	LedgerKindDeposit       LedgerKind = "deposit"
	LedgerKindWithdraw      LedgerKind = "withdraw"
	LedgerKindReserve       LedgerKind = "reserve"
	LedgerKindRelease       LedgerKind = "release"
	LedgerKindTradeIn       LedgerKind = "trade_in"
	LedgerKindTradeOut      LedgerKind = "trade_out"
)

// 仓位状态机 pending → open → closed；pending → cancelled
const (
	PositionStatusPending   = "pending"
	PositionStatusOpen      = "open"
	PositionStatusClosed    = "closed"
	PositionStatusCancelled = "cancelled"
)

const (
	SideBuy  = "buy"
	SideSell = "sell"

	OrderTypeMarket = "market"
	OrderTypeLimit  = "limit"
)
