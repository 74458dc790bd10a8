package model

import (
	"voltrix/internal/model/entity"
)

// 交易接口的请求/响应结构

// PlaceOrderReq 下单。limit单必须携带price_cents作为触发价。
type PlaceOrderReq struct {
	Side            string  `json:"side" binding:"required,oneof=buy sell"`
	OrderType       string  `json:"order_type" binding:"required,oneof=market limit"`
	Size            float64 `json:"size" binding:"required,gt=0"`
	Symbol          string  `json:"symbol" binding:"required"`
	PriceCents      int64   `json:"price_cents" binding:"required_if=OrderType limit,omitempty,gt=0"`
	StopLossCents   *int64  `json:"stop_loss_cents" binding:"omitempty,gt=0"`
	TakeProfitCents *int64  `json:"take_profit_cents" binding:"omitempty,gt=0"`
}

type PlaceOrderRes struct {
	PositionId int64 `json:"position_id"`
	Pending    bool  `json:"pending,omitempty"`
	// 立即成交时回显入场价和扣款
	EntryPriceCents int64 `json:"entry_price_cents,omitempty"`
	DebitedCents    int64 `json:"debited_cents,omitempty"`
}

// ClosePositionReq 平仓。不传close_price_cents则按最新成交价平。
type ClosePositionReq struct {
	PositionId      int64  `json:"position_id" binding:"required"`
	ClosePriceCents *int64 `json:"close_price_cents" binding:"omitempty,gt=0"`
}

type ClosePositionRes struct {
	PositionId      int64 `json:"position_id"`
	PnlCents        int64 `json:"pnl_cents"`
	ClosePriceCents int64 `json:"close_price_cents"`
}

type PositionListReq struct {
	Status string `form:"status" binding:"omitempty,oneof=pending open closed cancelled"`
}

type PositionListRes struct {
	Positions []entity.Position `json:"positions"`
}

type TradeListRes struct {
	Trades []entity.Trade `json:"trades"`
}

// TradeEvent 平仓/成交后广播给实时网关的事件
type TradeEvent struct {
	PositionId int64   `json:"position_id"`
	Symbol     string  `json:"symbol"`
	Side       string  `json:"side"`
	PriceCents int64   `json:"price_cents"`
	Size       float64 `json:"size"`
	Kind       string  `json:"kind"` // open/close
	PnlCents   int64   `json:"pnl_cents,omitempty"`
	Ts         int64   `json:"ts"`
}
