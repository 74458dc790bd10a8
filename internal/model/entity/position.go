package entity

import (
	"voltrix/utils"
)

// 仓位。状态机 pending → open → closed，pending → cancelled（激活时余额不足）。
// closed/cancelled后不可变，只软关闭不删除。
type Position struct {
	Id               int64           `gorm:"column:id;primary_key;" json:"id"`
	UserId           int64           `gorm:"column:user_id;not null;index" json:"user_id"`
	Symbol           string          `gorm:"column:symbol;type:varchar(32);not null;index:idx_symbol_status" json:"symbol"`
	Side             string          `gorm:"column:side;type:varchar(10);not null" json:"side"`             // buy/sell
	Size             float64         `gorm:"column:size;type:decimal(20,8);not null" json:"size"`           // 正数数量
	OrderType        string          `gorm:"column:order_type;type:varchar(10);not null" json:"order_type"` // market/limit
	EntryPriceCents  int64           `gorm:"column:entry_price_cents;not null" json:"entry_price_cents"`    // 成交/触发价。pending时为激活触发价
	PlacedPriceCents int64           `gorm:"column:placed_price_cents" json:"placed_price_cents"`           // 下单时刻的最新成交价
	StopLossCents    *int64          `gorm:"column:stop_loss_cents" json:"stop_loss_cents"`
	TakeProfitCents  *int64          `gorm:"column:take_profit_cents" json:"take_profit_cents"`
	Status           string          `gorm:"column:status;type:varchar(12);not null;index:idx_symbol_status" json:"status"`
	RealizedPnlCents int64           `gorm:"column:realized_pnl_cents" json:"realized_pnl_cents"`
	ClosePriceCents  *int64          `gorm:"column:close_price_cents" json:"close_price_cents"`
	CreatedAt        utils.JsonTime  `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt        utils.JsonTime  `gorm:"column:updated_at" json:"updated_at"`
	ClosedAt         *utils.JsonTime `gorm:"column:closed_at" json:"closed_at"`
}

func (Position) TableName() string {
	return "position"
}

// HasTrigger 是否携带止损或止盈
func (p *Position) HasTrigger() bool {
	return p.StopLossCents != nil || p.TakeProfitCents != nil
}
