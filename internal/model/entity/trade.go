package entity

import (
	"voltrix/utils"
)

// 成交记录。仓位模型下没有对手方，开仓/平仓各落一条，仅用于审计和展示。
type Trade struct {
	Id         int64          `gorm:"column:id;primary_key;" json:"id"`
	PositionId int64          `gorm:"column:position_id;not null;index" json:"position_id"`
	UserId     int64          `gorm:"column:user_id;not null;index" json:"user_id"`
	Symbol     string         `gorm:"column:symbol;type:varchar(32);not null;index" json:"symbol"`
	Side       string         `gorm:"column:side;type:varchar(10);not null" json:"side"`
	PriceCents int64          `gorm:"column:price_cents;not null" json:"price_cents"`
	Size       float64        `gorm:"column:size;type:decimal(20,8);not null" json:"size"`
	Kind       string         `gorm:"column:kind;type:varchar(10);not null" json:"kind"` // open/close
	ExecutedAt utils.JsonTime `gorm:"column:executed_at;index" json:"executed_at"`
}

func (Trade) TableName() string {
	return "trade"
}
