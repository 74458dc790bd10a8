package entity

import (
	"voltrix/utils"
)

// 币种手续费配置，由管理后台维护。percent按百分比上浮价格，fixed加固定分数。
type SymbolFee struct {
	Id        int64          `gorm:"column:id;primary_key;" json:"id"`
	Symbol    string         `gorm:"column:symbol;type:varchar(32);not null;unique" json:"symbol"`
	FeeType   string         `gorm:"column:fee_type;type:varchar(10);not null" json:"fee_type"` // percent/fixed
	FeeValue  float64        `gorm:"column:fee_value;type:decimal(15,8);not null" json:"fee_value"`
	CreatedAt utils.JsonTime `gorm:"column:created_at" json:"created_at"`
	UpdatedAt utils.JsonTime `gorm:"column:updated_at" json:"updated_at"`
}

func (SymbolFee) TableName() string {
	return "symbol_fee"
}
