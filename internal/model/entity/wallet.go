package entity

import (
	"voltrix/utils"
)

// 用户钱包，每个用户一条。余额只能通过ledger的debit/credit原语变更，
// 任何地方都不允许直接update balance字段。
type Wallet struct {
	Id           int64          `gorm:"column:id;primary_key;" json:"id"`
	UserId       int64          `gorm:"column:user_id;not null;unique" json:"user_id"`
	BalanceCents int64          `gorm:"column:balance_cents;not null;default:0" json:"balance_cents"` // 余额，分
	CreatedAt    utils.JsonTime `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    utils.JsonTime `gorm:"column:updated_at" json:"updated_at"`
}

func (Wallet) TableName() string {
	return "wallet"
}
