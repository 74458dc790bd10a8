package entity

import (
	"voltrix/utils"

	"gorm.io/datatypes"
)

// 账务流水，追加写入，不可变更。每一次余额变动对应且仅对应一条流水，
// 满足 balance_after = balance_before + change；按创建顺序回放全部流水
// 必须能还原出钱包当前余额。
type LedgerEntry struct {
	Id            int64          `gorm:"column:id;primary_key;" json:"id"`
	UserId        int64          `gorm:"column:user_id;not null;index:idx_user_created" json:"user_id"`
	PositionId    *int64         `gorm:"column:position_id;index" json:"position_id"` // 关联的仓位，充值提现等场景为空
	Change        int64          `gorm:"column:change_cents;not null" json:"change_cents"`
	BalanceBefore int64          `gorm:"column:balance_before_cents;not null" json:"balance_before_cents"`
	BalanceAfter  int64          `gorm:"column:balance_after_cents;not null" json:"balance_after_cents"`
	Kind          string         `gorm:"column:kind;type:varchar(20);not null" json:"kind"`
	Meta          datatypes.JSON `gorm:"column:meta;type:json" json:"meta"` // 自由格式的上下文，比如价格、数量、来源
	CreatedAt     utils.JsonTime `gorm:"column:created_at;index:idx_user_created" json:"created_at"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entry"
}
