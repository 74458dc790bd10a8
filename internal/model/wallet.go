package model

import (
	"voltrix/internal/model/entity"
)

type WalletGetRes struct {
	BalanceCents int64 `json:"balance_cents"`
}

// DepositReq 沙盒充值
type DepositReq struct {
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	Reference   string `json:"reference"`
}

// WithdrawReq 沙盒提现
type WithdrawReq struct {
	AmountCents int64 `json:"amount_cents" binding:"required,gt=0"`
}

type LedgerListReq struct {
	Limit  int `form:"limit" binding:"omitempty,gt=0,lte=200"`
	Offset int `form:"offset" binding:"omitempty,gte=0"`
}

type LedgerListRes struct {
	Entries []entity.LedgerEntry `json:"entries"`
}
