package dao

import (
	"context"

	"voltrix/internal/model/entity"

	"gorm.io/gorm"
)

type WalletDao interface {
	// 获取用户钱包（只读）
	WalletGetByUser(ctx context.Context, userId int64) (entity.Wallet, error)
	// 在事务内对钱包行加排它锁并返回，锁持续到事务结束
	WalletGetByUserForUpdate(tx *gorm.DB, userId int64) (entity.Wallet, error)
	// 在事务内更新余额，只允许ledger调用
	WalletUpdateBalance(tx *gorm.DB, walletId int64, balanceCents int64) error
	// 在事务内创建钱包（首次充值时调用）
	WalletCreate(tx *gorm.DB, wallet *entity.Wallet) error
	// 在事务内追加一条流水
	LedgerAppend(tx *gorm.DB, e *entity.LedgerEntry) error
	// 按创建顺序获取用户流水
	LedgerGetByUser(ctx context.Context, userId int64, limit, offset int) ([]entity.LedgerEntry, error)
	// 用户流水change总和，用于回放校验
	LedgerSumChange(ctx context.Context, userId int64) (int64, error)
}
