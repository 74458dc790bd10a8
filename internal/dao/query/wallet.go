package query

import (
	"context"

	"voltrix/internal/dao"
	"voltrix/internal/model/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ dao.WalletDao = (*walletDao)(nil)

type walletDao struct {
	ds *gorm.DB
}

func NewWalletDao(ds *gorm.DB) *walletDao {
	return &walletDao{
		ds: ds,
	}
}

func (d *walletDao) WalletGetByUser(ctx context.Context, userId int64) (entity.Wallet, error) {
	var w entity.Wallet
	err := d.ds.WithContext(ctx).Model(&entity.Wallet{}).Where("user_id = ?", userId).First(&w).Error
	return w, wrapLockErr(err)
}

// 排它锁读取钱包行，SELECT ... FOR UPDATE，锁随事务提交/回滚释放
func (d *walletDao) WalletGetByUserForUpdate(tx *gorm.DB, userId int64) (entity.Wallet, error) {
	var w entity.Wallet
	err := tx.Model(&entity.Wallet{}).
		Where("user_id = ?", userId).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&w).Error
	return w, wrapLockErr(err)
}

func (d *walletDao) WalletUpdateBalance(tx *gorm.DB, walletId int64, balanceCents int64) error {
	return wrapLockErr(tx.Model(&entity.Wallet{}).
		Where("id = ?", walletId).
		Update("balance_cents", balanceCents).Error)
}

func (d *walletDao) WalletCreate(tx *gorm.DB, wallet *entity.Wallet) error {
	return wrapLockErr(tx.Create(wallet).Error)
}

func (d *walletDao) LedgerAppend(tx *gorm.DB, e *entity.LedgerEntry) error {
	return wrapLockErr(tx.Create(e).Error)
}

func (d *walletDao) LedgerGetByUser(ctx context.Context, userId int64, limit, offset int) ([]entity.LedgerEntry, error) {
	var entries []entity.LedgerEntry
	err := d.ds.WithContext(ctx).Model(&entity.LedgerEntry{}).
		Where("user_id = ?", userId).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	return entries, err
}

func (d *walletDao) LedgerSumChange(ctx context.Context, userId int64) (sum int64, err error) {
	err = d.ds.WithContext(ctx).Model(&entity.LedgerEntry{}).
		Where("user_id = ?", userId).
		Select("COALESCE(SUM(change_cents), 0)").
		Scan(&sum).Error
	return
}
