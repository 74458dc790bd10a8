package query

import (
	"context"

	"voltrix/internal/consts"
	"voltrix/internal/dao"
	"voltrix/internal/model/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ dao.PositionDao = (*positionDao)(nil)

type positionDao struct {
	ds *gorm.DB
}

func NewPositionDao(ds *gorm.DB) *positionDao {
	return &positionDao{
		ds: ds,
	}
}

func (d *positionDao) PositionCreate(tx *gorm.DB, p *entity.Position) error {
	return wrapLockErr(tx.Create(p).Error)
}

// SELECT ... FOR UPDATE。并发的平仓/止损/激活在这里排队，
// 后到的事务拿到锁时看到的是已经转移过的状态。
func (d *positionDao) PositionGetForUpdate(tx *gorm.DB, positionId int64) (entity.Position, error) {
	var p entity.Position
	err := tx.Model(&entity.Position{}).
		Where("id = ?", positionId).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p).Error
	return p, wrapLockErr(err)
}

func (d *positionDao) PositionSave(tx *gorm.DB, p *entity.Position) error {
	return wrapLockErr(tx.Save(p).Error)
}

func (d *positionDao) PositionListOpenWithTrigger(ctx context.Context, symbol string) ([]entity.Position, error) {
	var positions []entity.Position
	err := d.ds.WithContext(ctx).Model(&entity.Position{}).
		Where("symbol = ? AND status = ?", symbol, consts.PositionStatusOpen).
		Where("stop_loss_cents IS NOT NULL OR take_profit_cents IS NOT NULL").
		Find(&positions).Error
	return positions, err
}

func (d *positionDao) PositionListPending(ctx context.Context, symbol string, limit int) ([]entity.Position, error) {
	var positions []entity.Position
	err := d.ds.WithContext(ctx).Model(&entity.Position{}).
		Where("symbol = ? AND status = ?", symbol, consts.PositionStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&positions).Error
	return positions, err
}

func (d *positionDao) PositionListByUser(ctx context.Context, userId int64, status string) ([]entity.Position, error) {
	var positions []entity.Position
	q := d.ds.WithContext(ctx).Model(&entity.Position{}).Where("user_id = ?", userId)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Find(&positions).Error
	return positions, err
}

var _ dao.TradeDao = (*tradeDao)(nil)

type tradeDao struct {
	ds *gorm.DB
}

func NewTradeDao(ds *gorm.DB) *tradeDao {
	return &tradeDao{
		ds: ds,
	}
}

func (d *tradeDao) TradeCreate(tx *gorm.DB, t *entity.Trade) error {
	return wrapLockErr(tx.Create(t).Error)
}

func (d *tradeDao) TradeListRecent(ctx context.Context, limit int) ([]entity.Trade, error) {
	var trades []entity.Trade
	err := d.ds.WithContext(ctx).Model(&entity.Trade{}).
		Order("executed_at DESC").
		Limit(limit).
		Find(&trades).Error
	return trades, err
}

var _ dao.FeeDao = (*feeDao)(nil)

type feeDao struct {
	ds *gorm.DB
}

func NewFeeDao(ds *gorm.DB) *feeDao {
	return &feeDao{
		ds: ds,
	}
}

func (d *feeDao) FeeGetBySymbol(ctx context.Context, symbol string) (entity.SymbolFee, error) {
	var fee entity.SymbolFee
	err := d.ds.WithContext(ctx).Model(&entity.SymbolFee{}).Where("symbol = ?", symbol).First(&fee).Error
	return fee, err
}
