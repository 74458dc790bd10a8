package dao

import (
	"context"

	"voltrix/internal/model/entity"

	"gorm.io/gorm"
)

type PositionDao interface {
	// 在事务内创建仓位
	PositionCreate(tx *gorm.DB, p *entity.Position) error
	// 在事务内按id加排它锁读取。两个并发触发器争抢同一仓位时在这里串行化
	PositionGetForUpdate(tx *gorm.DB, positionId int64) (entity.Position, error)
	// 在事务内保存仓位的全部字段
	PositionSave(tx *gorm.DB, p *entity.Position) error
	// 某symbol下携带止损/止盈的open仓位
	PositionListOpenWithTrigger(ctx context.Context, symbol string) ([]entity.Position, error)
	// 某symbol下的pending仓位，最早创建的在前，批量上限limit
	PositionListPending(ctx context.Context, symbol string, limit int) ([]entity.Position, error)
	// 用户仓位，status为空则不过滤
	PositionListByUser(ctx context.Context, userId int64, status string) ([]entity.Position, error)
}

type TradeDao interface {
	// 在事务内写入成交记录
	TradeCreate(tx *gorm.DB, t *entity.Trade) error
	// 最近成交
	TradeListRecent(ctx context.Context, limit int) ([]entity.Trade, error)
}

type FeeDao interface {
	// 获取symbol的手续费配置，没有配置返回gorm.ErrRecordNotFound
	FeeGetBySymbol(ctx context.Context, symbol string) (entity.SymbolFee, error)
}
