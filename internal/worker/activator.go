package worker

import (
	"context"

	"voltrix/internal/consts"
	"voltrix/internal/dao"
	"voltrix/internal/model"
	"voltrix/internal/position"
	"voltrix/pkg/errors"
	"voltrix/pkg/errors/ecode"
	"voltrix/pkg/logger"
)

// Activator 挂单激活器。每个tick取该币种最早的一批pending仓位，
// 委托价被当前价穿越的按市场价激活。单批最多batchSize条，
// 剩下的等后续tick，防止单个tick把自己拖死。
type Activator struct {
	engine    *position.Engine
	pd        dao.PositionDao
	ticks     <-chan model.Tick
	batchSize int
	cancel    context.CancelFunc
}

func NewActivator(engine *position.Engine, pd dao.PositionDao, ticks <-chan model.Tick, batchSize int) *Activator {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Activator{engine: engine, pd: pd, ticks: ticks, batchSize: batchSize}
}

func (a *Activator) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go a.run(ctx)
}

func (a *Activator) run(ctx context.Context) {
	logger.Info("pending order activator started", logger.Pair("batch_size", a.batchSize))
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-a.ticks:
			if !ok {
				return
			}
			a.onTick(ctx, t)
		}
	}
}

func (a *Activator) onTick(ctx context.Context, t model.Tick) {
	pendings, err := a.pd.PositionListPending(ctx, t.Symbol, a.batchSize)
	if err != nil {
		logger.Warn("scan pending positions failed",
			logger.Pair("symbol", t.Symbol),
			logger.Pair("err", err.Error()))
		return
	}

	for i := range pendings {
		p := &pendings[i]
		if !shouldActivate(p.Side, t.PriceCents, p.EntryPriceCents) {
			continue
		}
		activated, err := a.engine.ActivatePending(ctx, p.Id, t.PriceCents)
		if err != nil {
			// 扫描和加锁之间别的tick可能先激活了，跳过即可
			if errors.IsCode(err, ecode.PositionNotPending) {
				continue
			}
			logger.Warn("activate pending failed",
				logger.Pair("position_id", p.Id),
				logger.Pair("err", err.Error()))
			continue
		}
		if activated {
			logger.Info("pending position activated",
				logger.Pair("position_id", p.Id),
				logger.Pair("symbol", p.Symbol),
				logger.Pair("price_cents", t.PriceCents))
		} else {
			logger.Info("pending position cancelled, insufficient funds",
				logger.Pair("position_id", p.Id),
				logger.Pair("user_id", p.UserId))
		}
	}
}

// shouldActivate 穿越判断：买单现价跌到委托价及以下，卖单现价涨到委托价及以上
func shouldActivate(side string, priceCents, triggerCents int64) bool {
	if side == consts.SideBuy {
		return priceCents <= triggerCents
	}
	return priceCents >= triggerCents
}

func (a *Activator) Close() {
	if a.cancel != nil {
		a.cancel()
	}
}
