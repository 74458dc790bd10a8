package worker

import (
	"context"

	"voltrix/internal/consts"
	"voltrix/internal/dao"
	"voltrix/internal/model"
	"voltrix/internal/model/entity"
	"voltrix/internal/position"
	"voltrix/pkg/errors"
	"voltrix/pkg/errors/ecode"
	"voltrix/pkg/logger"
)

// StopWorker 止损/止盈监控。消费行情流，每个tick扫描该币种带触发价的
// open仓位，命中就按tick价平仓。止盈止损同时命中时按止盈处理。
type StopWorker struct {
	engine *position.Engine
	pd     dao.PositionDao
	ticks  <-chan model.Tick
	cancel context.CancelFunc
}

func NewStopWorker(engine *position.Engine, pd dao.PositionDao, ticks <-chan model.Tick) *StopWorker {
	return &StopWorker{engine: engine, pd: pd, ticks: ticks}
}

func (w *StopWorker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	go w.run(ctx)
}

func (w *StopWorker) run(ctx context.Context) {
	logger.Info("stop-loss/take-profit worker started")
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-w.ticks:
			if !ok {
				return
			}
			w.onTick(ctx, t)
		}
	}
}

func (w *StopWorker) onTick(ctx context.Context, t model.Tick) {
	positions, err := w.pd.PositionListOpenWithTrigger(ctx, t.Symbol)
	if err != nil {
		logger.Warn("scan triggered positions failed",
			logger.Pair("symbol", t.Symbol),
			logger.Pair("err", err.Error()))
		return
	}

	for i := range positions {
		p := &positions[i]
		reason := triggerReason(p, t.PriceCents)
		if reason == "" {
			continue
		}
		px := t.PriceCents
		if _, err := w.engine.Close(ctx, p.UserId, p.Id, &px); err != nil {
			// 并发下仓位可能刚被手动平掉，或锁超时等下一tick重试，都只记日志
			if errors.IsCode(err, ecode.PositionNotOpen) {
				continue
			}
			logger.Warn("auto close failed",
				logger.Pair("position_id", p.Id),
				logger.Pair("reason", reason),
				logger.Pair("err", err.Error()))
			continue
		}
		logger.Info("position auto closed",
			logger.Pair("position_id", p.Id),
			logger.Pair("symbol", p.Symbol),
			logger.Pair("reason", reason),
			logger.Pair("price_cents", px))
	}
}

// triggerReason 返回命中的触发类型，先判止损再判止盈，
// 两者同时命中时止盈覆盖止损。没命中返回空串。
func triggerReason(p *entity.Position, priceCents int64) string {
	if !p.HasTrigger() {
		return ""
	}
	reason := ""
	if p.Side == consts.SideBuy {
		if p.StopLossCents != nil && priceCents <= *p.StopLossCents {
			reason = "stop_loss"
		}
		if p.TakeProfitCents != nil && priceCents >= *p.TakeProfitCents {
			reason = "take_profit"
		}
	} else {
		if p.StopLossCents != nil && priceCents >= *p.StopLossCents {
			reason = "stop_loss"
		}
		if p.TakeProfitCents != nil && priceCents <= *p.TakeProfitCents {
			reason = "take_profit"
		}
	}
	return reason
}

func (w *StopWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
}
