package position

import (
	"context"
	"math"
	"strings"
	"time"

	"voltrix/internal/consts"
	"voltrix/internal/dao"
	"voltrix/internal/ledger"
	"voltrix/internal/model"
	"voltrix/internal/model/entity"
	"voltrix/pkg/errors"
	"voltrix/pkg/errors/ecode"
	"voltrix/pkg/idgen"
	"voltrix/pkg/kafka"
	"voltrix/pkg/logger"
	"voltrix/utils"

	json "github.com/goccy/go-json"
	"gorm.io/gorm"
)

// 仓位生命周期引擎：下单、挂单激活、平仓。每个操作一个数据库事务，
// 事务内对将被修改的仓位行和钱包行加排它锁，资金变动全部走ledger。

// PriceSource 最新成交价查询。没有任何成交价时返回NoPriceAvailable错误码。
type PriceSource interface {
	LatestPrice(ctx context.Context, symbol string) (int64, error)
}

type Engine struct {
	ds       *gorm.DB
	pd       dao.PositionDao
	td       dao.TradeDao
	ledger   *ledger.Service
	prices   PriceSource
	producer kafka.ProducerService // 成交事件广播，可为nil
}

func NewEngine(ds *gorm.DB, pd dao.PositionDao, td dao.TradeDao, ls *ledger.Service, prices PriceSource, producer kafka.ProducerService) *Engine {
	return &Engine{
		ds:       ds,
		pd:       pd,
		td:       td,
		ledger:   ls,
		prices:   prices,
		producer: producer,
	}
}

// NotionalCents 名义价值 price × size，向上取整。
// 开仓扣款和平仓入账都用同一个取整方向。
func NotionalCents(priceCents int64, size float64) int64 {
	return int64(math.Ceil(float64(priceCents) * size))
}

// PlaceOrder 下单。market单按最新成交价立即成交；limit单满足穿越条件
// （买: 最新价 ≤ 委托价，卖: 最新价 ≥ 委托价）时按委托价立即成交，
// 否则以pending落库等待激活。立即成交时余额不足回滚整个事务，
// 不留下cancelled残留。
func (e *Engine) PlaceOrder(ctx context.Context, userId int64, req model.PlaceOrderReq) (model.PlaceOrderRes, error) {
	symbol := strings.ToUpper(req.Symbol)

	lastPrice, priceErr := e.prices.LatestPrice(ctx, symbol)

	var entryPrice int64
	pending := false
	switch req.OrderType {
	case consts.OrderTypeMarket:
		if priceErr != nil {
			// 还没有成交价和redis故障是两回事，后者原样上抛
			if errors.IsCode(priceErr, ecode.NoPriceAvailable) {
				return model.PlaceOrderRes{}, priceErr
			}
			return model.PlaceOrderRes{}, errors.Wrap(priceErr, ecode.Unknown, "查询最新价失败")
		}
		entryPrice = lastPrice
	case consts.OrderTypeLimit:
		if priceErr != nil && !errors.IsCode(priceErr, ecode.NoPriceAvailable) {
			return model.PlaceOrderRes{}, errors.Wrap(priceErr, ecode.Unknown, "查询最新价失败")
		}
		if priceErr != nil || !crossed(req.Side, lastPrice, req.PriceCents) {
			// 还不能成交，挂单等待激活，委托价作为触发价记录
			pending = true
			entryPrice = req.PriceCents
		} else {
			entryPrice = req.PriceCents
		}
	default:
		return model.PlaceOrderRes{}, errors.WithCode(ecode.ValidateErr, "unknown order type")
	}

	now := utils.JsonTime(time.Now())
	p := &entity.Position{
		Id:               idgen.NextID(),
		UserId:           userId,
		Symbol:           symbol,
		Side:             req.Side,
		Size:             req.Size,
		OrderType:        req.OrderType,
		EntryPriceCents:  entryPrice,
		PlacedPriceCents: lastPrice,
		StopLossCents:    req.StopLossCents,
		TakeProfitCents:  req.TakeProfitCents,
		Status:           consts.PositionStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	var debited int64
	err := e.ds.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if pending {
			return e.pd.PositionCreate(tx, p)
		}
		p.Status = consts.PositionStatusOpen
		if err := e.pd.PositionCreate(tx, p); err != nil {
			return err
		}
		debited = NotionalCents(entryPrice, req.Size)
		if _, err := e.ledger.Debit(tx, userId, debited, consts.LedgerKindPositionOpen, &p.Id, map[string]interface{}{
			"symbol": symbol,
			"price":  entryPrice,
			"size":   req.Size,
		}); err != nil {
			// InsufficientFunds向上传播，整个事务回滚，仓位行一并消失
			return err
		}
		return e.td.TradeCreate(tx, e.tradeRow(p, entryPrice, "open"))
	})
	if err != nil {
		return model.PlaceOrderRes{}, err
	}

	res := model.PlaceOrderRes{PositionId: p.Id, Pending: pending}
	if !pending {
		res.EntryPriceCents = entryPrice
		res.DebitedCents = debited
		e.broadcastTrade(ctx, p, entryPrice, "open", 0)
	}
	return res, nil
}

// ActivatePending 把pending仓位按当前市场价转为open。激活价即入场价，
// 不用原始触发价。余额不足时仓位转cancelled并提交，不向调用方报错——
// 与下单时的回滚语义不同，这是有意为之。
func (e *Engine) ActivatePending(ctx context.Context, positionId int64, marketPriceCents int64) (activated bool, err error) {
	var p entity.Position
	err = e.ds.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err = e.pd.PositionGetForUpdate(tx, positionId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.WithCode(ecode.PositionNotFound, "")
			}
			return err
		}
		if p.Status != consts.PositionStatusPending {
			return errors.WithCode(ecode.PositionNotPending, "")
		}

		cost := NotionalCents(marketPriceCents, p.Size)
		_, derr := e.ledger.Debit(tx, p.UserId, cost, consts.LedgerKindPositionOpen, &p.Id, map[string]interface{}{
			"symbol":  p.Symbol,
			"price":   marketPriceCents,
			"size":    p.Size,
			"trigger": p.EntryPriceCents,
		})
		if derr != nil {
			if errors.IsCode(derr, ecode.InsufficientFunds) {
				// 不扣款，终态cancelled，事务正常提交
				p.Status = consts.PositionStatusCancelled
				p.UpdatedAt = utils.JsonTime(time.Now())
				return e.pd.PositionSave(tx, &p)
			}
			return derr
		}

		now := utils.JsonTime(time.Now())
		p.Status = consts.PositionStatusOpen
		p.EntryPriceCents = marketPriceCents
		p.UpdatedAt = now
		if err := e.pd.PositionSave(tx, &p); err != nil {
			return err
		}
		activated = true
		return e.td.TradeCreate(tx, e.tradeRow(&p, marketPriceCents, "open"))
	})
	if err != nil {
		return false, err
	}
	if activated {
		e.broadcastTrade(ctx, &p, marketPriceCents, "open", 0)
	}
	return activated, nil
}

// Close 平仓。closePriceCents为nil时按最新成交价平。
// 仓位必须属于userId，不属于时按不存在处理，不暴露他人仓位。
// 入账全部名义价值（开仓时已全额扣款），pnl只是记账结果。
func (e *Engine) Close(ctx context.Context, userId, positionId int64, closePriceCents *int64) (model.ClosePositionRes, error) {
	var (
		p   entity.Position
		pnl int64
		px  int64
	)
	err := e.ds.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		p, err = e.pd.PositionGetForUpdate(tx, positionId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.WithCode(ecode.PositionNotFound, "")
			}
			return err
		}
		if p.UserId != userId {
			return errors.WithCode(ecode.PositionNotFound, "")
		}
		if p.Status != consts.PositionStatusOpen {
			return errors.WithCode(ecode.PositionNotOpen, "")
		}

		if closePriceCents != nil {
			px = *closePriceCents
		} else {
			px, err = e.prices.LatestPrice(ctx, p.Symbol)
			if err != nil {
				if errors.IsCode(err, ecode.NoPriceAvailable) {
					return err
				}
				return errors.Wrap(err, ecode.Unknown, "查询最新价失败")
			}
		}

		proceeds := NotionalCents(px, p.Size)
		pnl = proceeds - NotionalCents(p.EntryPriceCents, p.Size)
		if _, err := e.ledger.Credit(tx, p.UserId, proceeds, consts.LedgerKindPositionClose, &p.Id, map[string]interface{}{
			"symbol": p.Symbol,
			"price":  px,
			"size":   p.Size,
			"pnl":    pnl,
		}); err != nil {
			return err
		}

		now := utils.JsonTime(time.Now())
		p.Status = consts.PositionStatusClosed
		p.ClosePriceCents = &px
		p.RealizedPnlCents = pnl
		p.ClosedAt = &now
		p.UpdatedAt = now
		if err := e.pd.PositionSave(tx, &p); err != nil {
			return err
		}
		// 无对手方的合成成交记录，只为审计
		return e.td.TradeCreate(tx, e.tradeRow(&p, px, "close"))
	})
	if err != nil {
		return model.ClosePositionRes{}, err
	}

	e.broadcastTrade(ctx, &p, px, "close", pnl)
	return model.ClosePositionRes{
		PositionId:      p.Id,
		PnlCents:        pnl,
		ClosePriceCents: px,
	}, nil
}

// Positions 用户仓位列表
func (e *Engine) Positions(ctx context.Context, userId int64, status string) ([]entity.Position, error) {
	return e.pd.PositionListByUser(ctx, userId, status)
}

// RecentTrades 最近成交
func (e *Engine) RecentTrades(ctx context.Context, limit int) ([]entity.Trade, error) {
	if limit <= 0 {
		limit = 50
	}
	return e.td.TradeListRecent(ctx, limit)
}

// crossed 限价单穿越判断。买: 最新价 ≤ 委托价；卖: 最新价 ≥ 委托价
func crossed(side string, lastPrice, limitPrice int64) bool {
	if side == consts.SideBuy {
		return lastPrice <= limitPrice
	}
	return lastPrice >= limitPrice
}

func (e *Engine) tradeRow(p *entity.Position, priceCents int64, kind string) *entity.Trade {
	return &entity.Trade{
		Id:         idgen.NextID(),
		PositionId: p.Id,
		UserId:     p.UserId,
		Symbol:     p.Symbol,
		Side:       p.Side,
		PriceCents: priceCents,
		Size:       p.Size,
		Kind:       kind,
		ExecutedAt: utils.JsonTime(time.Now()),
	}
}

// broadcastTrade 事务提交后向kafka投递成交事件，失败只记日志
func (e *Engine) broadcastTrade(ctx context.Context, p *entity.Position, priceCents int64, kind string, pnl int64) {
	if e.producer == nil {
		return
	}
	ev := model.TradeEvent{
		PositionId: p.Id,
		Symbol:     p.Symbol,
		Side:       p.Side,
		PriceCents: priceCents,
		Size:       p.Size,
		Kind:       kind,
		PnlCents:   pnl,
		Ts:         time.Now().UnixMilli(),
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := e.producer.Produce(ctx, consts.KafkaTopicTrade, []byte(p.Symbol), payload); err != nil {
		logger.Warn("broadcast trade event failed",
			logger.Pair("position_id", p.Id),
			logger.Pair("err", err.Error()))
	}
}
