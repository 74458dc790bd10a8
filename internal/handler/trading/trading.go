package trading

import (
	"voltrix/internal/consts"
	"voltrix/internal/ledger"
	"voltrix/internal/model"
	"voltrix/internal/position"
	"voltrix/pkg/errors"
	"voltrix/pkg/errors/ecode"
	"voltrix/pkg/response"

	"github.com/gin-gonic/gin"
)

type TradingHandler struct {
	engine *position.Engine
	ledger *ledger.Service
}

func NewTradingHandler(engine *position.Engine, ls *ledger.Service) *TradingHandler {
	return &TradingHandler{
		engine: engine,
		ledger: ls,
	}
}

// PlaceOrder 下单
func (th *TradingHandler) PlaceOrder() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userId := ctx.GetInt64(consts.UserID)
		var req model.PlaceOrderReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, err.Error()), nil)
			return
		}
		res, err := th.engine.PlaceOrder(ctx, userId, req)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}

// ClosePosition 平仓，只能平自己的仓位
func (th *TradingHandler) ClosePosition() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userId := ctx.GetInt64(consts.UserID)
		var req model.ClosePositionReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, err.Error()), nil)
			return
		}
		res, err := th.engine.Close(ctx, userId, req.PositionId, req.ClosePriceCents)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}

// PositionList 仓位列表，可按状态过滤
func (th *TradingHandler) PositionList() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userId := ctx.GetInt64(consts.UserID)
		var req model.PositionListReq
		if err := ctx.ShouldBindQuery(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, err.Error()), nil)
			return
		}
		list, err := th.engine.Positions(ctx, userId, req.Status)
		if err != nil {
			response.JSON(ctx, errors.Wrap(err, ecode.Unknown, "查询仓位失败"), nil)
			return
		}
		response.JSON(ctx, nil, model.PositionListRes{Positions: list})
	}
}

// TradeList 最近成交
func (th *TradingHandler) TradeList() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		list, err := th.engine.RecentTrades(ctx, 50)
		if err != nil {
			response.JSON(ctx, errors.Wrap(err, ecode.Unknown, "查询成交失败"), nil)
			return
		}
		response.JSON(ctx, nil, model.TradeListRes{Trades: list})
	}
}

// WalletGet 钱包余额
func (th *TradingHandler) WalletGet() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userId := ctx.GetInt64(consts.UserID)
		balance, err := th.ledger.Balance(ctx, userId)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, model.WalletGetRes{BalanceCents: balance})
	}
}

// Deposit 沙盒充值
func (th *TradingHandler) Deposit() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userId := ctx.GetInt64(consts.UserID)
		var req model.DepositReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, err.Error()), nil)
			return
		}
		mv, err := th.ledger.Deposit(ctx, userId, req.AmountCents, req.Reference)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, model.WalletGetRes{BalanceCents: mv.BalanceAfter})
	}
}

// Withdraw 沙盒提现
func (th *TradingHandler) Withdraw() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userId := ctx.GetInt64(consts.UserID)
		var req model.WithdrawReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, err.Error()), nil)
			return
		}
		mv, err := th.ledger.Withdraw(ctx, userId, req.AmountCents)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, model.WalletGetRes{BalanceCents: mv.BalanceAfter})
	}
}

// LedgerList 流水
func (th *TradingHandler) LedgerList() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userId := ctx.GetInt64(consts.UserID)
		var req model.LedgerListReq
		if err := ctx.ShouldBindQuery(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, err.Error()), nil)
			return
		}
		entries, err := th.ledger.Entries(ctx, userId, req.Limit, req.Offset)
		if err != nil {
			response.JSON(ctx, errors.Wrap(err, ecode.Unknown, "查询流水失败"), nil)
			return
		}
		response.JSON(ctx, nil, model.LedgerListRes{Entries: entries})
	}
}
