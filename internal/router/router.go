package router

import (
	"voltrix/internal/handler/market"
	"voltrix/internal/handler/stream"
	"voltrix/internal/handler/trading"
	"voltrix/internal/middleware"

	"github.com/gin-gonic/gin"
)

type ApiRouter struct {
	tradingHandler *trading.TradingHandler
	marketHandler  *market.MarketHandler
	streamGateway  *stream.StreamGateway
}

func NewApiRouter(th *trading.TradingHandler, mh *market.MarketHandler, sg *stream.StreamGateway) *ApiRouter {
	return &ApiRouter{tradingHandler: th, marketHandler: mh, streamGateway: sg}
}

func (api *ApiRouter) Load(g *gin.Engine) {

	base := g.Group("/api/v1")

	t := base.Group("/trade", middleware.AuthToken())
	{
		t.GET("/wallet", api.tradingHandler.WalletGet())
		t.GET("/ledger", api.tradingHandler.LedgerList())
		t.POST("/deposit", middleware.AntiDuplicateMiddleware(), api.tradingHandler.Deposit())
		t.POST("/withdraw", middleware.AntiDuplicateMiddleware(), api.tradingHandler.Withdraw())
		t.POST("/order", api.tradingHandler.PlaceOrder())
		t.POST("/close", api.tradingHandler.ClosePosition())
		t.GET("/positions", api.tradingHandler.PositionList())
		t.GET("/trades", api.tradingHandler.TradeList())
	}

	p := base.Group("/price")
	{
		p.GET("/:symbol", api.marketHandler.Price())
	}

	// TradingView datafeed
	d := base.Group("/datafeed")
	{
		d.GET("/config", api.marketHandler.DatafeedConfig())
		d.GET("/symbols", api.marketHandler.DatafeedSymbols())
		d.GET("/search", api.marketHandler.DatafeedSearch())
		d.GET("/history", api.marketHandler.DatafeedHistory())
		d.GET("/time", api.marketHandler.DatafeedTime())
	}

	s := base.Group("/ticker")
	{
		s.GET("/ws", api.streamGateway.ServeWS) // 通过websocket连接获取实时推送
	}
}
