package api

import (
	"context"

	"voltrix/conf"
	"voltrix/internal/candle"
	"voltrix/internal/dao/query"
	"voltrix/internal/feecache"
	marketh "voltrix/internal/handler/market"
	"voltrix/internal/handler/stream"
	"voltrix/internal/handler/trading"
	"voltrix/internal/ledger"
	"voltrix/internal/market"
	"voltrix/internal/model/entity"
	"voltrix/internal/position"
	"voltrix/internal/router"
	"voltrix/internal/worker"
	"voltrix/pkg/cache"
	"voltrix/pkg/kafka"
	"voltrix/pkg/logger"

	"gorm.io/gorm"
)

// InitRouter 组装全部服务：dao → 账务/仓位引擎 → 行情管线 → 各worker → 路由。
// 返回的cleanup在进程退出时停掉行情源和worker。
func InitRouter(db *gorm.DB, producer kafka.ProducerService, consumer kafka.ConsumerService) (Router, func()) {
	appCfg := conf.AppConfig

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Wallet{},
		&entity.LedgerEntry{},
		&entity.Position{},
		&entity.Trade{},
		&entity.SymbolFee{},
	); err != nil {
		logger.Fatalf("auto migrate failed: %v", err)
	}

	wd := query.NewWalletDao(db)
	pd := query.NewPositionDao(db)
	td := query.NewTradeDao(db)
	fd := query.NewFeeDao(db)

	rc := cache.GetRedisClient()

	ls := ledger.NewService(db, wd)
	tickStore := market.NewTickStore(rc)
	engine := position.NewEngine(db, pd, td, ls, tickStore, producer)

	fees := feecache.New(fd)
	hub := market.NewHub(appCfg.Market.SubscriberBuffer)
	dispatcher := market.NewDispatcher(hub, tickStore, rc, producer, fees, !appCfg.Market.RedisIngress)

	// K线聚合
	aggregator := candle.NewAggregator(rc, producer)
	aggCtx, aggCancel := context.WithCancel(context.Background())
	go aggregator.Consume(aggCtx, hub.Subscribe("candles"))

	// 止损止盈与挂单激活
	stopWorker := worker.NewStopWorker(engine, pd, hub.Subscribe("sltp"))
	stopWorker.Start()
	activator := worker.NewActivator(engine, pd, hub.Subscribe("activator"), appCfg.Venue.PendingBatchSize)
	activator.Start()

	// 行情接入：外部redis发布或直接连上游成交流
	var feed *market.BinanceFeed
	var ingress *market.RedisIngress
	if appCfg.Market.RedisIngress {
		ingress = market.NewRedisIngress(rc, dispatcher)
		ingress.Start()
	} else {
		feed = market.NewBinanceFeed(appCfg.Market.FeedURL, appCfg.Market.Symbols, dispatcher)
		feed.Start()
	}

	th := trading.NewTradingHandler(engine, ls)
	mh := marketh.NewMarketHandler(tickStore, candle.NewHistory(rc), appCfg.Market.Symbols)
	sg := stream.NewStreamGateway(consumer)

	apiRouter := router.NewApiRouter(th, mh, sg)

	cleanup := func() {
		if feed != nil {
			feed.Close()
		}
		if ingress != nil {
			ingress.Close()
		}
		stopWorker.Close()
		activator.Close()
		aggCancel()
		hub.Close()
		sg.Close()
	}
	return apiRouter, cleanup
}
