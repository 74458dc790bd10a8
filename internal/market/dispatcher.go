package market

import (
	"context"

	"voltrix/internal/consts"
	"voltrix/internal/feecache"
	"voltrix/internal/model"
	"voltrix/pkg/kafka"
	"voltrix/pkg/logger"

	"github.com/go-redis/redis/v8"
	json "github.com/goccy/go-json"
)

// Dispatcher 规范化后tick的统一出口：
//  1. 写最新价缓存（同步查询用）
//  2. 投递进程内Hub（K线聚合、止损止盈、挂单激活各自独立消费）
//  3. 可选发布到redis market:prices（跨进程）
//  4. 投递kafka ticker主题（实时网关广播，带手续费信息）
//
// 缓存/广播失败只记日志，行情流不中断。
type Dispatcher struct {
	hub      *Hub
	store    *TickStore
	rc       *redis.Client
	producer kafka.ProducerService
	fees     *feecache.Cache
	// 是否向redis频道发布（redis接入模式下必须关掉，否则自己消费自己）
	publishRedis bool
}

func NewDispatcher(hub *Hub, store *TickStore, rc *redis.Client, producer kafka.ProducerService, fees *feecache.Cache, publishRedis bool) *Dispatcher {
	return &Dispatcher{
		hub:          hub,
		store:        store,
		rc:           rc,
		producer:     producer,
		fees:         fees,
		publishRedis: publishRedis,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, t model.Tick) {
	if err := d.store.Save(ctx, t); err != nil {
		logger.Warn("save latest tick failed",
			logger.Pair("symbol", t.Symbol),
			logger.Pair("err", err.Error()))
	}

	d.hub.Publish(t)

	out := t
	if d.fees != nil {
		out = d.fees.Enrich(ctx, t)
	}
	payload, err := json.Marshal(out)
	if err != nil {
		return
	}

	if d.publishRedis && d.rc != nil {
		if err := d.rc.Publish(ctx, consts.MarketPricesChannel, payload).Err(); err != nil {
			logger.Warn("publish tick to redis failed", logger.Pair("err", err.Error()))
		}
	}

	if d.producer != nil {
		if err := d.producer.Produce(ctx, consts.KafkaTopicTicker, []byte(t.Symbol), payload); err != nil {
			logger.Warn("produce tick to kafka failed", logger.Pair("err", err.Error()))
		}
	}
}
