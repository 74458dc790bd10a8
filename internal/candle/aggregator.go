package candle

import (
	"context"
	"fmt"
	"sync"

	"voltrix/internal/consts"
	"voltrix/internal/model"
	"voltrix/pkg/kafka"
	"voltrix/pkg/logger"

	"github.com/go-redis/redis/v8"
	json "github.com/goccy/go-json"
)

// barKey 内存K线索引：symbol + 周期
type barKey struct {
	symbol     string
	resolution string
}

// Aggregator 从行情流聚合各周期K线。
// 每根K线以桶起始秒为主键写入redis hash，
// 收盘价跟踪事件时间最大的那笔成交，乱序到达不会把旧价格写成收盘价。
type Aggregator struct {
	mu       sync.Mutex
	bars     map[barKey]*model.Candle
	rc       *redis.Client
	producer kafka.ProducerService
}

func NewAggregator(rc *redis.Client, producer kafka.ProducerService) *Aggregator {
	return &Aggregator{
		bars:     make(map[barKey]*model.Candle),
		rc:       rc,
		producer: producer,
	}
}

// Consume 持续消费行情通道，通道关闭或ctx取消时返回
func (a *Aggregator) Consume(ctx context.Context, ticks <-chan model.Tick) {
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-ticks:
			if !ok {
				return
			}
			a.OnTick(ctx, t)
		}
	}
}

// hashKey redis键：candles_latest:<symbol>:<resolution>
func hashKey(symbol, resolution string) string {
	return fmt.Sprintf("%s%s:%s", consts.CandleLatestPrefix, symbol, resolution)
}

// OnTick 把一笔成交并入所有周期的K线
func (a *Aggregator) OnTick(ctx context.Context, t model.Tick) {
	tsSec := t.Ts / 1000
	for res, secs := range model.Resolutions {
		bucket := tsSec / secs * secs
		a.apply(ctx, t, res, bucket)
	}
}

func (a *Aggregator) apply(ctx context.Context, t model.Tick, resolution string, bucket int64) {
	key := barKey{symbol: t.Symbol, resolution: resolution}

	a.mu.Lock()
	bar, ok := a.bars[key]
	if !ok || bar.T != bucket {
		// 新桶（或时间回拨到别的桶）：从缓存捞出已有的那根继续累计，
		// 没有就开新K线
		a.mu.Unlock()
		existing := a.load(ctx, t.Symbol, resolution, bucket)
		a.mu.Lock()
		if b, again := a.bars[key]; again && b.T == bucket {
			bar = b
		} else if existing != nil {
			bar = existing
			a.bars[key] = bar
		} else {
			bar = &model.Candle{
				Symbol:     t.Symbol,
				Resolution: resolution,
				T:          bucket,
				O:          t.PriceCents,
				H:          t.PriceCents,
				L:          t.PriceCents,
				C:          t.PriceCents,
				V:          t.Size,
				CloseTs:    t.Ts,
			}
			a.bars[key] = bar
			snapshot := *bar
			a.mu.Unlock()
			a.persist(ctx, snapshot)
			return
		}
	}

	if t.PriceCents > bar.H {
		bar.H = t.PriceCents
	}
	if t.PriceCents < bar.L {
		bar.L = t.PriceCents
	}
	if t.Ts >= bar.CloseTs {
		bar.C = t.PriceCents
		bar.CloseTs = t.Ts
	}
	bar.V += t.Size

	snapshot := *bar
	a.mu.Unlock()
	a.persist(ctx, snapshot)
}

// load 从redis捞指定桶的K线（进程重启或桶切换时续写用）
func (a *Aggregator) load(ctx context.Context, symbol, resolution string, bucket int64) *model.Candle {
	if a.rc == nil {
		return nil
	}
	raw, err := a.rc.HGet(ctx, hashKey(symbol, resolution), fmt.Sprintf("%d", bucket)).Result()
	if err != nil {
		return nil
	}
	var c model.Candle
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil
	}
	return &c
}

func (a *Aggregator) persist(ctx context.Context, c model.Candle) {
	payload, err := json.Marshal(c)
	if err != nil {
		return
	}

	if a.rc != nil {
		field := fmt.Sprintf("%d", c.T)
		if err := a.rc.HSet(ctx, hashKey(c.Symbol, c.Resolution), field, payload).Err(); err != nil {
			logger.Warn("persist candle failed",
				logger.Pair("symbol", c.Symbol),
				logger.Pair("resolution", c.Resolution),
				logger.Pair("err", err.Error()))
		}
	}

	if a.producer != nil {
		if err := a.producer.Produce(ctx, consts.KafkaTopicCandle, []byte(c.Symbol), payload); err != nil {
			logger.Warn("produce candle failed", logger.Pair("err", err.Error()))
		}
	}
}

// Invalidate 丢弃某币种的内存K线，下一笔行情重新从redis续写
func (a *Aggregator) Invalidate(symbol string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for key := range a.bars {
		if key.symbol == symbol {
			delete(a.bars, key)
		}
	}
}

// Bars 返回当前内存中各周期的K线快照（调试、测试用）
func (a *Aggregator) Bars(symbol string) []model.Candle {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.Candle, 0, len(a.bars))
	for key, bar := range a.bars {
		if key.symbol == symbol {
			out = append(out, *bar)
		}
	}
	return out
}
