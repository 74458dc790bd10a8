package market

import (
	"context"
	"strings"

	"voltrix/internal/consts"
	"voltrix/internal/model"
	"voltrix/pkg/errors"
	"voltrix/pkg/errors/ecode"

	"github.com/go-redis/redis/v8"
	json "github.com/goccy/go-json"
)

// TickStore 每个symbol的最新成交价缓存，key形如 tick_latest:BTCUSDT。
// 只是缓存，丢了可以由下一个tick重建，绝不能当作资金口径的事实来源。
type TickStore struct {
	rc *redis.Client
}

func NewTickStore(rc *redis.Client) *TickStore {
	return &TickStore{rc: rc}
}

func key(symbol string) string {
	return consts.TickLatestPrefix + strings.ToUpper(symbol)
}

// Save 覆盖写入最新tick。带过期时间，行情中断太久后宁可报没有价格
// 也不用陈旧价格成交
func (s *TickStore) Save(ctx context.Context, t model.Tick) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return s.rc.Set(ctx, key(t.Symbol), payload, consts.RedisExrDefault).Err()
}

// Latest 读取最新tick，没有时返回NoPriceAvailable
func (s *TickStore) Latest(ctx context.Context, symbol string) (model.Tick, error) {
	raw, err := s.rc.Get(ctx, key(symbol)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return model.Tick{}, errors.WithCode(ecode.NoPriceAvailable, "")
		}
		return model.Tick{}, err
	}
	var t model.Tick
	if err := json.Unmarshal(raw, &t); err != nil {
		return model.Tick{}, err
	}
	return t, nil
}

// LatestPrice 实现仓位引擎的PriceSource
func (s *TickStore) LatestPrice(ctx context.Context, symbol string) (int64, error) {
	t, err := s.Latest(ctx, symbol)
	if err != nil {
		return 0, err
	}
	return t.PriceCents, nil
}
