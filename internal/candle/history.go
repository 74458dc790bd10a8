package candle

import (
	"context"
	"sort"

	"voltrix/internal/model"
	"voltrix/pkg/errors"
	"voltrix/pkg/errors/ecode"

	"github.com/go-redis/redis/v8"
	json "github.com/goccy/go-json"
)

// History 查询历史K线，TradingView datafeed用。
// 数据源是聚合器落到redis hash里的K线，按桶起始时间升序返回平行数组。
type History struct {
	rc *redis.Client
}

func NewHistory(rc *redis.Client) *History {
	return &History{rc: rc}
}

// Query 返回 [from, to] 闭区间内的K线，区间内没有数据时 s=no_data
func (h *History) Query(ctx context.Context, symbol, resolution string, from, to int64) (*model.CandleHistory, error) {
	if _, ok := model.Resolutions[resolution]; !ok {
		return nil, errors.WithCode(ecode.ValidateErr, "unsupported resolution: "+resolution)
	}

	raw, err := h.rc.HGetAll(ctx, hashKey(symbol, resolution)).Result()
	if err != nil {
		return nil, errors.Wrap(err, ecode.Unknown, "load candles failed")
	}

	candles := make([]model.Candle, 0, len(raw))
	for _, v := range raw {
		var c model.Candle
		if err := json.Unmarshal([]byte(v), &c); err != nil {
			continue
		}
		if c.T < from || c.T > to {
			continue
		}
		candles = append(candles, c)
	}

	if len(candles) == 0 {
		return &model.CandleHistory{S: model.HistoryStatusNoData}, nil
	}

	sort.Slice(candles, func(i, j int) bool { return candles[i].T < candles[j].T })

	res := &model.CandleHistory{
		S: model.HistoryStatusOk,
		T: make([]int64, 0, len(candles)),
		O: make([]int64, 0, len(candles)),
		H: make([]int64, 0, len(candles)),
		L: make([]int64, 0, len(candles)),
		C: make([]int64, 0, len(candles)),
		V: make([]float64, 0, len(candles)),
	}
	for _, c := range candles {
		res.T = append(res.T, c.T)
		res.O = append(res.O, c.O)
		res.H = append(res.H, c.H)
		res.L = append(res.L, c.L)
		res.C = append(res.C, c.C)
		res.V = append(res.V, c.V)
	}
	return res, nil
}
