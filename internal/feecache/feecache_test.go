package feecache

import (
	"context"
	"testing"

	"voltrix/internal/model"
	"voltrix/internal/model/entity"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeFeeDao struct {
	rows  map[string]entity.SymbolFee
	calls int
}

func (f *fakeFeeDao) FeeGetBySymbol(ctx context.Context, symbol string) (entity.SymbolFee, error) {
	f.calls++
	row, ok := f.rows[symbol]
	if !ok {
		return entity.SymbolFee{}, gorm.ErrRecordNotFound
	}
	return row, nil
}

func TestEnrichPercent(t *testing.T) {
	c := New(&fakeFeeDao{rows: map[string]entity.SymbolFee{
		"BTCUSDT": {Symbol: "BTCUSDT", FeeType: "percent", FeeValue: 1},
	}})

	out := c.Enrich(context.Background(), model.Tick{Symbol: "BTCUSDT", PriceCents: 10000})
	assert.Equal(t, "percent", out.FeeType)
	assert.Equal(t, int64(10100), out.PriceWithFeeCents)
}

func TestEnrichFixed(t *testing.T) {
	c := New(&fakeFeeDao{rows: map[string]entity.SymbolFee{
		"BTCUSDT": {Symbol: "BTCUSDT", FeeType: "fixed", FeeValue: 25},
	}})

	out := c.Enrich(context.Background(), model.Tick{Symbol: "BTCUSDT", PriceCents: 10000})
	assert.Equal(t, int64(10025), out.PriceWithFeeCents)
}

// 未配置的symbol命中负缓存，不反复打数据库
func TestNegativeCaching(t *testing.T) {
	fd := &fakeFeeDao{}
	c := New(fd)
	ctx := context.Background()

	out := c.Enrich(ctx, model.Tick{Symbol: "ETHUSDT", PriceCents: 10000})
	assert.Empty(t, out.FeeType)
	assert.Zero(t, out.PriceWithFeeCents)

	c.Enrich(ctx, model.Tick{Symbol: "ETHUSDT", PriceCents: 10000})
	assert.Equal(t, 1, fd.calls)
}

func TestInvalidateForcesReload(t *testing.T) {
	fd := &fakeFeeDao{rows: map[string]entity.SymbolFee{
		"BTCUSDT": {Symbol: "BTCUSDT", FeeType: "fixed", FeeValue: 10},
	}}
	c := New(fd)
	ctx := context.Background()

	c.Get(ctx, "BTCUSDT")
	c.Get(ctx, "BTCUSDT")
	assert.Equal(t, 1, fd.calls)

	// 配置变更
	fd.rows["BTCUSDT"] = entity.SymbolFee{Symbol: "BTCUSDT", FeeType: "fixed", FeeValue: 30}
	c.Invalidate("BTCUSDT")

	fee := c.Get(ctx, "BTCUSDT")
	assert.Equal(t, 2, fd.calls)
	assert.Equal(t, float64(30), fee.FeeValue)
}
