package candle

import (
	"context"
	"testing"

	"voltrix/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tick(priceCents int64, size float64, tsMs int64) model.Tick {
	return model.Tick{Symbol: "BTCUSDT", PriceCents: priceCents, Size: size, Ts: tsMs}
}

func findBar(t *testing.T, a *Aggregator, resolution string) model.Candle {
	t.Helper()
	for _, bar := range a.Bars("BTCUSDT") {
		if bar.Resolution == resolution {
			return bar
		}
	}
	t.Fatalf("no bar for resolution %s", resolution)
	return model.Candle{}
}

func TestAggregatorBucketAssignment(t *testing.T) {
	a := NewAggregator(nil, nil)
	ctx := context.Background()

	// 1700000000 对60秒周期的桶起点是 1699999980
	a.OnTick(ctx, tick(5000, 1, 1700000000_000))

	bar := findBar(t, a, "1")
	assert.Equal(t, int64(1700000000/60*60), bar.T)
	assert.Equal(t, int64(5000), bar.O)
	assert.Equal(t, int64(5000), bar.H)
	assert.Equal(t, int64(5000), bar.L)
	assert.Equal(t, int64(5000), bar.C)
	assert.Equal(t, float64(1), bar.V)

	day := findBar(t, a, "D")
	assert.Equal(t, int64(1700000000/86400*86400), day.T)
}

func TestAggregatorHighLowVolume(t *testing.T) {
	a := NewAggregator(nil, nil)
	ctx := context.Background()
	base := int64(1700000000_000)

	a.OnTick(ctx, tick(5000, 1, base))
	a.OnTick(ctx, tick(5200, 2, base+1000))
	a.OnTick(ctx, tick(4900, 0.5, base+2000))

	bar := findBar(t, a, "1")
	assert.Equal(t, int64(5000), bar.O)
	assert.Equal(t, int64(5200), bar.H)
	assert.Equal(t, int64(4900), bar.L)
	assert.Equal(t, int64(4900), bar.C)
	assert.Equal(t, 3.5, bar.V)
}

// 收盘价取事件时间最新的一笔，乱序到达不改变结果
func TestAggregatorOutOfOrderClose(t *testing.T) {
	a := NewAggregator(nil, nil)
	ctx := context.Background()
	base := int64(1700000000_000)

	a.OnTick(ctx, tick(5100, 1, base+5000))
	// 事件时间更早的tick迟到：参与高低价和量，不覆盖收盘价
	a.OnTick(ctx, tick(4800, 1, base+1000))

	bar := findBar(t, a, "1")
	assert.Equal(t, int64(5100), bar.C)
	assert.Equal(t, int64(5100), bar.H)
	assert.Equal(t, int64(4800), bar.L)
	assert.Equal(t, float64(2), bar.V)
}

// 两种到达顺序聚合出同一根K线
func TestAggregatorOrderIndependence(t *testing.T) {
	ctx := context.Background()
	base := int64(1700000000_000)
	ticks := []model.Tick{
		tick(5000, 1, base),
		tick(5300, 2, base+10_000),
		tick(4700, 1, base+20_000),
	}

	a1 := NewAggregator(nil, nil)
	for _, tk := range ticks {
		a1.OnTick(ctx, tk)
	}
	a2 := NewAggregator(nil, nil)
	for i := len(ticks) - 1; i >= 0; i-- {
		a2.OnTick(ctx, ticks[i])
	}

	b1 := findBar(t, a1, "1")
	b2 := findBar(t, a2, "1")
	assert.Equal(t, b1.H, b2.H)
	assert.Equal(t, b1.L, b2.L)
	assert.Equal(t, b1.C, b2.C)
	assert.Equal(t, b1.V, b2.V)
	assert.Equal(t, b1.T, b2.T)
}

func TestAggregatorNewBucketStartsNewBar(t *testing.T) {
	a := NewAggregator(nil, nil)
	ctx := context.Background()
	base := int64(1700000000_000)

	a.OnTick(ctx, tick(5000, 1, base))
	// 下一分钟
	a.OnTick(ctx, tick(5100, 1, base+120_000))

	bar := findBar(t, a, "1")
	assert.Equal(t, int64(5100), bar.O)
	assert.Equal(t, int64((1700000000+120)/60*60), bar.T)
}

func TestAggregatorInvalidate(t *testing.T) {
	a := NewAggregator(nil, nil)
	ctx := context.Background()

	a.OnTick(ctx, tick(5000, 1, 1700000000_000))
	require.NotEmpty(t, a.Bars("BTCUSDT"))

	a.Invalidate("BTCUSDT")
	assert.Empty(t, a.Bars("BTCUSDT"))
}
