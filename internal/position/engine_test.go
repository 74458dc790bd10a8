package position

import (
	"context"
	"testing"

	"voltrix/internal/consts"
	"voltrix/internal/model"
	"voltrix/pkg/errors"
	"voltrix/pkg/errors/ecode"

	"github.com/stretchr/testify/assert"
)

func TestNotionalCents(t *testing.T) {
	tests := []struct {
		name  string
		price int64
		size  float64
		want  int64
	}{
		{name: "整除", price: 100, size: 2, want: 200},
		{name: "小数向上取整", price: 333, size: 0.1, want: 34},
		{name: "刚好整数", price: 10050, size: 1.5, want: 15075},
		{name: "极小数量", price: 1, size: 0.001, want: 1},
		{name: "买卖同向取整", price: 9999, size: 0.3333, want: 3333},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NotionalCents(tt.price, tt.size))
		})
	}
}

// 开仓扣款和平仓入账用同一个取整函数，零价差平仓pnl必须为0
func TestNotionalCentsRoundTrip(t *testing.T) {
	price := int64(333)
	size := 0.1
	debit := NotionalCents(price, size)
	credit := NotionalCents(price, size)
	assert.Equal(t, int64(0), credit-debit)
}

type erroringPrices struct{ err error }

func (e erroringPrices) LatestPrice(ctx context.Context, symbol string) (int64, error) {
	return 0, e.err
}

// 没有成交价和redis故障要分开报：前者是NoPriceAvailable，后者原样上抛
func TestPlaceOrderPriceSourceErrors(t *testing.T) {
	req := model.PlaceOrderReq{
		Symbol:    "BTCUSDT",
		Side:      consts.SideBuy,
		Size:      1,
		OrderType: consts.OrderTypeMarket,
	}

	eng := NewEngine(nil, nil, nil, nil, erroringPrices{err: errors.WithCode(ecode.NoPriceAvailable, "")}, nil)
	_, err := eng.PlaceOrder(context.Background(), 1, req)
	assert.True(t, errors.IsCode(err, ecode.NoPriceAvailable))

	eng = NewEngine(nil, nil, nil, nil, erroringPrices{err: errors.New("redis: connection refused")}, nil)
	_, err = eng.PlaceOrder(context.Background(), 1, req)
	assert.Error(t, err)
	assert.False(t, errors.IsCode(err, ecode.NoPriceAvailable))

	// 限价单遇到基础设施故障也不落pending
	req.OrderType = consts.OrderTypeLimit
	req.PriceCents = 5000
	_, err = eng.PlaceOrder(context.Background(), 1, req)
	assert.Error(t, err)
	assert.False(t, errors.IsCode(err, ecode.NoPriceAvailable))
}

func TestCrossed(t *testing.T) {
	// 买单：最新价跌到委托价及以下才成交
	assert.True(t, crossed(consts.SideBuy, 99, 100))
	assert.True(t, crossed(consts.SideBuy, 100, 100))
	assert.False(t, crossed(consts.SideBuy, 101, 100))

	// 卖单：最新价涨到委托价及以上才成交
	assert.True(t, crossed(consts.SideSell, 101, 100))
	assert.True(t, crossed(consts.SideSell, 100, 100))
	assert.False(t, crossed(consts.SideSell, 99, 100))
}
