package worker

import (
	"testing"

	"voltrix/internal/consts"
	"voltrix/internal/model/entity"

	"github.com/stretchr/testify/assert"
)

func ptr(v int64) *int64 { return &v }

func TestTriggerReason(t *testing.T) {
	tests := []struct {
		name  string
		side  string
		sl    *int64
		tp    *int64
		price int64
		want  string
	}{
		{name: "多头止损命中", side: consts.SideBuy, sl: ptr(4500), price: 4500, want: "stop_loss"},
		{name: "多头止损未到", side: consts.SideBuy, sl: ptr(4500), price: 4501, want: ""},
		{name: "多头止盈命中", side: consts.SideBuy, tp: ptr(5500), price: 5500, want: "take_profit"},
		{name: "多头两者同时命中止盈优先", side: consts.SideBuy, sl: ptr(5000), tp: ptr(5000), price: 5000, want: "take_profit"},
		{name: "空头止损命中", side: consts.SideSell, sl: ptr(5500), price: 5500, want: "stop_loss"},
		{name: "空头止盈命中", side: consts.SideSell, tp: ptr(4500), price: 4500, want: "take_profit"},
		{name: "空头两者同时命中止盈优先", side: consts.SideSell, sl: ptr(5000), tp: ptr(5000), price: 5000, want: "take_profit"},
		{name: "无触发价", side: consts.SideBuy, price: 1, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &entity.Position{Side: tt.side, StopLossCents: tt.sl, TakeProfitCents: tt.tp}
			assert.Equal(t, tt.want, triggerReason(p, tt.price))
		})
	}
}

func TestShouldActivate(t *testing.T) {
	// 买单：现价跌到委托价及以下
	assert.True(t, shouldActivate(consts.SideBuy, 4999, 5000))
	assert.True(t, shouldActivate(consts.SideBuy, 5000, 5000))
	assert.False(t, shouldActivate(consts.SideBuy, 5001, 5000))

	// 卖单：现价涨到委托价及以上
	assert.True(t, shouldActivate(consts.SideSell, 5001, 5000))
	assert.True(t, shouldActivate(consts.SideSell, 5000, 5000))
	assert.False(t, shouldActivate(consts.SideSell, 4999, 5000))
}
