package market

import (
	"testing"

	"voltrix/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubFanOut(t *testing.T) {
	h := NewHub(8)
	defer h.Close()

	a := h.Subscribe("a")
	b := h.Subscribe("b")

	tk := model.Tick{Symbol: "BTCUSDT", PriceCents: 5000, Size: 1, Ts: 1}
	h.Publish(tk)

	assert.Equal(t, tk, <-a)
	assert.Equal(t, tk, <-b)
}

func TestHubPreservesOrderPerSubscriber(t *testing.T) {
	h := NewHub(8)
	defer h.Close()

	ch := h.Subscribe("ordered")
	for i := int64(1); i <= 5; i++ {
		h.Publish(model.Tick{Symbol: "BTCUSDT", PriceCents: i, Ts: i})
	}
	for i := int64(1); i <= 5; i++ {
		assert.Equal(t, i, (<-ch).PriceCents)
	}
}

// 队列满时丢弃，Publish不阻塞
func TestHubDropsWhenSubscriberFull(t *testing.T) {
	h := NewHub(1)
	defer h.Close()

	ch := h.Subscribe("slow")
	h.Publish(model.Tick{Symbol: "BTCUSDT", PriceCents: 1})
	h.Publish(model.Tick{Symbol: "BTCUSDT", PriceCents: 2}) // 被丢弃

	assert.Equal(t, int64(1), (<-ch).PriceCents)
	assert.Len(t, ch, 0)
}

func TestHubCloseClosesChannels(t *testing.T) {
	h := NewHub(1)
	ch := h.Subscribe("x")
	h.Close()

	_, ok := <-ch
	require.False(t, ok)

	// 关闭后的Publish是空操作
	h.Publish(model.Tick{Symbol: "BTCUSDT", PriceCents: 1})
}
