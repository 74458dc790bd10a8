package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinanceFeedStreamURL(t *testing.T) {
	f := NewBinanceFeed("wss://stream.binance.com/stream", []string{"BTCUSDT", "ETHUSDT"}, nil)
	assert.Equal(t,
		"wss://stream.binance.com/stream?streams=btcusdt@trade/ethusdt@trade",
		f.streamURL())
}
