package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tk, err := Normalize(map[string]interface{}{
		"symbol":      "btcusdt",
		"price_cents": "5000",
		"size":        1.5,
		"ts":          float64(1700000000000),
	})
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", tk.Symbol)
	assert.Equal(t, int64(5000), tk.PriceCents)
	assert.Equal(t, 1.5, tk.Size)
	assert.Equal(t, int64(1700000000000), tk.Ts)
}

func TestNormalizeRejectsBadTicks(t *testing.T) {
	_, err := Normalize(map[string]interface{}{"price_cents": 5000})
	assert.Error(t, err)

	_, err = Normalize(map[string]interface{}{"symbol": "BTCUSDT"})
	assert.Error(t, err)

	_, err = Normalize(map[string]interface{}{"symbol": "BTCUSDT", "price_cents": -1})
	assert.Error(t, err)

	_, err = Normalize(map[string]interface{}{"symbol": "BTCUSDT", "price_cents": 5000, "size": -2})
	assert.Error(t, err)
}
