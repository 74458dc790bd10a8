package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 跨进程payload走统一规范化：字符串价格也要能解出来
func TestDecodeTick(t *testing.T) {
	tk, err := decodeTick([]byte(`{"symbol":"btcusdt","price_cents":"5000","size":0.5,"ts":1700000000000}`))
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", tk.Symbol)
	assert.Equal(t, int64(5000), tk.PriceCents)
	assert.Equal(t, 0.5, tk.Size)
	assert.Equal(t, int64(1700000000000), tk.Ts)
}

func TestDecodeTickRejectsBadPayload(t *testing.T) {
	_, err := decodeTick([]byte(`not json`))
	assert.Error(t, err)

	_, err = decodeTick([]byte(`{"price_cents":5000}`))
	assert.Error(t, err)

	_, err = decodeTick([]byte(`{"symbol":"BTCUSDT","price_cents":0}`))
	assert.Error(t, err)
}
