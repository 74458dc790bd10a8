package market

import (
	"strings"

	"voltrix/internal/model"
	"voltrix/pkg/errors"

	"github.com/spf13/cast"
)

// 上游/跨进程来源的tick是松散类型的json（价格可能是字符串），
// 统一在这里规范化。非法tick返回错误，由调用方丢弃并记日志，绝不中断行情流。

func Normalize(raw map[string]interface{}) (model.Tick, error) {
	symbol := strings.ToUpper(cast.ToString(raw["symbol"]))
	if symbol == "" {
		return model.Tick{}, errors.New("tick missing symbol")
	}
	price := cast.ToInt64(raw["price_cents"])
	if price <= 0 {
		return model.Tick{}, errors.New("tick missing or non-positive price")
	}
	size := cast.ToFloat64(raw["size"])
	if size < 0 {
		return model.Tick{}, errors.New("tick negative size")
	}
	ts := cast.ToInt64(raw["ts"])

	return model.Tick{
		Symbol:     symbol,
		PriceCents: price,
		Size:       size,
		Ts:         ts,
	}, nil
}
