package market

import (
	"context"

	"voltrix/internal/consts"
	"voltrix/internal/model"
	"voltrix/pkg/logger"

	"github.com/go-redis/redis/v8"
	json "github.com/goccy/go-json"
)

// RedisIngress 订阅 market:prices 频道，把外部进程发布的行情接入本进程。
// 行情源和交易服务分开部署时使用，与 BinanceFeed 二选一。
type RedisIngress struct {
	rc         *redis.Client
	dispatcher *Dispatcher
	cancel     context.CancelFunc
}

func NewRedisIngress(rc *redis.Client, dispatcher *Dispatcher) *RedisIngress {
	return &RedisIngress{rc: rc, dispatcher: dispatcher}
}

func (r *RedisIngress) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	sub := r.rc.Subscribe(ctx, consts.MarketPricesChannel)
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				t, err := decodeTick([]byte(msg.Payload))
				if err != nil {
					logger.Warn("redis ingress bad payload", logger.Pair("err", err.Error()))
					continue
				}
				r.dispatcher.Dispatch(ctx, t)
			}
		}
	}()
	logger.Info("redis market ingress started", logger.Pair("channel", consts.MarketPricesChannel))
}

// decodeTick 跨进程来的payload先解成松散map再走统一规范化
func decodeTick(payload []byte) (model.Tick, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return model.Tick{}, err
	}
	return Normalize(raw)
}

func (r *RedisIngress) Close() {
	if r.cancel != nil {
		r.cancel()
	}
}
