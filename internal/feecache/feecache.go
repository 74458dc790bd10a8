package feecache

import (
	"context"
	"math"
	"strings"
	"sync"

	"voltrix/internal/dao"
	"voltrix/internal/model"
	"voltrix/internal/model/entity"
	"voltrix/pkg/logger"

	"gorm.io/gorm"
)

// 每个tick都要查一次手续费配置，不能打到数据库上，这里做进程内缓存。
// 显式持有、可注入，失效通过Invalidate(symbol)，不做模块级单例。
// 未配置手续费的symbol也缓存（负缓存），避免反复miss。

type Cache struct {
	mu   sync.RWMutex
	fees map[string]*entity.SymbolFee // nil值表示已确认无配置
	fd   dao.FeeDao
}

func New(fd dao.FeeDao) *Cache {
	return &Cache{
		fees: make(map[string]*entity.SymbolFee),
		fd:   fd,
	}
}

// Get 返回symbol的手续费配置，无配置返回nil
func (c *Cache) Get(ctx context.Context, symbol string) *entity.SymbolFee {
	sym := strings.ToUpper(symbol)

	c.mu.RLock()
	fee, hit := c.fees[sym]
	c.mu.RUnlock()
	if hit {
		return fee
	}

	row, err := c.fd.FeeGetBySymbol(ctx, sym)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Warn("load symbol fee failed",
				logger.Pair("symbol", sym),
				logger.Pair("err", err.Error()))
			return nil
		}
		fee = nil
	} else {
		fee = &row
	}

	c.mu.Lock()
	c.fees[sym] = fee
	c.mu.Unlock()
	return fee
}

// Invalidate 管理端改了配置后调用
func (c *Cache) Invalidate(symbol string) {
	c.mu.Lock()
	delete(c.fees, strings.ToUpper(symbol))
	c.mu.Unlock()
}

// Enrich 给对外广播的tick附加手续费字段。percent按百分比上浮，fixed加固定分数。
func (c *Cache) Enrich(ctx context.Context, t model.Tick) model.Tick {
	fee := c.Get(ctx, t.Symbol)
	if fee == nil {
		return t
	}
	t.FeeType = fee.FeeType
	t.FeeValue = fee.FeeValue
	if fee.FeeType == "percent" {
		t.PriceWithFeeCents = int64(math.Round(float64(t.PriceCents) * (1 + fee.FeeValue/100)))
	} else {
		t.PriceWithFeeCents = t.PriceCents + int64(math.Round(fee.FeeValue))
	}
	return t
}
