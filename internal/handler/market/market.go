package market

import (
	"net/http"
	"strings"
	"time"

	"voltrix/internal/candle"
	"voltrix/internal/market"
	"voltrix/internal/model"
	"voltrix/pkg/errors"
	"voltrix/pkg/errors/ecode"
	"voltrix/pkg/response"

	"github.com/gin-gonic/gin"
)

// 行情查询与TradingView datafeed。
// datafeed族接口直接返回TradingView约定的扁平JSON，不走统一响应壳。

type symbolInfo struct {
	Name                 string   `json:"name"`
	Ticker               string   `json:"ticker"`
	Description          string   `json:"description"`
	Session              string   `json:"session"`
	Timezone             string   `json:"timezone"`
	Exchange             string   `json:"exchange"`
	Minmov               int      `json:"minmov"`
	Pricescale           int      `json:"pricescale"`
	HasIntraday          bool     `json:"has_intraday"`
	SupportedResolutions []string `json:"supported_resolutions"`
}

type MarketHandler struct {
	store   *market.TickStore
	history *candle.History
	symbols map[string]symbolInfo
}

func NewMarketHandler(store *market.TickStore, history *candle.History, symbols []string) *MarketHandler {
	catalog := make(map[string]symbolInfo, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(s)
		catalog[s] = symbolInfo{
			Name:                 s,
			Ticker:               s,
			Description:          s,
			Session:              "24x7",
			Timezone:             "UTC",
			Exchange:             "VOLTRIX",
			Minmov:               1,
			Pricescale:           100, // 价格以分存储，两位小数
			HasIntraday:          true,
			SupportedResolutions: supportedResolutions(),
		}
	}
	return &MarketHandler{store: store, history: history, symbols: catalog}
}

func supportedResolutions() []string {
	return []string{"1", "5", "15", "60", "D"}
}

// Price 最新成交行情
func (mh *MarketHandler) Price() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		symbol := strings.ToUpper(ctx.Param("symbol"))
		if symbol == "" {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "symbol required"), nil)
			return
		}
		tick, err := mh.store.Latest(ctx, symbol)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, tick)
	}
}

// DatafeedConfig GET /config
func (mh *MarketHandler) DatafeedConfig() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"supports_search":          true,
			"supports_group_request":   false,
			"supported_resolutions":    supportedResolutions(),
			"supports_marks":           false,
			"supports_timescale_marks": false,
		})
	}
}

// DatafeedSymbols GET /symbols?symbol=BTCUSDT
func (mh *MarketHandler) DatafeedSymbols() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		symbol := strings.ToUpper(ctx.Query("symbol"))
		info, ok := mh.symbols[symbol]
		if !ok {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Symbol not found"})
			return
		}
		ctx.JSON(http.StatusOK, info)
	}
}

// DatafeedSearch GET /search?query=BTC
func (mh *MarketHandler) DatafeedSearch() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		query := strings.ToUpper(ctx.Query("query"))
		results := make([]gin.H, 0, len(mh.symbols))
		for _, info := range mh.symbols {
			if query != "" && !strings.Contains(info.Name, query) {
				continue
			}
			results = append(results, gin.H{
				"symbol":      info.Ticker,
				"full_name":   info.Name,
				"description": info.Description,
				"exchange":    info.Exchange,
			})
		}
		ctx.JSON(http.StatusOK, results)
	}
}

// DatafeedHistory GET /history?symbol=&resolution=&from=&to=
// 窗口内没有数据返回 s=no_data，HTTP仍为200
func (mh *MarketHandler) DatafeedHistory() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.HistoryReq
		if err := ctx.ShouldBindQuery(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"s": "error", "error": "Missing parameters"})
			return
		}
		res, err := mh.history.Query(ctx, strings.ToUpper(req.Symbol), req.Resolution, req.From, req.To)
		if err != nil {
			code, msg := errors.DecodeErr(err)
			if code == ecode.ValidateErr {
				ctx.JSON(http.StatusBadRequest, gin.H{"s": "error", "error": msg})
				return
			}
			ctx.JSON(http.StatusInternalServerError, gin.H{"s": "error", "error": "Server error"})
			return
		}
		ctx.JSON(http.StatusOK, res)
	}
}

// DatafeedTime GET /time 服务端时钟（秒）
func (mh *MarketHandler) DatafeedTime() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"time": time.Now().Unix()})
	}
}
