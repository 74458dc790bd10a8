package position

import (
	"context"
	"math/rand"
	"os"
	"testing"
	"time"

	"voltrix/internal/consts"
	"voltrix/internal/dao/query"
	"voltrix/internal/ledger"
	"voltrix/internal/model"
	"voltrix/internal/model/entity"
	"voltrix/pkg/errors"
	"voltrix/pkg/errors/ecode"
	"voltrix/pkg/idgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// 集成测试，需要真实MySQL：
//   VOLTRIX_TEST_DSN="root:root@tcp(127.0.0.1:3306)/voltrix_test?charset=utf8mb4&parseTime=true&loc=Local" go test ./internal/position/

type stubPrices struct {
	price int64
	err   error
}

func (s stubPrices) LatestPrice(ctx context.Context, symbol string) (int64, error) {
	return s.price, s.err
}

func setupDB(t *testing.T) *gorm.DB {
	dsn := os.Getenv("VOLTRIX_TEST_DSN")
	if dsn == "" {
		t.Skip("VOLTRIX_TEST_DSN not set")
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.Wallet{},
		&entity.LedgerEntry{},
		&entity.Position{},
		&entity.Trade{},
	))
	idgen.Init(1)
	return db
}

func newTestEngine(db *gorm.DB, lastPrice int64) (*Engine, *ledger.Service) {
	wd := query.NewWalletDao(db)
	ls := ledger.NewService(db, wd)
	return NewEngine(db, query.NewPositionDao(db), query.NewTradeDao(db), ls, stubPrices{price: lastPrice}, nil), ls
}

func newTestUser() int64 {
	return time.Now().UnixNano() + rand.Int63n(1000)
}

// 市价开仓→平仓：余额、pnl、流水回放三方一致
func TestEngineOpenClose(t *testing.T) {
	db := setupDB(t)
	engine, ls := newTestEngine(db, 5000)
	ctx := context.Background()
	userId := newTestUser()

	_, err := ls.Deposit(ctx, userId, 10000, "")
	require.NoError(t, err)

	res, err := engine.PlaceOrder(ctx, userId, model.PlaceOrderReq{
		Side: consts.SideBuy, OrderType: consts.OrderTypeMarket, Size: 1, Symbol: "BTCUSDT",
	})
	require.NoError(t, err)
	assert.False(t, res.Pending)
	assert.Equal(t, int64(5000), res.EntryPriceCents)
	assert.Equal(t, int64(5000), res.DebitedCents)

	balance, err := ls.Balance(ctx, userId)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), balance)

	closePrice := int64(6000)
	closed, err := engine.Close(ctx, userId, res.PositionId, &closePrice)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), closed.PnlCents)

	balance, err = ls.Balance(ctx, userId)
	require.NoError(t, err)
	assert.Equal(t, int64(11000), balance)

	// 流水回放必须还原余额
	sum, err := query.NewWalletDao(db).LedgerSumChange(ctx, userId)
	require.NoError(t, err)
	assert.Equal(t, balance, sum)
}

// 余额不足的市价单整体回滚，不留下任何仓位或流水
func TestEnginePlaceOrderInsufficientFunds(t *testing.T) {
	db := setupDB(t)
	engine, ls := newTestEngine(db, 5000)
	ctx := context.Background()
	userId := newTestUser()

	_, err := ls.Deposit(ctx, userId, 100, "")
	require.NoError(t, err)

	_, err = engine.PlaceOrder(ctx, userId, model.PlaceOrderReq{
		Side: consts.SideBuy, OrderType: consts.OrderTypeMarket, Size: 1, Symbol: "BTCUSDT",
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, ecode.InsufficientFunds))

	var count int64
	require.NoError(t, db.Model(&entity.Position{}).Where("user_id = ?", userId).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	balance, err := ls.Balance(ctx, userId)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)
}

// 激活时余额不足：仓位转cancelled并提交，不向调用方报错
func TestEngineActivateInsufficientFundsCancels(t *testing.T) {
	db := setupDB(t)
	engine, ls := newTestEngine(db, 10000)
	ctx := context.Background()
	userId := newTestUser()

	_, err := ls.Deposit(ctx, userId, 100, "")
	require.NoError(t, err)

	// 最新价10000，买单委托价50不穿越，挂单
	res, err := engine.PlaceOrder(ctx, userId, model.PlaceOrderReq{
		Side: consts.SideBuy, OrderType: consts.OrderTypeLimit, Size: 1, Symbol: "BTCUSDT", PriceCents: 50,
	})
	require.NoError(t, err)
	require.True(t, res.Pending)

	activated, err := engine.ActivatePending(ctx, res.PositionId, 5000)
	require.NoError(t, err)
	assert.False(t, activated)

	var p entity.Position
	require.NoError(t, db.First(&p, res.PositionId).Error)
	assert.Equal(t, consts.PositionStatusCancelled, p.Status)

	balance, err := ls.Balance(ctx, userId)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	// 终态不可再激活
	_, err = engine.ActivatePending(ctx, res.PositionId, 5000)
	assert.True(t, errors.IsCode(err, ecode.PositionNotPending))
}

// 激活价即入场价，原始委托价只作为触发价
func TestEngineActivateRecordsMarketPrice(t *testing.T) {
	db := setupDB(t)
	engine, ls := newTestEngine(db, 10000)
	ctx := context.Background()
	userId := newTestUser()

	_, err := ls.Deposit(ctx, userId, 100000, "")
	require.NoError(t, err)

	res, err := engine.PlaceOrder(ctx, userId, model.PlaceOrderReq{
		Side: consts.SideBuy, OrderType: consts.OrderTypeLimit, Size: 2, Symbol: "BTCUSDT", PriceCents: 5000,
	})
	require.NoError(t, err)
	require.True(t, res.Pending)

	activated, err := engine.ActivatePending(ctx, res.PositionId, 4990)
	require.NoError(t, err)
	require.True(t, activated)

	var p entity.Position
	require.NoError(t, db.First(&p, res.PositionId).Error)
	assert.Equal(t, consts.PositionStatusOpen, p.Status)
	assert.Equal(t, int64(4990), p.EntryPriceCents)

	balance, err := ls.Balance(ctx, userId)
	require.NoError(t, err)
	assert.Equal(t, int64(100000-2*4990), balance)
}

// 重复平仓：第二次拿到PositionNotOpen，余额只入账一次
func TestEngineDoubleCloseIdempotent(t *testing.T) {
	db := setupDB(t)
	engine, ls := newTestEngine(db, 5000)
	ctx := context.Background()
	userId := newTestUser()

	_, err := ls.Deposit(ctx, userId, 10000, "")
	require.NoError(t, err)

	res, err := engine.PlaceOrder(ctx, userId, model.PlaceOrderReq{
		Side: consts.SideBuy, OrderType: consts.OrderTypeMarket, Size: 1, Symbol: "BTCUSDT",
	})
	require.NoError(t, err)

	closePrice := int64(5000)
	_, err = engine.Close(ctx, userId, res.PositionId, &closePrice)
	require.NoError(t, err)

	_, err = engine.Close(ctx, userId, res.PositionId, &closePrice)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, ecode.PositionNotOpen))

	balance, err := ls.Balance(ctx, userId)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), balance)
}

// 只能平自己的仓位，平别人的按不存在处理且仓位原样不动
func TestEngineCloseOtherUsersPosition(t *testing.T) {
	db := setupDB(t)
	engine, ls := newTestEngine(db, 5000)
	ctx := context.Background()
	owner := newTestUser()
	other := newTestUser()

	_, err := ls.Deposit(ctx, owner, 10000, "")
	require.NoError(t, err)

	res, err := engine.PlaceOrder(ctx, owner, model.PlaceOrderReq{
		Side: consts.SideBuy, OrderType: consts.OrderTypeMarket, Size: 1, Symbol: "BTCUSDT",
	})
	require.NoError(t, err)

	closePrice := int64(1)
	_, err = engine.Close(ctx, other, res.PositionId, &closePrice)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, ecode.PositionNotFound))

	var p entity.Position
	require.NoError(t, db.First(&p, res.PositionId).Error)
	assert.Equal(t, consts.PositionStatusOpen, p.Status)

	// 本人仍可正常平仓
	closePrice = 5000
	_, err = engine.Close(ctx, owner, res.PositionId, &closePrice)
	require.NoError(t, err)
}

// 穿越的限价单按委托价立即成交，不用最新价
func TestEngineCrossedLimitExecutesAtRequestedPrice(t *testing.T) {
	db := setupDB(t)
	engine, ls := newTestEngine(db, 4800)
	ctx := context.Background()
	userId := newTestUser()

	_, err := ls.Deposit(ctx, userId, 10000, "")
	require.NoError(t, err)

	// 最新价4800 ≤ 委托价5000，立即成交，按5000入账
	res, err := engine.PlaceOrder(ctx, userId, model.PlaceOrderReq{
		Side: consts.SideBuy, OrderType: consts.OrderTypeLimit, Size: 1, Symbol: "BTCUSDT", PriceCents: 5000,
	})
	require.NoError(t, err)
	assert.False(t, res.Pending)
	assert.Equal(t, int64(5000), res.EntryPriceCents)

	balance, err := ls.Balance(ctx, userId)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), balance)
}
