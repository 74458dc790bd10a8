package ledger

import (
	"context"
	"math/rand"
	"os"
	"testing"
	"time"

	"voltrix/internal/dao/query"
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

// 集成测试，需要真实MySQL，通过 VOLTRIX_TEST_DSN 开启

func setupDB(t *testing.T) *gorm.DB {
	dsn := os.Getenv("VOLTRIX_TEST_DSN")
	if dsn == "" {
		t.Skip("VOLTRIX_TEST_DSN not set")
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Wallet{}, &entity.LedgerEntry{}))
	idgen.Init(1)
	return db
}

func TestDepositCreatesWalletAndEntry(t *testing.T) {
	db := setupDB(t)
	wd := query.NewWalletDao(db)
	s := NewService(db, wd)
	ctx := context.Background()
	userId := time.Now().UnixNano() + rand.Int63n(1000)

	mv, err := s.Deposit(ctx, userId, 10000, "ref-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), mv.BalanceBefore)
	assert.Equal(t, int64(10000), mv.BalanceAfter)

	entries, err := s.Entries(ctx, userId, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(10000), entries[0].Change)
	assert.Equal(t, int64(0), entries[0].BalanceBefore)
	assert.Equal(t, int64(10000), entries[0].BalanceAfter)
}

func TestWithdrawInsufficientLeavesNoTrace(t *testing.T) {
	db := setupDB(t)
	wd := query.NewWalletDao(db)
	s := NewService(db, wd)
	ctx := context.Background()
	userId := time.Now().UnixNano() + rand.Int63n(1000)

	_, err := s.Deposit(ctx, userId, 100, "")
	require.NoError(t, err)

	_, err = s.Withdraw(ctx, userId, 200)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, ecode.InsufficientFunds))

	balance, err := s.Balance(ctx, userId)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	entries, err := s.Entries(ctx, userId, 10, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// 按序回放全部流水必须还原余额
func TestLedgerReplay(t *testing.T) {
	db := setupDB(t)
	wd := query.NewWalletDao(db)
	s := NewService(db, wd)
	ctx := context.Background()
	userId := time.Now().UnixNano() + rand.Int63n(1000)

	_, err := s.Deposit(ctx, userId, 10000, "")
	require.NoError(t, err)
	_, err = s.Withdraw(ctx, userId, 2500)
	require.NoError(t, err)
	_, err = s.Deposit(ctx, userId, 111, "")
	require.NoError(t, err)

	balance, err := s.Balance(ctx, userId)
	require.NoError(t, err)

	entries, err := s.Entries(ctx, userId, 100, 0)
	require.NoError(t, err)
	replay := int64(0)
	for _, e := range entries {
		assert.Equal(t, replay, e.BalanceBefore)
		replay += e.Change
		assert.Equal(t, replay, e.BalanceAfter)
	}
	assert.Equal(t, balance, replay)

	sum, err := wd.LedgerSumChange(ctx, userId)
	require.NoError(t, err)
	assert.Equal(t, balance, sum)
}
