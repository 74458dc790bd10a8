package ledger

import (
	"context"
	"time"

	"voltrix/internal/consts"
	"voltrix/internal/dao"
	"voltrix/internal/model/entity"
	"voltrix/pkg/errors"
	"voltrix/pkg/errors/ecode"
	"voltrix/pkg/idgen"
	"voltrix/utils"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 钱包账务服务。余额的唯一修改入口：任何资金变动都要经过Debit/Credit，
// 同一事务内锁钱包行、改余额、追加一条流水，三者要么都发生要么都不发生。

// Movement 一次余额变动的前后快照
type Movement struct {
	BalanceBefore int64 `json:"balance_before_cents"`
	BalanceAfter  int64 `json:"balance_after_cents"`
}

type Service struct {
	ds *gorm.DB
	wd dao.WalletDao
}

func NewService(ds *gorm.DB, wd dao.WalletDao) *Service {
	return &Service{ds: ds, wd: wd}
}

// Debit 在调用方事务内扣款。余额不足时不产生任何变更，
// 返回InsufficientFunds由调用方回滚整个事务。
func (s *Service) Debit(tx *gorm.DB, userId int64, amountCents int64, kind consts.LedgerKind, positionId *int64, meta map[string]interface{}) (Movement, error) {
	if amountCents <= 0 {
		return Movement{}, errors.WithCode(ecode.InvariantViolation, "debit amount must be positive")
	}
	wallet, err := s.wd.WalletGetByUserForUpdate(tx, userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Movement{}, errors.WithCode(ecode.NotFoundErr, "wallet not found")
		}
		return Movement{}, err
	}

	before := wallet.BalanceCents
	after := before - amountCents
	if after < 0 {
		return Movement{}, errors.WithCode(ecode.InsufficientFunds, "")
	}

	if err := s.apply(tx, &wallet, -amountCents, after, kind, positionId, meta); err != nil {
		return Movement{}, err
	}
	return Movement{BalanceBefore: before, BalanceAfter: after}, nil
}

// Credit 在调用方事务内入账
func (s *Service) Credit(tx *gorm.DB, userId int64, amountCents int64, kind consts.LedgerKind, positionId *int64, meta map[string]interface{}) (Movement, error) {
	if amountCents <= 0 {
		return Movement{}, errors.WithCode(ecode.InvariantViolation, "credit amount must be positive")
	}
	wallet, err := s.wd.WalletGetByUserForUpdate(tx, userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Movement{}, errors.WithCode(ecode.NotFoundErr, "wallet not found")
		}
		return Movement{}, err
	}

	before := wallet.BalanceCents
	after := before + amountCents
	if after < 0 {
		// 溢出或脏数据，致命，中止事务
		return Movement{}, errors.WithCode(ecode.InvariantViolation, "credit would corrupt balance")
	}

	if err := s.apply(tx, &wallet, amountCents, after, kind, positionId, meta); err != nil {
		return Movement{}, err
	}
	return Movement{BalanceBefore: before, BalanceAfter: after}, nil
}

// apply 改余额并追加流水，二者同事务
func (s *Service) apply(tx *gorm.DB, wallet *entity.Wallet, change int64, after int64, kind consts.LedgerKind, positionId *int64, meta map[string]interface{}) error {
	if err := s.wd.WalletUpdateBalance(tx, wallet.Id, after); err != nil {
		return err
	}
	entry := &entity.LedgerEntry{
		Id:            idgen.NextID(),
		UserId:        wallet.UserId,
		PositionId:    positionId,
		Change:        change,
		BalanceBefore: wallet.BalanceCents,
		BalanceAfter:  after,
		Kind:          string(kind),
	}
	if meta != nil {
		raw, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		entry.Meta = datatypes.JSON(raw)
	}
	return s.wd.LedgerAppend(tx, entry)
}

// Deposit 沙盒充值，独立事务。首次充值自动开钱包
func (s *Service) Deposit(ctx context.Context, userId int64, amountCents int64, reference string) (mv Movement, err error) {
	if reference == "" {
		reference = uuid.NewString()
	}
	err = s.ds.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		meta := map[string]interface{}{"reference": reference}
		mv, err = s.Credit(tx, userId, amountCents, consts.LedgerKindDeposit, nil, meta)
		if err != nil && errors.IsCode(err, ecode.NotFoundErr) {
			now := utils.JsonTime(time.Now())
			w := &entity.Wallet{Id: idgen.NextID(), UserId: userId, CreatedAt: now, UpdatedAt: now}
			if cerr := s.wd.WalletCreate(tx, w); cerr != nil {
				return cerr
			}
			mv, err = s.Credit(tx, userId, amountCents, consts.LedgerKindDeposit, nil, meta)
		}
		return err
	})
	return
}

// Withdraw 沙盒提现，独立事务。余额不足原样返回InsufficientFunds
func (s *Service) Withdraw(ctx context.Context, userId int64, amountCents int64) (mv Movement, err error) {
	err = s.ds.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mv, err = s.Debit(tx, userId, amountCents, consts.LedgerKindWithdraw, nil, nil)
		return err
	})
	return
}

// Balance 当前余额
func (s *Service) Balance(ctx context.Context, userId int64) (int64, error) {
	wallet, err := s.wd.WalletGetByUser(ctx, userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errors.WithCode(ecode.NotFoundErr, "wallet not found")
		}
		return 0, err
	}
	return wallet.BalanceCents, nil
}

// Entries 按创建顺序返回流水
func (s *Service) Entries(ctx context.Context, userId int64, limit, offset int) ([]entity.LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.wd.LedgerGetByUser(ctx, userId, limit, offset)
}
