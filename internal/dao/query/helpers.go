package query

import (
	"voltrix/pkg/errors"
	"voltrix/pkg/errors/ecode"

	"github.com/go-sql-driver/mysql"
)

// mysql错误码：锁等待超时。见 https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const erLockWaitTimeout = 1205

// wrapLockErr 把锁等待超时映射为可重试的争用错误，其余错误原样返回。
// 超时已导致语句失败，调用方的整个事务会回滚，绝不能当作no-op吞掉。
func wrapLockErr(err error) error {
	if err == nil {
		return nil
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == erLockWaitTimeout {
		return errors.Wrap(err, ecode.TxContention, "")
	}
	return err
}
