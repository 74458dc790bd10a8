package ecode

// 错误码定义。0表示成功，1xxxx为通用错误，2xxxx为交易域错误。

const (
	Success = 0

	Unknown         = 10001
	ValidateErr     = 10002
	NotFoundErr     = 10003
	RequireAuthErr  = 10004
	TooManyRequests = 10005
	// 行级锁等待超时，调用方可重试
	TxContention = 10006

	// 余额不足，整个操作已回滚
	InsufficientFunds = 20001
	// 该symbol还没有任何成交价
	NoPriceAvailable = 20002
	PositionNotFound = 20003
	// 仓位不处于open，可能已被并发触发器处理
	PositionNotOpen = 20004
	// 仓位不处于pending，可能已被并发激活
	PositionNotPending = 20005
	// 账务不变量被破坏，致命错误，必须中止事务
	InvariantViolation = 20006
)

var messages = map[int]string{
	Success:            "ok",
	Unknown:            "internal error",
	ValidateErr:        "invalid params",
	NotFoundErr:        "not found",
	RequireAuthErr:     "authentication required",
	TooManyRequests:    "too many requests",
	TxContention:       "lock wait timeout, retry later",
	InsufficientFunds:  "insufficient funds",
	NoPriceAvailable:   "no price available",
	PositionNotFound:   "position not found",
	PositionNotOpen:    "position not open",
	PositionNotPending: "position not pending",
	InvariantViolation: "ledger invariant violation",
}

// Text 返回错误码的默认文案
func Text(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[Unknown]
}
