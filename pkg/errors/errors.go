package errors

import (
	stderrors "errors"
	"fmt"

	"voltrix/pkg/errors/ecode"
)

// 携带错误码的error，配合response包向客户端输出统一的code/message

type withCode struct {
	code  int
	msg   string
	cause error
}

func (w *withCode) Error() string {
	if w.cause != nil {
		return w.msg + ": " + w.cause.Error()
	}
	return w.msg
}

func (w *withCode) Unwrap() error { return w.cause }

// New 创建一个不带码的错误（等价于Unknown）
func New(msg string) error {
	return &withCode{code: ecode.Unknown, msg: msg}
}

func Newf(format string, args ...interface{}) error {
	return New(fmt.Sprintf(format, args...))
}

// WithCode 创建一个带错误码的错误
func WithCode(code int, msg string) error {
	if msg == "" {
		msg = ecode.Text(code)
	}
	return &withCode{code: code, msg: msg}
}

// Wrap 包装底层错误并赋予错误码
func Wrap(err error, code int, msg string) error {
	if err == nil {
		return nil
	}
	if msg == "" {
		msg = ecode.Text(code)
	}
	return &withCode{code: code, msg: msg, cause: err}
}

// DecodeErr 解出错误码和文案，用于响应封装
func DecodeErr(err error) (int, string) {
	if err == nil {
		return ecode.Success, ecode.Text(ecode.Success)
	}
	var w *withCode
	if stderrors.As(err, &w) {
		return w.code, w.msg
	}
	return ecode.Unknown, err.Error()
}

// IsCode 判断错误链上是否存在指定错误码
func IsCode(err error, code int) bool {
	var w *withCode
	if stderrors.As(err, &w) {
		return w.code == code
	}
	return false
}

// Is 透传标准库判断
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As 透传标准库判断
func As(err error, target interface{}) bool { return stderrors.As(err, target) }
