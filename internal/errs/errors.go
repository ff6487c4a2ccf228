// Package errs 定义解析过程的错误分类：
//   - ValidationError：原始交易结构无法标准化，对本次调用致命；
//   - DecodeError：指令 data 短于布局要求，仅影响该指令所属协议；
//   - BalanceNotFoundError：依赖的余额快照缺失，仅影响该指令。
//
// 未注册的 ProgramID 不是错误，由上层静默跳过。
package errs

import "fmt"

type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid transaction: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid transaction: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func NewValidationError(reason string, err error) *ValidationError {
	return &ValidationError{Reason: reason, Err: err}
}

type DecodeError struct {
	Layout string // 所属布局（协议+指令名）
	Want   int    // 布局要求的最小字节数
	Got    int    // 实际字节数
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: data too short, want >= %d bytes, got %d", e.Layout, e.Want, e.Got)
}

func NewDecodeError(layout string, want, got int) *DecodeError {
	return &DecodeError{Layout: layout, Want: want, Got: got}
}

type BalanceNotFoundError struct {
	Account string // 缺失余额快照的账户
	Mint    string // 相关 mint，可为空
}

func (e *BalanceNotFoundError) Error() string {
	if e.Mint != "" {
		return fmt.Sprintf("balance not found: account=%s mint=%s", e.Account, e.Mint)
	}
	return fmt.Sprintf("balance not found: account=%s", e.Account)
}
