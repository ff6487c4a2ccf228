package core

import (
	"strconv"

	"dex-parser-sol/internal/utils"
)

// TokenAmount 表示一笔金额的三种视图：
//   - AmountRaw：最小单位整数（十进制字符串，可带符号）；
//   - Amount：AmountRaw / 10^Decimals 的浮点显示值；
//   - Decimals：Token 精度。
//
// 不变量：以任意精度整数解析 AmountRaw 再除以 10^Decimals，应在浮点精度内还原 Amount。
type TokenAmount struct {
	Amount    float64 `json:"amount"`
	AmountRaw string  `json:"amountRaw"`
	Decimals  uint8   `json:"decimals"`
}

func NewTokenAmount(raw uint64, decimals uint8) TokenAmount {
	return TokenAmount{
		Amount:    utils.UiAmount(raw, decimals),
		AmountRaw: strconv.FormatUint(raw, 10),
		Decimals:  decimals,
	}
}

// NewSignedTokenAmount 用于余额差值等有符号金额
func NewSignedTokenAmount(raw int64, decimals uint8) TokenAmount {
	return TokenAmount{
		Amount:    utils.SignedUiAmount(raw, decimals),
		AmountRaw: strconv.FormatInt(raw, 10),
		Decimals:  decimals,
	}
}

// BalanceChange 表示某账户在交易前后的余额变化。
// 不变量：Change.AmountRaw == Post.AmountRaw - Pre.AmountRaw。
type BalanceChange struct {
	Pre    TokenAmount `json:"pre"`
	Post   TokenAmount `json:"post"`
	Change TokenAmount `json:"change"`
}

func NewBalanceChange(pre, post uint64, decimals uint8) *BalanceChange {
	return &BalanceChange{
		Pre:    NewTokenAmount(pre, decimals),
		Post:   NewTokenAmount(post, decimals),
		Change: NewSignedTokenAmount(int64(post)-int64(pre), decimals),
	}
}
