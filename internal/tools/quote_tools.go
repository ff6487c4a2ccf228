package tools

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/pkg/types"
)

const (
	WSOLDecimals = 9
	USDCDecimals = 6
	USDTDecimals = 6
)

// USDQuoteMints 表示具有稳定美元价格参考的常用报价币（右对），用于 BUY/SELL 方向判定。
var USDQuoteMints = []types.Pubkey{
	consts.WSOLMint,
	consts.USDCMint,
	consts.USDTMint,
}

// QuoteDecimals 是内置报价币的精度表，用于余额表缺失时的兜底解析。
// 原生 SOL（全零地址）视为 9 位精度。
var QuoteDecimals = map[types.Pubkey]uint8{
	consts.NativeSOLMint: consts.SOLDecimals,
	consts.WSOLMint:      WSOLDecimals,
	consts.USDCMint:      USDCDecimals,
	consts.USDTMint:      USDTDecimals,
}

// QuotePriority 定义系统内置 quote token 的优先级（数值越小优先级越高）。
var QuotePriority = map[types.Pubkey]int{
	consts.NativeSOLMint: 0,
	consts.WSOLMint:      1,
	consts.USDCMint:      2,
	consts.USDTMint:      3,
}

// IsQuoteMint 判断 mint 是否为内置报价币（含原生 SOL）
func IsQuoteMint(mint types.Pubkey) bool {
	_, ok := QuotePriority[mint]
	return ok
}

// ChooseQuote 根据 QuotePriority 从两个 mint 中选出 quote（右对）。
// 返回 false 表示双方都不是内置报价币。
func ChooseQuote(a, b types.Pubkey) (quote types.Pubkey, ok bool) {
	pa, oka := QuotePriority[a]
	pb, okb := QuotePriority[b]

	switch {
	case oka && okb:
		if pa <= pb {
			return a, true // a 优先级更高 → 更适合当 quote
		}
		return b, true
	case oka:
		return a, true
	case okb:
		return b, true
	}

	return types.Pubkey{}, false
}
