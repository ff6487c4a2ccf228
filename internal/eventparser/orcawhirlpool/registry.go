// Package orcawhirlpool 解析 Orca Whirlpool（集中流动性）的 swap 与流动性指令。
package orcawhirlpool

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/pkg/types"
)

// anchor 指令 discriminator（sha256("global:<name>")[0:8]）
const (
	// Swap 系列
	Swap  uint64 = 0xf8c69e91e17587c8
	Swap2 uint64 = 0x2b04ed0b1ac91e62

	// Create Pool 系列
	InitializePool   uint64 = 0x5fb40aac54aee828
	InitializePoolV2 uint64 = 0xcf2d57f21b3fcc43

	// 添加流动性
	IncreaseLiquidity   uint64 = 0x2e9cf3760dcdfbb2
	IncreaseLiquidityV2 uint64 = 0x851d59df45eeb00a

	// 移除流动性
	DecreaseLiquidity   uint64 = 0xa026d06f685b2c01
	DecreaseLiquidityV2 uint64 = 0x3a7fbc3e4f52c460
)

// RegisterHandlers 注册 Orca Whirlpool 的所有指令处理逻辑
func RegisterHandlers(m map[types.Pubkey]common.InstructionHandler) {
	m[consts.OrcaWhirlpoolProgram] = handleInstruction
}

func handleInstruction(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]
	if len(ix.Data) < 8 {
		return -1
	}

	switch common.Discriminator8(ix.Data) {
	case Swap:
		return extractSwapEvent(ctx, instrs, current)

	case Swap2:
		return extractSwap2Event(ctx, instrs, current)

	case InitializePool:
		return extractEventForInitializePool(ctx, instrs, current)

	case InitializePoolV2:
		return extractEventForInitializePoolV2(ctx, instrs, current)

	case IncreaseLiquidity:
		return extractEventForIncreaseLiquidity(ctx, instrs, current)

	case IncreaseLiquidityV2:
		return extractEventForIncreaseLiquidityV2(ctx, instrs, current)

	case DecreaseLiquidity:
		return extractEventForDecreaseLiquidity(ctx, instrs, current)

	case DecreaseLiquidityV2:
		return extractEventForDecreaseLiquidityV2(ctx, instrs, current)

	default:
		return -1
	}
}

// InstructionName 返回 Orca Whirlpool 指令的类型名，shred 模式下用于原始指令事件命名。
func InstructionName(data []byte) (string, bool) {
	if len(data) < 8 {
		return "", false
	}
	switch common.Discriminator8(data) {
	case Swap:
		return "swap", true
	case Swap2:
		return "swapV2", true
	case InitializePool:
		return "initializePool", true
	case InitializePoolV2:
		return "initializePoolV2", true
	case IncreaseLiquidity:
		return "increaseLiquidity", true
	case IncreaseLiquidityV2:
		return "increaseLiquidityV2", true
	case DecreaseLiquidity:
		return "decreaseLiquidity", true
	case DecreaseLiquidityV2:
		return "decreaseLiquidityV2", true
	}
	return "", false
}
