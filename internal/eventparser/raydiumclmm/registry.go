// Package raydiumclmm 解析 Raydium CLMM（集中流动性）的 swap 与流动性指令。
package raydiumclmm

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/pkg/types"
)

// anchor 指令 discriminator（sha256("global:<name>")[0:8]）
// 来源：https://github.com/raydium-io/raydium-clmm/blob/master/programs/amm/src/lib.rs
const (
	Swap                       uint64 = 0xf8c69e91e17587c8
	SwapV2                     uint64 = 0x2b04ed0b1ac91e62
	IncreaseLiquidity          uint64 = 0x2e9cf3760dcdfbb2
	IncreaseLiquidityV2        uint64 = 0x851d59df45eeb00a
	OpenPositionWithToken22Nft uint64 = 0x4dffae527d1dc92e
	OpenPositionV2             uint64 = 0x4db84ad67056f1c7
	DecreaseLiquidity          uint64 = 0xa026d06f685b2c01
	DecreaseLiquidityV2        uint64 = 0x3a7fbc3e4f52c460
	CreatePool                 uint64 = 0xe992d18ecf6840bc
)

// RegisterHandlers 注册 Raydium CLMM 的所有指令处理逻辑
func RegisterHandlers(m map[types.Pubkey]common.InstructionHandler) {
	m[consts.RaydiumCLMMProgram] = handleInstruction
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
	case Swap, SwapV2:
		return extractSwapEvent(ctx, instrs, current)

	case IncreaseLiquidity:
		return extractIncreaseLiquidityEvent(ctx, instrs, current)

	case IncreaseLiquidityV2:
		return extractIncreaseLiquidityV2Event(ctx, instrs, current)

	case OpenPositionWithToken22Nft:
		return extractOpenPositionWithToken22NftEvent(ctx, instrs, current)

	case OpenPositionV2:
		return extractOpenPositionV2Event(ctx, instrs, current)

	case DecreaseLiquidity:
		return extractDecreaseLiquidityEvent(ctx, instrs, current)

	case DecreaseLiquidityV2:
		return extractDecreaseLiquidityV2Event(ctx, instrs, current)

	case CreatePool:
		return extractCreatePoolEvent(ctx, instrs, current)

	default:
		return -1
	}
}

// InstructionName 返回 Raydium CLMM 指令的类型名，shred 模式下用于原始指令事件命名。
func InstructionName(data []byte) (string, bool) {
	if len(data) < 8 {
		return "", false
	}
	switch common.Discriminator8(data) {
	case Swap:
		return "swap", true
	case SwapV2:
		return "swapV2", true
	case IncreaseLiquidity:
		return "increaseLiquidity", true
	case IncreaseLiquidityV2:
		return "increaseLiquidityV2", true
	case OpenPositionWithToken22Nft:
		return "openPositionWithToken22Nft", true
	case OpenPositionV2:
		return "openPositionV2", true
	case DecreaseLiquidity:
		return "decreaseLiquidity", true
	case DecreaseLiquidityV2:
		return "decreaseLiquidityV2", true
	case CreatePool:
		return "createPool", true
	}
	return "", false
}
