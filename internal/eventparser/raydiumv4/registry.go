// Package raydiumv4 解析 Raydium V4（恒定乘积 AMM）的 swap 与流动性指令。
package raydiumv4

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/pkg/types"
)

// 来源: https://github.com/raydium-io/raydium-amm/blob/master/program/src/instruction.rs
const (
	Initialize2 = 1
	Deposit     = 3
	Withdraw    = 4
	SwapBaseIn  = 9
	SwapBaseOut = 11
)

// RegisterHandlers 注册 RaydiumV4 的所有指令处理逻辑
func RegisterHandlers(m map[types.Pubkey]common.InstructionHandler) {
	m[consts.RaydiumV4Program] = handleInstruction
}

// handleInstruction 是 RaydiumV4 的主分发入口
func handleInstruction(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]
	if len(ix.Data) == 0 {
		return -1
	}
	switch ix.Data[0] {
	case SwapBaseIn, SwapBaseOut:
		return extractSwapEvent(ctx, instrs, current)

	case Initialize2:
		return extractInitializeEvent(ctx, instrs, current)

	case Deposit:
		return extractAddLiquidityEvent(ctx, instrs, current)

	case Withdraw:
		return extractRemoveLiquidityEvent(ctx, instrs, current)

	default:
		return -1
	}
}

// InstructionName 返回 RaydiumV4 指令的类型名，shred 模式下用于原始指令事件命名。
func InstructionName(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	switch data[0] {
	case SwapBaseIn:
		return "swapBaseIn", true
	case SwapBaseOut:
		return "swapBaseOut", true
	case Initialize2:
		return "initialize2", true
	case Deposit:
		return "addLiquidity", true
	case Withdraw:
		return "removeLiquidity", true
	}
	return "", false
}
