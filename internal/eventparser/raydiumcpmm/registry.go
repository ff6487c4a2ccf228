// Package raydiumcpmm 解析 Raydium CPMM（新版恒定乘积 AMM）的 swap 与流动性指令。
package raydiumcpmm

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/pkg/types"
)

// anchor 指令 discriminator（sha256("global:<name>")[0:8]）
// 来源：https://github.com/raydium-io/raydium-cp-swap/blob/master/programs/cp-swap/src/lib.rs
const (
	Initialize    uint64 = 0xafaf6d1f0d989bed
	Deposit       uint64 = 0xf223c68952e1f2b6
	Withdraw      uint64 = 0xb712469c946da122
	SwapBaseInput uint64 = 0x8fbe5adac41e33de
	SwapBaseOut   uint64 = 0x37d96256a34ab4ad
)

// RegisterHandlers 注册 Raydium CPMM 的所有指令处理逻辑
func RegisterHandlers(m map[types.Pubkey]common.InstructionHandler) {
	m[consts.RaydiumCPMMProgram] = handleInstruction
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

	methodID := common.Discriminator8(ix.Data)
	switch methodID {
	case SwapBaseInput, SwapBaseOut:
		return extractSwapEvent(ctx, instrs, current, methodID)

	case Deposit:
		return extractAddLiquidityEvent(ctx, instrs, current)

	case Withdraw:
		return extractRemoveLiquidityEvent(ctx, instrs, current)

	case Initialize:
		return extractInitializeEvent(ctx, instrs, current)

	default:
		return -1
	}
}

// InstructionName 返回 Raydium CPMM 指令的类型名，shred 模式下用于原始指令事件命名。
func InstructionName(data []byte) (string, bool) {
	if len(data) < 8 {
		return "", false
	}
	switch common.Discriminator8(data) {
	case SwapBaseInput:
		return "swapBaseInput", true
	case SwapBaseOut:
		return "swapBaseOutput", true
	case Initialize:
		return "initialize", true
	case Deposit:
		return "addLiquidity", true
	case Withdraw:
		return "removeLiquidity", true
	}
	return "", false
}
