// Package pumpfunamm 解析 PumpSwap（Pump.fun AMM）的 swap 与流动性指令。
package pumpfunamm

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/pkg/types"
)

// 指令 data 前 8 字节方法编号（BigEndian）
const (
	Buy        uint64 = 0x66063d1201daebea
	Sell       uint64 = 0x33e685a4017f83ad
	CreatePool uint64 = 0xe992d18ecf6840bc
	Deposit    uint64 = 0xf223c68952e1f2b6
	Withdraw   uint64 = 0xb712469c946da122
)

// RegisterHandlers 注册 PumpSwap Program 的指令解析器
func RegisterHandlers(m map[types.Pubkey]common.InstructionHandler) {
	m[consts.PumpSwapProgram] = handleInstruction
}

func handleInstruction(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	switch common.Discriminator8(ix.Data) {
	case Buy, Sell:
		return extractSwapEvent(ctx, instrs, current)

	case CreatePool:
		return extractCreatePoolEvent(ctx, instrs, current)

	case Deposit:
		return extractDepositEvent(ctx, instrs, current)

	case Withdraw:
		return extractWithdrawEvent(ctx, instrs, current)

	default:
		// 未识别的指令，直接跳过
		return -1
	}
}

// InstructionName 返回 PumpSwap 指令的类型名，shred 模式下用于原始指令事件命名。
func InstructionName(data []byte) (string, bool) {
	switch common.Discriminator8(data) {
	case Buy:
		return "buy", true
	case Sell:
		return "sell", true
	case CreatePool:
		return "createPool", true
	case Deposit:
		return "addLiquidity", true
	case Withdraw:
		return "removeLiquidity", true
	}
	return "", false
}
