// Package pumpfun 解析 Pump.fun bonding curve 的 create / buy / sell / migrate 指令。
// 金额以链上 Event CPI 日志（borsh 编码）为准，而非转账推断。
package pumpfun

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/pkg/types"
)

// 指令 data 前 8 字节方法编号（BigEndian）
const (
	Create  uint64 = 0x181ec828051c0777
	Buy     uint64 = 0x66063d1201daebea
	Sell    uint64 = 0x33e685a4017f83ad
	Migrate uint64 = 0x9beae792ec9ea21e
)

// RegisterHandlers 注册 Pump.fun Program 的指令解析器
func RegisterHandlers(m map[types.Pubkey]common.InstructionHandler) {
	m[consts.PumpFunProgram] = handleInstruction
}

func handleInstruction(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	switch common.Discriminator8(ix.Data) {
	case Create:
		return extractCreateEvent(ctx, instrs, current)
	case Buy:
		return extractSwapEvent(ctx, instrs, current, true)
	case Sell:
		return extractSwapEvent(ctx, instrs, current, false)
	case Migrate:
		return extractMigrateEvent(ctx, instrs, current)
	default:
		return -1
	}
}

// InstructionName 返回 Pump.fun 指令的类型名，shred 模式下用于原始指令事件命名。
func InstructionName(data []byte) (string, bool) {
	switch common.Discriminator8(data) {
	case Create:
		return "create", true
	case Buy:
		return "buy", true
	case Sell:
		return "sell", true
	case Migrate:
		return "migrate", true
	}
	return "", false
}
