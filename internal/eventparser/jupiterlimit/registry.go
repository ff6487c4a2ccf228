// Package jupiterlimit 解析 Jupiter Limit Order 的挂单与撤单指令。
// 限价单不产生 swap 成交事件，资金进出以合成转账（initializeOrder /
// cancelOrder）的形式输出。
package jupiterlimit

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/pkg/types"
)

// anchor 指令 discriminator（sha256("global:<name>")[0:8]）
const (
	InitializeOrder uint64 = 0x856e4aaf709ff59f
	CancelOrder     uint64 = 0x5f81edf00831df84
)

// RegisterHandlers 注册 Jupiter Limit Order 的所有指令处理逻辑
func RegisterHandlers(m map[types.Pubkey]common.InstructionHandler) {
	m[consts.JupiterLimitProgram] = handleInstruction
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
	case InitializeOrder:
		return extractInitializeOrderEvent(ctx, instrs, current)

	case CancelOrder:
		return extractCancelOrderEvent(ctx, instrs, current)

	default:
		return -1
	}
}

// InstructionName 返回 Jupiter Limit Order 指令的类型名，shred 模式下用于原始指令事件命名。
func InstructionName(data []byte) (string, bool) {
	if len(data) < 8 {
		return "", false
	}
	switch common.Discriminator8(data) {
	case InitializeOrder:
		return "initializeOrder", true
	case CancelOrder:
		return "cancelOrder", true
	}
	return "", false
}
