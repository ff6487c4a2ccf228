// Package spltoken 处理标准 SPL Token（Token / Token2022）指令，
// 将未被任何 DEX 协议消费的 Transfer / MintTo / Burn 输出为标准转账事件。
package spltoken

import (
	sdktoken "github.com/blocto/solana-go-sdk/program/token"

	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/pkg/types"
)

// RegisterHandlers 注册 token 的所有指令处理逻辑
func RegisterHandlers(m map[types.Pubkey]common.InstructionHandler) {
	m[consts.TokenProgram] = handleTokenInstruction
	m[consts.TokenProgram2022] = handleTokenInstruction
}

// handleTokenInstruction 负责识别并解析 Token Transfer 类型的指令。
// 返回下一条待处理的指令索引。
func handleTokenInstruction(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]
	if len(ix.Data) == 0 {
		return -1
	}

	switch ix.Data[0] {
	case byte(sdktoken.InstructionTransfer), byte(sdktoken.InstructionTransferChecked):
		return extractTransferEvent(ctx, instrs, current)

	case byte(sdktoken.InstructionMintTo), byte(sdktoken.InstructionMintToChecked):
		return extractMintToEvent(ctx, instrs, current)

	case byte(sdktoken.InstructionBurn), byte(sdktoken.InstructionBurnChecked):
		return extractBurnEvent(ctx, instrs, current)

	default:
		// 非关心的 TokenProgram 指令，忽略（InitializeAccount 系列已在预扫描阶段处理）
		return -1
	}
}

// InstructionName 返回 Token 指令的类型名，shred 模式下用于原始指令事件命名。
func InstructionName(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	switch data[0] {
	case byte(sdktoken.InstructionTransfer):
		return "transfer", true
	case byte(sdktoken.InstructionTransferChecked):
		return "transferChecked", true
	case byte(sdktoken.InstructionMintTo), byte(sdktoken.InstructionMintToChecked):
		return "mintTo", true
	case byte(sdktoken.InstructionBurn), byte(sdktoken.InstructionBurnChecked):
		return "burn", true
	case byte(sdktoken.InstructionInitializeAccount),
		byte(sdktoken.InstructionInitializeAccount2),
		byte(sdktoken.InstructionInitializeAccount3):
		return "initializeAccount", true
	case byte(sdktoken.InstructionCloseAccount):
		return "closeAccount", true
	}
	return "", false
}
