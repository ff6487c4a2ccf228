package spltoken

import (
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
)

// extractTransferEvent 解析 Transfer / TransferChecked 指令并输出转账事件
func extractTransferEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]
	pt, ok := common.ParseTransferInstruction(ctx, ix)
	if !ok {
		return -1
	}
	ctx.AddTransfer(common.BuildTransferData(ctx, ix.ProgramID, pt, false))
	return current + 1
}

// extractMintToEvent 解析 MintTo / MintToChecked 指令并输出铸币事件
func extractMintToEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]
	pm, ok := common.ParseMintToInstruction(ctx, ix)
	if !ok {
		return -1
	}
	ctx.AddTransfer(common.BuildMintToData(ctx, ix.ProgramID, pm))
	return current + 1
}

// extractBurnEvent 解析 Burn / BurnChecked 指令并输出销毁事件
func extractBurnEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]
	pb, ok := common.ParseBurnInstruction(ctx, ix)
	if !ok {
		return -1
	}
	ctx.AddTransfer(common.BuildBurnData(ctx, ix.ProgramID, pb))
	return current + 1
}
