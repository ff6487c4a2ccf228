package meteoradlmm

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/pkg/logger"
)

// removeLiquidity 指令账户布局：
//
// #0  - Position                      // 用户头寸账户
// #1  - Lb Pair                       // 流动性池主账户
// #2  - Bin Array Bitmap Extension
// #3  - User Token X Account
// #4  - User Token Y Account
// #5  - Reserve X
// #6  - Reserve Y
// #7  - Token X Mint
// #8  - Token Y Mint
// #9  - Bin Array Lower
// #10 - Bin Array Upper
// #11 - Sender
// #12 - Token X Program
// #13 - Token Y Program
// #14 - Event Authority
// #15 - Program
func extractEventForRemoveLiquidity(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	const requiredAccounts = 12
	if len(ix.Accounts) < requiredAccounts {
		logger.Errorf("[MeteoraDLMM:RemoveLiquidity] 指令账户长度不足: got=%d, expect>=%d, tx=%s",
			len(ix.Accounts), requiredAccounts, ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractRemoveLiquidityEvent(ctx, instrs, current, consts.DexMeteoraDLMM, "RemoveLiquidity", &common.LiquidityLayout{
		RequireBothTransfer:    false,
		PoolAddressIndex:       1,
		TokenMint1Index:        7,
		TokenMint2Index:        8,
		UserWalletIndex:        11,
		UserToken1AccountIndex: 3,
		UserToken2AccountIndex: 4,
		UserLpAccountIndex:     -1,
		PoolToken1AccountIndex: 5,
		PoolToken2AccountIndex: 6,
		LpMintIndex:            -1,
	})
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	return maxIndex + 1
}

// removeLiquidity2 指令账户布局：无 Bin Array Lower/Upper，Sender 在 #9，#12 为 Memo Program。
func extractEventForRemoveLiquidity2(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	const requiredAccounts = 10
	if len(ix.Accounts) < requiredAccounts {
		logger.Errorf("[MeteoraDLMM:RemoveLiquidity2] 指令账户长度不足: got=%d, expect>=%d, tx=%s",
			len(ix.Accounts), requiredAccounts, ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractRemoveLiquidityEvent(ctx, instrs, current, consts.DexMeteoraDLMM, "RemoveLiquidity2", &common.LiquidityLayout{
		RequireBothTransfer:    false,
		PoolAddressIndex:       1,
		TokenMint1Index:        7,
		TokenMint2Index:        8,
		UserWalletIndex:        9,
		UserToken1AccountIndex: 3,
		UserToken2AccountIndex: 4,
		UserLpAccountIndex:     -1,
		PoolToken1AccountIndex: 5,
		PoolToken2AccountIndex: 6,
		LpMintIndex:            -1,
	})
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	return maxIndex + 1
}

// removeLiquidityByRange 指令账户布局：与 removeLiquidity 一致（范围参数在 data 中）。
func extractEventForRemoveLiquidityByRange(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	const requiredAccounts = 12
	if len(ix.Accounts) < requiredAccounts {
		logger.Errorf("[MeteoraDLMM:RemoveLiquidityByRange] 指令账户长度不足: got=%d, expect>=%d, tx=%s",
			len(ix.Accounts), requiredAccounts, ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractRemoveLiquidityEvent(ctx, instrs, current, consts.DexMeteoraDLMM, "RemoveLiquidityByRange", &common.LiquidityLayout{
		RequireBothTransfer:    false,
		PoolAddressIndex:       1,
		TokenMint1Index:        7,
		TokenMint2Index:        8,
		UserWalletIndex:        11,
		UserToken1AccountIndex: 3,
		UserToken2AccountIndex: 4,
		UserLpAccountIndex:     -1,
		PoolToken1AccountIndex: 5,
		PoolToken2AccountIndex: 6,
		LpMintIndex:            -1,
	})
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	return maxIndex + 1
}

// removeLiquidityByRange2 指令账户布局：与 removeLiquidity2 一致。
func extractEventForRemoveLiquidityByRange2(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	const requiredAccounts = 10
	if len(ix.Accounts) < requiredAccounts {
		logger.Errorf("[MeteoraDLMM:RemoveLiquidityByRange2] 指令账户长度不足: got=%d, expect>=%d, tx=%s",
			len(ix.Accounts), requiredAccounts, ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractRemoveLiquidityEvent(ctx, instrs, current, consts.DexMeteoraDLMM, "RemoveLiquidityByRange2", &common.LiquidityLayout{
		RequireBothTransfer:    false,
		PoolAddressIndex:       1,
		TokenMint1Index:        7,
		TokenMint2Index:        8,
		UserWalletIndex:        9,
		UserToken1AccountIndex: 3,
		UserToken2AccountIndex: 4,
		UserLpAccountIndex:     -1,
		PoolToken1AccountIndex: 5,
		PoolToken2AccountIndex: 6,
		LpMintIndex:            -1,
	})
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	return maxIndex + 1
}

// removeAllLiquidity 指令账户布局：与 removeLiquidity 一致。
func extractEventForRemoveAllLiquidity(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	const requiredAccounts = 12
	if len(ix.Accounts) < requiredAccounts {
		logger.Errorf("[MeteoraDLMM:RemoveAllLiquidity] 指令账户长度不足: got=%d, expect>=%d, tx=%s",
			len(ix.Accounts), requiredAccounts, ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractRemoveLiquidityEvent(ctx, instrs, current, consts.DexMeteoraDLMM, "RemoveAllLiquidity", &common.LiquidityLayout{
		RequireBothTransfer:    false,
		PoolAddressIndex:       1,
		TokenMint1Index:        7,
		TokenMint2Index:        8,
		UserWalletIndex:        11,
		UserToken1AccountIndex: 3,
		UserToken2AccountIndex: 4,
		UserLpAccountIndex:     -1,
		PoolToken1AccountIndex: 5,
		PoolToken2AccountIndex: 6,
		LpMintIndex:            -1,
	})
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	return maxIndex + 1
}
