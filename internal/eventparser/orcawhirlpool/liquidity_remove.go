package orcawhirlpool

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/pkg/logger"
)

// decreaseLiquidity 指令账户布局：与 increaseLiquidity 一致，转账方向相反。
func extractEventForDecreaseLiquidity(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	const requiredAccounts = 9
	if len(ix.Accounts) < requiredAccounts {
		logger.Errorf("[OrcaWhirlpool:DecreaseLiquidity] 指令账户长度不足: got=%d, expect>=%d, tx=%s",
			len(ix.Accounts), requiredAccounts, ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractRemoveLiquidityEvent(ctx, instrs, current, consts.DexOrcaWhirlpool, "DecreaseLiquidity", &common.LiquidityLayout{
		RequireBothTransfer:    false,
		PoolAddressIndex:       0,
		TokenMint1Index:        -1,
		TokenMint2Index:        -1,
		UserWalletIndex:        2,
		UserToken1AccountIndex: 5,
		UserToken2AccountIndex: 6,
		UserLpAccountIndex:     -1,
		PoolToken1AccountIndex: 7,
		PoolToken2AccountIndex: 8,
		LpMintIndex:            -1,
	})
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	return maxIndex + 1
}

// decreaseLiquidityV2 指令账户布局：与 increaseLiquidityV2 一致，转账方向相反。
func extractEventForDecreaseLiquidityV2(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	const requiredAccounts = 13
	if len(ix.Accounts) < requiredAccounts {
		logger.Errorf("[OrcaWhirlpool:DecreaseLiquidityV2] 指令账户长度不足: got=%d, expect>=%d, tx=%s",
			len(ix.Accounts), requiredAccounts, ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractRemoveLiquidityEvent(ctx, instrs, current, consts.DexOrcaWhirlpool, "DecreaseLiquidityV2", &common.LiquidityLayout{
		RequireBothTransfer:    false,
		PoolAddressIndex:       0,
		TokenMint1Index:        7,
		TokenMint2Index:        8,
		UserWalletIndex:        4,
		UserToken1AccountIndex: 9,
		UserToken2AccountIndex: 10,
		UserLpAccountIndex:     -1,
		PoolToken1AccountIndex: 11,
		PoolToken2AccountIndex: 12,
		LpMintIndex:            -1,
	})
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	return maxIndex + 1
}
