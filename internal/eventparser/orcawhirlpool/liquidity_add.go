package orcawhirlpool

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/pkg/logger"
)

// increaseLiquidity 指令账户布局：
//
// #0  - Whirlpool                 // 流动性池主账户
// #1  - Token Program
// #2  - Position Authority        // 用户主账户（签名者）
// #3  - Position                  // 用户流动性头寸账户
// #4  - Position Token Account    // 用户持有 Position NFT 的 Token Account
// #5  - Token Owner Account A
// #6  - Token Owner Account B
// #7  - Token Vault A
// #8  - Token Vault B
// #9  - Tick Array Lower
// #10 - Tick Array Upper
func extractEventForIncreaseLiquidity(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	const requiredAccounts = 9
	if len(ix.Accounts) < requiredAccounts {
		logger.Errorf("[OrcaWhirlpool:IncreaseLiquidity] 账户数不足: got=%d, expect>=%d, tx=%s",
			len(ix.Accounts), requiredAccounts, ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractAddLiquidityEvent(ctx, instrs, current, consts.DexOrcaWhirlpool, "IncreaseLiquidity", &common.LiquidityLayout{
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

// increaseLiquidityV2 指令账户布局：
//
// #0  - Whirlpool
// #1  - Token Program A
// #2  - Token Program B
// #3  - Memo Program
// #4  - Position Authority        // 用户主账户（签名者）
// #5  - Position
// #6  - Position Token Account
// #7  - Token Mint A
// #8  - Token Mint B
// #9  - Token Owner Account A
// #10 - Token Owner Account B
// #11 - Token Vault A
// #12 - Token Vault B
// #13 - Tick Array Lower
// #14 - Tick Array Upper
func extractEventForIncreaseLiquidityV2(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	const requiredAccounts = 13
	if len(ix.Accounts) < requiredAccounts {
		logger.Errorf("[OrcaWhirlpool:IncreaseLiquidityV2] 账户数不足: got=%d, expect>=%d, tx=%s",
			len(ix.Accounts), requiredAccounts, ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractAddLiquidityEvent(ctx, instrs, current, consts.DexOrcaWhirlpool, "IncreaseLiquidityV2", &common.LiquidityLayout{
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
