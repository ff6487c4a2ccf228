package orcawhirlpool

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/pkg/logger"
)

// initializePool 指令账户布局：
//
// #0  - Whirlpools Config
// #1  - Token Mint A
// #2  - Token Mint B
// #3  - Funder                    // 池子创建者（Signer + Fee Payer）
// #4  - Whirlpool                 // 即将创建的池子账户
// #5  - Token Vault A
// #6  - Token Vault B
// #7  - Fee Tier
// #8  - Token Program
// #9  - System Program
// #10 - Rent
func extractEventForInitializePool(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	const requiredAccounts = 9
	if len(ix.Accounts) < requiredAccounts {
		logger.Errorf("[OrcaWhirlpool:InitializePool] 指令账户长度不足: got=%d, expect>=%d, tx=%s",
			len(ix.Accounts), requiredAccounts, ctx.TxHashString())
		return -1
	}

	event := common.ExtractCreatePoolEvent(ctx, ix, consts.DexOrcaWhirlpool, "InitializePool", &common.CreatePoolLayout{
		PoolAddressIndex:   4,
		TokenMint1Index:    1,
		TokenMint2Index:    2,
		TokenProgram1Index: 8,
		TokenProgram2Index: -1,
		PoolVault1Index:    5,
		PoolVault2Index:    6,
		UserWalletIndex:    3,
	})
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	return current + 1
}

// initializePoolV2 指令账户布局：
//
// #0  - Whirlpools Config
// #1  - Token Mint A
// #2  - Token Mint B
// #3  - Token Badge A
// #4  - Token Badge B
// #5  - Funder
// #6  - Whirlpool
// #7  - Token Vault A
// #8  - Token Vault B
// #9  - Fee Tier
// #10 - Token Program A
// #11 - Token Program B
// #12 - System Program
// #13 - Rent
func extractEventForInitializePoolV2(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	const requiredAccounts = 12
	if len(ix.Accounts) < requiredAccounts {
		logger.Errorf("[OrcaWhirlpool:InitializePoolV2] 指令账户长度不足: got=%d, expect>=%d, tx=%s",
			len(ix.Accounts), requiredAccounts, ctx.TxHashString())
		return -1
	}

	event := common.ExtractCreatePoolEvent(ctx, ix, consts.DexOrcaWhirlpool, "InitializePoolV2", &common.CreatePoolLayout{
		PoolAddressIndex:   6,
		TokenMint1Index:    1,
		TokenMint2Index:    2,
		TokenProgram1Index: 10,
		TokenProgram2Index: 11,
		PoolVault1Index:    7,
		PoolVault2Index:    8,
		UserWalletIndex:    5,
	})
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	return current + 1
}
