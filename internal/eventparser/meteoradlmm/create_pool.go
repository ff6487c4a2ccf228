package meteoradlmm

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/pkg/logger"
)

// initializeLbPair2 指令账户布局：
//
// #0  - Lb Pair                               // 池子主账户
// #1  - Bin Array Bitmap Extension
// #2  - Token Mint X
// #3  - Token Mint Y
// #4  - Reserve X                             // 池子 Token X 储备账户
// #5  - Reserve Y                             // 池子 Token Y 储备账户
// #6  - Oracle
// #7  - Preset Parameter
// #8  - Funder                                // 池子创建者（Signer + Fee Payer）
// #9  - Token Badge X
// #10 - Token Badge Y
// #11 - Token Program X
// #12 - Token Program Y
// #13 - System Program
// #14 - Event Authority
// #15 - Program
func extractEventForInitializePair2(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	// 实际使用到了 index 0~12
	const requiredAccounts = 13
	if len(ix.Accounts) < requiredAccounts {
		logger.Errorf("[MeteoraDLMM:InitializePair2] 指令账户长度不足: got=%d, expect>=%d, tx=%s",
			len(ix.Accounts), requiredAccounts, ctx.TxHashString())
		return -1
	}

	event := common.ExtractCreatePoolEvent(ctx, ix, consts.DexMeteoraDLMM, "InitializePair2", &common.CreatePoolLayout{
		PoolAddressIndex:   0,
		TokenMint1Index:    2,
		TokenMint2Index:    3,
		TokenProgram1Index: 11,
		TokenProgram2Index: 12,
		PoolVault1Index:    4,
		PoolVault2Index:    5,
		UserWalletIndex:    8,
	})
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	return current + 1
}

// initializeCustomizablePermissionlessLbPair 指令账户布局：
//
// #0  - Lb Pair
// #1  - Bin Array Bitmap Extension
// #2  - Token Mint X
// #3  - Token Mint Y
// #4  - Reserve X
// #5  - Reserve Y
// #6  - Oracle
// #7  - User Token X
// #8  - Funder
// #9  - Token Program
// #10 - System Program
// #11 - User Token Y
// #12 - Event Authority
// #13 - Program
func extractEventForInitializeCustomPair(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	if len(ix.Accounts) < 14 {
		logger.Errorf("[MeteoraDLMM:InitializeCustomPair] 指令账户长度不足: got=%d, expect>=14, tx=%s",
			len(ix.Accounts), ctx.TxHashString())
		return -1
	}

	event := common.ExtractCreatePoolEvent(ctx, ix, consts.DexMeteoraDLMM, "InitializeCustomPair", &common.CreatePoolLayout{
		PoolAddressIndex:   0,
		TokenMint1Index:    2,
		TokenMint2Index:    3,
		TokenProgram1Index: 9,
		TokenProgram2Index: -1,
		PoolVault1Index:    4,
		PoolVault2Index:    5,
		UserWalletIndex:    8,
	})
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	return current + 1
}

// initializeCustomizablePermissionlessLbPair2 指令账户布局：
// 前 9 位与 initializeCustomPair 一致，#9/#10 为 Token Badge X/Y，#11/#12 为 Token Program X/Y。
func extractEventForInitializeCustomPair2(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	// 实际使用到了 index 0~12
	const requiredAccounts = 13
	if len(ix.Accounts) < requiredAccounts {
		logger.Errorf("[MeteoraDLMM:InitializeCustomPair2] 指令账户长度不足: got=%d, expect>=%d, tx=%s",
			len(ix.Accounts), requiredAccounts, ctx.TxHashString())
		return -1
	}

	event := common.ExtractCreatePoolEvent(ctx, ix, consts.DexMeteoraDLMM, "InitializeCustomPair2", &common.CreatePoolLayout{
		PoolAddressIndex:   0,
		TokenMint1Index:    2,
		TokenMint2Index:    3,
		TokenProgram1Index: 11,
		TokenProgram2Index: 12,
		PoolVault1Index:    4,
		PoolVault2Index:    5,
		UserWalletIndex:    8,
	})
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	return current + 1
}

// initializePermissionLbPair 指令账户布局：
//
// #0  - Base                                   // lb_pair 派生种子 PDA
// #1  - Lb Pair
// #2  - Bin Array Bitmap Extension
// #3  - Token Mint X
// #4  - Token Mint Y
// #5  - Reserve X
// #6  - Reserve Y
// #7  - Oracle
// #8  - Admin                                  // 管理员钱包（Signer + Fee Payer）
// #9  - Token Badge X
// #10 - Token Badge Y
// #11 - Token Program X
// #12 - Token Program Y
func extractEventForInitializePermissionLbPair(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	// 实际使用到了 index 0~12
	const requiredAccounts = 13
	if len(ix.Accounts) < requiredAccounts {
		logger.Errorf("[MeteoraDLMM:InitializePermissionLbPair] 指令账户长度不足: got=%d, expect>=%d, tx=%s",
			len(ix.Accounts), requiredAccounts, ctx.TxHashString())
		return -1
	}

	event := common.ExtractCreatePoolEvent(ctx, ix, consts.DexMeteoraDLMM, "InitializePermissionLbPair", &common.CreatePoolLayout{
		PoolAddressIndex:   1,
		TokenMint1Index:    3,
		TokenMint2Index:    4,
		TokenProgram1Index: 11,
		TokenProgram2Index: 12,
		PoolVault1Index:    5,
		PoolVault2Index:    6,
		UserWalletIndex:    8,
	})
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	return current + 1
}
