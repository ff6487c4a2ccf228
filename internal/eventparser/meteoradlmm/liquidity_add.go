package meteoradlmm

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/internal/tools"
	"dex-parser-sol/pkg/logger"
	"dex-parser-sol/pkg/types"
)

// DLMM 为 bin 制流动性，无 LP mint，允许单边注入，
// 各布局均取 RequireBothTransfer=false、LpMintIndex=-1。

// addLiquidity2 指令账户布局：
//
// #0  - Position                             // 流动性头寸账户
// #1  - Lb Pair                              // 流动性池主账户
// #2  - Bin Array Bitmap Extension
// #3  - User Token X
// #4  - User Token Y
// #5  - Reserve X                            // 池子 Token X 储备账户
// #6  - Reserve Y                            // 池子 Token Y 储备账户
// #7  - Token Mint X
// #8  - Token Mint Y
// #9  - Sender                               // 操作发起人（Signer + Fee Payer）
// #10 - Token Program X
// #11 - Token Program Y
// #12 - Event Authority
// #13 - Program
func extractEventForAddLiquidity2(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	const requiredAccounts = 10
	if len(ix.Accounts) < requiredAccounts {
		logger.Errorf("[MeteoraDLMM:AddLiquidity2] 账户数不足: got=%d, expect>=%d, tx=%s",
			len(ix.Accounts), requiredAccounts, ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractAddLiquidityEvent(ctx, instrs, current, consts.DexMeteoraDLMM, "AddLiquidity2", &common.LiquidityLayout{
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

// addLiquidityByWeight 指令账户布局：
// 前 9 位与 addLiquidity2 一致，在 #9/#10 插入 Bin Array Lower/Upper，Sender 移至 #11。
func extractEventForAddLiquidityByWeight(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	const requiredAccounts = 12
	if len(ix.Accounts) < requiredAccounts {
		logger.Errorf("[MeteoraDLMM:AddLiquidityByWeight] 账户数不足: got=%d, expect>=%d, tx=%s",
			len(ix.Accounts), requiredAccounts, ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractAddLiquidityEvent(ctx, instrs, current, consts.DexMeteoraDLMM, "AddLiquidityByWeight", &common.LiquidityLayout{
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

// addLiquidityByStrategy 指令账户布局：与 addLiquidityByWeight 一致（策略参数在 data 中）。
func extractEventForAddLiquidityByStrategy(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	const requiredAccounts = 12
	if len(ix.Accounts) < requiredAccounts {
		logger.Errorf("[MeteoraDLMM:AddLiquidityByStrategy] 账户数不足: got=%d, expect>=%d, tx=%s",
			len(ix.Accounts), requiredAccounts, ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractAddLiquidityEvent(ctx, instrs, current, consts.DexMeteoraDLMM, "AddLiquidityByStrategy", &common.LiquidityLayout{
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

// addLiquidityByStrategy2 指令账户布局：无 Bin Array Lower/Upper，Sender 在 #9。
func extractEventForAddLiquidityByStrategy2(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	const requiredAccounts = 10
	if len(ix.Accounts) < requiredAccounts {
		logger.Errorf("[MeteoraDLMM:AddLiquidityByStrategy2] 账户数不足: got=%d, expect>=%d, tx=%s",
			len(ix.Accounts), requiredAccounts, ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractAddLiquidityEvent(ctx, instrs, current, consts.DexMeteoraDLMM, "AddLiquidityByStrategy2", &common.LiquidityLayout{
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

// addLiquidityByStrategyOneSide 指令账户布局（单边注入）：
//
// #0  - Position
// #1  - Lb Pair
// #2  - Bin Array Bitmap Extension
// #3  - User Token                     // 用户提供单边流动性的 Token 账户
// #4  - Reserve                        // 池子中对应 Token 的储备账户
// #5  - Token Mint
// #6  - Bin Array Lower
// #7  - Bin Array Upper
// #8  - Sender
// #9  - Token Program
// #10 - Event Authority
// #11 - Program
//
// 通过余额表补出另一侧账户后走通用 ADD 流程。
func extractEventForAddLiquidityByStrategyOneSide(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	const requiredAccounts = 9
	if len(ix.Accounts) < requiredAccounts {
		logger.Errorf("[MeteoraDLMM:AddLiquidityByStrategyOneSide] 账户数不足: got=%d, expect>=%d, tx=%s",
			len(ix.Accounts), requiredAccounts, ctx.TxHashString())
		return -1
	}

	pool := ix.Accounts[1]
	user := ix.Accounts[8]
	providedMint := ix.Accounts[5]

	// Step 1: 从余额表找到池子的两个 token 储备账户
	var poolBalances []*core.TokenBalance
	for _, b := range ctx.Balances {
		if b.PostOwner == pool {
			poolBalances = append(poolBalances, b)
		}
	}
	if len(poolBalances) != 2 {
		return -1 // 不符合 DLMM 池结构
	}

	var otherMint types.Pubkey
	var otherPoolBalance *core.TokenBalance
	if poolBalances[0].Token == providedMint {
		otherMint = poolBalances[1].Token
		otherPoolBalance = poolBalances[1]
	} else if poolBalances[1].Token == providedMint {
		otherMint = poolBalances[0].Token
		otherPoolBalance = poolBalances[0]
	} else {
		return -1 // providedMint 不在池子里
	}

	// Step 2: 无法识别 quote 时放弃
	if _, ok := tools.ChooseQuote(providedMint, otherMint); !ok {
		return -1
	}

	// Step 3: 找到用户另一侧的 token 账户
	var userOtherTokenAccount types.Pubkey
	found := false
	for _, b := range ctx.Balances {
		if b.PostOwner == user && b.Token == otherMint {
			userOtherTokenAccount = b.TokenAccount
			found = true
			break
		}
	}
	if !found {
		return -1
	}

	// Step 4: 追加补出的账户，使布局索引可指向另一侧
	originalLen := len(ix.Accounts)
	ix.Accounts = append(ix.Accounts, otherMint, userOtherTokenAccount, otherPoolBalance.TokenAccount)

	event, maxIndex := common.ExtractAddLiquidityEvent(ctx, instrs, current, consts.DexMeteoraDLMM, "AddLiquidityByStrategyOneSide", &common.LiquidityLayout{
		RequireBothTransfer:    false,
		PoolAddressIndex:       1,
		TokenMint1Index:        5,
		TokenMint2Index:        originalLen,
		UserWalletIndex:        8,
		UserToken1AccountIndex: 3,
		UserToken2AccountIndex: originalLen + 1,
		UserLpAccountIndex:     -1,
		PoolToken1AccountIndex: 4,
		PoolToken2AccountIndex: originalLen + 2,
		LpMintIndex:            -1,
	})
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	return maxIndex + 1
}

// addLiquidity 指令账户布局：与 addLiquidityByWeight 一致。
func extractEventForAddLiquidity(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	const requiredAccounts = 12
	if len(ix.Accounts) < requiredAccounts {
		logger.Errorf("[MeteoraDLMM:AddLiquidity] 账户数不足: got=%d, expect>=%d, tx=%s",
			len(ix.Accounts), requiredAccounts, ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractAddLiquidityEvent(ctx, instrs, current, consts.DexMeteoraDLMM, "AddLiquidity", &common.LiquidityLayout{
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
