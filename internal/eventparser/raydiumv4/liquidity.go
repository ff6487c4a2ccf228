package raydiumv4

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/pkg/logger"
)

// 来源：https://github.com/raydium-io/raydium-amm/blob/master/program/src/instruction.rs
//
// Raydium V4 添加流动性指令账户布局：
//
// #0  - Token Program
// #1  - Amm                                   // 池子地址
// #2  - Amm Authority                         // 池子的 Authority PDA
// #3  - Amm Open Orders
// #4  - Amm Target Orders
// #5  - LP Mint Address
// #6  - Pool Coin Token Account               // 池子中 token1 的存储账户
// #7  - Pool Pc Token Account                 // 池子中 token2 的存储账户
// #8  - Serum Market
// #9  - User Coin Token Account
// #10 - User Pc Token Account
// #11 - User LP Token Account
// #12 - User Owner                            // 用户钱包地址（Signer + Fee Payer）
// #13 - Serum Event Queue
func extractAddLiquidityEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	if len(ix.Accounts) < 14 {
		logger.Errorf("[RaydiumV4:AddLiquidity] 账户数不足: got=%d, expect>=14, tx=%s",
			len(ix.Accounts), ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractAddLiquidityEvent(ctx, instrs, current, consts.DexRaydiumV4, "AddLiquidity", &common.LiquidityLayout{
		RequireBothTransfer:    true,
		PoolAddressIndex:       1,
		TokenMint1Index:        -1,
		TokenMint2Index:        -1,
		UserWalletIndex:        12,
		UserToken1AccountIndex: 9,
		UserToken2AccountIndex: 10,
		UserLpAccountIndex:     11,
		PoolToken1AccountIndex: 6,
		PoolToken2AccountIndex: 7,
		LpMintIndex:            5,
	})
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	return maxIndex + 1
}

// Raydium V4 移除流动性指令账户布局：
//
// #0  - Token Program
// #1  - Amm                                   // Raydium 池子主账户
// #2  - Amm Authority
// #3  - Amm Open Orders
// #4  - Amm Target Orders
// #5  - LP Mint Address
// #6  - Pool Coin Token Account
// #7  - Pool Pc Token Account
// #8  - Pool Withdraw Queue
// #9  - Pool Temp LP Token Account
// #10 - Serum Program
// #11 - Serum Market
// #12 - Serum Coin Vault Account
// #13 - Serum Pc Vault Account
// #14 - Serum Vault Signer
// #15 - User LP Token Account
// #16 - User Coin Token Account
// #17 - User Pc Token Account
// #18 - User Owner
// #19 - Serum Event Queue
// #20 - Serum Bids
// #21 - Serum Asks
func extractRemoveLiquidityEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	if len(ix.Accounts) < 19 {
		logger.Errorf("[RaydiumV4:RemoveLiquidity] 指令账户长度不足: got=%d, expect>=19, tx=%s",
			len(ix.Accounts), ctx.TxHashString())
		return -1
	}

	// 部分交易前有额外账户
	offset := 0
	if len(ix.Accounts) >= 22 {
		offset = 2
	}

	event, maxIndex := common.ExtractRemoveLiquidityEvent(ctx, instrs, current, consts.DexRaydiumV4, "RemoveLiquidity", &common.LiquidityLayout{
		RequireBothTransfer:    true,
		PoolAddressIndex:       1,
		TokenMint1Index:        -1,
		TokenMint2Index:        -1,
		UserWalletIndex:        offset + 16,
		UserToken1AccountIndex: offset + 14,
		UserToken2AccountIndex: offset + 15,
		UserLpAccountIndex:     offset + 13,
		PoolToken1AccountIndex: 6,
		PoolToken2AccountIndex: 7,
		LpMintIndex:            5,
	})
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	return maxIndex + 1
}

// Raydium V4 initialize2 指令账户布局：
//
// #0  - Token Program
// #1  - Associated Token Account Program
// #2  - System Program
// #3  - Rent
// #4  - Amm                                   // Raydium 池子主账户
// #5  - Amm Authority
// #6  - Amm Open Orders
// #7  - LP Mint Address
// #8  - Coin Mint
// #9  - Pc Mint
// #10 - Pool Coin Token Account
// #11 - Pool Pc Token Account
// #12 - Pool Withdraw Queue
// #13 - Amm Target Orders
// #14 - Pool Temp LP Token Account
// #15 - Serum / OpenBook Program
// #16 - Serum Market
// #17 - User Wallet
// #18 - User Coin Token Account
// #19 - User Pc Token Account
// #20 - User LP Token Account
func extractInitializeEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	if len(ix.Accounts) < 21 {
		logger.Errorf("[RaydiumV4:Initialize2] 账户数不足: got=%d, expect>=21, tx=%s",
			len(ix.Accounts), ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractAddLiquidityEvent(ctx, instrs, current, consts.DexRaydiumV4, "Initialize2", &common.LiquidityLayout{
		RequireBothTransfer:    true,
		PoolAddressIndex:       4,
		TokenMint1Index:        8,
		TokenMint2Index:        9,
		UserWalletIndex:        17,
		UserToken1AccountIndex: 18,
		UserToken2AccountIndex: 19,
		UserLpAccountIndex:     20,
		PoolToken1AccountIndex: 10,
		PoolToken2AccountIndex: 11,
		LpMintIndex:            7,
	})
	if event == nil {
		return -1
	}

	// 建池即注入初始流动性，以 CREATE 事件表达
	event.Type = core.PoolEventCreate

	ctx.AddLiquidity(event)
	return maxIndex + 1
}
