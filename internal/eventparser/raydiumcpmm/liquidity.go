package raydiumcpmm

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/pkg/logger"
)

// Raydium CPMM Deposit / Withdraw 指令账户布局：
//
// #0  - Owner                                 // 用户钱包地址（Signer + Fee Payer）
// #1  - Authority                             // Raydium 池子 Authority PDA
// #2  - Pool State                            // 池子主账户
// #3  - Owner LP Token Account                // 用户 LP Token 账户
// #4  - Token 0 Account                       // 用户 Token0 账户
// #5  - Token 1 Account                       // 用户 Token1 账户
// #6  - Token 0 Vault                         // 池子 Token0 存储账户
// #7  - Token 1 Vault                         // 池子 Token1 存储账户
// #8  - Token Program
// #9  - Token Program 2022
// #10 - Vault 0 Mint
// #11 - Vault 1 Mint
// #12 - LP Mint
// #13 - Memo Program（仅 Withdraw，可忽略）
var liquidityLayout = common.LiquidityLayout{
	RequireBothTransfer:    true,
	PoolAddressIndex:       2,
	TokenMint1Index:        10,
	TokenMint2Index:        11,
	UserWalletIndex:        0,
	UserToken1AccountIndex: 4,
	UserToken2AccountIndex: 5,
	UserLpAccountIndex:     3,
	PoolToken1AccountIndex: 6,
	PoolToken2AccountIndex: 7,
	LpMintIndex:            12,
}

func extractAddLiquidityEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	if len(ix.Accounts) < 13 {
		logger.Errorf("[RaydiumCPMM:AddLiquidity] 账户数不足: got=%d, expect>=13, tx=%s",
			len(ix.Accounts), ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractAddLiquidityEvent(ctx, instrs, current, consts.DexRaydiumCPMM, "AddLiquidity", &liquidityLayout)
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	return maxIndex + 1
}

func extractRemoveLiquidityEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	if len(ix.Accounts) < 13 {
		logger.Errorf("[RaydiumCPMM:RemoveLiquidity] 指令账户长度不足: got=%d, expect>=13, tx=%s",
			len(ix.Accounts), ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractRemoveLiquidityEvent(ctx, instrs, current, consts.DexRaydiumCPMM, "RemoveLiquidity", &liquidityLayout)
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	return maxIndex + 1
}

// Raydium CPMM initialize 指令账户布局：
//
// #0  - Creator                           // 创建者地址（Signer + Fee Payer）
// #1  - Amm Config
// #2  - Authority                         // 池子 Authority PDA
// #3  - Pool State                        // 池子状态账户
// #4  - Token 0 Mint
// #5  - Token 1 Mint
// #6  - LP Mint
// #7  - Creator Token 0
// #8  - Creator Token 1
// #9  - Creator LP Token
// #10 - Token 0 Vault
// #11 - Token 1 Vault
// #12 - Create Pool Fee                   // 建池手续费接收账户（Raydium 官方）
// #13 - Observation State
// #14 - Token Program
// #15 - Token 0 Program
// #16 - Token 1 Program
// #17 - Associated Token Program
// #18 - System Program
// #19 - Rent
func extractInitializeEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	if len(ix.Accounts) < 12 {
		logger.Errorf("[RaydiumCPMM:Initialize] 账户数不足: got=%d, expect>=12, tx=%s",
			len(ix.Accounts), ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractAddLiquidityEvent(ctx, instrs, current, consts.DexRaydiumCPMM, "Initialize", &common.LiquidityLayout{
		RequireBothTransfer:    true,
		PoolAddressIndex:       3,
		TokenMint1Index:        4,
		TokenMint2Index:        5,
		UserWalletIndex:        0,
		UserToken1AccountIndex: 7,
		UserToken2AccountIndex: 8,
		UserLpAccountIndex:     9,
		PoolToken1AccountIndex: 10,
		PoolToken2AccountIndex: 11,
		LpMintIndex:            6,
	})
	if event == nil {
		return -1
	}

	// 建池即注入初始流动性，以 CREATE 事件表达
	event.Type = core.PoolEventCreate

	ctx.AddLiquidity(event)
	return maxIndex + 1
}
