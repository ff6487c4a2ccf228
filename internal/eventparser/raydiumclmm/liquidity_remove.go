package raydiumclmm

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/pkg/logger"
)

// decreaseLiquidity 指令账户布局：
//  0. NFT Owner（用户钱包）
//  1. NFT Account
//  2. Personal Position
//  3. Pool State
//  4. Protocol Position
//  5. Token Vault 0
//  6. Token Vault 1
//  7. Tick Array Lower
//  8. Tick Array Upper
//  9. Recipient Token Account 0
//  10. Recipient Token Account 1
func extractDecreaseLiquidityEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]
	if len(ix.Accounts) < 11 {
		logger.Errorf("[RaydiumCLMM:DecreaseLiquidity] 账户数不足: got=%d, expect>=11, tx=%s",
			len(ix.Accounts), ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractRemoveLiquidityEvent(ctx, instrs, current, consts.DexRaydiumCLMM, "DecreaseLiquidity", &common.LiquidityLayout{
		RequireBothTransfer:    false,
		PoolAddressIndex:       3,
		TokenMint1Index:        -1,
		TokenMint2Index:        -1,
		UserWalletIndex:        -1,
		UserToken1AccountIndex: 9,
		UserToken2AccountIndex: 10,
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

// decreaseLiquidityV2 指令账户布局：
// 前 11 位与 decreaseLiquidity 一致，其后追加：
//  11. Token Program 2022
//  12. Memo Program
//  13. Memo（可选）
//  14. Vault 0 Mint
//  15. Vault 1 Mint
func extractDecreaseLiquidityV2Event(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]
	if len(ix.Accounts) < 16 {
		logger.Errorf("[RaydiumCLMM:DecreaseLiquidityV2] 账户数不足: got=%d, expect>=16, tx=%s",
			len(ix.Accounts), ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractRemoveLiquidityEvent(ctx, instrs, current, consts.DexRaydiumCLMM, "DecreaseLiquidityV2", &common.LiquidityLayout{
		RequireBothTransfer:    false,
		PoolAddressIndex:       3,
		TokenMint1Index:        14,
		TokenMint2Index:        15,
		UserWalletIndex:        -1,
		UserToken1AccountIndex: 9,
		UserToken2AccountIndex: 10,
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
