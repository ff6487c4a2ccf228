package raydiumclmm

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/pkg/logger"
)

// CLMM 为集中流动性仓位，无 LP mint，且允许单边注入，
// 因此各布局均取 RequireBothTransfer=false、LpMintIndex=-1。

// increaseLiquidity 指令账户布局：
//  0. NFT Owner（用户钱包）
//  1. NFT Account
//  2. Pool State
//  3. Protocol Position
//  4. Personal Position
//  5. Tick Array Lower
//  6. Tick Array Upper
//  7. User Token Account 0
//  8. User Token Account 1
//  9. Token Vault 0
//  10. Token Vault 1
func extractIncreaseLiquidityEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]
	if len(ix.Accounts) < 11 {
		logger.Errorf("[RaydiumCLMM:IncreaseLiquidity] 账户数不足: got=%d, expect>=11, tx=%s",
			len(ix.Accounts), ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractAddLiquidityEvent(ctx, instrs, current, consts.DexRaydiumCLMM, "IncreaseLiquidity", &common.LiquidityLayout{
		RequireBothTransfer:    false,
		PoolAddressIndex:       2,
		TokenMint1Index:        -1,
		TokenMint2Index:        -1,
		UserWalletIndex:        0,
		UserToken1AccountIndex: 7,
		UserToken2AccountIndex: 8,
		UserLpAccountIndex:     -1,
		PoolToken1AccountIndex: 9,
		PoolToken2AccountIndex: 10,
		LpMintIndex:            -1,
	})
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	return maxIndex + 1
}

// increaseLiquidityV2 指令账户布局：
// 前 11 位与 increaseLiquidity 一致，其后追加：
//  11. Token Program 2022
//  12. Memo Program
//  13. Vault 0 Mint
//  14. Vault 1 Mint
func extractIncreaseLiquidityV2Event(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]
	if len(ix.Accounts) < 15 {
		logger.Errorf("[RaydiumCLMM:IncreaseLiquidityV2] 账户数不足: got=%d, expect>=15, tx=%s",
			len(ix.Accounts), ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractAddLiquidityEvent(ctx, instrs, current, consts.DexRaydiumCLMM, "IncreaseLiquidityV2", &common.LiquidityLayout{
		RequireBothTransfer:    false,
		PoolAddressIndex:       2,
		TokenMint1Index:        13,
		TokenMint2Index:        14,
		UserWalletIndex:        0,
		UserToken1AccountIndex: 7,
		UserToken2AccountIndex: 8,
		UserLpAccountIndex:     -1,
		PoolToken1AccountIndex: 9,
		PoolToken2AccountIndex: 10,
		LpMintIndex:            -1,
	})
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	return maxIndex + 1
}

// openPositionWithToken22Nft 指令账户布局（开仓即首次注入）：
//  0. Payer（用户钱包）
//  1. Position NFT Owner
//  2. Position NFT Mint
//  3. Position NFT Account
//  4. Pool State
//  5. Protocol Position
//  6. Tick Array Lower
//  7. Tick Array Upper
//  8. Personal Position
//  9. User Token Account 0
//  10. User Token Account 1
//  11. Token Vault 0
//  12. Token Vault 1
//  ...
//  18. Vault 0 Mint
//  19. Vault 1 Mint
func extractOpenPositionWithToken22NftEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]
	if len(ix.Accounts) < 20 {
		logger.Errorf("[RaydiumCLMM:OpenPositionWithToken22Nft] 账户数不足: got=%d, expect>=20, tx=%s",
			len(ix.Accounts), ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractAddLiquidityEvent(ctx, instrs, current, consts.DexRaydiumCLMM, "OpenPositionWithToken22Nft", &common.LiquidityLayout{
		RequireBothTransfer:    false,
		PoolAddressIndex:       4,
		TokenMint1Index:        18,
		TokenMint2Index:        19,
		UserWalletIndex:        0,
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

// openPositionV2 指令账户布局：
//  0. Payer（用户钱包）
//  1. Position NFT Owner
//  2. Position NFT Mint
//  3. Position NFT Account
//  4. Metadata Account
//  5. Pool State
//  6. Protocol Position
//  7. Tick Array Lower
//  8. Tick Array Upper
//  9. Personal Position
//  10. User Token Account 0
//  11. User Token Account 1
//  12. Token Vault 0
//  13. Token Vault 1
//  ...
//  20. Vault 0 Mint
//  21. Vault 1 Mint
func extractOpenPositionV2Event(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]
	if len(ix.Accounts) < 22 {
		logger.Errorf("[RaydiumCLMM:OpenPositionV2] 账户数不足: got=%d, expect>=22, tx=%s",
			len(ix.Accounts), ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractAddLiquidityEvent(ctx, instrs, current, consts.DexRaydiumCLMM, "OpenPositionV2", &common.LiquidityLayout{
		RequireBothTransfer:    false,
		PoolAddressIndex:       5,
		TokenMint1Index:        20,
		TokenMint2Index:        21,
		UserWalletIndex:        0,
		UserToken1AccountIndex: 10,
		UserToken2AccountIndex: 11,
		UserLpAccountIndex:     -1,
		PoolToken1AccountIndex: 12,
		PoolToken2AccountIndex: 13,
		LpMintIndex:            -1,
	})
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	return maxIndex + 1
}
