package raydiumclmm

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/pkg/logger"
)

// createPool 指令账户布局：
//  0. Pool Creator（用户钱包）
//  1. Amm Config
//  2. Pool State
//  3. Token Mint 0
//  4. Token Mint 1
//  5. Token Vault 0
//  6. Token Vault 1
//  7. Observation State
//  8. Tick Array Bitmap
//  9. Token Program 0
//  10. Token Program 1
//
// createPool 仅建池不注资，流动性随后由 openPosition 注入。
func extractCreatePoolEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]
	if len(ix.Accounts) < 11 {
		logger.Errorf("[RaydiumCLMM:CreatePool] 账户数不足: got=%d, expect>=11, tx=%s",
			len(ix.Accounts), ctx.TxHashString())
		return -1
	}

	event := common.ExtractCreatePoolEvent(ctx, ix, consts.DexRaydiumCLMM, "CreatePool", &common.CreatePoolLayout{
		PoolAddressIndex:   2,
		TokenMint1Index:    3,
		TokenMint2Index:    4,
		TokenProgram1Index: 9,
		TokenProgram2Index: 10,
		PoolVault1Index:    5,
		PoolVault2Index:    6,
		UserWalletIndex:    0,
	})
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	return current + 1
}
