package raydiumclmm

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/internal/tools"
	"dex-parser-sol/pkg/logger"
)

// extractSwapEvent 解析 Raydium CLMM 的 swap / swapV2 指令，构造标准 TradeInfo。
//
// Swap 指令账户布局（swap 与 swapV2 前 7 位一致）：
//  0. Payer（用户钱包）
//  1. Amm Config
//  2. Pool State                   // 池子地址
//  3. User Input Token Account
//  4. User Output Token Account
//  5. Input Vault                  // 池子 input token 存储账户
//  6. Output Vault                 // 池子 output token 存储账户
//  ...
func extractSwapEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	if len(ix.Accounts) < 7 {
		logger.Errorf("[RaydiumCLMM:extractSwapEvent] 账户数量不足: got=%d, tx=%s",
			len(ix.Accounts), ctx.TxHashString())
		return -1
	}

	result := common.FindSwapTransfersByIndex(ctx, instrs, current, &common.SwapInstructionIndex{
		UserToken1AccountIndex: 3,
		UserToken2AccountIndex: 4,
		PoolToken1AccountIndex: 5,
		PoolToken2AccountIndex: 6,
	}, 0)
	if result == nil {
		logger.Infof("[RaydiumCLMM:extractSwapEvent] 转账结构缺失: tx=%s, ix=%d, inner=%d",
			ctx.TxHashString(), ix.IxIndex, ix.InnerIndex)
		return -1
	}

	quote, ok := tools.ChooseQuote(result.UserToPool.Token, result.PoolToUser.Token)
	if !ok {
		// 无法识别时约定支出方向为 quote
		quote = result.UserToPool.Token
	}

	pairAddress := ix.Accounts[2]
	trade := common.BuildTradeInfo(ctx, ix, result.UserToPool, result.PoolToUser, pairAddress, quote, consts.DexRaydiumCLMM)
	if trade == nil {
		return -1
	}

	ctx.AddTrade(trade)
	return result.MaxIndex + 1
}
