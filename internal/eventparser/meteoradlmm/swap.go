package meteoradlmm

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/internal/tools"
	"dex-parser-sol/pkg/logger"
)

// extractSwapEvent 解析 Meteora DLMM 的 swap 系列指令。
// 各 Swap 变体的前 8 个账户结构及顺序一致，可统一解析：
//
//	0 - Lb Pair（池子地址）
//	1 - Bin Array Bitmap Extension
//	2 - Reserve X（池子 Token X 账户）
//	3 - Reserve Y（池子 Token Y 账户）
//	4 - User Token In（用户输入 Token 账户）
//	5 - User Token Out（用户输出 Token 账户）
//	6 - Token X Mint
//	7 - Token Y Mint（QuoteToken）
func extractSwapEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	if len(ix.Accounts) < 8 {
		logger.Errorf("[MeteoraDLMM:extractSwapEvent] 账户数量不足: tx=%s, accounts=%d",
			ctx.TxHashString(), len(ix.Accounts))
		return -1
	}

	result := common.FindSwapTransfersByIndex(ctx, instrs, current, &common.SwapInstructionIndex{
		UserToken1AccountIndex: 4,
		UserToken2AccountIndex: 5,
		PoolToken1AccountIndex: 2,
		PoolToken2AccountIndex: 3,
	}, 0)
	if result == nil {
		logger.Infof("[MeteoraDLMM:extractSwapEvent] 转账结构缺失: tx=%s, ix=%d, inner=%d",
			ctx.TxHashString(), ix.IxIndex, ix.InnerIndex)
		return -1
	}

	// 严格校验 mint 地址匹配（池子 TokenX/TokenY mint）
	if !((result.UserToPool.Token == ix.Accounts[6] && result.PoolToUser.Token == ix.Accounts[7]) ||
		(result.UserToPool.Token == ix.Accounts[7] && result.PoolToUser.Token == ix.Accounts[6])) {
		logger.Errorf("[MeteoraDLMM:extractSwapEvent] mint 不匹配: tx=%s, userToPool=%s, poolToUser=%s, tokenX=%s, tokenY=%s",
			ctx.TxHashString(), result.UserToPool.Token, result.PoolToUser.Token, ix.Accounts[6], ix.Accounts[7],
		)
		return -1
	}

	// 优先尝试使用自定义优先级的 quote token（WSOL、USDC、USDT 等）
	quote, ok := tools.ChooseQuote(result.UserToPool.Token, result.PoolToUser.Token)
	if !ok {
		// fallback 使用池子默认的 Quote Token（Token Y Mint）
		quote = ix.Accounts[7]
		if result.UserToPool.Token != quote && result.PoolToUser.Token != quote {
			logger.Warnf("[MeteoraDLMM:extractSwapEvent] 无法识别 quote token，跳过: tx=%s", ctx.TxHashString())
			return -1
		}
	}

	pairAddress := ix.Accounts[0]
	trade := common.BuildTradeInfo(ctx, ix, result.UserToPool, result.PoolToUser, pairAddress, quote, consts.DexMeteoraDLMM)
	if trade == nil {
		return -1
	}

	ctx.AddTrade(trade)
	return result.MaxIndex + 1
}
