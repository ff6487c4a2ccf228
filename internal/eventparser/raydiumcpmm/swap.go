package raydiumcpmm

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/internal/tools"
	"dex-parser-sol/pkg/logger"
)

// Raydium CPMM Swap 指令账户布局（固定顺序）：
//
// #0  - Payer（交易发起人，Signer + Fee Payer）
// #1  - Authority（Raydium Vault 授权账户）
// #2  - Amm Config
// #3  - Pool State                        // 池子地址
// #4  - Input Token Account               // 用户输入 Token 账户
// #5  - Output Token Account              // 用户输出 Token 账户
// #6  - Input Vault                       // 池子输入 Token 存储账户
// #7  - Output Vault                      // 池子输出 Token 存储账户
// #8  - Input Token Program
// #9  - Output Token Program
// #10 - Input Token Mint
// #11 - Output Token Mint
func extractSwapEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
	methodID uint64,
) int {
	ix := instrs[current]

	if len(ix.Accounts) < 12 {
		logger.Errorf("[RaydiumCPMM:extractSwapEvent] 账户数量不足: tx=%s", ctx.TxHashString())
		return -1
	}

	result := common.FindSwapTransfersByIndex(ctx, instrs, current, &common.SwapInstructionIndex{
		UserToken1AccountIndex: 4,
		UserToken2AccountIndex: 5,
		PoolToken1AccountIndex: 6,
		PoolToken2AccountIndex: 7,
	}, 0)
	if result == nil {
		logger.Errorf("[RaydiumCPMM:extractSwapEvent] 转账结构缺失: tx=%s, ix=%d, inner=%d",
			ctx.TxHashString(), ix.IxIndex, ix.InnerIndex)
		return -1
	}

	// 严格校验 mint 地址匹配
	if !((result.UserToPool.Token == ix.Accounts[10] && result.PoolToUser.Token == ix.Accounts[11]) ||
		(result.UserToPool.Token == ix.Accounts[11] && result.PoolToUser.Token == ix.Accounts[10])) {
		logger.Errorf("[RaydiumCPMM:extractSwapEvent] mint 不匹配: tx=%s, userToPool=%s, poolToUser=%s, tokenX=%s, tokenY=%s",
			ctx.TxHashString(), result.UserToPool.Token, result.PoolToUser.Token, ix.Accounts[10], ix.Accounts[11],
		)
		return -1
	}

	// 优先尝试使用自定义优先级的 quote token（WSOL、USDC、USDT 等）
	quote, ok := tools.ChooseQuote(result.UserToPool.Token, result.PoolToUser.Token)
	if !ok {
		// fallback：根据方法区分 base 与 quote
		if methodID == SwapBaseOut {
			quote = ix.Accounts[10] // base 出，input 是 quote
		} else {
			quote = ix.Accounts[11] // base 入，output 是 quote
		}
	}

	pairAddress := ix.Accounts[3]
	trade := common.BuildTradeInfo(ctx, ix, result.UserToPool, result.PoolToUser, pairAddress, quote, consts.DexRaydiumCPMM)
	if trade == nil {
		return -1
	}

	ctx.AddTrade(trade)
	return result.MaxIndex + 1
}
