package orcawhirlpool

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/internal/tools"
	"dex-parser-sol/pkg/logger"
)

// Orca Whirlpool swap 指令账户布局：
//
//	0 - Token Program
//	1 - Token Authority
//	2 - Whirlpool（池子地址）
//	3 - Token Owner Account A（用户 Token A 账户）
//	4 - Token Vault A（池子 Token A 账户）
//	5 - Token Owner Account B（用户 Token B 账户）
//	6 - Token Vault B（池子 Token B 账户）
func extractSwapEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	if len(ix.Accounts) < 7 {
		logger.Errorf("[OrcaWhirlpool:extractSwapEvent] 账户数量不足: tx=%s", ctx.TxHashString())
		return -1
	}

	result := common.FindSwapTransfersByIndex(ctx, instrs, current, &common.SwapInstructionIndex{
		UserToken1AccountIndex: 3,
		UserToken2AccountIndex: 5,
		PoolToken1AccountIndex: 4,
		PoolToken2AccountIndex: 6,
	}, 0)
	if result == nil {
		logger.Infof("[OrcaWhirlpool:extractSwapEvent] 转账结构缺失: tx=%s, ix=%d, inner=%d",
			ctx.TxHashString(), ix.IxIndex, ix.InnerIndex)
		return -1
	}

	// 优先尝试使用自定义优先级的 quote token（WSOL、USDC、USDT 等）
	quote, ok := tools.ChooseQuote(result.UserToPool.Token, result.PoolToUser.Token)
	if !ok {
		// 默认规则：Token B 账户视为 quote token
		if result.UserToPool.SrcAccount == ix.Accounts[5] {
			quote = result.UserToPool.Token
		} else {
			quote = result.PoolToUser.Token
		}
	}

	pairAddress := ix.Accounts[2]
	trade := common.BuildTradeInfo(ctx, ix, result.UserToPool, result.PoolToUser, pairAddress, quote, consts.DexOrcaWhirlpool)
	if trade == nil {
		return -1
	}

	ctx.AddTrade(trade)
	return result.MaxIndex + 1
}

// Orca Whirlpool swapV2 指令账户布局：
//
//	0  - Token Program A
//	1  - Token Program B
//	2  - Memo Program
//	3  - Token Authority
//	4  - Whirlpool（池子地址）
//	5  - Token Mint A
//	6  - Token Mint B
//	7  - Token Owner Account A（用户 Token A 账户）
//	8  - Token Vault A（池子 Token A 账户）
//	9  - Token Owner Account B（用户 Token B 账户）
//	10 - Token Vault B（池子 Token B 账户）
func extractSwap2Event(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	if len(ix.Accounts) < 11 {
		logger.Errorf("[OrcaWhirlpool:extractSwap2Event] 账户数量不足: tx=%s", ctx.TxHashString())
		return -1
	}

	result := common.FindSwapTransfersByIndex(ctx, instrs, current, &common.SwapInstructionIndex{
		UserToken1AccountIndex: 7,
		UserToken2AccountIndex: 9,
		PoolToken1AccountIndex: 8,
		PoolToken2AccountIndex: 10,
	}, 0)
	if result == nil {
		logger.Infof("[OrcaWhirlpool:extractSwap2Event] 转账结构缺失: tx=%s, ix=%d, inner=%d",
			ctx.TxHashString(), ix.IxIndex, ix.InnerIndex)
		return -1
	}

	// 严格校验 mint 地址匹配
	if !((result.UserToPool.Token == ix.Accounts[5] && result.PoolToUser.Token == ix.Accounts[6]) ||
		(result.UserToPool.Token == ix.Accounts[6] && result.PoolToUser.Token == ix.Accounts[5])) {
		logger.Errorf("[OrcaWhirlpool:extractSwap2Event] mint 不匹配: tx=%s, userToPool=%s, poolToUser=%s, tokenA=%s, tokenB=%s",
			ctx.TxHashString(), result.UserToPool.Token, result.PoolToUser.Token, ix.Accounts[5], ix.Accounts[6],
		)
		return -1
	}

	// 优先尝试使用自定义优先级的 quote token（WSOL、USDC、USDT 等）
	quote, ok := tools.ChooseQuote(result.UserToPool.Token, result.PoolToUser.Token)
	if !ok {
		quote = ix.Accounts[6] // 默认取 Token Mint B 作为 quote token
		if result.UserToPool.Token != quote && result.PoolToUser.Token != quote {
			logger.Warnf("[OrcaWhirlpool:extractSwap2Event] 无法识别 quote token，跳过: tx=%s", ctx.TxHashString())
			return -1
		}
	}

	pairAddress := ix.Accounts[4]
	trade := common.BuildTradeInfo(ctx, ix, result.UserToPool, result.PoolToUser, pairAddress, quote, consts.DexOrcaWhirlpool)
	if trade == nil {
		return -1
	}

	ctx.AddTrade(trade)
	return result.MaxIndex + 1
}
