package pumpfunamm

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/internal/tools"
	"dex-parser-sol/pkg/logger"
	"dex-parser-sol/pkg/types"
)

// extractSwapEvent 解析 PumpSwap 的 buy / sell 指令，构造标准 TradeInfo。
//
// PumpSwap Buy / Sell 指令账户布局：
//  0. Pool
//  1. User
//  2. Global Config
//  3. BaseMint
//  4. QuoteMint
//  5. UserBaseTokenAccount
//  6. UserQuoteTokenAccount
//  7. PoolBaseTokenAccount
//  8. PoolQuoteTokenAccount
//  9. ProtocolFeeRecipient
//  10. ProtocolFeeRecipientTokenAccount
//  ...
//  17. CoinCreatorVaultAta
//  18. CoinCreatorVaultAuthority
func extractSwapEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	// 基本账户数量校验
	if len(ix.Accounts) < 9 {
		logger.Errorf("[Pumpswap:extractSwapEvent] 账户数量不足: tx=%s", ctx.TxHashString())
		return -1
	}

	// 提取 Swap 中的转账记录（用户 -> 池子、池子 -> 用户）
	result := common.FindSwapTransfersByIndex(ctx, instrs, current, &common.SwapInstructionIndex{
		UserToken1AccountIndex: 5,
		UserToken2AccountIndex: 6,
		PoolToken1AccountIndex: 7,
		PoolToken2AccountIndex: 8,
	}, 0)
	if result == nil {
		logger.Infof("[Pumpswap:extractSwapEvent] 转账结构缺失: tx=%s, ix=%d, inner=%d",
			ctx.TxHashString(), ix.IxIndex, ix.InnerIndex)
		return -1
	}

	// 合约未开源，严格校验 mint 是否匹配
	if !(result.UserToPool.Token == ix.Accounts[3] && result.PoolToUser.Token == ix.Accounts[4] ||
		result.UserToPool.Token == ix.Accounts[4] && result.PoolToUser.Token == ix.Accounts[3]) {
		logger.Errorf("[Pumpswap:extractSwapEvent] mint 不匹配: tx=%s, userToPool=%s, poolToUser=%s, base=%s, quote=%s",
			ctx.TxHashString(), result.UserToPool.Token, result.PoolToUser.Token, ix.Accounts[3], ix.Accounts[4],
		)
		return -1
	}

	// 优先尝试使用自定义优先级的 quote token（WSOL、USDC、USDT 等）
	quote, ok := tools.ChooseQuote(result.UserToPool.Token, result.PoolToUser.Token)
	if !ok {
		quote = ix.Accounts[4] // 使用池子默认 quote token
		if result.UserToPool.Token != quote && result.PoolToUser.Token != quote {
			logger.Warnf("[Pumpswap:extractSwapEvent] 无法识别 quote token，跳过: tx=%s", ctx.TxHashString())
			return -1
		}
	}

	// ix.Accounts[0] 为该交易对的主池地址
	trade := common.BuildTradeInfo(ctx, ix, result.UserToPool, result.PoolToUser, ix.Accounts[0], quote, consts.DexPumpswap)
	if trade == nil {
		return -1
	}

	// 协议费与 coin creator 费各为一笔独立的 quote 转账腿
	maxIndex := collectFeeTransfers(ctx, instrs, current, trade, result.MaxIndex)

	// 以输出 mint 支付的费用腿不属于用户到账部分，从输出腿中扣除
	common.SubtractOutputFees(trade)

	ctx.AddTrade(trade)
	emitInstructionEvent(ctx, ix)
	return maxIndex + 1
}

// collectFeeTransfers 扫描当前主指令剩余的 inner 转账，识别费用腿：
//   - 目标为 Accounts[10]（protocol_fee_recipient_token_account）记为 protocol 费，接收方为 Accounts[9]；
//   - 目标为 Accounts[17]（coin_creator_vault_ata）记为 coinCreator 费，接收方为 vault 所有者。
//
// 每条费用腿同时追加到 trade.Fees 并输出 IsFee 转账事件。返回消费到的最大指令序号。
func collectFeeTransfers(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
	trade *core.TradeInfo,
	maxIndex int,
) int {
	mainIx := instrs[current]

	var protocolFeeAccount, creatorVaultAta, creatorVaultAuthority types.Pubkey
	if len(mainIx.Accounts) > 10 {
		protocolFeeAccount = mainIx.Accounts[10]
	}
	if len(mainIx.Accounts) > 17 {
		creatorVaultAta = mainIx.Accounts[17]
	}
	if len(mainIx.Accounts) > 18 {
		creatorVaultAuthority = mainIx.Accounts[18]
	}

	for i := current + 1; i < len(instrs); i++ {
		ix := instrs[i]
		if ix.IxIndex != mainIx.IxIndex {
			break
		}
		if !common.IsTokenTransferInstruction(ix) {
			continue
		}
		pt, ok := common.ParseTransferInstruction(ctx, ix)
		if !ok {
			continue
		}

		switch pt.DestAccount {
		case protocolFeeAccount:
			recipient := mainIx.Accounts[9]
			common.AttachFee(trade, common.NewFeeInfo(pt.Token, pt.Amount, pt.Decimals, consts.DexPumpswap, core.FeeTypeProtocol, recipient))
			ctx.AddTransfer(common.BuildTransferData(ctx, ix.ProgramID, pt, true))
			if i > maxIndex {
				maxIndex = i
			}

		case creatorVaultAta:
			recipient := creatorVaultAuthority
			if recipient.IsZero() {
				recipient = pt.DestWallet
			}
			common.AttachFee(trade, common.NewFeeInfo(pt.Token, pt.Amount, pt.Decimals, consts.DexPumpswap, core.FeeTypeCoinCreator, recipient))
			ctx.AddTransfer(common.BuildTransferData(ctx, ix.ProgramID, pt, true))
			if i > maxIndex {
				maxIndex = i
			}
		}
	}
	return maxIndex
}
