package common

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/utils"
	"dex-parser-sol/pkg/types"
)

// BuildTradeInfo 根据转账方向（base / quote）构建标准的 TradeInfo。
// 用户支付 quote 获得 base 记为 BUY，反之 SELL。
func BuildTradeInfo(
	ctx *ParserContext,
	ix *core.AdaptedInstruction,
	userToPool *ParsedTransfer,
	poolToUser *ParsedTransfer,
	pairAddress types.Pubkey,
	quote types.Pubkey,
	dex int,
) *core.TradeInfo {
	tradeType := core.TradeTypeSell
	if userToPool.Token == quote {
		// 用户支付 quote，获得 base，对应 BUY 类型
		tradeType = core.TradeTypeBuy
	}

	user := userToPool.SrcWallet
	if user.IsZero() {
		user = poolToUser.DestWallet
	}

	return &core.TradeInfo{
		Type:        tradeType,
		InputToken:  buildTradeToken(userToPool),
		OutputToken: buildTradeToken(poolToUser),
		User:        user.String(),
		ProgramID:   ix.ProgramID.String(),
		Amm:         consts.DexName(dex),
		AmmPool:     pairAddress.String(),
		Slot:        ctx.Tx.Slot,
		Timestamp:   ctx.Tx.BlockTime,
		Signature:   ctx.Signature,
		Idx:         utils.FormatIdx(ix.IxIndex, ix.InnerIndex),
	}
}

// buildTradeToken 将一笔转账还原为交易腿，带上账户与余额快照
func buildTradeToken(pt *ParsedTransfer) core.TradeToken {
	token := core.TradeToken{
		Mint:             pt.Token.String(),
		Amount:           utils.UiAmount(pt.Amount, pt.Decimals),
		AmountRaw:        core.NewTokenAmount(pt.Amount, pt.Decimals).AmountRaw,
		Decimals:         pt.Decimals,
		Authority:        pt.SrcWallet.String(),
		Source:           pt.SrcAccount.String(),
		Destination:      pt.DestAccount.String(),
		DestinationOwner: pt.DestWallet.String(),
	}
	if pt.HasBalance {
		src := core.NewTokenAmount(pt.SrcPostBalance, pt.Decimals)
		srcPre := core.NewTokenAmount(pt.SrcPreBalance, pt.Decimals)
		dest := core.NewTokenAmount(pt.DestPostBalance, pt.Decimals)
		destPre := core.NewTokenAmount(pt.DestPreBalance, pt.Decimals)
		token.SourceBalance = &src
		token.SourcePreBalance = &srcPre
		token.DestinationBalance = &dest
		token.DestinationPreBalance = &destPre
	}
	return token
}

// NewFeeInfo 构造一条手续费腿
func NewFeeInfo(mint types.Pubkey, amount uint64, decimals uint8, dex int, feeType string, recipient types.Pubkey) core.FeeInfo {
	return core.FeeInfo{
		Mint:      mint.String(),
		Amount:    utils.UiAmount(amount, decimals),
		AmountRaw: core.NewTokenAmount(amount, decimals).AmountRaw,
		Decimals:  decimals,
		Dex:       consts.DexName(dex),
		Type:      feeType,
		Recipient: recipient.String(),
	}
}

// AttachFee 追加手续费腿，并同步刷新 Fee 为同 mint 合计。
func AttachFee(trade *core.TradeInfo, fee core.FeeInfo) {
	trade.Fees = append(trade.Fees, fee)
	trade.Fee = SumFees(trade.Fees)
}

// SubtractOutputFees 从输出腿扣除以输出 mint 计价的费用腿，
// 使 OutputToken 反映用户实际到账数额。费用腿合计超过输出时视为结构异常，保持原值。
func SubtractOutputFees(trade *core.TradeInfo) {
	if len(trade.Fees) == 0 {
		return
	}
	raw := utils.ParseUint64(trade.OutputToken.AmountRaw)
	deducted := false
	for _, f := range trade.Fees {
		if f.Mint != trade.OutputToken.Mint {
			continue
		}
		feeRaw := utils.ParseUint64(f.AmountRaw)
		if feeRaw > raw {
			return
		}
		raw -= feeRaw
		deducted = true
	}
	if !deducted {
		return
	}
	net := core.NewTokenAmount(raw, trade.OutputToken.Decimals)
	trade.OutputToken.Amount = net.Amount
	trade.OutputToken.AmountRaw = net.AmountRaw
}

// SumFees 对同 mint 的费用腿求和，返回合计 FeeInfo。
// mint 不一致时以首条为准，只累加同 mint 部分。
// 存在多条腿时 Dex/Type/Recipient 不再有单一归属，置空。
func SumFees(fees []core.FeeInfo) *core.FeeInfo {
	if len(fees) == 0 {
		return nil
	}
	total := fees[0]
	raw := utils.ParseUint64(fees[0].AmountRaw)
	for _, f := range fees[1:] {
		if f.Mint != total.Mint {
			continue
		}
		raw += utils.ParseUint64(f.AmountRaw)
	}
	if len(fees) > 1 {
		total.Dex = ""
		total.Type = ""
		total.Recipient = ""
	}
	sum := core.NewTokenAmount(raw, total.Decimals)
	total.Amount = sum.Amount
	total.AmountRaw = sum.AmountRaw
	return &total
}
