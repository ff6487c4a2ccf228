package jupiterlimit

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/errs"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/internal/utils"
	"dex-parser-sol/pkg/logger"
	"dex-parser-sol/pkg/types"
)

// 合成转账事件类型
const (
	TransferTypeInitializeOrder = "initializeOrder"
	TransferTypeCancelOrder     = "cancelOrder"
)

// initializeOrder 指令账户布局：
//
// #0 - Base
// #1 - Maker                 // 挂单用户（Signer + Fee Payer）
// #2 - Order                 // 挂单 PDA 账户
// #3 - Reserve               // 托管 Token 账户（挂单资金存放处）
// #4 - Maker Input Account   // 用户支出 Token 账户
// #5 - Input Mint
//
// 挂单金额优先取 inner 转账的解码数额，缺失时退化为余额差，再缺失记 0。
// SOL 挂单资金从用户主账户直接转出，余额取 SOL 余额快照。
func extractInitializeOrderEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	const requiredAccounts = 6
	if len(ix.Accounts) < requiredAccounts {
		logger.Errorf("[JupiterLimit:InitializeOrder] 指令账户长度不足: got=%d, expect>=%d, tx=%s",
			len(ix.Accounts), requiredAccounts, ctx.TxHashString())
		return -1
	}

	user := ix.Accounts[1]
	source := ix.Accounts[4]
	mint := ix.Accounts[5]
	isSOL := mint == consts.WSOLMint

	destination := ix.Accounts[3]
	if isSOL {
		destination = user
	}

	var (
		decimals   uint8
		preRaw     uint64
		postRaw    uint64
		hasBalance bool
	)
	if isSOL {
		if sb, ok := ctx.Tx.SolBalances[user]; ok {
			decimals = consts.SOLDecimals
			preRaw, postRaw = sb.PreBalance, sb.PostBalance
			hasBalance = true
		}
	} else if tb, ok := ctx.Balances[source]; ok && tb.Token == mint {
		decimals = tb.Decimals
		preRaw, postRaw = tb.PreBalance, tb.PostBalance
		hasBalance = true
	}
	if !hasBalance {
		// 无余额变动说明资金未实际转入托管账户，跳过
		logger.Debugf("[JupiterLimit:InitializeOrder] 余额快照缺失: account=%s, mint=%s, tx=%s",
			source, mint, ctx.TxHashString())
		return -1
	}

	matched := findInnerTransferByMint(ctx, instrs, current, mint)

	amountRaw := absDiff(preRaw, postRaw)
	if matched != nil {
		amountRaw = matched.Amount
		if matched.Decimals > 0 {
			decimals = matched.Decimals
		}
	}

	authority := user
	if tb, ok := ctx.Balances[source]; ok && !tb.PostOwner.IsZero() {
		authority = tb.PostOwner
	}

	srcBalance := core.NewTokenAmount(postRaw, decimals)
	srcPreBalance := core.NewTokenAmount(preRaw, decimals)
	ctx.AddTransfer(&core.TransferData{
		Type:      TransferTypeInitializeOrder,
		ProgramID: ix.ProgramID.String(),
		Info: core.TransferInfo{
			Authority:        authority.String(),
			Source:           source.String(),
			Destination:      destination.String(),
			Mint:             mint.String(),
			TokenAmount:      core.NewTokenAmount(amountRaw, decimals),
			SourceBalance:    &srcBalance,
			SourcePreBalance: &srcPreBalance,
		},
		Idx:       utils.FormatIdx(ix.IxIndex, ix.InnerIndex),
		Slot:      ctx.Tx.Slot,
		Timestamp: ctx.Tx.BlockTime,
		Signature: ctx.Signature,
	})

	// inner 原始转账保留给 SPL Token 解析器，此处不消费
	return current + 1
}

// cancelOrder 指令账户布局：
//
// #0 - Order                 // 挂单 PDA 账户（托管账户 authority）
// #1 - Reserve               // 托管 Token 账户（退款来源）
// #2 - Maker                 // 挂单用户
// #3 - Maker Input Account   // 退款目标 Token 账户
// #4 - System Program
// #5 - Token Program
// #6 - Input Mint
//
// 退款目标账户缺失余额快照视为 BalanceNotFoundError，记录后跳过本指令。
// 非 SOL 撤单同时退回租金等 SOL，额外合成一笔 isFee 转账。
func extractCancelOrderEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]

	const requiredAccounts = 7
	if len(ix.Accounts) < requiredAccounts {
		logger.Errorf("[JupiterLimit:CancelOrder] 指令账户长度不足: got=%d, expect>=%d, tx=%s",
			len(ix.Accounts), requiredAccounts, ctx.TxHashString())
		return -1
	}

	authority := ix.Accounts[0]
	source := ix.Accounts[1]
	user := ix.Accounts[2]
	mint := ix.Accounts[6]
	isSOL := mint == consts.WSOLMint

	destination := ix.Accounts[3]
	if isSOL {
		destination = user
	}

	var (
		decimals   uint8
		preRaw     uint64
		postRaw    uint64
		hasBalance bool
	)
	if isSOL {
		if sb, ok := ctx.Tx.SolBalances[user]; ok {
			decimals = consts.SOLDecimals
			preRaw, postRaw = sb.PreBalance, sb.PostBalance
			hasBalance = true
		}
	} else if tb, ok := ctx.Balances[destination]; ok {
		decimals = tb.Decimals
		preRaw, postRaw = tb.PreBalance, tb.PostBalance
		hasBalance = true
	}
	if !hasBalance {
		err := &errs.BalanceNotFoundError{Account: destination.String(), Mint: mint.String()}
		logger.Errorf("[JupiterLimit:CancelOrder] %v, tx=%s", err, ctx.TxHashString())
		ctx.RecordError(err)
		return -1
	}

	matched := findInnerTransferByMint(ctx, instrs, current, mint)

	amountRaw := absDiff(preRaw, postRaw)
	if matched != nil {
		amountRaw = matched.Amount
		if matched.Decimals > 0 {
			decimals = matched.Decimals
		}
	}

	destBalance := core.NewTokenAmount(postRaw, decimals)
	destPreBalance := core.NewTokenAmount(preRaw, decimals)
	ctx.AddTransfer(&core.TransferData{
		Type:      TransferTypeCancelOrder,
		ProgramID: ix.ProgramID.String(),
		Info: core.TransferInfo{
			Authority:             authority.String(),
			Source:                source.String(),
			Destination:           destination.String(),
			Mint:                  mint.String(),
			TokenAmount:           core.NewTokenAmount(amountRaw, decimals),
			DestinationBalance:    &destBalance,
			DestinationPreBalance: &destPreBalance,
		},
		Idx:       utils.FormatIdx(ix.IxIndex, ix.InnerIndex),
		Slot:      ctx.Tx.Slot,
		Timestamp: ctx.Tx.BlockTime,
		Signature: ctx.Signature,
	})

	if !isSOL {
		if sb, ok := ctx.Tx.SolBalances[user]; ok && sb.PreBalance != sb.PostBalance {
			ctx.AddTransfer(&core.TransferData{
				Type:      TransferTypeCancelOrder,
				ProgramID: ix.ProgramID.String(),
				Info: core.TransferInfo{
					Authority:   authority.String(),
					Source:      source.String(),
					Destination: user.String(),
					Mint:        consts.WSOLMintStr,
					TokenAmount: core.NewTokenAmount(absDiff(sb.PreBalance, sb.PostBalance), consts.SOLDecimals),
				},
				Idx:       utils.FormatIdx(ix.IxIndex, ix.InnerIndex),
				Slot:      ctx.Tx.Slot,
				Timestamp: ctx.Tx.BlockTime,
				Signature: ctx.Signature,
				IsFee:     true,
			})
		}
	}

	return current + 1
}

// findInnerTransferByMint 在当前主指令的 inner 指令中查找首笔指定 mint 的转账
func findInnerTransferByMint(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
	mint types.Pubkey,
) *common.ParsedTransfer {
	ix := instrs[current]
	for i := current + 1; i < len(instrs) && instrs[i].IxIndex == ix.IxIndex; i++ {
		inner := instrs[i]
		if !common.IsTokenTransferInstruction(inner) {
			continue
		}
		if pt, ok := common.ParseTransferInstruction(ctx, inner); ok && pt.Token == mint {
			return pt
		}
	}
	return nil
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
