package common

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/utils"
	"dex-parser-sol/pkg/types"
)

// buildPoolEvent 组装 PoolEvent 公共部分。
// token0 对应 base 腿，token1 对应 quote 腿，与转账匹配结果保持一致。
func buildPoolEvent(
	ctx *ParserContext,
	ix *core.AdaptedInstruction,
	eventType string,
	baseTransfer, quoteTransfer *ParsedTransfer,
	user, pairAddress types.Pubkey,
	dex int,
) *core.PoolEvent {
	ev := &core.PoolEvent{
		Type:      eventType,
		PoolID:    pairAddress.String(),
		User:      user.String(),
		ProgramID: ix.ProgramID.String(),
		Amm:       consts.DexName(dex),
		Slot:      ctx.Tx.Slot,
		Timestamp: ctx.Tx.BlockTime,
		Signature: ctx.Signature,
		Idx:       utils.FormatIdx(ix.IxIndex, ix.InnerIndex),
	}
	if baseTransfer != nil {
		ev.Token0Mint = baseTransfer.Token.String()
		ev.Token0Amount = utils.UiAmount(baseTransfer.Amount, baseTransfer.Decimals)
		ev.Token0AmountRaw = core.NewTokenAmount(baseTransfer.Amount, baseTransfer.Decimals).AmountRaw
		ev.Token0Decimals = baseTransfer.Decimals
	}
	if quoteTransfer != nil {
		ev.Token1Mint = quoteTransfer.Token.String()
		ev.Token1Amount = utils.UiAmount(quoteTransfer.Amount, quoteTransfer.Decimals)
		ev.Token1AmountRaw = core.NewTokenAmount(quoteTransfer.Amount, quoteTransfer.Decimals).AmountRaw
		ev.Token1Decimals = quoteTransfer.Decimals
	}
	return ev
}

// BuildAddLiquidityEvent 构建加池事件。
// lpMintTo 为 LP token 铸造记录；部分协议（CLMM 等）无 LP mint，传 nil 容忍缺失。
func BuildAddLiquidityEvent(
	ctx *ParserContext,
	ix *core.AdaptedInstruction,
	baseTransfer, quoteTransfer *ParsedTransfer,
	lpMintTo *ParsedMintTo,
	pairAddress types.Pubkey,
	dex int,
) *core.PoolEvent {
	if baseTransfer == nil || quoteTransfer == nil {
		return nil
	}
	ev := buildPoolEvent(ctx, ix, core.PoolEventAdd, baseTransfer, quoteTransfer, baseTransfer.SrcWallet, pairAddress, dex)
	if lpMintTo != nil {
		ev.LpMint = lpMintTo.Token.String()
		ev.LpAmount = utils.UiAmount(lpMintTo.Amount, lpMintTo.Decimals)
		ev.LpAmountRaw = core.NewTokenAmount(lpMintTo.Amount, lpMintTo.Decimals).AmountRaw
	}
	return ev
}

// BuildRemoveLiquidityEvent 构建撤池事件。
// 撤池时转账方向为池子 → 用户，user 取 base 腿的接收方所有者。
func BuildRemoveLiquidityEvent(
	ctx *ParserContext,
	ix *core.AdaptedInstruction,
	baseTransfer, quoteTransfer *ParsedTransfer,
	lpBurn *ParsedBurn,
	pairAddress types.Pubkey,
	dex int,
) *core.PoolEvent {
	if baseTransfer == nil || quoteTransfer == nil {
		return nil
	}
	ev := buildPoolEvent(ctx, ix, core.PoolEventRemove, baseTransfer, quoteTransfer, baseTransfer.DestWallet, pairAddress, dex)
	if lpBurn != nil {
		ev.LpMint = lpBurn.Token.String()
		ev.LpAmount = utils.UiAmount(lpBurn.Amount, lpBurn.Decimals)
		ev.LpAmountRaw = core.NewTokenAmount(lpBurn.Amount, lpBurn.Decimals).AmountRaw
	}
	return ev
}

// BuildCreatePoolEvent 构建建池事件。初始注资转账可缺失（仅建池不注资）。
func BuildCreatePoolEvent(
	ctx *ParserContext,
	ix *core.AdaptedInstruction,
	baseTransfer, quoteTransfer *ParsedTransfer,
	user, pairAddress types.Pubkey,
	token0, token1 types.Pubkey,
	dex int,
) *core.PoolEvent {
	ev := buildPoolEvent(ctx, ix, core.PoolEventCreate, baseTransfer, quoteTransfer, user, pairAddress, dex)
	if ev.Token0Mint == "" && !token0.IsZero() {
		ev.Token0Mint = token0.String()
	}
	if ev.Token1Mint == "" && !token1.IsZero() {
		ev.Token1Mint = token1.String()
	}
	return ev
}
