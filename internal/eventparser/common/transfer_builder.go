package common

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/utils"
	"dex-parser-sol/pkg/types"
)

// 转账事件类型
const (
	TransferTypeTransfer = "transfer"
	TransferTypeMintTo   = "mintTo"
	TransferTypeBurn     = "burn"
	TransferTypeNative   = "native" // System Program 的 SOL 转账
)

// BuildTransferData 将 ParsedTransfer 构造为标准转账事件。
// isFee 标记该笔转账属于某协议的手续费腿，参与 (idx, signature, isFee) 去重。
func BuildTransferData(ctx *ParserContext, programID types.Pubkey, pt *ParsedTransfer, isFee bool) *core.TransferData {
	info := core.TransferInfo{
		Authority:        pt.SrcWallet.String(),
		Source:           pt.SrcAccount.String(),
		Destination:      pt.DestAccount.String(),
		DestinationOwner: pt.DestWallet.String(),
		Mint:             pt.Token.String(),
		TokenAmount:      core.NewTokenAmount(pt.Amount, pt.Decimals),
	}
	if pt.HasBalance {
		src := core.NewTokenAmount(pt.SrcPostBalance, pt.Decimals)
		srcPre := core.NewTokenAmount(pt.SrcPreBalance, pt.Decimals)
		dest := core.NewTokenAmount(pt.DestPostBalance, pt.Decimals)
		destPre := core.NewTokenAmount(pt.DestPreBalance, pt.Decimals)
		info.SourceBalance = &src
		info.SourcePreBalance = &srcPre
		info.DestinationBalance = &dest
		info.DestinationPreBalance = &destPre
	}
	return &core.TransferData{
		Type:      TransferTypeTransfer,
		ProgramID: programID.String(),
		Info:      info,
		Idx:       utils.FormatIdx(pt.IxIndex, pt.InnerIndex),
		Slot:      ctx.Tx.Slot,
		Timestamp: ctx.Tx.BlockTime,
		Signature: ctx.Signature,
		IsFee:     isFee,
	}
}

// BuildMintToData 将 ParsedMintTo 构造为标准转账事件（destination 侧进账）
func BuildMintToData(ctx *ParserContext, programID types.Pubkey, pm *ParsedMintTo) *core.TransferData {
	dest := core.NewTokenAmount(pm.DestPostBalance, pm.Decimals)
	return &core.TransferData{
		Type:      TransferTypeMintTo,
		ProgramID: programID.String(),
		Info: core.TransferInfo{
			Destination:        pm.DestAccount.String(),
			DestinationOwner:   pm.DestWallet.String(),
			Mint:               pm.Token.String(),
			TokenAmount:        core.NewTokenAmount(pm.Amount, pm.Decimals),
			DestinationBalance: &dest,
		},
		Idx:       utils.FormatIdx(pm.IxIndex, pm.InnerIndex),
		Slot:      ctx.Tx.Slot,
		Timestamp: ctx.Tx.BlockTime,
		Signature: ctx.Signature,
	}
}

// BuildBurnData 将 ParsedBurn 构造为标准转账事件（source 侧出账）
func BuildBurnData(ctx *ParserContext, programID types.Pubkey, pb *ParsedBurn) *core.TransferData {
	src := core.NewTokenAmount(pb.SrcPostBalance, pb.Decimals)
	return &core.TransferData{
		Type:      TransferTypeBurn,
		ProgramID: programID.String(),
		Info: core.TransferInfo{
			Authority:     pb.SrcWallet.String(),
			Source:        pb.SrcAccount.String(),
			Mint:          pb.Token.String(),
			TokenAmount:   core.NewTokenAmount(pb.Amount, pb.Decimals),
			SourceBalance: &src,
		},
		Idx:       utils.FormatIdx(pb.IxIndex, pb.InnerIndex),
		Slot:      ctx.Tx.Slot,
		Timestamp: ctx.Tx.BlockTime,
		Signature: ctx.Signature,
	}
}

// BuildNativeTransferData 将 System Program 的 SOL 转账构造为标准转账事件。
// mint 使用全零地址表示原生 SOL。
func BuildNativeTransferData(ctx *ParserContext, ps *ParsedSystemTransfer, isFee bool) *core.TransferData {
	return &core.TransferData{
		Type:      TransferTypeNative,
		ProgramID: consts.SystemProgramStr,
		Info: core.TransferInfo{
			Authority:   ps.From.String(),
			Source:      ps.From.String(),
			Destination: ps.To.String(),
			Mint:        consts.NativeSOLMint.String(),
			TokenAmount: core.NewTokenAmount(ps.Lamports, consts.SOLDecimals),
		},
		Idx:       utils.FormatIdx(ps.IxIndex, ps.InnerIndex),
		Slot:      ctx.Tx.Slot,
		Timestamp: ctx.Tx.BlockTime,
		Signature: ctx.Signature,
		IsFee:     isFee,
	}
}
