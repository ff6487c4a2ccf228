package common

import (
	"encoding/binary"

	sdktoken "github.com/blocto/solana-go-sdk/program/token"

	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/pkg/logger"
	"dex-parser-sol/pkg/types"
)

// 合约源代码:
// SplToken: https://github.com/solana-program/token/blob/main/program/src/instruction.rs
// Token2022: https://github.com/solana-program/token-2022

// ParsedTransfer 表示一次 SPL Token 的 Transfer 或 TransferChecked 操作。
type ParsedTransfer struct {
	IxIndex         uint16       // 主指令
	InnerIndex      uint16       // 内部指令
	Token           types.Pubkey // Token mint 地址
	SrcAccount      types.Pubkey // 来源 TokenAccount
	DestAccount     types.Pubkey // 目标 TokenAccount
	SrcWallet       types.Pubkey // 来源账户所有者
	DestWallet      types.Pubkey // 目标账户所有者
	Amount          uint64       // 转账数量（最小单位）
	Decimals        uint8        // Token 精度
	SrcPreBalance   uint64       // 来源账户交易前余额
	SrcPostBalance  uint64       // 来源账户交易后余额
	DestPreBalance  uint64       // 目标账户交易前余额
	DestPostBalance uint64       // 目标账户交易后余额
	HasBalance      bool         // 是否有余额快照（Partial 交易无）
}

// ParsedMintTo 表示一次 SPL Token 的 MintTo 或 MintToChecked 操作。
type ParsedMintTo struct {
	IxIndex         uint16
	InnerIndex      uint16
	Token           types.Pubkey // Token mint 地址
	DestAccount     types.Pubkey // 目标 TokenAccount
	DestWallet      types.Pubkey // 目标账户所有者
	Amount          uint64
	Decimals        uint8
	DestPostBalance uint64
}

// ParsedBurn 表示一次 SPL Token 的 Burn 或 BurnChecked 操作。
type ParsedBurn struct {
	IxIndex        uint16
	InnerIndex     uint16
	Token          types.Pubkey
	SrcAccount     types.Pubkey
	SrcWallet      types.Pubkey
	Amount         uint64
	Decimals       uint8
	SrcPostBalance uint64
}

// IsTokenTransferInstruction 判断指令是否为 SPL Token 的 Transfer / TransferChecked
func IsTokenTransferInstruction(ix *core.AdaptedInstruction) bool {
	if !consts.IsSPLTokenProgram(ix.ProgramID) || len(ix.Data) == 0 {
		return false
	}
	return ix.Data[0] == byte(sdktoken.InstructionTransfer) ||
		ix.Data[0] == byte(sdktoken.InstructionTransferChecked)
}

// ParseTransferInstruction 解析 Transfer / TransferChecked 指令。
// Transfer 依赖余额表补全 mint 与精度；TransferChecked 自带 mint 账户与精度，
// 余额表缺失（shred 等场景）时仍可解析，HasBalance 置 false。
func ParseTransferInstruction(ctx *ParserContext, ix *core.AdaptedInstruction) (*ParsedTransfer, bool) {
	if len(ix.Data) < 9 || len(ix.Accounts) < 3 {
		return nil, false
	}

	switch ix.Data[0] {
	// Transfer: [0]=instr, [1:9]=amount
	// accounts = [src_account, dest_account, authority_wallet]
	case byte(sdktoken.InstructionTransfer):
		srcInfo, ok1 := ctx.Balances[ix.Accounts[0]]
		destInfo, ok2 := ctx.Balances[ix.Accounts[1]]
		if !ok1 && !ok2 {
			logger.Debugf("[Token::Transfer] tx=%s: balance missing src=%s dest=%s",
				ctx.TxHashString(), ix.Accounts[0], ix.Accounts[1])
			return nil, false
		}
		pt := &ParsedTransfer{
			IxIndex:     ix.IxIndex,
			InnerIndex:  ix.InnerIndex,
			SrcAccount:  ix.Accounts[0],
			DestAccount: ix.Accounts[1],
			SrcWallet:   ix.Accounts[2],
			Amount:      binary.LittleEndian.Uint64(ix.Data[1:9]),
			HasBalance:  ok1 && ok2,
		}
		if ok1 {
			pt.Token = srcInfo.Token
			pt.Decimals = srcInfo.Decimals
			pt.SrcPreBalance = srcInfo.PreBalance
			pt.SrcPostBalance = srcInfo.PostBalance
		}
		if ok2 {
			if !ok1 {
				pt.Token = destInfo.Token
				pt.Decimals = destInfo.Decimals
			}
			pt.DestWallet = destInfo.PostOwner
			pt.DestPreBalance = destInfo.PreBalance
			pt.DestPostBalance = destInfo.PostBalance
		}
		return pt, true

	// TransferChecked: [0]=instr, [1:9]=amount, [9]=decimals
	// accounts = [src_account, mint, dest_account, authority_wallet]
	case byte(sdktoken.InstructionTransferChecked):
		if len(ix.Data) < 10 || len(ix.Accounts) < 4 {
			return nil, false
		}
		pt := &ParsedTransfer{
			IxIndex:     ix.IxIndex,
			InnerIndex:  ix.InnerIndex,
			Token:       ix.Accounts[1],
			SrcAccount:  ix.Accounts[0],
			DestAccount: ix.Accounts[2],
			SrcWallet:   ix.Accounts[3],
			Amount:      binary.LittleEndian.Uint64(ix.Data[1:9]),
			Decimals:    ix.Data[9],
		}
		srcInfo, ok1 := ctx.Balances[ix.Accounts[0]]
		destInfo, ok2 := ctx.Balances[ix.Accounts[2]]
		if ok1 {
			if srcInfo.Token != pt.Token {
				logger.Warnf("[Token::TransferChecked] tx=%s: mint mismatch, balance.token=%s, ix.mint=%s (account=%s)",
					ctx.TxHashString(), srcInfo.Token, pt.Token, ix.Accounts[0])
			}
			pt.SrcPreBalance = srcInfo.PreBalance
			pt.SrcPostBalance = srcInfo.PostBalance
		}
		if ok2 {
			pt.DestWallet = destInfo.PostOwner
			pt.DestPreBalance = destInfo.PreBalance
			pt.DestPostBalance = destInfo.PostBalance
		}
		pt.HasBalance = ok1 && ok2
		return pt, true
	}
	return nil, false
}

// ParseMintToInstruction 解析 MintTo / MintToChecked 指令
func ParseMintToInstruction(ctx *ParserContext, ix *core.AdaptedInstruction) (*ParsedMintTo, bool) {
	// MintTo: [0]=instr, [1:9]=amount, [9]=decimals (仅 Checked 有)
	// accounts = [mint, dest_token_account, authority_wallet]
	if len(ix.Data) < 9 || len(ix.Accounts) < 3 {
		return nil, false
	}
	if ix.Data[0] != byte(sdktoken.InstructionMintTo) &&
		ix.Data[0] != byte(sdktoken.InstructionMintToChecked) {
		return nil, false
	}
	info, ok := ctx.Balances[ix.Accounts[1]]
	if !ok {
		logger.Debugf("[Token::MintTo] tx=%s: dest_token_account missing: %s",
			ctx.TxHashString(), ix.Accounts[1])
		return nil, false
	}
	if info.Token != ix.Accounts[0] {
		logger.Warnf("[Token::MintTo] tx=%s: mint mismatch, balance.token=%s, ix.mint=%s (account=%s)",
			ctx.TxHashString(), info.Token, ix.Accounts[0], ix.Accounts[1])
	}
	return &ParsedMintTo{
		IxIndex:         ix.IxIndex,
		InnerIndex:      ix.InnerIndex,
		Token:           ix.Accounts[0], // Accounts[0]更贴近指令定义，优先于 info.Token
		DestAccount:     ix.Accounts[1],
		DestWallet:      ix.Accounts[2],
		Amount:          binary.LittleEndian.Uint64(ix.Data[1:9]),
		Decimals:        info.Decimals,
		DestPostBalance: info.PostBalance,
	}, true
}

// ParseBurnInstruction 解析 Burn / BurnChecked 指令
func ParseBurnInstruction(ctx *ParserContext, ix *core.AdaptedInstruction) (*ParsedBurn, bool) {
	// Burn: [0]=instr, [1:9]=amount, [9]=decimals (仅 BurnChecked 有)
	// accounts = [src_token_account, mint, authority_wallet]
	if len(ix.Data) < 9 || len(ix.Accounts) < 3 {
		return nil, false
	}
	if ix.Data[0] != byte(sdktoken.InstructionBurn) &&
		ix.Data[0] != byte(sdktoken.InstructionBurnChecked) {
		return nil, false
	}
	info, ok := ctx.Balances[ix.Accounts[0]]
	if !ok {
		logger.Debugf("[Token::Burn] tx=%s: src_token_account missing: %s",
			ctx.TxHashString(), ix.Accounts[0])
		return nil, false
	}
	if info.Token != ix.Accounts[1] {
		logger.Warnf("[Token::Burn] tx=%s: mint mismatch, balance.token=%s, ix.mint=%s (account=%s)",
			ctx.TxHashString(), info.Token, ix.Accounts[1], ix.Accounts[0])
	}
	return &ParsedBurn{
		IxIndex:        ix.IxIndex,
		InnerIndex:     ix.InnerIndex,
		Token:          info.Token,
		SrcAccount:     ix.Accounts[0],
		SrcWallet:      ix.Accounts[2],
		Amount:         binary.LittleEndian.Uint64(ix.Data[1:9]),
		Decimals:       info.Decimals,
		SrcPostBalance: info.PostBalance,
	}, true
}

// SystemTransferInstruction 系统程序 Transfer 的指令编号（data 前 4 字节小端）
const SystemTransferInstruction = uint32(2)

// ParsedSystemTransfer 表示一次原生 SOL 转账（System Program Transfer）。
type ParsedSystemTransfer struct {
	IxIndex    uint16
	InnerIndex uint16
	From       types.Pubkey
	To         types.Pubkey
	Lamports   uint64
}

// ParseSystemTransferInstruction 解析 System Program 的 Transfer 指令。
// Layout: [0:4]=instr(u32 LE, 2=Transfer), [4:12]=lamports(u64 LE)；accounts = [from, to]
func ParseSystemTransferInstruction(ix *core.AdaptedInstruction) (*ParsedSystemTransfer, bool) {
	if ix.ProgramID != consts.SystemProgram {
		return nil, false
	}
	if len(ix.Data) < 12 || len(ix.Accounts) < 2 {
		return nil, false
	}
	if binary.LittleEndian.Uint32(ix.Data[0:4]) != SystemTransferInstruction {
		return nil, false
	}
	return &ParsedSystemTransfer{
		IxIndex:    ix.IxIndex,
		InnerIndex: ix.InnerIndex,
		From:       ix.Accounts[0],
		To:         ix.Accounts[1],
		Lamports:   binary.LittleEndian.Uint64(ix.Data[4:12]),
	}, true
}
