package common

import (
	sdktoken "github.com/blocto/solana-go-sdk/program/token"

	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/pkg/logger"
	"dex-parser-sol/pkg/types"
)

// PreScanInitAccountBalances 扫描指令列表中 InitializeAccount 系指令，并尝试补充 ctx.Balances 信息。
// 临时 token account（开仓即销毁）不会出现在 pre/post 余额表中，只能从初始化指令还原映射。
func PreScanInitAccountBalances(ctx *ParserContext, instrs []*core.AdaptedInstruction) {
	for _, ix := range instrs {
		if ix.ProgramID != consts.TokenProgram && ix.ProgramID != consts.TokenProgram2022 {
			continue
		}
		if len(ix.Data) == 0 {
			continue
		}

		switch ix.Data[0] {
		case byte(sdktoken.InstructionInitializeMint),
			byte(sdktoken.InstructionInitializeMint2):
			tryFillMintDecimalsFromInitMint(ctx, ix)

		case byte(sdktoken.InstructionInitializeAccount),
			byte(sdktoken.InstructionInitializeAccount2),
			byte(sdktoken.InstructionInitializeAccount3):
			tryFillBalanceFromInitAccount(ctx, ix)
		}
	}
}

func tryFillMintDecimalsFromInitMint(ctx *ParserContext, ix *core.AdaptedInstruction) {
	if len(ix.Data) < 2 || len(ix.Accounts) == 0 {
		return
	}

	// ix.Accounts[0] 是 Mint 账号，ix.Data[1] 是 decimals
	ctx.Tx.AddTokenDecimals(ix.Accounts[0], ix.Data[1])
}

// tryFillBalanceFromInitAccount 尝试从初始化账户指令中提取 TokenAccount → Token (mint) → Owner 映射。
// 仅当 ctx.Balances 中尚未包含该 TokenAccount 时生效。
func tryFillBalanceFromInitAccount(ctx *ParserContext, ix *core.AdaptedInstruction) {
	if len(ix.Data) == 0 {
		return
	}

	var (
		mint, tokenAccount, owner types.Pubkey
		err                       error
	)

	switch ix.Data[0] {
	case byte(sdktoken.InstructionInitializeAccount):
		// Layout: accounts = [tokenAccount, mint, owner]
		if len(ix.Accounts) < 3 {
			return
		}
		tokenAccount = ix.Accounts[0]
		mint = ix.Accounts[1]
		owner = ix.Accounts[2]

	case byte(sdktoken.InstructionInitializeAccount2), byte(sdktoken.InstructionInitializeAccount3):
		// Layout: accounts = [tokenAccount, mint], owner in Data[1:33]
		if len(ix.Accounts) < 2 || len(ix.Data) < 33 {
			return
		}
		tokenAccount = ix.Accounts[0]
		mint = ix.Accounts[1]
		owner, err = types.PubkeyFromBytes(ix.Data[1:33])
		if err != nil {
			logger.Errorf("[PreScanInitAccount] tx=%s: decode owner pubkey from Data[1:33] failed: %v, program=%s ixIndex=%d innerIndex=%d",
				ctx.TxHashString(), err, ix.ProgramID, ix.IxIndex, ix.InnerIndex)
			return
		}

	default:
		return
	}

	// 如果该 TokenAccount 尚未在 ctx.Balances 中，则补全余额信息
	if _, exists := ctx.Balances[tokenAccount]; exists {
		return
	}

	decimals, ok := ctx.Tx.GetDecimalsByMint(mint)
	if !ok {
		logger.Debugf("[PreScanInitAccount] tx=%s: missing decimals for mint=%s (tokenAccount=%s)",
			ctx.TxHashString(), mint, tokenAccount)
		return
	}

	ctx.Balances[tokenAccount] = &core.TokenBalance{
		Decimals:     decimals,
		TokenAccount: tokenAccount,
		Token:        mint,
		PostOwner:    owner,
	}
}
