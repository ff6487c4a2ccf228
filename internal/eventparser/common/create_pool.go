package common

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/tools"
	"dex-parser-sol/internal/utils"
	"dex-parser-sol/pkg/logger"
	"dex-parser-sol/pkg/types"
)

// CreatePoolLayout 描述建池指令的关键账户索引布局。
// TokenProgram1Index / TokenProgram2Index 可取 -1 表示不校验。
type CreatePoolLayout struct {
	PoolAddressIndex   int
	TokenMint1Index    int
	TokenMint2Index    int
	TokenProgram1Index int
	TokenProgram2Index int
	PoolVault1Index    int
	PoolVault2Index    int
	UserWalletIndex    int
}

// ExtractCreatePoolEvent 按布局构建 CREATE 事件（仅建池，金额为 0）。
// vault 余额表同时用于校验 mint 与获取精度。
func ExtractCreatePoolEvent(
	ctx *ParserContext,
	ix *core.AdaptedInstruction,
	dex int,
	instructionName string,
	layout *CreatePoolLayout,
) *core.PoolEvent {
	dexName := consts.DexName(dex)

	if !validateCreatePoolLayout(ctx, dexName, instructionName, layout, len(ix.Accounts)) {
		return nil
	}

	tokenMint1 := ix.Accounts[layout.TokenMint1Index]
	tokenMint2 := ix.Accounts[layout.TokenMint2Index]
	poolVault1 := ix.Accounts[layout.PoolVault1Index]
	poolVault2 := ix.Accounts[layout.PoolVault2Index]

	bal1 := validateVaultMint(ctx, dexName, instructionName, poolVault1, tokenMint1, "vault1")
	if bal1 == nil {
		return nil
	}
	bal2 := validateVaultMint(ctx, dexName, instructionName, poolVault2, tokenMint2, "vault2")
	if bal2 == nil {
		return nil
	}

	if layout.TokenProgram1Index >= 0 && !consts.IsSPLTokenProgram(ix.Accounts[layout.TokenProgram1Index]) {
		logger.Errorf("[%s:%s] invalid TokenProgram1: %s, tx=%s",
			dexName, instructionName, ix.Accounts[layout.TokenProgram1Index], ctx.TxHashString())
		return nil
	}
	if layout.TokenProgram2Index >= 0 && !consts.IsSPLTokenProgram(ix.Accounts[layout.TokenProgram2Index]) {
		logger.Errorf("[%s:%s] invalid TokenProgram2: %s, tx=%s",
			dexName, instructionName, ix.Accounts[layout.TokenProgram2Index], ctx.TxHashString())
		return nil
	}

	event := &core.PoolEvent{
		Type:      core.PoolEventCreate,
		PoolID:    ix.Accounts[layout.PoolAddressIndex].String(),
		User:      ix.Accounts[layout.UserWalletIndex].String(),
		ProgramID: ix.ProgramID.String(),
		Amm:       dexName,
		Slot:      ctx.Tx.Slot,
		Timestamp: ctx.Tx.BlockTime,
		Signature: ctx.Signature,
		Idx:       utils.FormatIdx(ix.IxIndex, ix.InnerIndex),
	}

	quote, ok := tools.ChooseQuote(tokenMint1, tokenMint2)
	if !ok {
		quote = tokenMint2
	}

	if quote == tokenMint2 {
		event.Token0Mint = tokenMint1.String()
		event.Token0Decimals = bal1.Decimals
		event.Token1Mint = tokenMint2.String()
		event.Token1Decimals = bal2.Decimals
	} else {
		event.Token0Mint = tokenMint2.String()
		event.Token0Decimals = bal2.Decimals
		event.Token1Mint = tokenMint1.String()
		event.Token1Decimals = bal1.Decimals
	}

	return event
}

func validateCreatePoolLayout(
	ctx *ParserContext,
	dexName string,
	instructionName string,
	layout *CreatePoolLayout,
	accountCount int,
) bool {
	isValid := func(index int) bool {
		return index >= 0 && index < accountCount
	}

	for _, check := range []struct {
		name  string
		index int
	}{
		{"PoolAddressIndex", layout.PoolAddressIndex},
		{"TokenMint1Index", layout.TokenMint1Index},
		{"TokenMint2Index", layout.TokenMint2Index},
		{"PoolVault1Index", layout.PoolVault1Index},
		{"PoolVault2Index", layout.PoolVault2Index},
		{"UserWalletIndex", layout.UserWalletIndex},
	} {
		if !isValid(check.index) {
			logger.Errorf("[%s:%s] invalid %s=%d (total=%d), tx=%s",
				dexName, instructionName, check.name, check.index, accountCount, ctx.TxHashString())
			return false
		}
	}
	if layout.TokenProgram1Index != -1 && !isValid(layout.TokenProgram1Index) {
		logger.Errorf("[%s:%s] invalid TokenProgram1Index=%d (total=%d), tx=%s",
			dexName, instructionName, layout.TokenProgram1Index, accountCount, ctx.TxHashString())
		return false
	}
	if layout.TokenProgram2Index != -1 && !isValid(layout.TokenProgram2Index) {
		logger.Errorf("[%s:%s] invalid TokenProgram2Index=%d (total=%d), tx=%s",
			dexName, instructionName, layout.TokenProgram2Index, accountCount, ctx.TxHashString())
		return false
	}
	return true
}

func validateVaultMint(
	ctx *ParserContext,
	dexName, instructionName string,
	vault types.Pubkey,
	expectedMint types.Pubkey,
	label string, // 如 "vault1" 或 "vault2"
) *core.TokenBalance {
	bal, ok := ctx.Balances[vault]
	if !ok {
		logger.Errorf("[%s:%s] %s balance not found: vault=%s, expected mint=%s, tx=%s",
			dexName, instructionName, label, vault, expectedMint, ctx.TxHashString())
		return nil
	}
	if bal.Token != expectedMint {
		logger.Errorf("[%s:%s] %s mint mismatch: vault=%s, expected=%s, got=%s, tx=%s",
			dexName, instructionName, label, vault, expectedMint, bal.Token, ctx.TxHashString())
		return nil
	}
	return bal
}
