package pumpfunamm

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/pkg/logger"
)

// PumpSwap CreatePool / Deposit / Withdraw 指令账户布局：
//  0. Pool
//  1. Global Config
//  2. User (creator)
//  3. BaseMint
//  4. QuoteMint
//  5. LpMint
//  6. UserBaseTokenAccount
//  7. UserQuoteTokenAccount
//  8. UserPoolTokenAccount (LP)
//  9. PoolBaseTokenAccount
//  10. PoolQuoteTokenAccount
var liquidityLayout = common.LiquidityLayout{
	RequireBothTransfer:    true,
	PoolAddressIndex:       0,
	TokenMint1Index:        3,
	TokenMint2Index:        4,
	UserWalletIndex:        2,
	UserToken1AccountIndex: 6,
	UserToken2AccountIndex: 7,
	UserLpAccountIndex:     8,
	PoolToken1AccountIndex: 9,
	PoolToken2AccountIndex: 10,
	LpMintIndex:            5,
}

// extractCreatePoolEvent 解析 create_pool 指令：建池并注入初始流动性。
// 以 ADD 匹配逻辑提取初始注资，再改写为 CREATE 事件。
func extractCreatePoolEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]
	if len(ix.Accounts) < 11 {
		logger.Errorf("[Pumpswap:extractCreatePoolEvent] 账户数量不足: tx=%s", ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractAddLiquidityEvent(ctx, instrs, current, consts.DexPumpswap, "CreatePool", &liquidityLayout)
	if event == nil {
		// 仅建池不注资时转账缺失，以账户布局兜底
		event = common.BuildCreatePoolEvent(ctx, ix, nil, nil,
			ix.Accounts[2], ix.Accounts[0], ix.Accounts[3], ix.Accounts[4], consts.DexPumpswap)
		if event == nil {
			return -1
		}
		ctx.AddLiquidity(event)
		emitInstructionEvent(ctx, ix)
		return current + 1
	}

	event.Type = core.PoolEventCreate
	ctx.AddLiquidity(event)
	emitInstructionEvent(ctx, ix)
	return maxIndex + 1
}

// extractDepositEvent 解析 deposit 指令：用户向池子注入 base + quote，铸造 LP。
func extractDepositEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]
	if len(ix.Accounts) < 11 {
		logger.Errorf("[Pumpswap:extractDepositEvent] 账户数量不足: tx=%s", ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractAddLiquidityEvent(ctx, instrs, current, consts.DexPumpswap, "Deposit", &liquidityLayout)
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	emitInstructionEvent(ctx, ix)
	return maxIndex + 1
}

// extractWithdrawEvent 解析 withdraw 指令：销毁 LP，池子向用户返还 base + quote。
func extractWithdrawEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]
	if len(ix.Accounts) < 11 {
		logger.Errorf("[Pumpswap:extractWithdrawEvent] 账户数量不足: tx=%s", ctx.TxHashString())
		return -1
	}

	event, maxIndex := common.ExtractRemoveLiquidityEvent(ctx, instrs, current, consts.DexPumpswap, "Withdraw", &liquidityLayout)
	if event == nil {
		return -1
	}

	ctx.AddLiquidity(event)
	emitInstructionEvent(ctx, ix)
	return maxIndex + 1
}
