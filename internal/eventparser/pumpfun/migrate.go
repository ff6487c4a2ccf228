package pumpfun

import (
	"runtime/debug"

	"github.com/near/borsh-go"

	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/internal/utils"
	"dex-parser-sol/pkg/logger"
	"dex-parser-sol/pkg/types"
)

// PumpMigrateEvent 是 migrate 指令的 Event CPI 日志结构（borsh）
type PumpMigrateEvent struct {
	Sign             uint64
	User             types.Pubkey
	Mint             types.Pubkey
	MintAmount       uint64
	SolAmount        uint64
	PoolMigrationFee uint64
	BondingCurve     types.Pubkey
	Timestamp        uint64
	Pool             types.Pubkey
}

// extractMigrateEvent 解析 migrate 指令：bonding curve 毕业，储备迁入 PumpSwap AMM 新池。
// 以新池的 CREATE 事件表达，迁移金额即新池的初始注资。
//
// Pump.fun - Migrate 指令账户布局（节选）：
//
// #2  - Base Token Mint
// #3  - Bonding Curve（来源池）
// #4  - Bonding Curve Vault
// #5  - User
// #9  - Pool（目标 AMM 池主账户）
// #10 - Pool Authority
// #17 - Pool Base Token Account
// #18 - Pool Quote Token Account（WSOL）
// #22 - Event Authority
func extractMigrateEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) (next int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[Pumpfun:Migrate] panic: %v, stack=%s, tx=%s", r, debug.Stack(), ctx.TxHashString())
			next = -1
		}
	}()

	ix := instrs[current]

	// 1. 校验指令结构
	if len(ix.Accounts) < 24 {
		logger.Errorf("[Pumpfun:Migrate] 指令账户长度不足: got=%d, expect>=24, tx=%s",
			len(ix.Accounts), ctx.TxHashString())
		return -1
	}

	// 2. 提取并解析事件
	eventIndex := findEventInstruction(instrs, current, ix.Accounts[22]) // Event Authority
	if eventIndex < 0 {
		logger.Infof("[Pumpfun:Migrate] 未找到事件日志指令: authority=%s, tx=%s", ix.Accounts[22], ctx.TxHashString())
		return -1
	}
	eventIx := instrs[eventIndex]
	event := PumpMigrateEvent{}
	if err := borsh.Deserialize(&event, eventIx.Data[8:]); err != nil {
		logger.Errorf("[Pumpfun:Migrate] 事件反序列化失败: err=%v, dataLen=%d, tx=%s", err, len(eventIx.Data), ctx.TxHashString())
		return -1
	}

	// 3. 校验交易 token mint
	if event.Mint != ix.Accounts[2] {
		logger.Errorf("[Pumpfun:Migrate] base mint 不匹配 (expected=%s, got=%s): tx=%s", ix.Accounts[2], event.Mint, ctx.TxHashString())
		return -1
	}

	// 4. 校验 BondingCurve 地址一致性
	if event.BondingCurve != ix.Accounts[3] {
		logger.Errorf("[Pumpfun:Migrate] BondingCurve 不一致 (expected=%s, got=%s): tx=%s", ix.Accounts[3], event.BondingCurve, ctx.TxHashString())
		return -1
	}

	// 5. 校验用户地址一致性
	if event.User != ix.Accounts[5] {
		logger.Errorf("[Pumpfun:Migrate] 用户地址不一致 (expected=%s, got=%s): tx=%s", ix.Accounts[5], event.User, ctx.TxHashString())
		return -1
	}

	destPoolAddress := ix.Accounts[9]       // 目标 AMM 池主账户
	destPoolTokenAccount := ix.Accounts[17] // 目标池 base token 账户
	destPoolQuoteAccount := ix.Accounts[18] // 目标池 quote token 账户（WSOL）

	// 6. 获取目标池 token 余额（取精度用）
	destPoolTokenBalance, ok := ctx.Balances[destPoolTokenAccount]
	if !ok {
		logger.Errorf("[Pumpfun:Migrate] 目标池 base token 余额缺失: account=%s, tx=%s", destPoolTokenAccount, ctx.TxHashString())
		return -1
	}
	if destPoolTokenBalance.Token != event.Mint {
		logger.Errorf("[Pumpfun:Migrate] base token 不一致: balance=%s, event=%s, tx=%s",
			destPoolTokenBalance.Token, event.Mint, ctx.TxHashString())
		return -1
	}

	// 7. 校验 quote token 是否为 WSOL
	if destPoolQuoteBalance, ok := ctx.Balances[destPoolQuoteAccount]; ok && destPoolQuoteBalance.Token != consts.WSOLMint {
		logger.Errorf("[Pumpfun:Migrate] quote token 类型错误: expected=%s, actual=%s, tx=%s",
			consts.WSOLMint, destPoolQuoteBalance.Token, ctx.TxHashString())
		return -1
	}

	// 8. 以新池 CREATE 事件表达迁移，金额为迁入的初始储备
	tokenAmount := core.NewTokenAmount(event.MintAmount, destPoolTokenBalance.Decimals)
	solAmount := core.NewTokenAmount(event.SolAmount, consts.SOLDecimals)
	ctx.AddLiquidity(&core.PoolEvent{
		Type:            core.PoolEventCreate,
		PoolID:          destPoolAddress.String(),
		User:            event.User.String(),
		ProgramID:       ix.ProgramID.String(),
		Amm:             consts.DexName(consts.DexPumpswap),
		Token0Mint:      event.Mint.String(),
		Token0Amount:    tokenAmount.Amount,
		Token0AmountRaw: tokenAmount.AmountRaw,
		Token0Decimals:  destPoolTokenBalance.Decimals,
		Token1Mint:      consts.WSOLMintStr,
		Token1Amount:    solAmount.Amount,
		Token1AmountRaw: solAmount.AmountRaw,
		Token1Decimals:  consts.SOLDecimals,
		Slot:            ctx.Tx.Slot,
		Timestamp:       ctx.Tx.BlockTime,
		Signature:       ctx.Signature,
		Idx:             utils.FormatIdx(ix.IxIndex, ix.InnerIndex),
	})

	// 9. 事件原始内容（含迁移费用）记入 moreEvents
	ctx.AddMoreEvent(consts.DexName(consts.DexPumpfun), &event)

	// 新池内部的注资转账保留给后续指令处理
	return current + 1
}
