package pumpfun

import (
	"encoding/binary"
	"runtime/debug"

	"github.com/near/borsh-go"

	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/internal/utils"
	"dex-parser-sol/pkg/logger"
	"dex-parser-sol/pkg/types"
)

// PumpSwapEvent 是 buy / sell 指令的 Event CPI 日志结构（borsh）
type PumpSwapEvent struct {
	Sign                 uint64
	Mint                 types.Pubkey
	SolAmount            uint64
	TokenAmount          uint64
	IsBuy                bool
	User                 types.Pubkey
	Timestamp            uint64
	VirtualSolReserves   uint64
	VirtualTokenReserves uint64
	CurrentSolReserves   uint64
	CurrentTokenReserves uint64
}

// extractSwapEvent 解析 Pump.fun 的 buy / sell 指令，构造标准 TradeInfo。
//
// Pump.fun 交易账户结构：
//  0. Global 配置账户（不可变）
//  1. 手续费账户
//  2. 被购买代币的 Mint
//  3. Bonding Curve 主账户（池子地址）
//  4. Bonding Curve Vault（池子 TokenAccount）
//  5. 用户 Associated Token Account（User TokenAccount）
//  6. 用户主账户（用户地址）
//  7. System Program
//  8. Token Program
//  9. Creator Vault
//  10. Event Authority (事件地址)
//  11. Pump.fun 程序账户
func extractSwapEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
	isBuy bool,
) (next int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[Pumpfun:Swap] panic: %v, stack=%s, tx=%s", r, debug.Stack(), ctx.TxHashString())
			next = -1
		}
	}()

	ix := instrs[current]

	// 1. 校验指令结构
	if len(ix.Accounts) < 12 {
		logger.Errorf("[Pumpfun:Swap] 指令账户长度不足: got=%d, expect>=12, tx=%s",
			len(ix.Accounts), ctx.TxHashString())
		return -1
	}
	if len(ix.Data) < 24 {
		logger.Errorf("[Pumpfun:Swap] 指令数据过短: got=%d, expect>=24, tx=%s",
			len(ix.Data), ctx.TxHashString())
		return -1
	}

	// 2. 提取并解析事件
	eventIndex := findEventInstruction(instrs, current, ix.Accounts[10]) // Event Authority
	if eventIndex < 0 {
		logger.Errorf("[Pumpfun:Swap] 未找到事件日志指令: tx=%s", ctx.TxHashString())
		return -1
	}
	eventIx := instrs[eventIndex]
	event := PumpSwapEvent{}
	if err := borsh.Deserialize(&event, eventIx.Data[8:]); err != nil {
		logger.Errorf("[Pumpfun:Swap] 事件反序列化失败: %v, tx=%s", err, ctx.TxHashString())
		return -1
	}

	// 3. 校验方向
	if event.IsBuy != isBuy {
		logger.Errorf("[Pumpfun:Swap] 事件方向不匹配 (expected %v, got %v): tx=%s", isBuy, event.IsBuy, ctx.TxHashString())
		return -1
	}

	// 4. 校验交易 token mint
	if event.Mint != ix.Accounts[2] {
		logger.Errorf("[Pumpfun:Swap] mint 不匹配 (expected=%s, got=%s): tx=%s", ix.Accounts[2], event.Mint, ctx.TxHashString())
		return -1
	}

	// 5. 校验用户地址一致性
	userWallet := ix.Accounts[6]
	if event.User != userWallet {
		logger.Errorf("[Pumpfun:Swap] 事件中用户地址不匹配: expected=%s, got=%s, tx=%s", userWallet, event.User, ctx.TxHashString())
		return -1
	}

	// 6. 校验 token 金额与指令参数一致
	tokenAmount := binary.LittleEndian.Uint64(ix.Data[8:16])
	if event.TokenAmount != tokenAmount {
		logger.Errorf("[Pumpfun:Swap] Token 金额不匹配: event.TokenAmount=%d, expected=%d, tx=%s",
			event.TokenAmount, tokenAmount, ctx.TxHashString())
		return -1
	}
	if isBuy {
		maxSolAmount := binary.LittleEndian.Uint64(ix.Data[16:24])
		if event.SolAmount > maxSolAmount {
			logger.Errorf("[Pumpfun:Swap] SOL 金额超出最大值: event.SolAmount=%d, maxSolAmount=%d, tx=%s",
				event.SolAmount, maxSolAmount, ctx.TxHashString())
			return -1
		}
	} else {
		minSolAmount := binary.LittleEndian.Uint64(ix.Data[16:24])
		if event.SolAmount < minSolAmount {
			logger.Errorf("[Pumpfun:Swap] SOL 金额低于最小值: event.SolAmount=%d, minSolAmount=%d, tx=%s",
				event.SolAmount, minSolAmount, ctx.TxHashString())
			return -1
		}
	}

	// 7. 提取关键账户
	pairAddress := ix.Accounts[3]
	pairTokenAccount := ix.Accounts[4]
	userTokenAccount := ix.Accounts[5]

	pairTokenBalance, ok := ctx.Balances[pairTokenAccount]
	if !ok {
		logger.Errorf("[Pumpfun:Swap] 缺失 pair token 余额: account=%s, tx=%s", pairTokenAccount, ctx.TxHashString())
		return -1
	}

	// 8. 校验 pair token account 的所有者是否为池子主账户
	if pairTokenBalance.PostOwner != pairAddress {
		logger.Errorf("[Pumpfun:Swap] pair token account 所有者异常: expected=%s, actual=%s, account=%s, tx=%s",
			pairAddress, pairTokenBalance.PostOwner, pairTokenAccount, ctx.TxHashString())
		return -1
	}

	// 9. 构建 token 腿与 SOL 腿
	tokenLeg := core.TradeToken{
		Mint:      event.Mint.String(),
		Amount:    utils.UiAmount(event.TokenAmount, pairTokenBalance.Decimals),
		AmountRaw: core.NewTokenAmount(event.TokenAmount, pairTokenBalance.Decimals).AmountRaw,
		Decimals:  pairTokenBalance.Decimals,
	}
	solLeg := core.TradeToken{
		Mint:      consts.WSOLMintStr,
		Amount:    utils.UiAmount(event.SolAmount, consts.SOLDecimals),
		AmountRaw: core.NewTokenAmount(event.SolAmount, consts.SOLDecimals).AmountRaw,
		Decimals:  consts.SOLDecimals,
	}
	userTokenBalance := ctx.Balances[userTokenAccount]

	tradeType := core.TradeTypeSell
	if isBuy {
		tradeType = core.TradeTypeBuy
		// 买入：SOL 从用户流向 bonding curve，token 从 vault 流向用户 ATA
		solLeg.Authority = userWallet.String()
		solLeg.Source = userWallet.String()
		solLeg.Destination = pairAddress.String()
		tokenLeg.Authority = pairAddress.String()
		tokenLeg.Source = pairTokenAccount.String()
		tokenLeg.Destination = userTokenAccount.String()
		tokenLeg.DestinationOwner = userWallet.String()
		fillLegBalances(&tokenLeg, pairTokenBalance, userTokenBalance)
	} else {
		solLeg.Authority = pairAddress.String()
		solLeg.Source = pairAddress.String()
		solLeg.Destination = userWallet.String()
		tokenLeg.Authority = userWallet.String()
		tokenLeg.Source = userTokenAccount.String()
		tokenLeg.Destination = pairTokenAccount.String()
		tokenLeg.DestinationOwner = pairAddress.String()
		fillLegBalances(&tokenLeg, userTokenBalance, pairTokenBalance)
	}

	trade := &core.TradeInfo{
		Type:      tradeType,
		User:      userWallet.String(),
		ProgramID: ix.ProgramID.String(),
		Amm:       consts.DexName(consts.DexPumpfun),
		AmmPool:   pairAddress.String(),
		Slot:      ctx.Tx.Slot,
		Timestamp: ctx.Tx.BlockTime,
		Signature: ctx.Signature,
		Idx:       utils.FormatIdx(ix.IxIndex, ix.InnerIndex),
	}
	if isBuy {
		trade.InputToken, trade.OutputToken = solLeg, tokenLeg
	} else {
		trade.InputToken, trade.OutputToken = tokenLeg, solLeg
	}

	// 10. 协议费与 creator 费为 inner System 转账，分别打给手续费账户与 Creator Vault
	maxIndex := collectSolFees(ctx, instrs, current, trade, eventIndex)

	ctx.AddTrade(trade)
	ctx.AddMoreEvent(consts.DexName(consts.DexPumpfun), &event)
	return maxIndex + 1
}

func fillLegBalances(leg *core.TradeToken, src, dest *core.TokenBalance) {
	if src != nil {
		pre := core.NewTokenAmount(src.PreBalance, src.Decimals)
		post := core.NewTokenAmount(src.PostBalance, src.Decimals)
		leg.SourcePreBalance = &pre
		leg.SourceBalance = &post
	}
	if dest != nil {
		pre := core.NewTokenAmount(dest.PreBalance, dest.Decimals)
		post := core.NewTokenAmount(dest.PostBalance, dest.Decimals)
		leg.DestinationPreBalance = &pre
		leg.DestinationBalance = &post
	}
}

// collectSolFees 扫描当前主指令的 inner System 转账，识别费用腿：
//   - 转入 Accounts[1]（手续费账户）记为 protocol 费；
//   - 转入 Accounts[9]（Creator Vault）记为 coinCreator 费。
//
// 返回消费到的最大指令序号。
func collectSolFees(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
	trade *core.TradeInfo,
	maxIndex int,
) int {
	mainIx := instrs[current]
	feeAccount := mainIx.Accounts[1]
	creatorVault := mainIx.Accounts[9]

	for i := current + 1; i < len(instrs); i++ {
		ix := instrs[i]
		if ix.IxIndex != mainIx.IxIndex {
			break
		}
		ps, ok := common.ParseSystemTransferInstruction(ix)
		if !ok {
			continue
		}

		var feeType string
		switch ps.To {
		case feeAccount:
			feeType = core.FeeTypeProtocol
		case creatorVault:
			feeType = core.FeeTypeCoinCreator
		default:
			continue
		}

		common.AttachFee(trade, core.FeeInfo{
			Mint:      consts.WSOLMintStr,
			Amount:    utils.UiAmount(ps.Lamports, consts.SOLDecimals),
			AmountRaw: core.NewTokenAmount(ps.Lamports, consts.SOLDecimals).AmountRaw,
			Decimals:  consts.SOLDecimals,
			Dex:       consts.DexName(consts.DexPumpfun),
			Type:      feeType,
			Recipient: ps.To.String(),
		})
		ctx.AddTransfer(common.BuildNativeTransferData(ctx, ps, true))
		if i > maxIndex {
			maxIndex = i
		}
	}
	return maxIndex
}
