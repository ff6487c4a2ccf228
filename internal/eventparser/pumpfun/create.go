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

// PumpCreateEvent 是 create 指令的 Event CPI 日志结构（borsh），
// 携带新 token 的元数据（Name / Symbol / Uri）与初始储备。
type PumpCreateEvent struct {
	Sign                 uint64
	Name                 string
	Symbol               string
	Uri                  string
	Mint                 types.Pubkey
	BondingCurve         types.Pubkey
	User                 types.Pubkey
	Creator              types.Pubkey
	Timestamp            uint64
	VirtualTokenReserves uint64
	VirtualSolReserves   uint64
	RealTokenReserves    uint64
	TokenTotalSupply     uint64
}

// extractCreateEvent 解析 create 指令，构造 CREATE 类型的 PoolEvent。
//
// Pump.fun - Create 指令账户布局：
//
// #0  - Mint 账户（新创建的 Token Mint）
// #1  - Mint Authority（Mint 的权限地址，由程序派生）
// #2  - Bonding Curve 主账户（池子地址）
// #3  - Bonding Curve Vault（池子 TokenAccount）
// #4  - Global 配置账户
// #5  - Metaplex Token Metadata 程序地址
// #6  - Metadata 账户（Metaplex 生成的元数据 PDA）
// #7  - 用户钱包地址
// #8  - System Program
// #9  - Token Program
// #10 - Associated Token Program
// #11 - Rent 账户
// #12 - Event Authority
// #13 - Pump.fun 程序地址
func extractCreateEvent(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) (next int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[Pumpfun:Create] panic: %v, stack=%s, tx=%s", r, debug.Stack(), ctx.TxHashString())
			next = -1
		}
	}()

	ix := instrs[current]

	// 1. 校验指令结构
	if len(ix.Accounts) < 14 {
		logger.Errorf("[Pumpfun:Create] 指令账户长度不足: got=%d, expect>=14, tx=%s",
			len(ix.Accounts), ctx.TxHashString())
		return -1
	}

	// 2. 提取并解析事件
	eventIndex := findEventInstruction(instrs, current, ix.Accounts[12]) // Event Authority
	if eventIndex < 0 {
		logger.Errorf("[Pumpfun:Create] 未找到事件日志指令: authority=%s, tx=%s", ix.Accounts[12], ctx.TxHashString())
		return -1
	}
	eventIx := instrs[eventIndex]
	event := PumpCreateEvent{}
	if err := borsh.Deserialize(&event, eventIx.Data[8:]); err != nil {
		logger.Errorf("[Pumpfun:Create] 事件反序列化失败: %v, tx=%s", err, ctx.TxHashString())
		return -1
	}

	// 3. 校验交易 token mint
	if event.Mint != ix.Accounts[0] {
		logger.Errorf("[Pumpfun:Create] mint 不匹配 (expected=%s, got=%s): tx=%s", ix.Accounts[0], event.Mint, ctx.TxHashString())
		return -1
	}

	// 4. 校验 BondingCurve 地址一致性
	if event.BondingCurve != ix.Accounts[2] {
		logger.Errorf("[Pumpfun:Create] BondingCurve 不一致 (expected=%s, got=%s): tx=%s", event.BondingCurve, ix.Accounts[2], ctx.TxHashString())
		return -1
	}

	// 5. 校验用户地址一致性
	if event.User != ix.Accounts[7] {
		logger.Errorf("[Pumpfun:Create] 用户地址不匹配: expected=%s, got=%s, tx=%s", ix.Accounts[7], event.User, ctx.TxHashString())
		return -1
	}

	// 6. 校验 Token Program 是否为 SPL Token
	if !consts.IsSPLTokenProgram(ix.Accounts[9]) {
		logger.Errorf("[Pumpfun:Create] Token Program 非 SPL 标准程序: got=%s, tx=%s", ix.Accounts[9], ctx.TxHashString())
		return -1
	}

	poolAddress := ix.Accounts[2]      // Bonding Curve 主账户
	poolTokenAccount := ix.Accounts[3] // Bonding Curve Vault

	// 7. 初始供应量通过 inner MintTo 注入 vault
	var mintAmount, mintAmountRaw = 0.0, ""
	var decimals uint8
	maxIndex := eventIndex
	for i := current + 1; i < len(instrs); i++ {
		inner := instrs[i]
		if inner.IxIndex != ix.IxIndex {
			break
		}
		if !consts.IsSPLTokenProgram(inner.ProgramID) {
			continue
		}
		pm, ok := common.ParseMintToInstruction(ctx, inner)
		if !ok || pm.DestAccount != poolTokenAccount {
			continue
		}
		amount := core.NewTokenAmount(pm.Amount, pm.Decimals)
		mintAmount, mintAmountRaw, decimals = amount.Amount, amount.AmountRaw, pm.Decimals
		if i > maxIndex {
			maxIndex = i
		}
		break
	}

	// 8. 构建 CREATE 事件；建池时未注入 SOL，quote 腿金额为 0
	ctx.AddLiquidity(&core.PoolEvent{
		Type:            core.PoolEventCreate,
		PoolID:          poolAddress.String(),
		User:            event.User.String(),
		ProgramID:       ix.ProgramID.String(),
		Amm:             consts.DexName(consts.DexPumpfun),
		Token0Mint:      event.Mint.String(),
		Token0Amount:    mintAmount,
		Token0AmountRaw: mintAmountRaw,
		Token0Decimals:  decimals,
		Token1Mint:      consts.WSOLMintStr,
		Token1Decimals:  consts.SOLDecimals,
		Slot:            ctx.Tx.Slot,
		Timestamp:       ctx.Tx.BlockTime,
		Signature:       ctx.Signature,
		Idx:             utils.FormatIdx(ix.IxIndex, ix.InnerIndex),
	})

	// 9. 事件原始内容（含 Name / Symbol / Uri 元数据）记入 moreEvents
	ctx.AddMoreEvent(consts.DexName(consts.DexPumpfun), &event)
	return maxIndex + 1
}
