package dexparser

import (
	"encoding/binary"
	"testing"

	sdktoken "github.com/blocto/solana-go-sdk/program/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/jupiterlimit"
	"dex-parser-sol/internal/eventparser/pumpfunamm"
	"dex-parser-sol/internal/utils"
	"dex-parser-sol/pkg/types"
)

func testKey(b byte) types.Pubkey {
	var p types.Pubkey
	p[0] = b
	p[31] = b
	return p
}

func transferIx(ixIndex, innerIndex uint16, src, dest, authority types.Pubkey, amount uint64) *core.AdaptedInstruction {
	data := make([]byte, 9)
	data[0] = byte(sdktoken.InstructionTransfer)
	binary.LittleEndian.PutUint64(data[1:], amount)
	return &core.AdaptedInstruction{
		IxIndex:    ixIndex,
		InnerIndex: innerIndex,
		ProgramID:  consts.TokenProgram,
		Accounts:   []types.Pubkey{src, dest, authority},
		Data:       data,
	}
}

func tokenBalance(account, mint, owner types.Pubkey, decimals uint8, pre, post uint64) *core.TokenBalance {
	return &core.TokenBalance{
		Decimals:     decimals,
		HasPre:       true,
		HasPreOwner:  true,
		PreBalance:   pre,
		PostBalance:  post,
		TokenAccount: account,
		Token:        mint,
		PreOwner:     owner,
		PostOwner:    owner,
	}
}

func discriminatorData(d uint64) []byte {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, d)
	return data
}

// buildBuySellTx 构造一笔 PumpSwap BUY + SELL 交易，每条主指令各带一条 protocol 费用腿
func buildBuySellTx() *core.AdaptedTx {
	var (
		pool         = testKey(0x01)
		user         = testKey(0x02)
		baseMint     = testKey(0x03)
		userBase     = testKey(0x11)
		userQuote    = testKey(0x12)
		poolBase     = testKey(0x13)
		poolQuote    = testKey(0x14)
		feeRecipient = testKey(0x21)
		feeTokenAcct = testKey(0x22)
		filler       = testKey(0x7f)
	)

	accounts := []types.Pubkey{
		pool, user, filler, baseMint, consts.WSOLMint,
		userBase, userQuote, poolBase, poolQuote,
		feeRecipient, feeTokenAcct,
	}

	return &core.AdaptedTx{
		Slot:      400,
		BlockTime: 1700000000,
		Signature: make([]byte, 64),
		Signers:   []types.Pubkey{user},
		Fee:       5000,
		Instructions: []*core.AdaptedInstruction{
			// BUY：支付 quote 获得 base
			{IxIndex: 0, ProgramID: consts.PumpSwapProgram, Accounts: accounts, Data: discriminatorData(pumpfunamm.Buy)},
			transferIx(0, 1, userQuote, poolQuote, user, 1_000_000_000),
			transferIx(0, 2, poolBase, userBase, pool, 80_000_000),
			transferIx(0, 3, userQuote, feeTokenAcct, user, 6),
			// SELL：支付 base 获得 quote
			{IxIndex: 1, ProgramID: consts.PumpSwapProgram, Accounts: accounts, Data: discriminatorData(pumpfunamm.Sell)},
			transferIx(1, 1, userBase, poolBase, user, 40_000_000),
			transferIx(1, 2, poolQuote, userQuote, pool, 480_000_000),
			transferIx(1, 3, userQuote, feeTokenAcct, user, 5),
		},
		SolBalances: map[types.Pubkey]*core.SolBalance{
			user: {Account: user, PreBalance: 2_000_000_000, PostBalance: 1_999_995_000},
		},
		Balances: map[types.Pubkey]*core.TokenBalance{
			userQuote:    tokenBalance(userQuote, consts.WSOLMint, user, 9, 5_000_000_011, 4_480_000_000),
			userBase:     tokenBalance(userBase, baseMint, user, 6, 0, 40_000_000),
			poolQuote:    tokenBalance(poolQuote, consts.WSOLMint, pool, 9, 90_000_000_000, 90_520_000_000),
			poolBase:     tokenBalance(poolBase, baseMint, pool, 6, 900_000_000, 860_000_000),
			feeTokenAcct: tokenBalance(feeTokenAcct, consts.WSOLMint, feeRecipient, 9, 0, 11),
		},
	}
}

// Scenario：BUY + SELL 各带一条 protocol 费用腿
func TestParseBuySellWithProtocolFees(t *testing.T) {
	p := NewDexParser()
	result, err := p.ParseAdaptedTx(buildBuySellTx(), nil)
	require.NoError(t, err)

	assert.True(t, result.State)
	assert.Equal(t, "5000", result.Fee.AmountRaw)

	require.Len(t, result.Trades, 2)
	assert.Equal(t, core.TradeTypeBuy, result.Trades[0].Type)
	assert.Equal(t, core.TradeTypeSell, result.Trades[1].Type)
	for _, trade := range result.Trades {
		require.Len(t, trade.Fees, 1)
		assert.Equal(t, core.FeeTypeProtocol, trade.Fees[0].Type)
	}

	// 手续费支付方（首个 signer）的余额变化
	require.NotNil(t, result.SolBalanceChange)
	assert.Equal(t, "-5000", result.SolBalanceChange.Change.AmountRaw)
	require.NotNil(t, result.TokenBalanceChange)
	assert.Contains(t, result.TokenBalanceChange, consts.WSOLMintStr)
}

// 排序与去重：transfers/trades 按 (主指令序号, inner序号) 非降序，去重键唯一
func TestParseOrderingAndDedup(t *testing.T) {
	p := NewDexParser()
	result, err := p.ParseAdaptedTx(buildBuySellTx(), nil)
	require.NoError(t, err)

	for i := 1; i < len(result.Trades); i++ {
		assert.False(t, utils.LessIdx(result.Trades[i].Idx, result.Trades[i-1].Idx))
	}
	for i := 1; i < len(result.Transfers); i++ {
		assert.False(t, utils.LessIdx(result.Transfers[i].Idx, result.Transfers[i-1].Idx))
	}

	type dedupKey struct {
		idx       string
		signature string
		isFee     bool
	}
	seen := make(map[dedupKey]bool)
	for _, tr := range result.Transfers {
		k := dedupKey{tr.Idx, tr.Signature, tr.IsFee}
		assert.False(t, seen[k], "重复的去重键: %+v", k)
		seen[k] = true
	}
}

// 幂等性：同一笔交易两次解析结果完全一致
func TestParseIdempotent(t *testing.T) {
	p := NewDexParser()
	tx := buildBuySellTx()

	first, err := p.ParseAdaptedTx(tx, nil)
	require.NoError(t, err)
	second, err := p.ParseAdaptedTx(tx, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// Scenario：全部指令属于未注册程序 ⇒ 空集合且 state 为 true
func TestParseUnknownProgramOnly(t *testing.T) {
	tx := &core.AdaptedTx{
		Slot:      500,
		Signature: make([]byte, 64),
		Signers:   []types.Pubkey{testKey(0x02)},
		Fee:       5000,
		Instructions: []*core.AdaptedInstruction{
			{IxIndex: 0, ProgramID: testKey(0xee), Accounts: []types.Pubkey{testKey(0x01)}, Data: []byte{0x01, 0x02}},
		},
	}

	result, err := NewDexParser().ParseAdaptedTx(tx, nil)
	require.NoError(t, err)

	assert.True(t, result.State)
	assert.Empty(t, result.Trades)
	assert.Empty(t, result.Liquidities)
	assert.Empty(t, result.Transfers)
	assert.Empty(t, result.Msg)
}

// buildIsolationTx 构造一笔交易：合法的 PumpSwap BUY + 缺失余额快照的 Jupiter 撤单
func buildIsolationTx() *core.AdaptedTx {
	tx := buildBuySellTx()
	tx.Instructions = tx.Instructions[:4] // 保留 BUY 及其 inner

	cancelIx := &core.AdaptedInstruction{
		IxIndex:   1,
		ProgramID: consts.JupiterLimitProgram,
		Accounts: []types.Pubkey{
			testKey(0x31), testKey(0x32), testKey(0x33), testKey(0x34),
			testKey(0x7f), testKey(0x7f), testKey(0x35),
		},
		Data: discriminatorData(jupiterlimit.CancelOrder),
	}
	tx.Instructions = append(tx.Instructions, cancelIx)
	return tx
}

// 失败隔离：单协议出错不影响其他协议已产出的结果
func TestParseFailureIsolation(t *testing.T) {
	result, err := NewDexParser().ParseAdaptedTx(buildIsolationTx(), nil)
	require.NoError(t, err)

	assert.False(t, result.State)
	assert.Contains(t, result.Msg, "balance not found")
	require.Len(t, result.Trades, 1)
	assert.Equal(t, core.TradeTypeBuy, result.Trades[0].Type)
}

// StrictThrow 模式下指令级错误直接上抛
func TestParseStrictThrow(t *testing.T) {
	cfg := &core.ParseConfig{StrictThrow: true}
	result, err := NewDexParser().ParseAdaptedTx(buildIsolationTx(), cfg)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "balance not found")
}

// 程序过滤：IgnoreProgramIDs 命中的程序被跳过
func TestParseIgnoreProgram(t *testing.T) {
	cfg := &core.ParseConfig{IgnoreProgramIDs: []string{consts.PumpSwapProgramStr}}
	result, err := NewDexParser().ParseAdaptedTx(buildBuySellTx(), cfg)
	require.NoError(t, err)
	assert.Empty(t, result.Trades)
}

// 多跳路由合并：A → WSOL → B 两腿合并出首尾视图，逐腿记录保留
func TestFinalSwapConsolidation(t *testing.T) {
	var (
		pool1     = testKey(0x01)
		pool2     = testKey(0x02)
		user      = testKey(0x03)
		tokenA    = testKey(0x04)
		tokenB    = testKey(0x05)
		userA     = testKey(0x11)
		userB     = testKey(0x12)
		userWsol  = testKey(0x13)
		pool1A    = testKey(0x14)
		pool1Wsol = testKey(0x15)
		pool2B    = testKey(0x16)
		pool2Wsol = testKey(0x17)
		filler    = testKey(0x7f)
	)

	hop1Accounts := []types.Pubkey{
		pool1, user, filler, tokenA, consts.WSOLMint,
		userA, userWsol, pool1A, pool1Wsol,
	}
	hop2Accounts := []types.Pubkey{
		pool2, user, filler, tokenB, consts.WSOLMint,
		userB, userWsol, pool2B, pool2Wsol,
	}

	tx := &core.AdaptedTx{
		Slot:      600,
		BlockTime: 1700000000,
		Signature: make([]byte, 64),
		Signers:   []types.Pubkey{user},
		Fee:       5000,
		Instructions: []*core.AdaptedInstruction{
			// 第一跳：卖出 A 获得 WSOL
			{IxIndex: 0, ProgramID: consts.PumpSwapProgram, Accounts: hop1Accounts, Data: discriminatorData(pumpfunamm.Sell)},
			transferIx(0, 1, userA, pool1A, user, 10_000_000),
			transferIx(0, 2, pool1Wsol, userWsol, pool1, 2_000_000_000),
			// 第二跳：用 WSOL 买入 B
			{IxIndex: 1, ProgramID: consts.PumpSwapProgram, Accounts: hop2Accounts, Data: discriminatorData(pumpfunamm.Buy)},
			transferIx(1, 1, userWsol, pool2Wsol, user, 2_000_000_000),
			transferIx(1, 2, pool2B, userB, pool2, 55_000_000),
		},
		Balances: map[types.Pubkey]*core.TokenBalance{
			userA:     tokenBalance(userA, tokenA, user, 6, 10_000_000, 0),
			userB:     tokenBalance(userB, tokenB, user, 6, 0, 55_000_000),
			userWsol:  tokenBalance(userWsol, consts.WSOLMint, user, 9, 0, 0),
			pool1A:    tokenBalance(pool1A, tokenA, pool1, 6, 0, 10_000_000),
			pool1Wsol: tokenBalance(pool1Wsol, consts.WSOLMint, pool1, 9, 3_000_000_000, 1_000_000_000),
			pool2B:    tokenBalance(pool2B, tokenB, pool2, 6, 100_000_000, 45_000_000),
			pool2Wsol: tokenBalance(pool2Wsol, consts.WSOLMint, pool2, 9, 1_000_000_000, 3_000_000_000),
		},
	}

	result, err := NewDexParser().ParseAdaptedTx(tx, nil)
	require.NoError(t, err)

	require.Len(t, result.Trades, 2)
	require.NotNil(t, result.FinalSwap)
	assert.Equal(t, tokenA.String(), result.FinalSwap.InputToken.Mint)
	assert.Equal(t, tokenB.String(), result.FinalSwap.OutputToken.Mint)
	assert.Equal(t, user.String(), result.FinalSwap.User)
}

// shred 模式：无余额表，仅输出按协议分组的原始指令事件
func TestShredParserGrouping(t *testing.T) {
	accounts := []types.Pubkey{
		testKey(0x01), testKey(0x02), testKey(0x7f), testKey(0x03), consts.WSOLMint,
		testKey(0x11), testKey(0x12), testKey(0x13), testKey(0x14),
	}
	tx := &core.AdaptedTx{
		Slot:      700,
		Signature: make([]byte, 64),
		Partial:   true,
		Instructions: []*core.AdaptedInstruction{
			{IxIndex: 0, ProgramID: consts.PumpSwapProgram, Accounts: accounts, Data: discriminatorData(pumpfunamm.Buy)},
			{IxIndex: 1, ProgramID: testKey(0xee), Data: []byte{0x01}},
		},
	}

	result := NewShredParser().ParseAdaptedTx(tx)
	assert.True(t, result.State)
	require.Contains(t, result.Instructions, "Pumpswap")
	require.Len(t, result.Instructions["Pumpswap"], 1)
	assert.Equal(t, "buy", result.Instructions["Pumpswap"][0].Type)
	assert.Equal(t, "0-0", result.Instructions["Pumpswap"][0].Idx)
	// 未注册程序静默跳过
	assert.Len(t, result.Instructions, 1)
}
