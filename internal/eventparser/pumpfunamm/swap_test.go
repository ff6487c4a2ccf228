package pumpfunamm

import (
	"encoding/binary"
	"testing"

	sdktoken "github.com/blocto/solana-go-sdk/program/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
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

// buy 指令带 protocol 与 coinCreator 两条费用腿（各 6 个最小单位）：
// fees 应有两条记录，Fee 为同 mint 合计 12
func TestExtractSwapEventWithTwoFeeLegs(t *testing.T) {
	var (
		pool            = testKey(0x01)
		userWallet      = testKey(0x02)
		baseMint        = testKey(0x03)
		userBase        = testKey(0x11)
		userQuote       = testKey(0x12)
		poolBase        = testKey(0x13)
		poolQuote       = testKey(0x14)
		feeRecipient    = testKey(0x21)
		feeTokenAcct    = testKey(0x22)
		creatorVaultAta = testKey(0x23)
		creatorVault    = testKey(0x24)
		filler          = testKey(0x7f)
	)

	accounts := []types.Pubkey{
		pool, userWallet, filler, baseMint, consts.WSOLMint,
		userBase, userQuote, poolBase, poolQuote,
		feeRecipient, feeTokenAcct,
		filler, filler, filler, filler, filler, filler,
		creatorVaultAta, creatorVault,
	}

	tx := &core.AdaptedTx{
		Slot:      200,
		BlockTime: 1700000000,
		Signature: make([]byte, 64),
		Balances: map[types.Pubkey]*core.TokenBalance{
			userQuote:       tokenBalance(userQuote, consts.WSOLMint, userWallet, 9, 5_000_000_012, 4_000_000_000),
			userBase:        tokenBalance(userBase, baseMint, userWallet, 6, 0, 80_000_000),
			poolQuote:       tokenBalance(poolQuote, consts.WSOLMint, pool, 9, 90_000_000_000, 91_000_000_000),
			poolBase:        tokenBalance(poolBase, baseMint, pool, 6, 900_000_000, 820_000_000),
			feeTokenAcct:    tokenBalance(feeTokenAcct, consts.WSOLMint, feeRecipient, 9, 0, 6),
			creatorVaultAta: tokenBalance(creatorVaultAta, consts.WSOLMint, creatorVault, 9, 0, 6),
		},
	}

	mainIx := &core.AdaptedInstruction{
		IxIndex:   0,
		ProgramID: consts.PumpSwapProgram,
		Accounts:  accounts,
		Data:      discriminatorData(Buy),
	}
	instrs := []*core.AdaptedInstruction{
		mainIx,
		transferIx(0, 1, userQuote, poolQuote, userWallet, 1_000_000_000),
		transferIx(0, 2, poolBase, userBase, pool, 80_000_000),
		transferIx(0, 3, userQuote, feeTokenAcct, userWallet, 6),
		transferIx(0, 4, userQuote, creatorVaultAta, userWallet, 6),
	}

	ctx := common.BuildParserContext(tx, nil)
	next := handleInstruction(ctx, instrs, 0)
	assert.Equal(t, 5, next)

	trades, _, transfers, _ := ctx.TakeEvents()
	require.Len(t, trades, 1)

	trade := trades[0]
	assert.Equal(t, core.TradeTypeBuy, trade.Type)
	assert.Equal(t, consts.WSOLMintStr, trade.InputToken.Mint)
	assert.Equal(t, baseMint.String(), trade.OutputToken.Mint)
	assert.Equal(t, userWallet.String(), trade.User)

	// Scenario：两条 6 的费用腿 ⇒ fees 两条，Fee 合计 12
	require.Len(t, trade.Fees, 2)
	assert.Equal(t, core.FeeTypeProtocol, trade.Fees[0].Type)
	assert.Equal(t, feeRecipient.String(), trade.Fees[0].Recipient)
	assert.Equal(t, core.FeeTypeCoinCreator, trade.Fees[1].Type)
	assert.Equal(t, creatorVault.String(), trade.Fees[1].Recipient)

	require.NotNil(t, trade.Fee)
	assert.Equal(t, "12", trade.Fee.AmountRaw)
	assert.Empty(t, trade.Fee.Type) // 多条腿无单一归属

	// 每条费用腿同时输出 IsFee 转账事件
	require.Len(t, transfers, 2)
	for _, tr := range transfers {
		assert.True(t, tr.IsFee)
		assert.Equal(t, consts.WSOLMintStr, tr.Info.Mint)
	}
}

// sell 指令的费用腿以输出 mint（quote）支付时，输出腿须扣费后反映用户净到账
func TestExtractSwapEventSellOutputNetOfFees(t *testing.T) {
	var (
		pool            = testKey(0x01)
		userWallet      = testKey(0x02)
		baseMint        = testKey(0x03)
		userBase        = testKey(0x11)
		userQuote       = testKey(0x12)
		poolBase        = testKey(0x13)
		poolQuote       = testKey(0x14)
		feeRecipient    = testKey(0x21)
		feeTokenAcct    = testKey(0x22)
		creatorVaultAta = testKey(0x23)
		creatorVault    = testKey(0x24)
		filler          = testKey(0x7f)
	)

	accounts := []types.Pubkey{
		pool, userWallet, filler, baseMint, consts.WSOLMint,
		userBase, userQuote, poolBase, poolQuote,
		feeRecipient, feeTokenAcct,
		filler, filler, filler, filler, filler, filler,
		creatorVaultAta, creatorVault,
	}

	tx := &core.AdaptedTx{
		Signature: make([]byte, 64),
		Balances: map[types.Pubkey]*core.TokenBalance{
			userQuote:       tokenBalance(userQuote, consts.WSOLMint, userWallet, 9, 0, 999_999_988),
			userBase:        tokenBalance(userBase, baseMint, userWallet, 6, 80_000_000, 0),
			poolQuote:       tokenBalance(poolQuote, consts.WSOLMint, pool, 9, 91_000_000_000, 90_000_000_000),
			poolBase:        tokenBalance(poolBase, baseMint, pool, 6, 820_000_000, 900_000_000),
			feeTokenAcct:    tokenBalance(feeTokenAcct, consts.WSOLMint, feeRecipient, 9, 0, 6),
			creatorVaultAta: tokenBalance(creatorVaultAta, consts.WSOLMint, creatorVault, 9, 0, 6),
		},
	}

	mainIx := &core.AdaptedInstruction{
		IxIndex:   0,
		ProgramID: consts.PumpSwapProgram,
		Accounts:  accounts,
		Data:      discriminatorData(Sell),
	}
	instrs := []*core.AdaptedInstruction{
		mainIx,
		transferIx(0, 1, userBase, poolBase, userWallet, 80_000_000),
		transferIx(0, 2, poolQuote, userQuote, pool, 1_000_000_000),
		transferIx(0, 3, userQuote, feeTokenAcct, userWallet, 6),
		transferIx(0, 4, userQuote, creatorVaultAta, userWallet, 6),
	}

	ctx := common.BuildParserContext(tx, nil)
	next := handleInstruction(ctx, instrs, 0)
	assert.Equal(t, 5, next)

	trades, _, _, _ := ctx.TakeEvents()
	require.Len(t, trades, 1)

	trade := trades[0]
	assert.Equal(t, core.TradeTypeSell, trade.Type)
	// 池子转出 1_000_000_000，其中 12 为费用腿，用户净到账 999_999_988
	assert.Equal(t, "999999988", trade.OutputToken.AmountRaw)
	// 输入腿与扣费无关
	assert.Equal(t, "80000000", trade.InputToken.AmountRaw)
	require.NotNil(t, trade.Fee)
	assert.Equal(t, "12", trade.Fee.AmountRaw)
}

// buy 指令参数解码为协议事件，经 moreEvents 输出
func TestSwapInstructionEventEmitted(t *testing.T) {
	var (
		pool       = testKey(0x01)
		userWallet = testKey(0x02)
		baseMint   = testKey(0x03)
		userBase   = testKey(0x11)
		userQuote  = testKey(0x12)
		poolBase   = testKey(0x13)
		poolQuote  = testKey(0x14)
		filler     = testKey(0x7f)
	)

	accounts := []types.Pubkey{
		pool, userWallet, filler, baseMint, consts.WSOLMint,
		userBase, userQuote, poolBase, poolQuote,
	}

	tx := &core.AdaptedTx{
		Slot:      250,
		BlockTime: 1700000000,
		Signature: make([]byte, 64),
		Balances: map[types.Pubkey]*core.TokenBalance{
			userQuote: tokenBalance(userQuote, consts.WSOLMint, userWallet, 9, 2_000_000_000, 900_000_000),
			userBase:  tokenBalance(userBase, baseMint, userWallet, 6, 0, 80_000_000),
			poolQuote: tokenBalance(poolQuote, consts.WSOLMint, pool, 9, 90_000_000_000, 91_100_000_000),
			poolBase:  tokenBalance(poolBase, baseMint, pool, 6, 900_000_000, 820_000_000),
		},
	}

	data := discriminatorData(Buy)
	data = binary.LittleEndian.AppendUint64(data, 80_000_000)    // base_amount_out
	data = binary.LittleEndian.AppendUint64(data, 1_100_000_000) // max_quote_amount_in

	mainIx := &core.AdaptedInstruction{
		IxIndex:   0,
		ProgramID: consts.PumpSwapProgram,
		Accounts:  accounts,
		Data:      data,
	}
	instrs := []*core.AdaptedInstruction{
		mainIx,
		transferIx(0, 1, userQuote, poolQuote, userWallet, 1_100_000_000),
		transferIx(0, 2, poolBase, userBase, pool, 80_000_000),
	}

	ctx := common.BuildParserContext(tx, nil)
	next := handleInstruction(ctx, instrs, 0)
	assert.Equal(t, 3, next)

	_, _, _, more := ctx.TakeEvents()
	require.Len(t, more[consts.DexName(consts.DexPumpswap)], 1)

	ev, ok := more[consts.DexName(consts.DexPumpswap)][0].(*PumpswapInstructionEvent)
	require.True(t, ok)
	assert.Equal(t, core.TradeTypeBuy, ev.Type)
	assert.Equal(t, pool.String(), ev.Pool)
	assert.Equal(t, userWallet.String(), ev.User)
	assert.Equal(t, baseMint.String(), ev.BaseMint)
	assert.Equal(t, consts.WSOLMintStr, ev.QuoteMint)
	assert.Equal(t, uint64(80_000_000), ev.BaseAmount)
	assert.Equal(t, uint64(1_100_000_000), ev.QuoteAmount)
	assert.Equal(t, "0-0", ev.Idx)
}

// deposit 指令参数（lp_token_amount_out / max_base_amount_in / max_quote_amount_in）解码
func TestLiquidityInstructionEventDecode(t *testing.T) {
	var (
		pool       = testKey(0x01)
		userWallet = testKey(0x02)
		baseMint   = testKey(0x03)
		lpMint     = testKey(0x05)
		filler     = testKey(0x7f)
	)

	accounts := []types.Pubkey{
		pool, filler, userWallet, baseMint, consts.WSOLMint, lpMint,
		filler, filler, filler, filler, filler,
	}

	data := discriminatorData(Deposit)
	data = binary.LittleEndian.AppendUint64(data, 5_000_000)     // lp_token_amount_out
	data = binary.LittleEndian.AppendUint64(data, 100_000_000)   // max_base_amount_in
	data = binary.LittleEndian.AppendUint64(data, 2_000_000_000) // max_quote_amount_in

	ix := &core.AdaptedInstruction{
		IxIndex:   2,
		ProgramID: consts.PumpSwapProgram,
		Accounts:  accounts,
		Data:      data,
	}

	ctx := common.BuildParserContext(&core.AdaptedTx{Signature: make([]byte, 64)}, nil)
	ev := decodeInstructionEvent(ctx, ix)
	require.NotNil(t, ev)
	assert.Equal(t, core.PoolEventAdd, ev.Type)
	assert.Equal(t, lpMint.String(), ev.LpMint)
	assert.Equal(t, uint64(5_000_000), ev.LpAmount)
	assert.Equal(t, uint64(100_000_000), ev.BaseAmount)
	assert.Equal(t, uint64(2_000_000_000), ev.QuoteAmount)
	assert.Equal(t, "2-0", ev.Idx)
}

// sell 指令：用户支付 base 获得 quote
func TestExtractSwapEventSell(t *testing.T) {
	var (
		pool       = testKey(0x01)
		userWallet = testKey(0x02)
		baseMint   = testKey(0x03)
		userBase   = testKey(0x11)
		userQuote  = testKey(0x12)
		poolBase   = testKey(0x13)
		poolQuote  = testKey(0x14)
		filler     = testKey(0x7f)
	)

	accounts := []types.Pubkey{
		pool, userWallet, filler, baseMint, consts.WSOLMint,
		userBase, userQuote, poolBase, poolQuote,
	}

	tx := &core.AdaptedTx{
		Signature: make([]byte, 64),
		Balances: map[types.Pubkey]*core.TokenBalance{
			userQuote: tokenBalance(userQuote, consts.WSOLMint, userWallet, 9, 0, 1_000_000_000),
			userBase:  tokenBalance(userBase, baseMint, userWallet, 6, 80_000_000, 0),
			poolQuote: tokenBalance(poolQuote, consts.WSOLMint, pool, 9, 91_000_000_000, 90_000_000_000),
			poolBase:  tokenBalance(poolBase, baseMint, pool, 6, 820_000_000, 900_000_000),
		},
	}

	mainIx := &core.AdaptedInstruction{
		IxIndex:   0,
		ProgramID: consts.PumpSwapProgram,
		Accounts:  accounts,
		Data:      discriminatorData(Sell),
	}
	instrs := []*core.AdaptedInstruction{
		mainIx,
		transferIx(0, 1, userBase, poolBase, userWallet, 80_000_000),
		transferIx(0, 2, poolQuote, userQuote, pool, 1_000_000_000),
	}

	ctx := common.BuildParserContext(tx, nil)
	next := handleInstruction(ctx, instrs, 0)
	assert.Equal(t, 3, next)

	trades, _, _, _ := ctx.TakeEvents()
	require.Len(t, trades, 1)
	assert.Equal(t, core.TradeTypeSell, trades[0].Type)
	assert.Equal(t, baseMint.String(), trades[0].InputToken.Mint)
	assert.Equal(t, consts.WSOLMintStr, trades[0].OutputToken.Mint)
}
