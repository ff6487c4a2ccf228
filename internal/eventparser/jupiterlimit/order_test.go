package jupiterlimit

import (
	"encoding/binary"
	"errors"
	"testing"

	sdktoken "github.com/blocto/solana-go-sdk/program/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/errs"
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

func discriminatorData(d uint64) []byte {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, d)
	return data
}

func TestInitializeOrder(t *testing.T) {
	var (
		base     = testKey(0x01)
		user     = testKey(0x02)
		order    = testKey(0x03)
		reserve  = testKey(0x04)
		userAcct = testKey(0x05)
		mint     = testKey(0x06)
	)

	tx := &core.AdaptedTx{
		Slot:      300,
		BlockTime: 1700000000,
		Signature: make([]byte, 64),
		Balances: map[types.Pubkey]*core.TokenBalance{
			userAcct: {
				Decimals:     6,
				HasPre:       true,
				PreBalance:   10_000_000,
				PostBalance:  7_000_000,
				TokenAccount: userAcct,
				Token:        mint,
				PostOwner:    user,
			},
		},
	}

	mainIx := &core.AdaptedInstruction{
		IxIndex:   0,
		ProgramID: consts.JupiterLimitProgram,
		Accounts:  []types.Pubkey{base, user, order, reserve, userAcct, mint},
		Data:      discriminatorData(InitializeOrder),
	}
	instrs := []*core.AdaptedInstruction{
		mainIx,
		transferIx(0, 1, userAcct, reserve, user, 3_000_000),
	}

	ctx := common.BuildParserContext(tx, nil)
	next := handleInstruction(ctx, instrs, 0)
	assert.Equal(t, 1, next)

	_, _, transfers, _ := ctx.TakeEvents()
	require.Len(t, transfers, 1)

	tr := transfers[0]
	assert.Equal(t, TransferTypeInitializeOrder, tr.Type)
	assert.Equal(t, mint.String(), tr.Info.Mint)
	assert.Equal(t, userAcct.String(), tr.Info.Source)
	assert.Equal(t, reserve.String(), tr.Info.Destination)
	assert.Equal(t, user.String(), tr.Info.Authority)
	// 优先取 inner 转账的解码数额
	assert.Equal(t, "3000000", tr.Info.TokenAmount.AmountRaw)
	require.NotNil(t, tr.Info.SourcePreBalance)
	assert.Equal(t, "10000000", tr.Info.SourcePreBalance.AmountRaw)
	assert.Empty(t, ctx.TakeErrors())
}

// inner 转账缺失时退化为余额差
func TestInitializeOrderBalanceFallback(t *testing.T) {
	var (
		user     = testKey(0x02)
		userAcct = testKey(0x05)
		mint     = testKey(0x06)
	)

	tx := &core.AdaptedTx{
		Signature: make([]byte, 64),
		Balances: map[types.Pubkey]*core.TokenBalance{
			userAcct: {
				Decimals:     6,
				PreBalance:   10_000_000,
				PostBalance:  7_000_000,
				TokenAccount: userAcct,
				Token:        mint,
				PostOwner:    user,
			},
		},
	}

	mainIx := &core.AdaptedInstruction{
		IxIndex:   0,
		ProgramID: consts.JupiterLimitProgram,
		Accounts:  []types.Pubkey{testKey(0x01), user, testKey(0x03), testKey(0x04), userAcct, mint},
		Data:      discriminatorData(InitializeOrder),
	}

	ctx := common.BuildParserContext(tx, nil)
	handleInstruction(ctx, []*core.AdaptedInstruction{mainIx}, 0)

	_, _, transfers, _ := ctx.TakeEvents()
	require.Len(t, transfers, 1)
	assert.Equal(t, "3000000", transfers[0].Info.TokenAmount.AmountRaw)
}

func TestCancelOrderWithSolRefundLeg(t *testing.T) {
	var (
		order    = testKey(0x01)
		reserve  = testKey(0x02)
		user     = testKey(0x03)
		userAcct = testKey(0x04)
		mint     = testKey(0x06)
		filler   = testKey(0x7f)
	)

	tx := &core.AdaptedTx{
		Signature: make([]byte, 64),
		Balances: map[types.Pubkey]*core.TokenBalance{
			userAcct: {
				Decimals:     6,
				PreBalance:   0,
				PostBalance:  3_000_000,
				TokenAccount: userAcct,
				Token:        mint,
				PostOwner:    user,
			},
		},
		SolBalances: map[types.Pubkey]*core.SolBalance{
			user: {Account: user, PreBalance: 1_000_000_000, PostBalance: 1_002_039_280},
		},
	}

	mainIx := &core.AdaptedInstruction{
		IxIndex:   0,
		ProgramID: consts.JupiterLimitProgram,
		Accounts:  []types.Pubkey{order, reserve, user, userAcct, filler, filler, mint},
		Data:      discriminatorData(CancelOrder),
	}
	instrs := []*core.AdaptedInstruction{
		mainIx,
		transferIx(0, 1, reserve, userAcct, order, 3_000_000),
	}

	ctx := common.BuildParserContext(tx, nil)
	next := handleInstruction(ctx, instrs, 0)
	assert.Equal(t, 1, next)

	_, _, transfers, _ := ctx.TakeEvents()
	require.Len(t, transfers, 2)

	refund := transfers[0]
	assert.Equal(t, TransferTypeCancelOrder, refund.Type)
	assert.Equal(t, mint.String(), refund.Info.Mint)
	assert.Equal(t, "3000000", refund.Info.TokenAmount.AmountRaw)
	assert.False(t, refund.IsFee)
	require.NotNil(t, refund.Info.DestinationBalance)
	assert.Equal(t, "3000000", refund.Info.DestinationBalance.AmountRaw)

	// 非 SOL 撤单同时退回租金，合成 isFee SOL 腿
	solLeg := transfers[1]
	assert.True(t, solLeg.IsFee)
	assert.Equal(t, consts.WSOLMintStr, solLeg.Info.Mint)
	assert.Equal(t, user.String(), solLeg.Info.Destination)
	assert.Equal(t, "2039280", solLeg.Info.TokenAmount.AmountRaw)

	// 两条记录共享 idx，靠 isFee 区分去重键
	assert.Equal(t, refund.Idx, solLeg.Idx)
}

// 退款目标无余额快照：记录 BalanceNotFoundError，不产出事件
func TestCancelOrderBalanceNotFound(t *testing.T) {
	var (
		user     = testKey(0x03)
		userAcct = testKey(0x04)
		mint     = testKey(0x06)
		filler   = testKey(0x7f)
	)

	tx := &core.AdaptedTx{
		Signature: make([]byte, 64),
		Balances:  map[types.Pubkey]*core.TokenBalance{},
	}

	mainIx := &core.AdaptedInstruction{
		IxIndex:   0,
		ProgramID: consts.JupiterLimitProgram,
		Accounts:  []types.Pubkey{testKey(0x01), testKey(0x02), user, userAcct, filler, filler, mint},
		Data:      discriminatorData(CancelOrder),
	}

	ctx := common.BuildParserContext(tx, nil)
	next := handleInstruction(ctx, []*core.AdaptedInstruction{mainIx}, 0)
	assert.Equal(t, -1, next)

	_, _, transfers, _ := ctx.TakeEvents()
	assert.Empty(t, transfers)

	parseErrs := ctx.TakeErrors()
	require.Len(t, parseErrs, 1)
	var notFound *errs.BalanceNotFoundError
	assert.True(t, errors.As(parseErrs[0], &notFound))
	assert.Equal(t, userAcct.String(), notFound.Account)
}
