package common

import (
	"encoding/binary"
	"testing"

	sdktoken "github.com/blocto/solana-go-sdk/program/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/pkg/types"
)

func testKey(b byte) types.Pubkey {
	var p types.Pubkey
	p[0] = b
	p[31] = b
	return p
}

// transferIx 构造一条 SPL Transfer inner 指令：accounts = [src, dest, authority]
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

func TestFindSwapTransfersByIndex(t *testing.T) {
	var (
		baseMint   = testKey(0x01)
		userWallet = testKey(0x02)
		poolAuth   = testKey(0x03)
		userQuote  = testKey(0x11) // 用户 WSOL 账户
		userBase   = testKey(0x12)
		poolQuote  = testKey(0x13)
		poolBase   = testKey(0x14)
	)

	tx := &core.AdaptedTx{
		Slot:      100,
		BlockTime: 1700000000,
		Signature: make([]byte, 64),
		Balances: map[types.Pubkey]*core.TokenBalance{
			userQuote: tokenBalance(userQuote, consts.WSOLMint, userWallet, 9, 5_000_000_000, 4_000_000_000),
			userBase:  tokenBalance(userBase, baseMint, userWallet, 6, 0, 80_000_000),
			poolQuote: tokenBalance(poolQuote, consts.WSOLMint, poolAuth, 9, 90_000_000_000, 91_000_000_000),
			poolBase:  tokenBalance(poolBase, baseMint, poolAuth, 6, 900_000_000, 820_000_000),
		},
	}

	mainIx := &core.AdaptedInstruction{
		IxIndex:   0,
		ProgramID: testKey(0xaa),
		Accounts:  []types.Pubkey{userQuote, userBase, poolQuote, poolBase},
		Data:      []byte{0x01},
	}
	instrs := []*core.AdaptedInstruction{
		mainIx,
		transferIx(0, 1, userQuote, poolQuote, userWallet, 1_000_000_000),
		transferIx(0, 2, poolBase, userBase, poolAuth, 80_000_000),
	}

	ctx := BuildParserContext(tx, nil)
	result := FindSwapTransfersByIndex(ctx, instrs, 0, &SwapInstructionIndex{
		UserToken1AccountIndex: 0,
		UserToken2AccountIndex: 1,
		PoolToken1AccountIndex: 2,
		PoolToken2AccountIndex: 3,
	}, 0)

	require.NotNil(t, result)
	assert.Equal(t, consts.WSOLMint, result.UserToPool.Token)
	assert.Equal(t, uint64(1_000_000_000), result.UserToPool.Amount)
	assert.Equal(t, baseMint, result.PoolToUser.Token)
	assert.Equal(t, uint64(80_000_000), result.PoolToUser.Amount)
	assert.Equal(t, 2, result.MaxIndex)
}

func TestFindSwapTransfersMissingDirection(t *testing.T) {
	var (
		userWallet = testKey(0x02)
		userQuote  = testKey(0x11)
		userBase   = testKey(0x12)
		poolQuote  = testKey(0x13)
		poolBase   = testKey(0x14)
	)

	tx := &core.AdaptedTx{
		Signature: make([]byte, 64),
		Balances: map[types.Pubkey]*core.TokenBalance{
			userQuote: tokenBalance(userQuote, consts.WSOLMint, userWallet, 9, 1_000, 0),
			poolQuote: tokenBalance(poolQuote, consts.WSOLMint, testKey(0x03), 9, 0, 1_000),
		},
	}

	mainIx := &core.AdaptedInstruction{
		IxIndex:   0,
		ProgramID: testKey(0xaa),
		Accounts:  []types.Pubkey{userQuote, userBase, poolQuote, poolBase},
		Data:      []byte{0x01},
	}
	// 只有支付方向，没有接收方向
	instrs := []*core.AdaptedInstruction{
		mainIx,
		transferIx(0, 1, userQuote, poolQuote, userWallet, 1_000),
	}

	ctx := BuildParserContext(tx, nil)
	result := FindSwapTransfersByIndex(ctx, instrs, 0, &SwapInstructionIndex{
		UserToken1AccountIndex: 0,
		UserToken2AccountIndex: 1,
		PoolToken1AccountIndex: 2,
		PoolToken2AccountIndex: 3,
	}, 0)
	assert.Nil(t, result)
}
