package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dex-parser-sol/internal/consts"
	"dex-parser-sol/pkg/types"
)

func TestChooseQuote(t *testing.T) {
	base := types.Pubkey{0x01}

	// 单边为内置报价币
	quote, ok := ChooseQuote(base, consts.WSOLMint)
	assert.True(t, ok)
	assert.Equal(t, consts.WSOLMint, quote)

	quote, ok = ChooseQuote(consts.USDTMint, base)
	assert.True(t, ok)
	assert.Equal(t, consts.USDTMint, quote)

	// 双边均为报价币时按优先级取高者：WSOL > USDC > USDT
	quote, ok = ChooseQuote(consts.USDCMint, consts.WSOLMint)
	assert.True(t, ok)
	assert.Equal(t, consts.WSOLMint, quote)

	quote, ok = ChooseQuote(consts.USDTMint, consts.USDCMint)
	assert.True(t, ok)
	assert.Equal(t, consts.USDCMint, quote)

	// 双边都不是报价币
	_, ok = ChooseQuote(base, types.Pubkey{0x02})
	assert.False(t, ok)
}

func TestIsQuoteMint(t *testing.T) {
	assert.True(t, IsQuoteMint(consts.WSOLMint))
	assert.True(t, IsQuoteMint(consts.NativeSOLMint))
	assert.False(t, IsQuoteMint(types.Pubkey{0x01}))
}
