package core

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 验证不变量：以任意精度整数解析 AmountRaw 再除以 10^Decimals，应还原 Amount
func TestTokenAmountRoundTrip(t *testing.T) {
	cases := []struct {
		raw      uint64
		decimals uint8
	}{
		{0, 0},
		{1, 9},
		{1_000_000_000, 9},
		{123_456_789, 6},
		{18_446_744_073_709_551_615, 9}, // uint64 上限
	}

	for _, c := range cases {
		ta := NewTokenAmount(c.raw, c.decimals)

		parsed, ok := new(big.Int).SetString(ta.AmountRaw, 10)
		require.True(t, ok, "AmountRaw 必须是合法十进制整数: %q", ta.AmountRaw)

		f := new(big.Float).SetInt(parsed)
		scale := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(c.decimals)), nil))
		expect, _ := new(big.Float).Quo(f, scale).Float64()

		if c.raw == 0 {
			assert.Zero(t, ta.Amount)
			continue
		}
		assert.InEpsilon(t, expect, ta.Amount, 1e-12, "raw=%d decimals=%d", c.raw, c.decimals)
	}
}

func TestSignedTokenAmount(t *testing.T) {
	ta := NewSignedTokenAmount(-1_500_000_000, 9)
	assert.Equal(t, "-1500000000", ta.AmountRaw)
	assert.InDelta(t, -1.5, ta.Amount, 1e-12)
}

// 验证不变量：Change.AmountRaw == Post.AmountRaw - Pre.AmountRaw
func TestBalanceChange(t *testing.T) {
	bc := NewBalanceChange(2_000_000, 500_000, 6)
	assert.Equal(t, "2000000", bc.Pre.AmountRaw)
	assert.Equal(t, "500000", bc.Post.AmountRaw)
	assert.Equal(t, "-1500000", bc.Change.AmountRaw)
	assert.InDelta(t, -1.5, bc.Change.Amount, 1e-12)

	up := NewBalanceChange(0, 42, 0)
	assert.Equal(t, "42", up.Change.AmountRaw)
}
