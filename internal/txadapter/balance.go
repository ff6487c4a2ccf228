package txadapter

import (
	"dex-parser-sol/internal/core"
	"dex-parser-sol/pkg/types"
)

// SolBalanceChange 计算某账户在本交易中的 SOL 余额变化。
// Partial 交易没有余额表，返回 nil。
func SolBalanceChange(tx *core.AdaptedTx, account types.Pubkey) *core.BalanceChange {
	if tx.Partial {
		return nil
	}
	sb, ok := tx.SolBalances[account]
	if !ok {
		return nil
	}
	return core.NewBalanceChange(sb.PreBalance, sb.PostBalance, 9)
}

// TokenBalanceChanges 按 mint 聚合某 owner 名下所有 token account 的余额变化。
// 同一 mint 的多个账户（如临时 WSOL 账户）pre/post 分别求和后再做差。
// 返回 map 的 key 为 mint base58；Partial 交易返回 nil。
func TokenBalanceChanges(tx *core.AdaptedTx, owner types.Pubkey) map[string]*core.BalanceChange {
	if tx.Partial || len(tx.Balances) == 0 {
		return nil
	}

	type sum struct {
		pre      uint64
		post     uint64
		decimals uint8
	}
	sums := make(map[types.Pubkey]*sum, 2)

	for _, tb := range tx.Balances {
		if tb.PostOwner != owner && !(tb.HasPreOwner && tb.PreOwner == owner) {
			continue
		}
		s, ok := sums[tb.Token]
		if !ok {
			s = &sum{decimals: tb.Decimals}
			sums[tb.Token] = s
		}
		s.pre += tb.PreBalance
		s.post += tb.PostBalance
	}
	if len(sums) == 0 {
		return nil
	}

	changes := make(map[string]*core.BalanceChange, len(sums))
	for mint, s := range sums {
		changes[mint.String()] = core.NewBalanceChange(s.pre, s.post, s.decimals)
	}
	return changes
}
