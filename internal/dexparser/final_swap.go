package dexparser

import "dex-parser-sol/internal/core"

// buildFinalSwap 将链式多跳 swap 合并为首尾净值视图。
// 判定条件：相邻两腿属于同一用户，且前一腿的输出 mint 等于后一腿的输入 mint。
// 任一环断开则视为相互独立的交易，不做合并；逐腿记录始终保留在 Trades 中。
func buildFinalSwap(trades []*core.TradeInfo) *core.FinalSwap {
	if len(trades) < 2 {
		return nil
	}
	for i := 0; i+1 < len(trades); i++ {
		cur, next := trades[i], trades[i+1]
		if cur.User != next.User || cur.OutputToken.Mint != next.InputToken.Mint {
			return nil
		}
	}

	first, last := trades[0], trades[len(trades)-1]
	var fees []core.FeeInfo
	for _, t := range trades {
		fees = append(fees, t.Fees...)
	}
	return &core.FinalSwap{
		InputToken:  first.InputToken,
		OutputToken: last.OutputToken,
		Fees:        fees,
		User:        first.User,
		Signature:   first.Signature,
	}
}
