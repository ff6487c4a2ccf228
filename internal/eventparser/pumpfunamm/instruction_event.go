package pumpfunamm

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/internal/utils"
	"dex-parser-sol/pkg/logger"
)

// PumpswapInstructionEvent 是按指令参数原样解码的协议事件，
// 经 moreEvents 以协议名分组输出。金额为指令参数（限价/滑点边界），
// 实际成交值以 TradeInfo / PoolEvent 为准。
type PumpswapInstructionEvent struct {
	Type      string `json:"type"` // BUY / SELL / CREATE / ADD / REMOVE
	Pool      string `json:"pool"`
	User      string `json:"user"`
	BaseMint  string `json:"baseMint"`
	QuoteMint string `json:"quoteMint"`
	LpMint    string `json:"lpMint,omitempty"`

	// BaseAmount / QuoteAmount 对应各指令布局中的 u64 参数：
	//   BUY:    base_amount_out / max_quote_amount_in
	//   SELL:   base_amount_in / min_quote_amount_out
	//   CREATE: base_amount_in / quote_amount_in（参数前置 u16 pool index）
	//   ADD:    max_base_amount_in / max_quote_amount_in，LpAmount 为 lp_token_amount_out
	//   REMOVE: min_base_amount_out / min_quote_amount_out，LpAmount 为 lp_token_amount_in
	BaseAmount  uint64 `json:"baseAmount"`
	QuoteAmount uint64 `json:"quoteAmount"`
	LpAmount    uint64 `json:"lpAmount,omitempty"`

	Slot      uint64 `json:"slot"`
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
	Idx       string `json:"idx"`
}

// emitInstructionEvent 将当前主指令的参数事件写入 moreEvents
func emitInstructionEvent(ctx *common.ParserContext, ix *core.AdaptedInstruction) {
	if ev := decodeInstructionEvent(ctx, ix); ev != nil {
		ctx.AddMoreEvent(consts.DexName(consts.DexPumpswap), ev)
	}
}

// decodeInstructionEvent 解码指令的原始参数。数据不完整时返回 nil，不视为解析失败。
func decodeInstructionEvent(ctx *common.ParserContext, ix *core.AdaptedInstruction) *PumpswapInstructionEvent {
	if len(ix.Data) < 8 {
		return nil
	}

	ev := &PumpswapInstructionEvent{
		Slot:      ctx.Tx.Slot,
		Timestamp: ctx.Tx.BlockTime,
		Signature: ctx.Signature,
		Idx:       utils.FormatIdx(ix.IxIndex, ix.InnerIndex),
	}
	r := common.NewBinaryReader("Pumpswap::instruction", ix.Data[8:])

	var err error
	switch disc := common.Discriminator8(ix.Data); disc {
	case Buy, Sell:
		if len(ix.Accounts) < 9 {
			return nil
		}
		ev.Type = core.TradeTypeBuy
		if disc == Sell {
			ev.Type = core.TradeTypeSell
		}
		ev.Pool = ix.Accounts[0].String()
		ev.User = ix.Accounts[1].String()
		ev.BaseMint = ix.Accounts[3].String()
		ev.QuoteMint = ix.Accounts[4].String()
		ev.BaseAmount, ev.QuoteAmount, err = readAmountPair(r)

	case CreatePool, Deposit, Withdraw:
		if len(ix.Accounts) < 11 {
			return nil
		}
		ev.Pool = ix.Accounts[0].String()
		ev.User = ix.Accounts[2].String()
		ev.BaseMint = ix.Accounts[3].String()
		ev.QuoteMint = ix.Accounts[4].String()
		ev.LpMint = ix.Accounts[5].String()
		switch disc {
		case CreatePool:
			ev.Type = core.PoolEventCreate
			if _, err = r.ReadUint16(); err == nil { // pool index
				ev.BaseAmount, ev.QuoteAmount, err = readAmountPair(r)
			}
		case Deposit:
			ev.Type = core.PoolEventAdd
			if ev.LpAmount, err = r.ReadUint64(); err == nil {
				ev.BaseAmount, ev.QuoteAmount, err = readAmountPair(r)
			}
		default:
			ev.Type = core.PoolEventRemove
			if ev.LpAmount, err = r.ReadUint64(); err == nil {
				ev.BaseAmount, ev.QuoteAmount, err = readAmountPair(r)
			}
		}

	default:
		return nil
	}

	if err != nil {
		logger.Warnf("[Pumpswap:instructionEvent] 参数解码失败: %v, tx=%s", err, ctx.TxHashString())
		return nil
	}
	return ev
}

func readAmountPair(r *common.BinaryReader) (a, b uint64, err error) {
	if a, err = r.ReadUint64(); err != nil {
		return
	}
	b, err = r.ReadUint64()
	return
}
