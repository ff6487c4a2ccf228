package common

import (
	"github.com/mr-tron/base58"

	"dex-parser-sol/internal/core"
	"dex-parser-sol/pkg/types"
)

// ParserContext 是传入每个协议 handler 的解析上下文。
// 它包含当前交易的完整结构、过滤配置、Token 余额表等，
// handler 识别出的事件通过 Add* 方法写入上下文，最终由聚合层取出。
type ParserContext struct {
	Tx     *core.AdaptedTx   // 标准化交易，包含 slot、指令、余额快照等
	Config *core.ParseConfig // 程序过滤与失败策略

	Signature string                              // base58 签名（缓存，避免重复编码）
	Balances  map[types.Pubkey]*core.TokenBalance // tokenAccount → TokenBalance

	trades      []*core.TradeInfo
	liquidities []*core.PoolEvent
	transfers   []*core.TransferData
	moreEvents  map[string][]any
	errors      []error
}

// InstructionHandler 定义统一的协议指令解析函数签名。
//
// 参数：
//   - ctx:     当前解析上下文
//   - instrs:  当前交易中已展平的指令列表（含主指令与对应 inner 指令）
//   - current: 当前正在处理的指令索引（instrs[current]）
//
// 返回下一条待处理的指令索引；返回值 <= current 表示未识别，由调用方顺移。
type InstructionHandler func(ctx *ParserContext, instrs []*core.AdaptedInstruction, current int) (next int)

// BuildParserContext 构造标准化的解析上下文
func BuildParserContext(tx *core.AdaptedTx, cfg *core.ParseConfig) *ParserContext {
	return &ParserContext{
		Tx:        tx,
		Config:    cfg,
		Signature: base58.Encode(tx.Signature),
		Balances:  tx.Balances,
	}
}

// TxHashString 返回交易签名的 base58 编码
func (ctx *ParserContext) TxHashString() string {
	return ctx.Signature
}

func (ctx *ParserContext) AddTrade(t *core.TradeInfo) {
	if t != nil {
		ctx.trades = append(ctx.trades, t)
	}
}

func (ctx *ParserContext) AddLiquidity(e *core.PoolEvent) {
	if e != nil {
		ctx.liquidities = append(ctx.liquidities, e)
	}
}

func (ctx *ParserContext) AddTransfer(t *core.TransferData) {
	if t != nil {
		ctx.transfers = append(ctx.transfers, t)
	}
}

// AddMoreEvent 记录协议自有的原始解码事件（按协议名分组）
func (ctx *ParserContext) AddMoreEvent(protocol string, ev any) {
	if ev == nil {
		return
	}
	if ctx.moreEvents == nil {
		ctx.moreEvents = make(map[string][]any, 2)
	}
	ctx.moreEvents[protocol] = append(ctx.moreEvents[protocol], ev)
}

// RecordError 记录单条指令级的解析错误。
// 非严格模式下错误只进入 ParseResult.Msg，不影响其他协议的解析。
func (ctx *ParserContext) RecordError(err error) {
	if err != nil {
		ctx.errors = append(ctx.errors, err)
	}
}

// TakeErrors 取出已记录的指令级错误
func (ctx *ParserContext) TakeErrors() []error {
	errs := ctx.errors
	ctx.errors = nil
	return errs
}

// TakeEvents 取出全部已收集事件，上下文随之清空
func (ctx *ParserContext) TakeEvents() ([]*core.TradeInfo, []*core.PoolEvent, []*core.TransferData, map[string][]any) {
	trades, liqs, transfers, more := ctx.trades, ctx.liquidities, ctx.transfers, ctx.moreEvents
	ctx.trades, ctx.liquidities, ctx.transfers, ctx.moreEvents = nil, nil, nil, nil
	return trades, liqs, transfers, more
}
