// Package dexparser 是对外的顶层入口：一次调用完成交易适配、指令分桶、
// 各协议事件解析与聚合排序，输出标准化的 ParseResult。
package dexparser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gagliardetto/solana-go/rpc"
	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"

	"dex-parser-sol/internal/classifier"
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/internal/txadapter"
	"dex-parser-sol/internal/utils"
)

// DexParser 是无状态的顶层解析器，单次调用独占自己的交易视图，可并发复用。
type DexParser struct{}

func NewDexParser() *DexParser {
	eventparser.Init()
	return &DexParser{}
}

// ParseAll 解析一笔 RPC 返回的已确认交易
func (p *DexParser) ParseAll(result *rpc.GetTransactionResult, cfg *core.ParseConfig) (*core.ParseResult, error) {
	tx, err := txadapter.AdaptRpcTx(result)
	if err != nil {
		// ValidationError：原始结构无法标准化，对本次调用致命
		return nil, err
	}
	return p.ParseAdaptedTx(tx, cfg)
}

// ParseGrpcTx 解析一笔 gRPC 订阅流中的交易
func (p *DexParser) ParseGrpcTx(slot uint64, blockTime int64, tx *pb.SubscribeUpdateTransactionInfo, cfg *core.ParseConfig) (*core.ParseResult, error) {
	adapted, err := txadapter.AdaptGrpcTx(slot, blockTime, tx)
	if err != nil {
		return nil, err
	}
	return p.ParseAdaptedTx(adapted, cfg)
}

// ParseAdaptedTx 在已标准化的交易上运行全部协议解析器并聚合输出。
// 单协议的解析失败只影响该协议：State 置 false、Msg 记录原因，
// 其余协议已产出的事件仍然保留；StrictThrow 模式下改为直接返回错误。
func (p *DexParser) ParseAdaptedTx(tx *core.AdaptedTx, cfg *core.ParseConfig) (*core.ParseResult, error) {
	ctx := common.BuildParserContext(tx, cfg)

	// 分桶一次：交易中没有任何已注册程序时跳过整个提取阶段
	cls := classifier.NewInstructionClassifier(tx)
	hasKnown := false
	for _, pid := range cls.AllProgramIDs() {
		if eventparser.HasHandler(pid) {
			hasKnown = true
			break
		}
	}
	if hasKnown || (cfg != nil && cfg.TryUnknownDEX) {
		eventparser.ExtractEvents(ctx)
	}

	trades, liqs, transfers, more := ctx.TakeEvents()
	parseErrs := ctx.TakeErrors()
	if cfg != nil && cfg.StrictThrow && len(parseErrs) > 0 {
		return nil, parseErrs[0]
	}

	// 先按收集顺序去重（先发现者保留），再按位置排序
	transfers = dedupTransfers(transfers)
	sort.SliceStable(trades, func(i, j int) bool { return utils.LessIdx(trades[i].Idx, trades[j].Idx) })
	sort.SliceStable(liqs, func(i, j int) bool { return utils.LessIdx(liqs[i].Idx, liqs[j].Idx) })
	sort.SliceStable(transfers, func(i, j int) bool { return utils.LessIdx(transfers[i].Idx, transfers[j].Idx) })

	result := &core.ParseResult{
		State:              len(parseErrs) == 0,
		Fee:                core.NewTokenAmount(tx.Fee, consts.SOLDecimals),
		Trades:             trades,
		Liquidities:        liqs,
		Transfers:          transfers,
		FinalSwap:          buildFinalSwap(trades),
		SolBalanceChange:   txadapter.SolBalanceChange(tx, tx.FeePayer()),
		TokenBalanceChange: txadapter.TokenBalanceChanges(tx, tx.FeePayer()),
		MoreEvents:         more,
	}
	if len(parseErrs) > 0 {
		result.Msg = formatParseErrors(ctx.Signature, parseErrs)
	}
	return result, nil
}

// dedupTransfers 按 (idx, signature, isFee) 去重，保留首次出现的记录
func dedupTransfers(transfers []*core.TransferData) []*core.TransferData {
	if len(transfers) < 2 {
		return transfers
	}
	type dedupKey struct {
		idx       string
		signature string
		isFee     bool
	}
	seen := make(map[dedupKey]struct{}, len(transfers))
	out := transfers[:0]
	for _, t := range transfers {
		k := dedupKey{t.Idx, t.Signature, t.IsFee}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out
}

func formatParseErrors(signature string, errs []error) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return fmt.Sprintf("tx=%s: %s", signature, strings.Join(msgs, "; "))
}
