// Package eventparser 是各协议指令解析器的注册与调度入口。
package eventparser

import (
	"fmt"
	"runtime/debug"
	"sync"

	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/internal/eventparser/jupiterlimit"
	"dex-parser-sol/internal/eventparser/meteoradlmm"
	"dex-parser-sol/internal/eventparser/orcawhirlpool"
	"dex-parser-sol/internal/eventparser/pumpfun"
	"dex-parser-sol/internal/eventparser/pumpfunamm"
	"dex-parser-sol/internal/eventparser/raydiumclmm"
	"dex-parser-sol/internal/eventparser/raydiumcpmm"
	"dex-parser-sol/internal/eventparser/raydiumv4"
	"dex-parser-sol/internal/eventparser/spltoken"
	"dex-parser-sol/pkg/logger"
	"dex-parser-sol/pkg/types"
)

// handlers 是 Solana ProgramID → 对应事件解析 handler 的路由表。
// 所有协议模块通过 RegisterHandlers 注册进该表。
var handlers = map[types.Pubkey]common.InstructionHandler{}

// namers 是 ProgramID → 指令命名函数的路由表，shred 模式下为原始指令分组命名。
var namers = map[types.Pubkey]func(data []byte) (string, bool){}

var initOnce sync.Once

// Init 初始化所有协议的 handler 注册表，并发安全，可重复调用。
func Init() {
	initOnce.Do(registerAll)
}

func registerAll() {
	spltoken.RegisterHandlers(handlers)
	raydiumv4.RegisterHandlers(handlers)
	raydiumclmm.RegisterHandlers(handlers)
	raydiumcpmm.RegisterHandlers(handlers)
	pumpfunamm.RegisterHandlers(handlers)
	pumpfun.RegisterHandlers(handlers)
	meteoradlmm.RegisterHandlers(handlers)
	orcawhirlpool.RegisterHandlers(handlers)
	jupiterlimit.RegisterHandlers(handlers)

	namers[consts.TokenProgram] = spltoken.InstructionName
	namers[consts.TokenProgram2022] = spltoken.InstructionName
	namers[consts.RaydiumV4Program] = raydiumv4.InstructionName
	namers[consts.RaydiumCLMMProgram] = raydiumclmm.InstructionName
	namers[consts.RaydiumCPMMProgram] = raydiumcpmm.InstructionName
	namers[consts.PumpFunProgram] = pumpfun.InstructionName
	namers[consts.PumpSwapProgram] = pumpfunamm.InstructionName
	namers[consts.MeteoraDLMMProgram] = meteoradlmm.InstructionName
	namers[consts.OrcaWhirlpoolProgram] = orcawhirlpool.InstructionName
	namers[consts.JupiterLimitProgram] = jupiterlimit.InstructionName
}

// HasHandler 判断某程序是否有已注册的协议解析器
func HasHandler(programID types.Pubkey) bool {
	_, ok := handlers[programID]
	return ok
}

// ExtractEvents 在已构建的解析上下文上运行所有协议 handler。
// handler 返回值大于当前索引时跳转到该位置（表示已消费中间的 inner 指令），
// 否则顺移一条。单个 handler 的 panic 被捕获并记录，不影响其余指令的解析。
func ExtractEvents(ctx *common.ParserContext) {
	instrs := ctx.Tx.Instructions

	// 扫描 InitializeAccount 指令，补全 TokenAccount → Mint → Owner 映射
	common.PreScanInitAccountBalances(ctx, instrs)

	cfg := ctx.Config
	filtered := cfg != nil && (len(cfg.ProgramIDs) > 0 || len(cfg.IgnoreProgramIDs) > 0)

	for i := 0; i < len(instrs); {
		ix := instrs[i]
		if filtered && !cfg.ShouldParse(ix.ProgramID.String()) {
			i++
			continue
		}
		if handler, ok := handlers[ix.ProgramID]; ok {
			if next := dispatch(ctx, handler, instrs, i); next > i {
				i = next
				continue
			}
		} else if cfg != nil && cfg.TryUnknownDEX && ix.InnerIndex == 0 {
			if next := extractUnknownDexTransfers(ctx, instrs, i); next > i {
				i = next
				continue
			}
		}
		i++
	}
}

// dispatch 调用单个 handler 并捕获 panic，实现协议间的失败隔离
func dispatch(
	ctx *common.ParserContext,
	handler common.InstructionHandler,
	instrs []*core.AdaptedInstruction,
	current int,
) (next int) {
	defer func() {
		if r := recover(); r != nil {
			ix := instrs[current]
			logger.Errorf("[eventparser] handler panic: program=%s, ix=%d, inner=%d, tx=%s: %+v\nstack: %s",
				ix.ProgramID, ix.IxIndex, ix.InnerIndex, ctx.TxHashString(), r, debug.Stack())
			ctx.RecordError(fmt.Errorf("handler panic: program=%s: %v", ix.ProgramID, r))
			next = -1
		}
	}()
	return handler(ctx, instrs, current)
}

// extractUnknownDexTransfers 对未注册的顶层程序提取其 inner 转账作为兜底，
// 返回该主指令 inner 区段之后的位置。
func extractUnknownDexTransfers(
	ctx *common.ParserContext,
	instrs []*core.AdaptedInstruction,
	current int,
) int {
	ix := instrs[current]
	next := current + 1
	for ; next < len(instrs) && instrs[next].IxIndex == ix.IxIndex; next++ {
		inner := instrs[next]
		if !common.IsTokenTransferInstruction(inner) {
			continue
		}
		if pt, ok := common.ParseTransferInstruction(ctx, inner); ok {
			ctx.AddTransfer(common.BuildTransferData(ctx, inner.ProgramID, pt, false))
		}
	}
	return next
}

// InstructionNameFor 返回某程序指令的协议显示名与指令类型名。
// 仅覆盖已注册协议，未注册程序返回 ok=false。
func InstructionNameFor(programID types.Pubkey, data []byte) (protocol, name string, ok bool) {
	namer, exists := namers[programID]
	if !exists {
		return "", "", false
	}
	name, ok = namer(data)
	if !ok {
		return "", "", false
	}
	return consts.ProgramName(programID), name, true
}
