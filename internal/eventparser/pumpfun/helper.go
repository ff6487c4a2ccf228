package pumpfun

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser/common"
	"dex-parser-sol/pkg/types"
)

// Event 是 Pump.fun 事件日志指令（Event CPI）的 8 字节前缀
const Event uint64 = 0xe445a52e51cb9a1d

// findEventInstruction 在当前主指令的 inner 指令中查找 Pump.fun 的事件日志指令。
// 事件日志指令以 eventAuthority 作为第 0 个账户；若协议变更此布局需同步调整。
func findEventInstruction(
	instrs []*core.AdaptedInstruction,
	current int,
	eventAuthority types.Pubkey,
) int {
	mainIx := instrs[current]
	for i := current + 1; i < len(instrs); i++ {
		ix := instrs[i]

		// 只处理当前主指令的 inner 指令
		if ix.IxIndex != mainIx.IxIndex {
			return -1
		}

		if ix.ProgramID != consts.PumpFunProgram {
			continue
		}
		if common.Discriminator8(ix.Data) != Event {
			continue
		}
		if len(ix.Accounts) == 0 {
			continue
		}

		if eventAuthority == ix.Accounts[0] {
			return i
		}
	}
	return -1
}
