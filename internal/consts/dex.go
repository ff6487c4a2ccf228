package consts

import "dex-parser-sol/pkg/types"

const (
	DexRaydiumV4     = iota + 1 // 1
	DexRaydiumCLMM              // 2
	DexRaydiumCPMM              // 3
	DexPumpfun                  // 4
	DexPumpswap                 // 5
	DexMeteoraDLMM              // 6
	DexOrcaWhirlpool            // 7
	DexJupiterLimit             // 8
	DexSplToken                 // 9
)

var DexNames = []string{
	"Unknown",           // 0 (保留)
	"RaydiumV4",         // 1
	"RaydiumCLMM",       // 2
	"RaydiumCPMM",       // 3
	"Pumpfun",           // 4
	"Pumpswap",          // 5
	"MeteoraDLMM",       // 6
	"OrcaWhirlpool",     // 7
	"JupiterLimitOrder", // 8
	"SplToken",          // 9
}

func DexName(dex int) string {
	if dex >= 1 && dex < len(DexNames) {
		return DexNames[dex]
	}
	return DexNames[0] // Unknown
}

// programNames 是 ProgramID → 可读名称的映射，用于 moreEvents 分组与日志。
var programNames = map[types.Pubkey]string{
	RaydiumV4Program:     "RaydiumV4",
	RaydiumCLMMProgram:   "RaydiumCLMM",
	RaydiumCPMMProgram:   "RaydiumCPMM",
	PumpFunProgram:       "Pumpfun",
	PumpSwapProgram:      "Pumpswap",
	MeteoraDLMMProgram:   "MeteoraDLMM",
	OrcaWhirlpoolProgram: "OrcaWhirlpool",
	JupiterLimitProgram:  "JupiterLimitOrder",
	JupiterLimitV2:       "JupiterLimitOrderV2",
	TokenProgram:         "SplToken",
	TokenProgram2022:     "SplToken2022",
	SystemProgram:        "System",
}

// ProgramName 返回已知 Program 的可读名称，未知时返回 base58 地址本身。
func ProgramName(p types.Pubkey) string {
	if name, ok := programNames[p]; ok {
		return name
	}
	return p.String()
}
