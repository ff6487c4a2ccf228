package dexparser

import (
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/eventparser"
	"dex-parser-sol/internal/txadapter"
	"dex-parser-sol/internal/utils"
)

// ShredParser 处理 shred 流中重组出的裸交易。
// 此类交易没有 meta，无法做余额差值推断，只输出按协议分组的原始指令事件。
type ShredParser struct{}

func NewShredParser() *ShredParser {
	eventparser.Init()
	return &ShredParser{}
}

// ParseAll 解析一笔 shred 裸交易
func (p *ShredParser) ParseAll(slot uint64, tx *solana.Transaction) (*core.ParseShredResult, error) {
	adapted, err := txadapter.AdaptShredTx(slot, tx)
	if err != nil {
		return nil, err
	}
	return p.ParseAdaptedTx(adapted), nil
}

// ParseAdaptedTx 遍历指令列表，识别已注册协议的指令并按协议名分组。
// 未注册程序与无法命名的指令静默跳过。
func (p *ShredParser) ParseAdaptedTx(tx *core.AdaptedTx) *core.ParseShredResult {
	result := &core.ParseShredResult{
		State:        true,
		Signature:    base58.Encode(tx.Signature),
		Instructions: make(map[string][]*core.ShredInstruction, 4),
	}

	for _, ix := range tx.Instructions {
		protocol, name, ok := eventparser.InstructionNameFor(ix.ProgramID, ix.Data)
		if !ok {
			continue
		}
		accounts := make([]string, len(ix.Accounts))
		for i, a := range ix.Accounts {
			accounts[i] = a.String()
		}
		result.Instructions[protocol] = append(result.Instructions[protocol], &core.ShredInstruction{
			Type:      name,
			ProgramID: ix.ProgramID.String(),
			Idx:       utils.FormatIdx(ix.IxIndex, ix.InnerIndex),
			Data:      base58.Encode(ix.Data),
			Accounts:  accounts,
		})
	}
	return result
}
