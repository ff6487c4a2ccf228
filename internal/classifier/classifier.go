// Package classifier 将标准化后的指令按 programID 分桶，
// 供各协议解析器只遍历自己关心的指令。
package classifier

import (
	"dex-parser-sol/internal/core"
	"dex-parser-sol/pkg/types"
)

// InstructionClassifier 对 AdaptedTx 的扁平指令列表做一次遍历分桶。
// 桶内指令保持执行顺序；构造后只读，可在多个协议解析器间共享。
type InstructionClassifier struct {
	buckets map[types.Pubkey][]*core.AdaptedInstruction
	order   []types.Pubkey // programID 首次出现顺序
}

// NewInstructionClassifier 单次遍历构建分桶
func NewInstructionClassifier(tx *core.AdaptedTx) *InstructionClassifier {
	c := &InstructionClassifier{
		buckets: make(map[types.Pubkey][]*core.AdaptedInstruction, 8),
	}
	for _, ix := range tx.Instructions {
		if _, ok := c.buckets[ix.ProgramID]; !ok {
			c.order = append(c.order, ix.ProgramID)
		}
		c.buckets[ix.ProgramID] = append(c.buckets[ix.ProgramID], ix)
	}
	return c
}

// Instructions 返回指定程序的全部指令（主 + inner），按执行顺序排列。
// 未出现的程序返回 nil。
func (c *InstructionClassifier) Instructions(programID types.Pubkey) []*core.AdaptedInstruction {
	return c.buckets[programID]
}

// OuterInstructions 返回指定程序的主指令（InnerIndex == 0）
func (c *InstructionClassifier) OuterInstructions(programID types.Pubkey) []*core.AdaptedInstruction {
	all := c.buckets[programID]
	if len(all) == 0 {
		return nil
	}
	outers := make([]*core.AdaptedInstruction, 0, len(all))
	for _, ix := range all {
		if !ix.IsInner() {
			outers = append(outers, ix)
		}
	}
	return outers
}

// AllProgramIDs 返回交易中出现过的全部 programID，按首次出现顺序去重。
func (c *InstructionClassifier) AllProgramIDs() []types.Pubkey {
	return c.order
}

// InnerInstructionsOf 返回某条主指令的全部 inner 指令（任意程序），按执行顺序排列。
// 用于在高层协议指令下定位其 CPI 转账。
func InnerInstructionsOf(tx *core.AdaptedTx, ixIndex uint16) []*core.AdaptedInstruction {
	var inners []*core.AdaptedInstruction
	for _, ix := range tx.Instructions {
		if ix.IxIndex == ixIndex && ix.IsInner() {
			inners = append(inners, ix)
		}
	}
	return inners
}
