package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dex-parser-sol/internal/core"
	"dex-parser-sol/pkg/types"
)

func ix(ixIndex, innerIndex uint16, program byte) *core.AdaptedInstruction {
	return &core.AdaptedInstruction{
		IxIndex:    ixIndex,
		InnerIndex: innerIndex,
		ProgramID:  types.Pubkey{program},
	}
}

func TestClassifierBuckets(t *testing.T) {
	progA := types.Pubkey{0x0a}
	progB := types.Pubkey{0x0b}

	tx := &core.AdaptedTx{
		Instructions: []*core.AdaptedInstruction{
			ix(0, 0, 0x0a),
			ix(0, 1, 0x0b), // A 的 inner CPI 调用 B
			ix(1, 0, 0x0b),
			ix(2, 0, 0x0a),
		},
	}

	c := NewInstructionClassifier(tx)

	// 分桶完整性：每条指令恰好落入自己程序的桶
	require.Len(t, c.Instructions(progA), 2)
	require.Len(t, c.Instructions(progB), 2)
	assert.Nil(t, c.Instructions(types.Pubkey{0x0c}))

	// 桶内保持执行顺序
	bucketB := c.Instructions(progB)
	assert.Equal(t, uint16(0), bucketB[0].IxIndex)
	assert.Equal(t, uint16(1), bucketB[0].InnerIndex)
	assert.Equal(t, uint16(1), bucketB[1].IxIndex)

	// 主指令过滤
	outersB := c.OuterInstructions(progB)
	require.Len(t, outersB, 1)
	assert.Equal(t, uint16(1), outersB[0].IxIndex)
}

// 完整性：AllProgramIDs 覆盖全部出现过的程序，无重复、无遗漏，按首次出现排序
func TestAllProgramIDs(t *testing.T) {
	tx := &core.AdaptedTx{
		Instructions: []*core.AdaptedInstruction{
			ix(0, 0, 0x0a),
			ix(0, 1, 0x0b),
			ix(1, 0, 0x0a),
			ix(2, 0, 0x0c),
		},
	}

	c := NewInstructionClassifier(tx)
	ids := c.AllProgramIDs()
	require.Len(t, ids, 3)
	assert.Equal(t, types.Pubkey{0x0a}, ids[0])
	assert.Equal(t, types.Pubkey{0x0b}, ids[1])
	assert.Equal(t, types.Pubkey{0x0c}, ids[2])

	seen := make(map[types.Pubkey]bool)
	for _, id := range ids {
		assert.False(t, seen[id], "programID 重复: %s", id)
		seen[id] = true
	}
	for _, in := range tx.Instructions {
		assert.True(t, seen[in.ProgramID], "programID 遗漏: %s", in.ProgramID)
	}
}

func TestInnerInstructionsOf(t *testing.T) {
	tx := &core.AdaptedTx{
		Instructions: []*core.AdaptedInstruction{
			ix(0, 0, 0x0a),
			ix(0, 1, 0x0b),
			ix(0, 2, 0x0b),
			ix(1, 0, 0x0a),
		},
	}

	inners := InnerInstructionsOf(tx, 0)
	require.Len(t, inners, 2)
	assert.Equal(t, uint16(1), inners[0].InnerIndex)
	assert.Equal(t, uint16(2), inners[1].InnerIndex)
	assert.Empty(t, InnerInstructionsOf(tx, 1))
}
