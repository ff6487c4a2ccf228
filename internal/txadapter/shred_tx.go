package txadapter

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/errs"
	"dex-parser-sol/pkg/types"
)

// AdaptShredTx 将 shred 流中重组出的裸交易标准化为 AdaptedTx。
// 此类交易尚未上链确认，没有 meta：无 inner 指令、无余额表、无手续费。
// 产出的 AdaptedTx 标记 Partial = true，下游据此跳过余额差值推断。
//
// Address Lookup Table 的地址需要链上状态才能解析，shred 阶段不可得；
// 引用查找表的账户下标会越过静态账户表，此类账户在指令中被跳过。
func AdaptShredTx(slot uint64, tx *solana.Transaction) (_ *core.AdaptedTx, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.NewValidationError(fmt.Sprintf("AdaptShredTx panic: %v", r), nil)
		}
	}()

	if tx == nil {
		return nil, errs.NewValidationError("missing transaction", nil)
	}
	if len(tx.Signatures) == 0 || len(tx.Message.AccountKeys) == 0 {
		return nil, errs.NewValidationError("missing signature or accountKeys", nil)
	}

	msg := &tx.Message
	accountKeys := make([]types.Pubkey, 0, len(msg.AccountKeys))
	for _, pk := range msg.AccountKeys {
		accountKeys = append(accountKeys, pubkeyOf(pk))
	}

	signerCount := int(msg.Header.NumRequiredSignatures)
	if signerCount == 0 || len(accountKeys) < signerCount {
		return nil, errs.NewValidationError(fmt.Sprintf("invalid signer count: %d", signerCount), nil)
	}
	signers := make([]types.Pubkey, signerCount)
	copy(signers, accountKeys[:signerCount])

	// 只有主指令，InnerIndex 恒为 0
	instructions := make([]*core.AdaptedInstruction, 0, len(msg.Instructions))
	for i, inst := range msg.Instructions {
		if int(inst.ProgramIDIndex) >= len(accountKeys) {
			continue
		}
		accounts := make([]types.Pubkey, 0, len(inst.Accounts))
		for _, idx := range inst.Accounts {
			if int(idx) < len(accountKeys) {
				accounts = append(accounts, accountKeys[idx])
			}
		}
		instructions = append(instructions, &core.AdaptedInstruction{
			IxIndex:   uint16(i),
			ProgramID: accountKeys[inst.ProgramIDIndex],
			Accounts:  accounts,
			Data:      inst.Data,
		})
	}

	sig := tx.Signatures[0]
	return &core.AdaptedTx{
		Slot:         slot,
		Signature:    sig[:],
		Signers:      signers,
		Instructions: instructions,
		SolBalances:  map[types.Pubkey]*core.SolBalance{},
		Balances:     map[types.Pubkey]*core.TokenBalance{},
		Partial:      true,
	}, nil
}
