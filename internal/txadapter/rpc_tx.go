package txadapter

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/errs"
	"dex-parser-sol/internal/utils"
	"dex-parser-sol/pkg/types"
)

// pubkeyOf 将 RPC 公钥转换为内部 Pubkey（二者均为 32 字节数组，零拷贝转换）
func pubkeyOf(pk solana.PublicKey) types.Pubkey {
	return types.Pubkey(pk)
}

// buildRpcAccountKeys 拼接静态账户与 Address Lookup Table 解析出的 writable / readonly 地址。
func buildRpcAccountKeys(msg *solana.Message, meta *rpc.TransactionMeta) []types.Pubkey {
	writable := meta.LoadedAddresses.Writable
	readonly := meta.LoadedAddresses.ReadOnly

	total := len(msg.AccountKeys) + len(writable) + len(readonly)
	pubkeys := make([]types.Pubkey, 0, total)

	for _, pk := range msg.AccountKeys {
		pubkeys = append(pubkeys, pubkeyOf(pk))
	}
	for _, pk := range writable {
		pubkeys = append(pubkeys, pubkeyOf(pk))
	}
	for _, pk := range readonly {
		pubkeys = append(pubkeys, pubkeyOf(pk))
	}
	return pubkeys
}

// isSPLTokenBalance 判断余额条目是否属于标准 SPL Token 程序。
// 旧版本节点的 meta 不含 programId 字段，此时按 SPL 处理。
func isSPLTokenBalance(programID *solana.PublicKey) bool {
	if programID == nil {
		return true
	}
	return consts.IsSPLTokenProgram(pubkeyOf(*programID))
}

// buildRpcBalances 从 Pre/PostTokenBalances 构建 TokenBalance 映射与 decimals 映射。
// 与 gRPC 路径不同，RPC 返回的 mint 已是公钥类型，无需 base58 解码缓存。
func buildRpcBalances(
	meta *rpc.TransactionMeta,
	accountKeys []types.Pubkey,
) (map[types.Pubkey]*core.TokenBalance, []core.TokenDecimals) {
	postList := meta.PostTokenBalances
	preList := meta.PreTokenBalances

	balanceMap := make(map[types.Pubkey]*core.TokenBalance, len(preList)+len(postList))
	decimalsMap := make([]core.TokenDecimals, 0, len(postList)+3)

	addDecimals := func(mint types.Pubkey, decimals uint8) {
		for _, v := range decimalsMap {
			if v.Token == mint {
				return
			}
		}
		decimalsMap = append(decimalsMap, core.TokenDecimals{Token: mint, Decimals: decimals})
	}
	addDecimals(consts.WSOLMint, consts.SOLDecimals)

	ownerOf := func(owner *solana.PublicKey) types.Pubkey {
		if owner == nil {
			return types.Pubkey{}
		}
		return pubkeyOf(*owner)
	}

	// 先处理 Post（账户最终状态），PreBalance 默认为 0
	for _, post := range postList {
		if !isSPLTokenBalance(post.ProgramId) || int(post.AccountIndex) >= len(accountKeys) {
			continue
		}
		account := accountKeys[post.AccountIndex]
		mint := pubkeyOf(post.Mint)
		decimals := post.UiTokenAmount.Decimals
		addDecimals(mint, decimals)
		balanceMap[account] = &core.TokenBalance{
			TokenAccount: account,
			Token:        mint,
			PostBalance:  utils.ParseUint64(post.UiTokenAmount.Amount),
			PostOwner:    ownerOf(post.Owner),
			Decimals:     decimals,
		}
	}

	// 再补充 Pre（Pre-only 表示账户可能被销毁）
	for _, pre := range preList {
		if !isSPLTokenBalance(pre.ProgramId) || int(pre.AccountIndex) >= len(accountKeys) {
			continue
		}
		account := accountKeys[pre.AccountIndex]
		owner := ownerOf(pre.Owner)
		if tb, ok := balanceMap[account]; ok {
			tb.HasPre = true
			tb.HasPreOwner = true
			tb.PreOwner = owner
			tb.PreBalance = utils.ParseUint64(pre.UiTokenAmount.Amount)
		} else {
			mint := pubkeyOf(pre.Mint)
			decimals := pre.UiTokenAmount.Decimals
			addDecimals(mint, decimals)
			balanceMap[account] = &core.TokenBalance{
				TokenAccount: account,
				Token:        mint,
				HasPre:       true,
				HasPreOwner:  true,
				PreOwner:     owner,
				PostOwner:    owner,
				PreBalance:   utils.ParseUint64(pre.UiTokenAmount.Amount),
				Decimals:     decimals,
			}
		}
	}

	addDecimals(consts.USDCMint, 6)
	addDecimals(consts.USDTMint, 6)
	return balanceMap, decimalsMap
}

// buildRpcSolBalances 构建账户 SOL 余额快照（Pre/PostBalances 与账户列表按下标对齐）。
func buildRpcSolBalances(meta *rpc.TransactionMeta, accountKeys []types.Pubkey) map[types.Pubkey]*core.SolBalance {
	n := len(accountKeys)
	if len(meta.PreBalances) < n {
		n = len(meta.PreBalances)
	}
	if len(meta.PostBalances) < n {
		n = len(meta.PostBalances)
	}

	balances := make(map[types.Pubkey]*core.SolBalance, n)
	for i := 0; i < n; i++ {
		balances[accountKeys[i]] = &core.SolBalance{
			Account:     accountKeys[i],
			PreBalance:  meta.PreBalances[i],
			PostBalance: meta.PostBalances[i],
		}
	}
	return balances
}

// buildRpcInstructions 扁平化主指令与 inner 指令，与 gRPC 路径保持一致的编号语义。
func buildRpcInstructions(
	msg *solana.Message,
	meta *rpc.TransactionMeta,
	accountKeys []types.Pubkey,
) []*core.AdaptedInstruction {
	rawInners := meta.InnerInstructions

	instructions := make([]*core.AdaptedInstruction, 0, utils.Max(len(msg.Instructions)*2, 32))
	innerIndex := 0

	appendIx := func(ixIndex, innerIdx uint16, inst solana.CompiledInstruction) {
		if int(inst.ProgramIDIndex) >= len(accountKeys) {
			return
		}
		accounts := make([]types.Pubkey, 0, len(inst.Accounts))
		for _, idx := range inst.Accounts {
			if int(idx) < len(accountKeys) {
				accounts = append(accounts, accountKeys[idx])
			}
		}
		instructions = append(instructions, &core.AdaptedInstruction{
			IxIndex:    ixIndex,
			InnerIndex: innerIdx,
			ProgramID:  accountKeys[inst.ProgramIDIndex],
			Accounts:   accounts,
			Data:       inst.Data,
		})
	}

	for i, inst := range msg.Instructions {
		appendIx(uint16(i), 0, inst)

		// inner 列表按主指令索引递增排列，顺序匹配即可
		if innerIndex < len(rawInners) && int(rawInners[innerIndex].Index) == i {
			for j, inner := range rawInners[innerIndex].Instructions {
				appendIx(uint16(i), uint16(j+1), solana.CompiledInstruction{
					ProgramIDIndex: inner.ProgramIDIndex,
					Accounts:       inner.Accounts,
					Data:           inner.Data,
				})
			}
			innerIndex++
		}
	}
	return instructions
}

// AdaptRpcTx 将 getTransaction RPC 返回的交易标准化为 AdaptedTx。
// 流程与 AdaptGrpcTx 一致：账户表 → 指令扁平化 → 余额快照。
func AdaptRpcTx(result *rpc.GetTransactionResult) (_ *core.AdaptedTx, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.NewValidationError(fmt.Sprintf("AdaptRpcTx panic: %v", r), nil)
		}
	}()

	if result == nil || result.Transaction == nil || result.Meta == nil {
		return nil, errs.NewValidationError("missing transaction or meta", nil)
	}

	tx, err := result.Transaction.GetTransaction()
	if err != nil {
		return nil, errs.NewValidationError("decode transaction envelope", err)
	}
	if len(tx.Signatures) == 0 {
		return nil, errs.NewValidationError("missing signature", nil)
	}

	msg := &tx.Message
	accountKeys := buildRpcAccountKeys(msg, result.Meta)
	if len(accountKeys) == 0 {
		return nil, errs.NewValidationError("empty accountKeys", nil)
	}

	signerCount := int(msg.Header.NumRequiredSignatures)
	if signerCount == 0 || len(accountKeys) < signerCount {
		return nil, errs.NewValidationError(fmt.Sprintf("invalid signer count: %d", signerCount), nil)
	}

	signers := make([]types.Pubkey, signerCount)
	copy(signers, accountKeys[:signerCount])

	balances, tokenDecimals := buildRpcBalances(result.Meta, accountKeys)

	var blockTime int64
	if result.BlockTime != nil {
		blockTime = int64(*result.BlockTime)
	}

	sig := tx.Signatures[0]
	return &core.AdaptedTx{
		Slot:          result.Slot,
		BlockTime:     blockTime,
		Signature:     sig[:],
		Signers:       signers,
		Fee:           result.Meta.Fee,
		Instructions:  buildRpcInstructions(msg, result.Meta, accountKeys),
		LogMessages:   result.Meta.LogMessages,
		SolBalances:   buildRpcSolBalances(result.Meta, accountKeys),
		Balances:      balances,
		TokenDecimals: tokenDecimals,
	}, nil
}
