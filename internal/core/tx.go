package core

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/pkg/types"
)

// AdaptedInstruction 表示一条主指令或 inner 指令，来源于交易中的 message.instructions 或 innerInstructions。
// 所有指令在适配阶段已展平，并补充了位置信息（IxIndex、InnerIndex），以支持顺序遍历与事件定位。
type AdaptedInstruction struct {
	IxIndex    uint16         // 主指令索引（从 0 开始）
	InnerIndex uint16         // Inner 指令在主指令中的序号，主指令本身为 0，CPI 调用从 1 开始
	ProgramID  types.Pubkey   // 指令对应的程序 ID
	Accounts   []types.Pubkey // 指令涉及的账户列表，保持原始顺序
	Data       []byte         // 指令原始数据，用于判断指令类型与解析参数
}

// IsInner 判断是否为 CPI 产生的 inner 指令
func (ix *AdaptedInstruction) IsInner() bool { return ix.InnerIndex > 0 }

// SolBalance 记录某账户在交易中 SOL 余额的变动快照（含执行前后余额）。
type SolBalance struct {
	Account     types.Pubkey
	PreBalance  uint64 // 交易执行前余额（lamports）
	PostBalance uint64 // 交易执行后余额
}

// TokenBalance 表示某个 SPL Token 账户在交易执行前后的余额信息。
type TokenBalance struct {
	Decimals     uint8
	HasPre       bool // PreTokenBalances 中是否出现过该账户
	HasPreOwner  bool
	PreBalance   uint64 // 交易执行前余额（最小单位）
	PostBalance  uint64 // 交易执行后余额
	TokenAccount types.Pubkey
	Token        types.Pubkey // mint
	PreOwner     types.Pubkey
	PostOwner    types.Pubkey
}

// TokenDecimals 表示某 mint 的精度信息（通常用于解析金额）。
type TokenDecimals struct {
	Token    types.Pubkey
	Decimals uint8
}

// AdaptedTx 是事件解析流程的核心输入结构体：已标准化的链上交易视图。
// 构造一次后只读，单次解析调用内独占使用。
type AdaptedTx struct {
	Slot      uint64
	BlockTime int64  // 区块时间戳（Unix 秒），shred 输入可能为 0
	Signature []byte // 交易签名（64 字节原始数据）
	Signers   []types.Pubkey
	Fee       uint64 // 交易手续费（lamports）

	// Instructions 表示交易中的所有指令（包括主指令和 inner 指令），已按执行顺序展平。
	Instructions []*AdaptedInstruction

	// LogMessages 表示交易执行过程中产生的 Program 日志，部分协议判定会用到。
	LogMessages []string

	// SolBalances 记录交易中涉及的账户 SOL 余额快照（交易前后余额）。
	SolBalances map[types.Pubkey]*SolBalance

	// Balances 记录交易中涉及的 SPL Token 账户余额快照（交易前后余额）。
	Balances map[types.Pubkey]*TokenBalance

	// TokenDecimals 表示本交易中涉及的 mint → decimals 精度映射。
	// 使用切片而非 map：单笔交易涉及的 mint 数量极少（通常 2~3 个），顺序查找更高效。
	TokenDecimals []TokenDecimals

	// Partial 表示 shred 等元数据不完整的输入：余额表缺失，相关查询返回空而非报错。
	Partial bool
}

// FeePayer 返回手续费支付方（首个 signer）
func (tx *AdaptedTx) FeePayer() types.Pubkey {
	if len(tx.Signers) > 0 {
		return tx.Signers[0]
	}
	return types.Pubkey{}
}

// GetDecimalsByMint 查询 mint 精度。原生 SOL 不出现在余额表中，默认为 9。
func (tx *AdaptedTx) GetDecimalsByMint(mint types.Pubkey) (uint8, bool) {
	if mint == consts.NativeSOLMint || mint == consts.WSOLMint {
		return consts.SOLDecimals, true
	}
	for _, v := range tx.TokenDecimals {
		if v.Token == mint {
			return v.Decimals, true
		}
	}
	return 0, false
}

// AddTokenDecimals 添加一个 mint 和 decimals，重复则跳过
func (tx *AdaptedTx) AddTokenDecimals(mint types.Pubkey, decimals uint8) {
	for _, v := range tx.TokenDecimals {
		if v.Token == mint {
			return
		}
	}
	tx.TokenDecimals = append(tx.TokenDecimals, TokenDecimals{
		Token:    mint,
		Decimals: decimals,
	})
}

// TokenAccountOwner 返回 Token 账户的所有者（交易后视图），未知时返回 false
func (tx *AdaptedTx) TokenAccountOwner(tokenAccount types.Pubkey) (types.Pubkey, bool) {
	if b, ok := tx.Balances[tokenAccount]; ok {
		return b.PostOwner, true
	}
	return types.Pubkey{}, false
}
