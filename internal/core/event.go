package core

// 交易方向：以 quote token 为参照，用 quote 换 base 记为 BUY，反之为 SELL。
const (
	TradeTypeBuy  = "BUY"
	TradeTypeSell = "SELL"
)

// 流动性事件类型
const (
	PoolEventCreate = "CREATE"
	PoolEventAdd    = "ADD"
	PoolEventRemove = "REMOVE"
)

// 手续费类型
const (
	FeeTypeProtocol    = "protocol"
	FeeTypeCoinCreator = "coinCreator"
)

// TradeToken 表示交易的一条腿（输入或输出）。
type TradeToken struct {
	Mint      string  `json:"mint"`
	Amount    float64 `json:"amount"`
	AmountRaw string  `json:"amountRaw"`
	Decimals  uint8   `json:"decimals"`
	// Authority 表示资金来源账户的所有者（用户钱包或 pool authority），可为空
	Authority             string       `json:"authority,omitempty"`
	Source                string       `json:"source,omitempty"`
	Destination           string       `json:"destination,omitempty"`
	DestinationOwner      string       `json:"destinationOwner,omitempty"`
	SourceBalance         *TokenAmount `json:"sourceBalance,omitempty"`
	SourcePreBalance      *TokenAmount `json:"sourcePreBalance,omitempty"`
	DestinationBalance    *TokenAmount `json:"destinationBalance,omitempty"`
	DestinationPreBalance *TokenAmount `json:"destinationPreBalance,omitempty"`
}

// FeeInfo 表示交易中的一条手续费腿。
type FeeInfo struct {
	Mint      string  `json:"mint"`
	Amount    float64 `json:"amount"`
	AmountRaw string  `json:"amountRaw"`
	Decimals  uint8   `json:"decimals"`
	Dex       string  `json:"dex,omitempty"`
	Type      string  `json:"type,omitempty"`      // protocol / coinCreator
	Recipient string  `json:"recipient,omitempty"` // 费用接收方
}

// TradeInfo 表示一笔标准化的交易事件（一次 swap 的一条腿）。
// 不变量：恰好一条输入腿和一条输出腿；Fees 列出全部费用腿，Fee 为同 mint 费用腿的合计。
type TradeInfo struct {
	Type        string     `json:"type"` // BUY / SELL
	InputToken  TradeToken `json:"inputToken"`
	OutputToken TradeToken `json:"outputToken"`
	Fee         *FeeInfo   `json:"fee,omitempty"`
	Fees        []FeeInfo  `json:"fees,omitempty"`
	User        string     `json:"user"`
	ProgramID   string     `json:"programId"`
	Amm         string     `json:"amm"`               // 协议名称
	AmmPool     string     `json:"ammPool,omitempty"` // 池子地址（可识别时）
	Route       string     `json:"route,omitempty"`   // 路由聚合器名称（经由聚合器时）
	Slot        uint64     `json:"slot"`
	Timestamp   int64      `json:"timestamp"`
	Signature   string     `json:"signature"`
	Idx         string     `json:"idx"` // "主指令序号-inner序号"
}

// TransferInfo 是 TransferData 的资金明细。
type TransferInfo struct {
	Authority             string       `json:"authority,omitempty"`
	Source                string       `json:"source"`
	Destination           string       `json:"destination"`
	DestinationOwner      string       `json:"destinationOwner,omitempty"`
	Mint                  string       `json:"mint"`
	TokenAmount           TokenAmount  `json:"tokenAmount"`
	SourceBalance         *TokenAmount `json:"sourceBalance,omitempty"`
	SourcePreBalance      *TokenAmount `json:"sourcePreBalance,omitempty"`
	DestinationBalance    *TokenAmount `json:"destinationBalance,omitempty"`
	DestinationPreBalance *TokenAmount `json:"destinationPreBalance,omitempty"`
}

// TransferData 表示一次 Token 或原生 SOL 的转账事件。
// 去重键：(Idx, Signature, IsFee)。
type TransferData struct {
	Type      string       `json:"type"` // transfer / transferChecked / mintTo / burn / native
	ProgramID string       `json:"programId"`
	Info      TransferInfo `json:"info"`
	Idx       string       `json:"idx"`
	Slot      uint64       `json:"slot"`
	Timestamp int64        `json:"timestamp"`
	Signature string       `json:"signature"`
	IsFee     bool         `json:"isFee,omitempty"`
}

// PoolEvent 表示流动性池事件（建池 / 加池 / 撤池）。
type PoolEvent struct {
	Type            string  `json:"type"` // CREATE / ADD / REMOVE
	PoolID          string  `json:"poolId"`
	User            string  `json:"user"`
	ProgramID       string  `json:"programId"`
	Amm             string  `json:"amm"`
	Token0Mint      string  `json:"token0Mint,omitempty"`
	Token0Amount    float64 `json:"token0Amount,omitempty"`
	Token0AmountRaw string  `json:"token0AmountRaw,omitempty"`
	Token0Decimals  uint8   `json:"token0Decimals,omitempty"`
	Token1Mint      string  `json:"token1Mint,omitempty"`
	Token1Amount    float64 `json:"token1Amount,omitempty"`
	Token1AmountRaw string  `json:"token1AmountRaw,omitempty"`
	Token1Decimals  uint8   `json:"token1Decimals,omitempty"`
	LpMint          string  `json:"lpMint,omitempty"`
	LpAmount        float64 `json:"lpAmount,omitempty"`
	LpAmountRaw     string  `json:"lpAmountRaw,omitempty"`
	Slot            uint64  `json:"slot"`
	Timestamp       int64   `json:"timestamp"`
	Signature       string  `json:"signature"`
	Idx             string  `json:"idx"`
}

// FinalSwap 是多跳交易合并后的派生视图：首腿输入 + 末腿输出，费用按腿汇总。
// 不替代 Trades 中的逐腿记录。
type FinalSwap struct {
	InputToken  TradeToken `json:"inputToken"`
	OutputToken TradeToken `json:"outputToken"`
	Fees        []FeeInfo  `json:"fees,omitempty"`
	User        string     `json:"user"`
	Signature   string     `json:"signature"`
}

// ParseResult 是一次完整解析的聚合输出。
// State 为 false 时 Msg 记录失败原因，已成功解析的部分仍然保留。
type ParseResult struct {
	State              bool                      `json:"state"`
	Fee                TokenAmount               `json:"fee"` // 交易手续费（SOL）
	Trades             []*TradeInfo              `json:"trades"`
	Liquidities        []*PoolEvent              `json:"liquidities"`
	Transfers          []*TransferData           `json:"transfers"`
	FinalSwap          *FinalSwap                `json:"finalSwap,omitempty"`
	SolBalanceChange   *BalanceChange            `json:"solBalanceChange,omitempty"`
	TokenBalanceChange map[string]*BalanceChange `json:"tokenBalanceChange,omitempty"` // mint → 签名者余额变化
	MoreEvents         map[string][]any          `json:"moreEvents,omitempty"`         // 协议名 → 原始解码事件
	Msg                string                    `json:"msg,omitempty"`
}

// ShredInstruction 是 shred 模式下的一条原始解码指令事件。
type ShredInstruction struct {
	Type      string   `json:"type"`
	ProgramID string   `json:"programId"`
	Idx       string   `json:"idx"`
	Data      any      `json:"data,omitempty"`
	Accounts  []string `json:"accounts,omitempty"`
}

// ParseShredResult 是 shred（元数据不完整）输入的解析输出：按协议名分组的原始指令事件。
type ParseShredResult struct {
	State        bool                           `json:"state"`
	Signature    string                         `json:"signature"`
	Instructions map[string][]*ShredInstruction `json:"instructions"`
	Msg          string                         `json:"msg,omitempty"`
}
