package txadapter

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/tools"
	"dex-parser-sol/pkg/types"
)

// mintKV 表示缓存中的一个条目：mint base58 → Pubkey + decimals。
type mintKV struct {
	base58   string       // 原始 mint 字符串（base58 编码）
	pubkey   types.Pubkey // 解码后的 32 字节公钥
	decimals uint8        // Token 精度
}

// mintResolver 用于将 base58 编码的 mint 字符串解析为 Pubkey，并缓存对应的 decimals。
// 单笔交易内 mint 数量极少，切片顺序查找即可。
type mintResolver struct {
	cache []mintKV
}

// 参数 capacity 为预估的动态 token 数量，用于预分配缓存容量。
func newMintResolver(capacity int) *mintResolver {
	return &mintResolver{cache: make([]mintKV, 0, capacity)}
}

// resolve 返回指定 mintStr 对应的 Pubkey。
// 常见报价币走常量直达，其余命中缓存或解码后缓存。
func (r *mintResolver) resolve(mintStr string, decimals uint8) types.Pubkey {
	switch mintStr {
	case consts.WSOLMintStr:
		return consts.WSOLMint
	case consts.USDCMintStr:
		return consts.USDCMint
	case consts.USDTMintStr:
		return consts.USDTMint
	}
	for _, item := range r.cache {
		if item.base58 == mintStr {
			return item.pubkey
		}
	}
	pk := types.PubkeyFromBase58(mintStr)
	r.cache = append(r.cache, mintKV{base58: mintStr, pubkey: pk, decimals: decimals})
	return pk
}

// buildTokenDecimals 返回当前交易中涉及的所有 mint → decimals 映射（含内置报价币）。
func (r *mintResolver) buildTokenDecimals() []core.TokenDecimals {
	list := make([]core.TokenDecimals, 0, len(r.cache)+3)

	// 先添加 WSOL（最常用）
	list = append(list, core.TokenDecimals{
		Token: consts.WSOLMint, Decimals: tools.WSOLDecimals,
	})

	// 添加动态 token
	for _, kv := range r.cache {
		list = append(list, core.TokenDecimals{
			Token: kv.pubkey, Decimals: kv.decimals,
		})
	}

	// 最后添加 USDC 和 USDT
	list = append(list,
		core.TokenDecimals{Token: consts.USDCMint, Decimals: tools.USDCDecimals},
		core.TokenDecimals{Token: consts.USDTMint, Decimals: tools.USDTDecimals},
	)
	return list
}

type ownerKV struct {
	base58 string       // 原始 owner 字符串
	pubkey types.Pubkey // 解码后的公钥
}

// ownerResolver 解析 base58 owner 地址 → types.Pubkey，仅缓存解码结果，无 decimals。
type ownerResolver struct {
	cached []ownerKV
}

func newOwnerResolver(capacity int) *ownerResolver {
	return &ownerResolver{cached: make([]ownerKV, 0, capacity)}
}

// resolve 解码 base58 owner 字符串，命中则返回缓存值，否则解码后加入缓存。
// 空字符串（节点未提供 owner）返回零值。
func (r *ownerResolver) resolve(base58Str string) types.Pubkey {
	if base58Str == "" {
		return types.Pubkey{}
	}
	for _, kv := range r.cached {
		if kv.base58 == base58Str {
			return kv.pubkey
		}
	}
	pk := types.PubkeyFromBase58(base58Str)
	r.cached = append(r.cached, ownerKV{base58: base58Str, pubkey: pk})
	return pk
}
