package core

// ParseConfig 控制一次解析的程序过滤与失败策略。
// 零值表示解析全部已注册协议、单协议失败不中断整体。
type ParseConfig struct {
	// ProgramIDs 非空时只解析列出的程序（base58）
	ProgramIDs []string

	// IgnoreProgramIDs 列出的程序会被跳过，优先级高于 ProgramIDs
	IgnoreProgramIDs []string

	// TryUnknownDEX 为 true 时，对未注册的顶层程序尝试提取其 inner 转账作为兜底
	TryUnknownDEX bool

	// StrictThrow 为 true 时单协议解析失败直接向调用方返回错误，
	// 否则仅记录到 ParseResult.Msg 并保留其余协议的结果
	StrictThrow bool
}

// ShouldParse 判断某程序是否在本次解析范围内
func (c *ParseConfig) ShouldParse(programID string) bool {
	if c == nil {
		return true
	}
	for _, p := range c.IgnoreProgramIDs {
		if p == programID {
			return false
		}
	}
	if len(c.ProgramIDs) == 0 {
		return true
	}
	for _, p := range c.ProgramIDs {
		if p == programID {
			return true
		}
	}
	return false
}
