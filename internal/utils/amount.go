package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseUint64 解析十进制整数字符串，非法输入返回 0（余额字段来源于节点，理论上总是合法）
func ParseUint64(s string) uint64 {
	v, _ := strconv.ParseUint(s, 10, 64)
	return v
}

func Pow10(decimals uint32) float64 {
	return math.Pow10(int(decimals))
}

// UiAmount 将最小单位金额转换为带精度的显示金额
func UiAmount(raw uint64, decimals uint8) float64 {
	return float64(raw) / Pow10(uint32(decimals))
}

// SignedUiAmount 同 UiAmount，用于余额差值等有符号场景
func SignedUiAmount(raw int64, decimals uint8) float64 {
	return float64(raw) / Pow10(uint32(decimals))
}

func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// FormatIdx 生成事件定位键 "主指令序号-inner序号"（主指令本身 inner 为 0）
func FormatIdx(ixIndex, innerIndex uint16) string {
	return strconv.Itoa(int(ixIndex)) + "-" + strconv.Itoa(int(innerIndex))
}

// SplitIdx 解析 FormatIdx 生成的定位键，非法输入返回 (0, 0)
func SplitIdx(idx string) (ixIndex, innerIndex int) {
	parts := strings.SplitN(idx, "-", 2)
	if len(parts) > 0 {
		ixIndex, _ = strconv.Atoi(parts[0])
	}
	if len(parts) > 1 {
		innerIndex, _ = strconv.Atoi(parts[1])
	}
	return ixIndex, innerIndex
}

// LessIdx 按 (主指令序号, inner序号) 字典序比较两个定位键
func LessIdx(a, b string) bool {
	ai, aj := SplitIdx(a)
	bi, bj := SplitIdx(b)
	if ai != bi {
		return ai < bi
	}
	return aj < bj
}
