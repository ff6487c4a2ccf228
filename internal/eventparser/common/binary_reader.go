package common

import (
	"encoding/binary"

	"dex-parser-sol/internal/errs"
	"dex-parser-sol/pkg/types"
)

// BinaryReader 顺序读取指令 data 中的小端字段。
// 数据不足时返回 DecodeError（带布局名），调用方据此决定跳过或上抛。
type BinaryReader struct {
	layout string // 布局名（协议+指令），用于错误信息
	data   []byte
	offset int
}

func NewBinaryReader(layout string, data []byte) *BinaryReader {
	return &BinaryReader{layout: layout, data: data}
}

// Remaining 返回剩余未读取字节数
func (r *BinaryReader) Remaining() int {
	return len(r.data) - r.offset
}

func (r *BinaryReader) require(n int) error {
	if r.Remaining() < n {
		return errs.NewDecodeError(r.layout, r.offset+n, len(r.data))
	}
	return nil
}

func (r *BinaryReader) Skip(n int) error {
	if err := r.require(n); err != nil {
		return err
	}
	r.offset += n
	return nil
}

func (r *BinaryReader) ReadUint8() (uint8, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	v := r.data[r.offset]
	r.offset++
	return v, nil
}

func (r *BinaryReader) ReadUint16() (uint16, error) {
	if err := r.require(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.offset:])
	r.offset += 2
	return v, nil
}

func (r *BinaryReader) ReadUint32() (uint32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.offset:])
	r.offset += 4
	return v, nil
}

func (r *BinaryReader) ReadUint64() (uint64, error) {
	if err := r.require(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.data[r.offset:])
	r.offset += 8
	return v, nil
}

func (r *BinaryReader) ReadBool() (bool, error) {
	v, err := r.ReadUint8()
	return v != 0, err
}

// ReadPubkey 读取 32 字节公钥
func (r *BinaryReader) ReadPubkey() (types.Pubkey, error) {
	if err := r.require(32); err != nil {
		return types.Pubkey{}, err
	}
	var pk types.Pubkey
	copy(pk[:], r.data[r.offset:r.offset+32])
	r.offset += 32
	return pk, nil
}

// ReadString 读取 borsh 风格字符串：4 字节长度前缀 + UTF-8 内容
func (r *BinaryReader) ReadString() (string, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return "", err
	}
	if err := r.require(int(n)); err != nil {
		return "", err
	}
	s := string(r.data[r.offset : r.offset+int(n)])
	r.offset += int(n)
	return s, nil
}

// Discriminator8 返回指令 data 的前 8 字节方法编号（BigEndian 表示，便于与常量比较）。
// data 不足 8 字节返回 0。
func Discriminator8(data []byte) uint64 {
	if len(data) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(data[:8])
}
