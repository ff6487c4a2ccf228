package common

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dex-parser-sol/internal/errs"
)

func TestBinaryReaderSequentialFields(t *testing.T) {
	// u8 + u16 + u64 + borsh 字符串
	data := []byte{0x07}
	data = binary.LittleEndian.AppendUint16(data, 513)
	data = binary.LittleEndian.AppendUint64(data, 1_000_000_000)
	data = binary.LittleEndian.AppendUint32(data, 4)
	data = append(data, []byte("pump")...)

	r := NewBinaryReader("Test::fields", data)

	v8, err := r.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(7), v8)

	v16, err := r.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(513), v16)

	v64, err := r.ReadUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000), v64)

	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "pump", s)
	assert.Zero(t, r.Remaining())
}

// 数据不足返回 DecodeError，而非 panic 或截断读取
func TestBinaryReaderShortData(t *testing.T) {
	r := NewBinaryReader("Test::short", []byte{0x01, 0x02})

	_, err := r.ReadUint64()
	require.Error(t, err)

	var decodeErr *errs.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "Test::short", decodeErr.Layout)

	// 长度前缀越界的字符串同样报错
	r2 := NewBinaryReader("Test::str", binary.LittleEndian.AppendUint32(nil, 100))
	_, err = r2.ReadString()
	assert.Error(t, err)
}

func TestDiscriminator8(t *testing.T) {
	data := []byte{0x66, 0x06, 0x3d, 0x12, 0x01, 0xda, 0xeb, 0xea, 0xff}
	assert.Equal(t, uint64(0x66063d1201daebea), Discriminator8(data))

	// 不足 8 字节视为无效
	assert.Zero(t, Discriminator8([]byte{0x66, 0x06}))
}
