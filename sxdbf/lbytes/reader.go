package lbytes

import (
	"bytes"
	"encoding/binary"
)

func NewBytesReader(bs []byte) *Reader {
	return &Reader{
		Reader: *bytes.NewReader(bs),
	}
}

func (b *Reader) ReadUint8() (uint8, error) {
	return b.ReadByte()
}

func (b *Reader) ReadUint16() (uint16, error) {
	bs := make([]byte, 2)
	_, err := b.Read(bs)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(bs), nil
}

func (b *Reader) ReadUint32() (uint32, error) {
	bs := make([]byte, 4)
	_, err := b.Read(bs)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(bs), nil
}

func (b *Reader) ReadBytes(n int) ([]byte, error) {
	bs := make([]byte, n)
	// return early to avoid EOF error
	// when reader's pointer reached end of buffer
	// while the number of next bytes to read is 0
	if n == 0 {
		return bs, nil
	}
	_, err := b.Read(bs)
	if err != nil {
		return nil, err
	}
	return bs, nil
}

func (b *Reader) ReadString(n int) (string, error) {
	bs, err := b.ReadBytes(n)
	if err != nil {
		return "", err
	}

	return string(bs), nil
}
