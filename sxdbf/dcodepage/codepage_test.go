package dcodepage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	r := require.New(t)
	cases := map[byte]int{
		0x01: 437,
		0x03: 1252,
		0x04: 10000,
		0x13: 932,
		0x26: 866,
		0x4D: 936,
		0x4E: 949,
		0x4F: 950,
		0x50: 874,
		0x6A: 737,
		0xC8: 1250,
		0xCC: 1257,
	}
	for languageDriver, expected := range cases {
		codePage, ok := Resolve(languageDriver)
		r.True(ok)
		r.Equal(expected, codePage)
	}

	_, ok := Resolve(0x00)
	r.False(ok)
	_, ok = Resolve(0xFF)
	r.False(ok)
}

func TestDecoderFor(t *testing.T) {
	r := require.New(t)

	// code page 866: 0xE1 is the Cyrillic small letter es
	decoded, err := DecoderFor(0x26).Bytes([]byte{0xE1})
	r.NoError(err)
	r.Equal("с", string(decoded))

	// code page 1252: 0xE9 is e with acute
	decoded, err = DecoderFor(0x03).Bytes([]byte{0xE9})
	r.NoError(err)
	r.Equal("é", string(decoded))

	// unknown driver bytes fall back to Latin-1, which never fails
	decoded, err = DecoderFor(0x00).Bytes([]byte{0xFF, 0x41})
	r.NoError(err)
	r.Equal("ÿA", string(decoded))

	// resolvable driver without an x/text code page (737) falls back too
	decoded, err = DecoderFor(0x6A).Bytes([]byte{0x41})
	r.NoError(err)
	r.Equal("A", string(decoded))
}
