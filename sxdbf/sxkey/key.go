package sxkey

import (
	"github.com/samber/lo"
)

// Size is the fixed length of an SX table password. Shorter inputs are
// zero padded; longer inputs are truncated.
const Size = 8

type (
	Key [Size]byte
)

func FromBytes(bs []byte) Key {
	key := Key{}
	copy(key[:], bs)
	return key
}

func FromText(s string) Key {
	return FromBytes([]byte(s))
}

func FromInts(ns []int) Key {
	return FromBytes(
		lo.Map(
			ns,
			func(n int, _ int) byte {
				return byte(n & 0xFF)
			},
		),
	)
}
